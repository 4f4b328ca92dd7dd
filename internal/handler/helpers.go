package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// getUserID returns the cashier id set by RequireAuth, or 0 outside
// protected routes.
func getUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
