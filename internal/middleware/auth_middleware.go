package middleware

import (
	"strconv"
	"strings"

	"coffee-pos/internal/repository"
	"coffee-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth resolves the calling cashier and stores it in c.Locals
// ("user_id" as uint, plus "user_email" and "user_name"). A Bearer token
// is preferred; the X-User-Id header is still accepted for older tills.
// Either way the user must exist and be active.
func RequireAuth(userRepo repository.UserRepository, tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userID uint

		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
			userID = claims.UserID
		} else {
			raw := c.Get("X-User-Id")
			if raw == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
			}
			id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
			if err != nil || id == 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
			}
			userID = uint(id)
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User account is inactive"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("user_name", user.FullName)

		return c.Next()
	}
}
