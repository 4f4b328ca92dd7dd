package handler

import (
	"errors"

	"coffee-pos/internal/service"
	"coffee-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetInventory lists every snack with its on-hand count
// GET /api/v1/inventory
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	items, err := h.service.ListSnacks()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"items": items})
}

// Adjust applies a +/- stock correction
// POST /api/v1/inventory/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var req service.AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(validator.ValidateStruct(&req)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.service.Adjust(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductMissing),
			errors.Is(err, service.ErrNotSnack),
			errors.Is(err, service.ErrStockBelowZero):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"inventory": rec})
}
