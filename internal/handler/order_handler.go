package handler

import (
	"errors"

	"coffee-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder places an order for the authenticated cashier
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	raw, err := service.DecodeOrderRequest(c.Body())
	if err != nil {
		return orderFailure(c, err)
	}
	req, err := service.ParseOrderRequest(raw)
	if err != nil {
		return orderFailure(c, err)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), getUserID(c), req)
	if err != nil {
		return orderFailure(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"order": order})
}

// GetOrder returns one order with its items
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"order": order})
}

func orderFailure(c *fiber.Ctx, err error) error {
	oe, ok := service.AsOrderError(err)
	if !ok {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	body := fiber.Map{"error": oe.Detail, "kind": oe.Kind.Error()}
	if len(oe.Shortfalls) > 0 {
		body["insufficient_items"] = oe.Shortfalls
	}
	return c.Status(orderStatus(oe.Kind)).JSON(body)
}

func orderStatus(kind error) int {
	switch kind {
	case service.ErrInsufficientInventory:
		return fiber.StatusConflict
	case service.ErrTransactionFailure:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
