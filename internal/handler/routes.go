package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Product   *ProductHandler
	Inventory *InventoryHandler
	Order     *OrderHandler
	Report    *ReportHandler
}

// RegisterRoutes mounts the API on router. requireAuth guards everything
// except health, seed and login.
func RegisterRoutes(router fiber.Router, requireAuth fiber.Handler, h Handlers) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Coffee POS API running"})
	})

	// ============ PUBLIC ROUTES ============
	auth := router.Group("/auth")
	auth.Post("/seed", h.Auth.Seed)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", requireAuth, h.Auth.Me)

	// ============ PROTECTED ROUTES ============
	protected := router.Group("", requireAuth)

	protected.Get("/products", h.Product.GetProducts)
	protected.Get("/products/active", h.Product.GetActiveProducts)
	protected.Post("/products", h.Product.CreateProduct)
	protected.Put("/products/:id", h.Product.UpdateProduct)
	protected.Delete("/products/:id", h.Product.DeleteProduct)

	protected.Get("/inventory", h.Inventory.GetInventory)
	protected.Post("/inventory/adjust", h.Inventory.Adjust)

	protected.Post("/orders", h.Order.CreateOrder)
	protected.Get("/orders/:id", h.Order.GetOrder)

	protected.Get("/reports/daily", h.Report.GetDailyReport)
	protected.Get("/analytics", h.Report.GetAnalytics)
}
