package handler

import (
	"errors"

	"coffee-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDailyReport returns the shift report for one business day
// Query params: date (YYYY-MM-DD, required)
func (h *ReportHandler) GetDailyReport(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "date is required YYYY-MM-DD"})
	}

	report, err := h.service.Daily(c.UserContext(), date)
	if err != nil {
		return reportFailure(c, err)
	}
	return c.JSON(report)
}

// GetAnalytics returns period analytics
// Query params: month (YYYY-MM) or start and end (YYYY-MM-DD, end inclusive)
func (h *ReportHandler) GetAnalytics(c *fiber.Ctx) error {
	var (
		w   service.Window
		err error
	)
	month, start, end := c.Query("month"), c.Query("start"), c.Query("end")
	switch {
	case month != "":
		w, err = service.MonthWindow(month)
	case start != "" && end != "":
		w, err = service.RangeWindow(start, end)
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Provide either ?month=YYYY-MM OR ?start=YYYY-MM-DD&end=YYYY-MM-DD"})
	}
	if err != nil {
		return reportFailure(c, err)
	}

	analytics, err := h.service.Analytics(c.UserContext(), w)
	if err != nil {
		return reportFailure(c, err)
	}
	return c.JSON(analytics)
}

func reportFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrInvalidPeriod) {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
}
