package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coffee-pos/internal/cache"
	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"
	"coffee-pos/pkg/logging"

	"github.com/shopspring/decimal"
)

type DailySummary struct {
	TotalRevenueOMR decimal.Decimal `json:"total_revenue_omr"`
	TotalCashOMR    decimal.Decimal `json:"total_cash_omr"`
	TotalVisaOMR    decimal.Decimal `json:"total_visa_omr"`
}

type ReportItem struct {
	ProductID      uint            `json:"product_id"`
	Name           string          `json:"name"`
	Category       model.Category  `json:"category"`
	Quantity       int             `json:"quantity"`
	PriceAtSaleOMR decimal.Decimal `json:"price_at_sale_omr"`
	Note           string          `json:"note"`
}

type ReportOrder struct {
	OrderID        uint                `json:"order_id"`
	CashierID      uint                `json:"cashier_id"`
	CashierName    string              `json:"cashier_name"`
	PaymentMethod  model.PaymentMethod `json:"payment_method"`
	TotalAmountOMR decimal.Decimal     `json:"total_amount_omr"`
	CreatedAt      time.Time           `json:"created_at"`
	Items          []ReportItem        `json:"items"`
}

type ShiftBounds struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DailyReport struct {
	Summary DailySummary  `json:"summary"`
	Orders  []ReportOrder `json:"orders"`
	Shift   ShiftBounds   `json:"shift"`
}

type ReportService interface {
	Daily(ctx context.Context, date string) (*DailyReport, error)
	Analytics(ctx context.Context, w Window) (*Analytics, error)
}

type reportService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewReportService(oRepo repository.OrderRepository, pRepo repository.ProductRepository, c cache.Cache, cacheTTL time.Duration) ReportService {
	if c == nil {
		c = cache.Nop{}
	}
	return &reportService{
		orderRepo:   oRepo,
		productRepo: pRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

func (s *reportService) Daily(ctx context.Context, date string) (*DailyReport, error) {
	w, err := DailyWindow(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf(cache.KeyDailyReport, date)
	var report DailyReport
	if s.cached(ctx, w, key, &report) {
		return &report, nil
	}

	orders, err := s.orderRepo.FindInRange(w.Start, w.End)
	if err != nil {
		return nil, err
	}

	report = DailyReport{
		Summary: DailySummary{
			TotalRevenueOMR: decimal.Zero,
			TotalCashOMR:    decimal.Zero,
			TotalVisaOMR:    decimal.Zero,
		},
		Orders: make([]ReportOrder, 0, len(orders)),
		Shift:  ShiftBounds{Start: w.Start, End: w.End},
	}
	for _, o := range orders {
		report.Summary.TotalRevenueOMR = report.Summary.TotalRevenueOMR.Add(o.TotalAmountOMR)
		switch o.PaymentMethod {
		case model.PaymentCash:
			report.Summary.TotalCashOMR = report.Summary.TotalCashOMR.Add(o.TotalAmountOMR)
		case model.PaymentVisa:
			report.Summary.TotalVisaOMR = report.Summary.TotalVisaOMR.Add(o.TotalAmountOMR)
		}
		report.Orders = append(report.Orders, toReportOrder(o))
	}

	s.store(ctx, w, key, &report)
	return &report, nil
}

func toReportOrder(o model.Order) ReportOrder {
	ro := ReportOrder{
		OrderID:        o.ID,
		CashierID:      o.CashierID,
		PaymentMethod:  o.PaymentMethod,
		TotalAmountOMR: o.TotalAmountOMR,
		CreatedAt:      o.CreatedAt,
		Items:          make([]ReportItem, 0, len(o.Items)),
	}
	if o.Cashier != nil {
		ro.CashierName = o.Cashier.FullName
	}
	for _, it := range o.Items {
		ri := ReportItem{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			PriceAtSaleOMR: it.PriceAtSaleOMR,
			Note:           it.Note,
		}
		if it.Product != nil {
			ri.Name = it.Product.Name
			ri.Category = it.Product.Category
		}
		ro.Items = append(ro.Items, ri)
	}
	return ro
}

// cached loads a closed window's report from the cache. Open windows are
// never served from it because new orders may still arrive.
func (s *reportService) cached(ctx context.Context, w Window, key string, dst any) bool {
	if !w.Closed(s.now()) {
		return false
	}
	err := s.cache.Get(ctx, key, dst)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		logging.FromContext(ctx).Warn("report cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *reportService) store(ctx context.Context, w Window, key string, v any) {
	if !w.Closed(s.now()) {
		return
	}
	if err := s.cache.Set(ctx, key, v, s.cacheTTL); err != nil {
		logging.FromContext(ctx).Warn("report cache write failed", "key", key, "error", err)
	}
}
