package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"coffee-pos/internal/events"
	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"
	"coffee-pos/pkg/logging"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

const moneyPlaces = 3

type OrderService interface {
	PlaceOrder(ctx context.Context, cashierID uint, req OrderRequest) (*model.Order, error)
	GetOrder(id uint) (*model.Order, error)
}

type orderService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	orderRepo     repository.OrderRepository
	publisher     events.Publisher
	txTimeout     time.Duration
}

func NewOrderService(db *gorm.DB, pRepo repository.ProductRepository, iRepo repository.InventoryRepository, oRepo repository.OrderRepository, pub events.Publisher, txTimeout time.Duration) OrderService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &orderService{
		db:            db,
		productRepo:   pRepo,
		inventoryRepo: iRepo,
		orderRepo:     oRepo,
		publisher:     pub,
		txTimeout:     txTimeout,
	}
}

// reservation is the total quantity of one snack the order takes out of stock.
type reservation struct {
	product *model.Product
	need    int
	left    int
}

// PlaceOrder records an order, its items and the snack stock it consumes in
// a single transaction. Either all of it is committed or none of it is.
func (s *orderService) PlaceOrder(ctx context.Context, cashierID uint, req OrderRequest) (*model.Order, error) {
	method, err := checkOrderRequest(cashierID, req)
	if err != nil {
		return nil, err
	}

	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	var (
		order    *model.Order
		reserved []*reservation
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Load every referenced product in one read
		byID, err := s.loadProducts(tx, req.Items)
		if err != nil {
			return err
		}

		// 2. Price the order and collect snack reservations
		total := decimal.Zero
		needs := make(map[uint]*reservation)
		for _, line := range req.Items {
			p := byID[line.ProductID]
			lineTotal := p.PriceOMR.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal).Round(moneyPlaces)

			if p.Category.TracksInventory() {
				r, ok := needs[p.ID]
				if !ok {
					r = &reservation{product: p}
					needs[p.ID] = r
				}
				r.need += line.Quantity
			}
		}

		// 3. Lock stock rows in ascending product id so concurrent orders
		// never wait on each other in opposite orders
		reserved = make([]*reservation, 0, len(needs))
		for _, r := range needs {
			reserved = append(reserved, r)
		}
		sort.Slice(reserved, func(i, j int) bool { return reserved[i].product.ID < reserved[j].product.ID })

		var shortfalls []Shortfall
		for _, r := range reserved {
			rec, err := s.inventoryRepo.LockForUpdate(tx, r.product.ID)
			if err != nil {
				return err
			}
			if rec.Quantity < r.need {
				shortfalls = append(shortfalls, Shortfall{
					ProductID: r.product.ID,
					Name:      r.product.Name,
					Need:      r.need,
					Available: rec.Quantity,
				})
				continue
			}
			r.left = rec.Quantity - r.need
		}
		if len(shortfalls) > 0 {
			return &OrderError{
				Kind:       ErrInsufficientInventory,
				Detail:     "insufficient snack inventory",
				Shortfalls: shortfalls,
			}
		}

		// 4. Persist the order header and one item per request line
		order = &model.Order{
			CashierID:      cashierID,
			PaymentMethod:  method,
			TotalAmountOMR: total,
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			items = append(items, model.OrderItem{
				OrderID:        order.ID,
				ProductID:      line.ProductID,
				Quantity:       line.Quantity,
				PriceAtSaleOMR: byID[line.ProductID].PriceOMR,
				Note:           line.Note,
			})
		}
		if err := s.orderRepo.CreateItems(tx, items); err != nil {
			return err
		}
		order.Items = items

		// 5. Take the reserved stock
		for _, r := range reserved {
			if err := s.inventoryRepo.Decrement(tx, r.product.ID, r.need); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	s.publishPlaced(ctx, order, reserved)
	return order, nil
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// checkOrderRequest repeats the boundary checks so that callers building
// an OrderRequest by hand get the same guarantees. It returns the
// canonical payment method.
func checkOrderRequest(cashierID uint, req OrderRequest) (model.PaymentMethod, error) {
	if cashierID == 0 {
		return "", orderErr(ErrInvalidRequest, "missing cashier")
	}
	method, ok := model.ParsePaymentMethod(string(req.PaymentMethod))
	if !ok {
		return "", orderErr(ErrInvalidRequest, "payment_method must be Cash or Visa")
	}
	if len(req.Items) == 0 {
		return "", orderErr(ErrInvalidRequest, "no items")
	}
	for i, line := range req.Items {
		if line.ProductID == 0 {
			return "", orderErr(ErrInvalidRequest, "item %d: invalid product_id", i)
		}
		if line.Quantity <= 0 {
			return "", orderErr(ErrInvalidQuantity, "item %d: quantity must be a positive whole number", i)
		}
	}
	return method, nil
}

func (s *orderService) loadProducts(tx *gorm.DB, lines []OrderLine) (map[uint]*model.Product, error) {
	seen := make(map[uint]bool, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(tx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	if len(byID) < len(ids) {
		var missing []string
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, strconv.FormatUint(uint64(id), 10))
			}
		}
		return nil, orderErr(ErrProductNotFound, "product(s) not found: %s", strings.Join(missing, ", "))
	}

	for _, id := range ids {
		if p := byID[id]; !p.IsActive {
			return nil, orderErr(ErrInactiveProduct, "inactive product: %s", p.Name)
		}
	}
	return byID, nil
}

// classify turns a failed transaction into an *OrderError. Business
// rejections pass through untouched; everything else is a TransactionFailure.
func (s *orderService) classify(ctx context.Context, err error) error {
	if oe, ok := AsOrderError(err); ok {
		return oe
	}

	detail := "order could not be recorded"
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		detail = fmt.Sprintf("order transaction timed out after %s", s.txTimeout)
	case repository.IsLockConflict(err):
		detail = "order conflicted with a concurrent transaction, retry"
	}
	logging.FromContext(ctx).Error("place order failed", "error", err)
	return &OrderError{Kind: ErrTransactionFailure, Detail: detail, Cause: err}
}

func (s *orderService) publishPlaced(ctx context.Context, order *model.Order, reserved []*reservation) {
	// The request may already be finishing; delivery is best effort.
	ctx = context.WithoutCancel(ctx)
	orderKey := strconv.FormatUint(uint64(order.ID), 10)

	evt := events.New(events.TypeOrderPlaced, "order_created", orderKey, order)
	evt.Message = fmt.Sprintf("Order #%d placed: %s OMR (%s)", order.ID, order.TotalAmountOMR.StringFixed(moneyPlaces), order.PaymentMethod)
	s.publisher.Publish(ctx, evt)

	for _, r := range reserved {
		s.publisher.Publish(ctx, stockEvent("order_placed", r.product, r.left))
	}

	logging.FromContext(ctx).Info("order placed",
		"order_id", order.ID,
		"cashier_id", order.CashierID,
		"total_omr", order.TotalAmountOMR.StringFixed(moneyPlaces),
		"items", len(order.Items),
	)
}

func stockEvent(action string, p *model.Product, quantity int) events.Event {
	evt := events.New(events.TypeStockUpdate, action, strconv.FormatUint(uint64(p.ID), 10), map[string]any{
		"product_id": p.ID,
		"name":       p.Name,
		"quantity":   quantity,
	})
	evt.Message = fmt.Sprintf("%s stock is now %d", p.Name, quantity)
	return evt
}
