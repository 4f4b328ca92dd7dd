package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"coffee-pos/internal/cache"
	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memCache is a map-backed cache.Cache that counts hits.
type memCache struct {
	data map[string][]byte
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) Get(_ context.Context, key string, dst any) error {
	b, ok := m.data[key]
	if !ok {
		return cache.ErrMiss
	}
	m.hits++
	return json.Unmarshal(b, dst)
}

func (m *memCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

type line struct {
	product *model.Product
	qty     int
	note    string
}

func insertOrder(t *testing.T, db *gorm.DB, cashier *model.User, method model.PaymentMethod, at time.Time, lines ...line) *model.Order {
	t.Helper()
	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		it := model.OrderItem{ProductID: l.product.ID, Quantity: l.qty, PriceAtSaleOMR: l.product.PriceOMR, Note: l.note}
		total = total.Add(it.LineTotal())
		items = append(items, it)
	}
	o := &model.Order{CashierID: cashier.ID, PaymentMethod: method, TotalAmountOMR: total, CreatedAt: at, Items: items}
	require.NoError(t, db.Create(o).Error)
	return o
}

func utc(y int, m time.Month, d, h, mi int) time.Time {
	return time.Date(y, m, d, h, mi, 0, 0, time.UTC)
}

func TestReportService_DailyUsesShiftBounds(t *testing.T) {
	db := initTestDB(t)
	cashier := createCashier(t, db, "cashier@coffee.com")
	latte := createProduct(t, db, "Latte", model.CategoryCoffee, "2.500")
	cookie := createProduct(t, db, "Cookie", model.CategorySnack, "0.500")

	// 01:59 belongs to the previous shift, 01:30 the next morning still
	// belongs to this one, 02:00 starts the next.
	insertOrder(t, db, cashier, model.PaymentCash, utc(2026, 3, 10, 1, 59), line{latte, 1, ""})
	morning := insertOrder(t, db, cashier, model.PaymentCash, utc(2026, 3, 10, 9, 0), line{latte, 1, ""}, line{cookie, 3, "warm"})
	late := insertOrder(t, db, cashier, model.PaymentVisa, utc(2026, 3, 11, 1, 30), line{cookie, 3, ""})
	insertOrder(t, db, cashier, model.PaymentVisa, utc(2026, 3, 11, 2, 0), line{latte, 2, ""})

	svc := NewReportService(repository.NewOrderRepo(db), repository.NewProductRepo(db), nil, time.Minute)
	report, err := svc.Daily(context.Background(), "2026-03-10")
	require.NoError(t, err)

	assertDecimal(t, "5.500", report.Summary.TotalRevenueOMR)
	assertDecimal(t, "4.000", report.Summary.TotalCashOMR)
	assertDecimal(t, "1.500", report.Summary.TotalVisaOMR)

	require.Len(t, report.Orders, 2)
	assert.Equal(t, late.ID, report.Orders[0].OrderID)
	assert.Equal(t, morning.ID, report.Orders[1].OrderID)
	assert.Equal(t, "Test Cashier", report.Orders[1].CashierName)

	items := report.Orders[1].Items
	require.Len(t, items, 2)
	assert.Equal(t, "Latte", items[0].Name)
	assert.Equal(t, model.CategorySnack, items[1].Category)
	assert.Equal(t, "warm", items[1].Note)

	assert.Equal(t, utc(2026, 3, 10, 2, 0), report.Shift.Start)
	assert.Equal(t, utc(2026, 3, 11, 2, 0), report.Shift.End)
}

func TestReportService_DeletedProductStillShownOnOldOrders(t *testing.T) {
	db := initTestDB(t)
	cashier := createCashier(t, db, "cashier@coffee.com")
	scone := createProduct(t, db, "Scone", model.CategorySnack, "0.900")
	insertOrder(t, db, cashier, model.PaymentCash, utc(2026, 3, 10, 10, 0), line{scone, 1, ""})
	require.NoError(t, db.Delete(scone).Error)

	svc := NewReportService(repository.NewOrderRepo(db), repository.NewProductRepo(db), nil, time.Minute)
	report, err := svc.Daily(context.Background(), "2026-03-10")
	require.NoError(t, err)
	require.Len(t, report.Orders, 1)
	assert.Equal(t, "Scone", report.Orders[0].Items[0].Name)
}

func TestReportService_CachesClosedWindowsOnly(t *testing.T) {
	db := initTestDB(t)
	cashier := createCashier(t, db, "cashier@coffee.com")
	latte := createProduct(t, db, "Latte", model.CategoryCoffee, "2.500")
	insertOrder(t, db, cashier, model.PaymentCash, utc(2026, 3, 10, 9, 0), line{latte, 1, ""})

	mc := newMemCache()
	svc := NewReportService(repository.NewOrderRepo(db), repository.NewProductRepo(db), mc, time.Minute).(*reportService)

	// Shift still open: nothing cached.
	svc.now = func() time.Time { return utc(2026, 3, 10, 12, 0) }
	_, err := svc.Daily(context.Background(), "2026-03-10")
	require.NoError(t, err)
	assert.Empty(t, mc.data)

	// Shift over: first call fills the cache, second is served from it.
	svc.now = func() time.Time { return utc(2026, 3, 12, 8, 0) }
	first, err := svc.Daily(context.Background(), "2026-03-10")
	require.NoError(t, err)
	assert.Contains(t, mc.data, "report:daily:2026-03-10")

	second, err := svc.Daily(context.Background(), "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1, mc.hits)
	assertDecimal(t, first.Summary.TotalRevenueOMR.String(), second.Summary.TotalRevenueOMR)
}

func TestBuildAnalytics(t *testing.T) {
	latte := &model.Product{BaseModel: model.BaseModel{ID: 1}, Name: "Latte", Category: model.CategoryCoffee, PriceOMR: decimal.RequireFromString("1.500")}
	cookie := &model.Product{BaseModel: model.BaseModel{ID: 2}, Name: "Cookie", Category: model.CategorySnack, PriceOMR: decimal.RequireFromString("0.500")}
	tea := &model.Product{BaseModel: model.BaseModel{ID: 3}, Name: "Tea", Category: model.CategoryTea, PriceOMR: decimal.RequireFromString("1.000")}

	item := func(p *model.Product, qty int) model.OrderItem {
		return model.OrderItem{ProductID: p.ID, Product: p, Quantity: qty, PriceAtSaleOMR: p.PriceOMR}
	}
	orders := []model.Order{
		{ID: 3, PaymentMethod: model.PaymentCash, TotalAmountOMR: decimal.RequireFromString("1.500"), CreatedAt: utc(2026, 3, 3, 14, 5),
			Items: []model.OrderItem{item(latte, 1)}},
		{ID: 2, PaymentMethod: model.PaymentVisa, TotalAmountOMR: decimal.RequireFromString("2.000"), CreatedAt: utc(2026, 3, 2, 9, 40),
			Items: []model.OrderItem{item(cookie, 4)}},
		{ID: 1, PaymentMethod: model.PaymentCash, TotalAmountOMR: decimal.RequireFromString("3.500"), CreatedAt: utc(2026, 3, 2, 9, 15),
			Items: []model.OrderItem{item(latte, 2), item(cookie, 1)}},
	}
	w, err := RangeWindow("2026-03-01", "2026-03-07")
	require.NoError(t, err)

	a := buildAnalytics(w, orders, []model.Product{*latte, *cookie, *tea})

	assert.Equal(t, 3, a.Summary.OrdersCount)
	assertDecimal(t, "7.000", a.Summary.TotalRevenueOMR)
	assertDecimal(t, "2.333", a.Summary.AOVOMR)

	assertDecimal(t, "5.000", a.Payments.CashOMR)
	assertDecimal(t, "2.000", a.Payments.VisaOMR)
	assertDecimal(t, "71.43", a.Payments.CashPct)
	assertDecimal(t, "28.57", a.Payments.VisaPct)

	require.Len(t, a.Daily.List, 2)
	assert.Equal(t, "2026-03-02", a.Daily.List[0].Day)
	assert.Equal(t, 2, a.Daily.List[0].Orders)
	assertDecimal(t, "3.500", a.Daily.AvgRevenueOMR)
	assert.Equal(t, "2026-03-02", a.Daily.BestDay.Day)
	assert.Equal(t, "2026-03-03", a.Daily.WorstDay.Day)

	assert.Equal(t, "Cookie", a.TopProducts.TopByUnits.Name)
	assert.Equal(t, 5, a.TopProducts.TopByUnits.Units)
	assert.Equal(t, "Latte", a.TopProducts.TopByRevenue.Name)
	assertDecimal(t, "4.500", a.TopProducts.TopByRevenue.RevenueOMR)
	assert.Equal(t, "Cookie", a.TopProducts.AllTimeBestSeller.Name)
	require.Len(t, a.TopProducts.Top5, 2)
	assert.Equal(t, "Latte", a.TopProducts.Top5[0].Name)

	require.Len(t, a.TopProducts.SlowMovers, 3)
	assert.Equal(t, "Tea", a.TopProducts.SlowMovers[0].Name)
	assert.Zero(t, a.TopProducts.SlowMovers[0].Units)
	assertDecimal(t, "3", a.TopProducts.TopProductDailyAvgUnits)

	require.NotNil(t, a.CategoryPerformance.BestByRevenue)
	assert.Equal(t, model.CategoryCoffee, *a.CategoryPerformance.BestByRevenue)
	assert.Equal(t, model.CategorySnack, *a.CategoryPerformance.BestByUnits)

	assertDecimal(t, "2.67", a.AvgItemsPerOrder)

	require.NotEmpty(t, a.Peak.BusiestHours)
	assert.Equal(t, HourOrders{Hour: "09:00", Orders: 2}, a.Peak.BusiestHours[0])
	assert.Equal(t, "09:00", *a.Peak.PeakHour)
	assert.Equal(t, "Mon", *a.Peak.PeakDay)
	require.Len(t, a.Peak.SalesByDay, 2)
	assert.Equal(t, 1, a.Peak.SalesByDay[0].DowIndex)
	assert.Equal(t, "Tue", a.Peak.SalesByDay[1].Day)

	assert.Nil(t, a.MonthCompare)
}

func TestBuildAnalytics_NoOrders(t *testing.T) {
	w, err := MonthWindow("2026-03")
	require.NoError(t, err)

	a := buildAnalytics(w, nil, nil)
	assert.Zero(t, a.Summary.OrdersCount)
	assert.True(t, a.Summary.AOVOMR.IsZero())
	assert.True(t, a.Payments.CashPct.IsZero())
	assert.Nil(t, a.Daily.BestDay)
	assert.Nil(t, a.TopProducts.TopByUnits)
	assert.Empty(t, a.TopProducts.Top5)
	assert.Nil(t, a.Peak.PeakHour)
	assert.Nil(t, a.CategoryPerformance.BestByRevenue)
}

func TestReportService_AnalyticsMonthCompare(t *testing.T) {
	db := initTestDB(t)
	cashier := createCashier(t, db, "cashier@coffee.com")
	latte := createProduct(t, db, "Latte", model.CategoryCoffee, "2.500")

	insertOrder(t, db, cashier, model.PaymentCash, utc(2026, 2, 14, 10, 0), line{latte, 2, ""})
	// 1 March 01:00 is still February's last shift.
	insertOrder(t, db, cashier, model.PaymentVisa, utc(2026, 3, 1, 1, 0), line{latte, 1, ""})
	insertOrder(t, db, cashier, model.PaymentCash, utc(2026, 3, 5, 10, 0), line{latte, 3, ""})

	svc := NewReportService(repository.NewOrderRepo(db), repository.NewProductRepo(db), nil, time.Minute)
	w, err := MonthWindow("2026-03")
	require.NoError(t, err)

	a, err := svc.Analytics(context.Background(), w)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Summary.OrdersCount)
	assertDecimal(t, "7.500", a.Summary.TotalRevenueOMR)
	require.NotNil(t, a.MonthCompare)
	assert.Equal(t, utc(2026, 2, 1, 2, 0), a.MonthCompare.PrevStart)
	assertDecimal(t, "7.500", a.MonthCompare.PrevRevenueOMR)
}
