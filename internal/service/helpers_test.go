package service

import (
	"testing"
	"time"

	"coffee-pos/internal/model"
	"coffee-pos/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// initTestDB opens an in-memory database. One connection only: every
// connection to ":memory:" is its own database, and it also serializes
// transactions the way row locks would.
func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, model.Migrate(db))
	return db
}

func createCashier(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{FullName: "Test Cashier", Email: email, IsActive: true}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, db.Create(u).Error)
	return u
}

func createProduct(t *testing.T, db *gorm.DB, name string, cat model.Category, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:     name,
		Category: cat,
		PriceOMR: decimal.RequireFromString(price),
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func deactivate(t *testing.T, db *gorm.DB, p *model.Product) {
	t.Helper()
	require.NoError(t, db.Model(p).Update("is_active", false).Error)
}

func setStock(t *testing.T, db *gorm.DB, productID uint, qty int) {
	t.Helper()
	rec := model.InventoryRecord{ProductID: productID, Quantity: qty}
	require.NoError(t, db.Save(&rec).Error)
}

func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	rec, err := repository.NewInventoryRepo(db).FindByProductID(productID)
	require.NoError(t, err)
	return rec.Quantity
}

func countOrders(t *testing.T, db *gorm.DB) (orders, items int64) {
	t.Helper()
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&items).Error)
	return orders, items
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
