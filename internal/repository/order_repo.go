package repository

import (
	"time"

	"coffee-pos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	CreateItems(tx *gorm.DB, items []model.OrderItem) error
	FindByID(id uint) (*model.Order, error)
	// FindInRange returns orders with created_at in [start, end), newest
	// first, with cashier and line items (and their products) loaded.
	FindInRange(start, end time.Time) ([]model.Order, error)
	SumRevenue(start, end time.Time) (decimal.Decimal, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Omit(clause.Associations).Create(order).Error
}

func (r *orderRepo) CreateItems(tx *gorm.DB, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func (r *orderRepo) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.withDetails(r.db).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindInRange(start, end time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.withDetails(r.db).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) SumRevenue(start, end time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := r.db.Model(&model.Order{}).
		Select("SUM(total_amount_omr) AS total").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// withDetails preloads the relations reports render. Products and users
// are loaded unscoped so soft-deleted rows still show on old orders.
func (r *orderRepo) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Cashier", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}
