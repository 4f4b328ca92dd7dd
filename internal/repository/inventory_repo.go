package repository

import (
	"time"

	"coffee-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	// LockForUpdate creates a zero record when none exists, then reads it
	// under an exclusive row lock held until tx ends.
	LockForUpdate(tx *gorm.DB, productID uint) (*model.InventoryRecord, error)
	Decrement(tx *gorm.DB, productID uint, by int) error
	SetQuantity(tx *gorm.DB, productID uint, quantity int) (*model.InventoryRecord, error)
	FindByProductID(productID uint) (*model.InventoryRecord, error)
	ListSnacks() ([]model.InventoryView, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) LockForUpdate(tx *gorm.DB, productID uint) (*model.InventoryRecord, error) {
	seed := model.InventoryRecord{ProductID: productID, Quantity: 0}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var rec model.InventoryRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Take(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *inventoryRepo) Decrement(tx *gorm.DB, productID uint, by int) error {
	return tx.Model(&model.InventoryRecord{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", by),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *inventoryRepo) SetQuantity(tx *gorm.DB, productID uint, quantity int) (*model.InventoryRecord, error) {
	now := time.Now().UTC()
	err := tx.Model(&model.InventoryRecord{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": now,
		}).Error
	if err != nil {
		return nil, err
	}
	return &model.InventoryRecord{ProductID: productID, Quantity: quantity, UpdatedAt: now}, nil
}

func (r *inventoryRepo) FindByProductID(productID uint) (*model.InventoryRecord, error) {
	var rec model.InventoryRecord
	if err := r.db.Where("product_id = ?", productID).Take(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *inventoryRepo) ListSnacks() ([]model.InventoryView, error) {
	var products []model.Product
	err := r.db.Preload("Inventory").
		Where("category = ?", model.CategorySnack).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.InventoryView, 0, len(products))
	for _, p := range products {
		v := model.InventoryView{ProductID: p.ID, Name: p.Name, IsActive: p.IsActive}
		if p.Inventory != nil {
			qty, at := p.Inventory.Quantity, p.Inventory.UpdatedAt
			v.Quantity = &qty
			v.UpdatedAt = &at
		}
		out = append(out, v)
	}
	return out, nil
}
