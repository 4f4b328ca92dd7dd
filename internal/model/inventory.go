package model

import "time"

// InventoryRecord holds the on-hand count for one snack product.
// Quantity never goes below zero; the CHECK constraint backs the locked
// read-compare-write done by the services.
type InventoryRecord struct {
	ProductID uint      `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int       `gorm:"not null;default:0;check:chk_inventory_quantity,quantity >= 0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryRecord) TableName() string {
	return "inventory"
}

// InventoryView is one row of the snack stock listing. Quantity and
// UpdatedAt stay nil for snacks that were never counted.
type InventoryView struct {
	ProductID uint       `json:"product_id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	Quantity  *int       `json:"quantity"`
	UpdatedAt *time.Time `json:"updated_at"`
}
