package model

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryCoffee    Category = "coffee"
	CategoryTea       Category = "tea"
	CategoryColdDrink Category = "cold_drink"
	CategorySnack     Category = "snack"
	CategoryDessert   Category = "dessert"
	CategoryOther     Category = "other"
)

// Only snacks carry inventory; everything else is made to order.
func (c Category) TracksInventory() bool {
	return c == CategorySnack
}

type Product struct {
	BaseModel
	Name     string          `gorm:"type:varchar(255);not null" json:"name"`
	Category Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	PriceOMR decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price_omr"`
	IsActive bool            `gorm:"not null;default:true" json:"is_active"`

	Inventory *InventoryRecord `gorm:"foreignKey:ProductID" json:"-"`
}
