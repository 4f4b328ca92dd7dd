package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentVisa PaymentMethod = "Visa"
)

// ParsePaymentMethod accepts the method names case-insensitively and
// returns the canonical spelling.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentCash, true
	case "visa":
		return PaymentVisa, true
	}
	return "", false
}

// Order is written once, together with its items, and never updated.
type Order struct {
	ID             uint            `gorm:"primaryKey" json:"order_id"`
	CashierID      uint            `gorm:"not null;index" json:"cashier_id"`
	Cashier        *User           `gorm:"foreignKey:CashierID" json:"-"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(10);not null" json:"payment_method"`
	TotalAmountOMR decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"total_amount_omr"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

type OrderItem struct {
	ID             uint            `gorm:"primaryKey" json:"order_item_id"`
	OrderID        uint            `gorm:"not null;index" json:"order_id"`
	ProductID      uint            `gorm:"not null;index" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Quantity       int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	PriceAtSaleOMR decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price_at_sale_omr"`
	Note           string          `gorm:"type:text;not null;default:''" json:"note"`
}

// LineTotal is price-at-sale times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtSaleOMR.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
