package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel handles the numeric ID and standard audit trail for mutable
// catalog/user rows. Orders are immutable and do not embed it.
type BaseModel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // soft delete

	CreatedBy string `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Product{}, &InventoryRecord{}, &Order{}, &OrderItem{})
}
