// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents an item tracked in the stock ledger. SKU is the
// business identity; ID is the lookup key used by stock levels.
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SKU          string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:100;index" json:"category"`
	Unit         string         `gorm:"size:20;default:'pcs'" json:"unit"`
	UnitPrice    float64        `gorm:"default:0" json:"unit_price"`
	ReorderLevel float64        `gorm:"default:0" json:"reorder_level"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Product) TableName() string { return "products" }
