// internal/domain/warehouse/entity.go
package warehouse

import (
	"time"

	"gorm.io/gorm"
)

// Warehouse represents a storage location
type Warehouse struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Code       string         `gorm:"uniqueIndex;not null;size:20" json:"code"`
	Name       string         `gorm:"not null;size:100" json:"name"`
	Address    string         `gorm:"type:text" json:"address"`
	City       string         `gorm:"size:50" json:"city"`
	Country    string         `gorm:"size:50" json:"country"`
	PostalCode string         `gorm:"size:20" json:"postal_code"`
	Phone      string         `gorm:"size:20" json:"phone"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Warehouse) TableName() string { return "warehouses" }
