// internal/domain/stock/entity.go
package stock

import (
	"time"
)

// TransactionType represents the kind of stock movement recorded in the ledger
type TransactionType string

const (
	TransactionTypeReceipt     TransactionType = "RECEIPT"
	TransactionTypeDelivery    TransactionType = "DELIVERY"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeAdjustment  TransactionType = "ADJUSTMENT"
)

// StockLevel is the materialized current-stock projection, unique per
// (product, warehouse) pair. Rows are created lazily on the first
// transaction for a pair; quantity starts at 0.
type StockLevel struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ProductID        uint      `gorm:"not null;uniqueIndex:idx_stock_levels_pair" json:"product_id"`
	WarehouseID      uint      `gorm:"not null;uniqueIndex:idx_stock_levels_pair" json:"warehouse_id"`
	Quantity         float64   `gorm:"not null;default:0" json:"quantity"`
	ReservedQuantity float64   `gorm:"not null;default:0" json:"reserved_quantity"`
	LastUpdated      time.Time `gorm:"not null" json:"last_updated"`
}

// AvailableQuantity is always derived, never stored
func (sl *StockLevel) AvailableQuantity() float64 {
	return sl.Quantity - sl.ReservedQuantity
}

// LedgerEntry is an immutable, append-only record of one stock movement with
// its running balance. Corrections are new entries, never edits.
type LedgerEntry struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	WarehouseID     uint            `gorm:"not null;index" json:"warehouse_id"`
	TransactionType TransactionType `gorm:"not null;size:20" json:"transaction_type"`
	ReferenceType   string          `gorm:"size:50" json:"reference_type"`
	ReferenceID     uint            `json:"reference_id"`
	ReferenceNumber string          `gorm:"size:50" json:"reference_number"`
	QuantityChange  float64         `gorm:"not null" json:"quantity_change"`
	QuantityBefore  float64         `gorm:"not null" json:"quantity_before"`
	QuantityAfter   float64         `gorm:"not null" json:"quantity_after"`
	CreatedBy       uint            `gorm:"index" json:"created_by"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
}

// TableName overrides
func (StockLevel) TableName() string  { return "stock_levels" }
func (LedgerEntry) TableName() string { return "stock_ledger" }

// LedgerFilter narrows ledger history queries. Zero values mean "any".
type LedgerFilter struct {
	ProductID   uint
	WarehouseID uint
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PerPage     int
}

// LevelFilter narrows stock level queries. Zero values mean "any".
type LevelFilter struct {
	ProductID   uint
	WarehouseID uint
	LowStock    bool
	Page        int
	PerPage     int
}
