// internal/domain/document/entity.go
package document

import (
	"time"
)

// Type identifies a workflow document variant
type Type string

const (
	TypeReceipt    Type = "receipt"
	TypeDelivery   Type = "delivery"
	TypeTransfer   Type = "transfer"
	TypeAdjustment Type = "adjustment"
)

// Status represents a workflow document status
type Status string

const (
	StatusDraft     Status = "draft"
	StatusWaiting   Status = "waiting"
	StatusReady     Status = "ready"
	StatusDone      Status = "done"
	StatusPick      Status = "pick"
	StatusPack      Status = "pack"
	StatusValidate  Status = "validate"
	StatusInTransit Status = "in_transit"
	StatusCompleted Status = "completed"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
)

// StatusHistoryEntry is one row of a document's append-only audit trail
type StatusHistoryEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DocumentType Type      `gorm:"not null;size:20;index:idx_status_history_document" json:"document_type"`
	DocumentID   uint      `gorm:"not null;index:idx_status_history_document" json:"document_id"`
	Status       Status    `gorm:"not null;size:20" json:"status"`
	ChangedBy    uint      `gorm:"index" json:"changed_by"`
	ChangedAt    time.Time `gorm:"not null" json:"changed_at"`
}

// Receipt represents incoming inventory.
// Workflow: draft -> waiting -> ready -> done, cancellable until done.
type Receipt struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ReceiptNumber string        `gorm:"uniqueIndex;not null;size:50" json:"receipt_number"`
	WarehouseID   uint          `gorm:"not null;index" json:"warehouse_id"`
	SupplierName  string        `gorm:"size:255" json:"supplier_name"`
	Status        Status        `gorm:"not null;default:'draft';index" json:"status"`
	ScheduledDate *time.Time    `json:"scheduled_date,omitempty"`
	ReceivedDate  *time.Time    `json:"received_date,omitempty"`
	Notes         string        `gorm:"type:text" json:"notes"`
	CreatedBy     uint          `gorm:"index" json:"created_by"`
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Items         []ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// ReceiptItem is one expected product line on a receipt
type ReceiptItem struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	ReceiptID        uint    `gorm:"not null;index" json:"receipt_id"`
	ProductID        uint    `gorm:"not null;index" json:"product_id"`
	ExpectedQuantity float64 `gorm:"not null" json:"expected_quantity"`
	ReceivedQuantity float64 `gorm:"default:0" json:"received_quantity"`
	DamagedQuantity  float64 `gorm:"default:0" json:"damaged_quantity"`
	UnitPrice        float64 `gorm:"default:0" json:"unit_price"`
	Notes            string  `gorm:"type:text" json:"notes"`
}

// UsableQuantity is what actually lands on the shelf when the receipt
// completes: received (falling back to expected) minus damaged.
func (i *ReceiptItem) UsableQuantity() float64 {
	received := i.ReceivedQuantity
	if received == 0 {
		received = i.ExpectedQuantity
	}
	return received - i.DamagedQuantity
}

// Delivery represents outgoing inventory.
// Workflow: draft -> pick -> pack -> validate -> done, cancellable until done.
type Delivery struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	DeliveryNumber  string         `gorm:"uniqueIndex;not null;size:50" json:"delivery_number"`
	WarehouseID     uint           `gorm:"not null;index" json:"warehouse_id"`
	CustomerName    string         `gorm:"size:255" json:"customer_name"`
	CustomerAddress string         `gorm:"type:text" json:"customer_address"`
	Status          Status         `gorm:"not null;default:'draft';index" json:"status"`
	ScheduledDate   *time.Time     `json:"scheduled_date,omitempty"`
	DeliveredDate   *time.Time     `json:"delivered_date,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Items           []DeliveryItem `gorm:"foreignKey:DeliveryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// DeliveryItem is one ordered product line on a delivery, with the quantity
// recorded at each picking stage
type DeliveryItem struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	DeliveryID        uint    `gorm:"not null;index" json:"delivery_id"`
	ProductID         uint    `gorm:"not null;index" json:"product_id"`
	OrderedQuantity   float64 `gorm:"not null" json:"ordered_quantity"`
	PickedQuantity    float64 `gorm:"default:0" json:"picked_quantity"`
	PackedQuantity    float64 `gorm:"default:0" json:"packed_quantity"`
	ValidatedQuantity float64 `gorm:"default:0" json:"validated_quantity"`
	UnitPrice         float64 `gorm:"default:0" json:"unit_price"`
	Notes             string  `gorm:"type:text" json:"notes"`
}

// FinalQuantity is the quantity shipped at completion: the first non-zero of
// validated, packed, picked, ordered.
func (i *DeliveryItem) FinalQuantity() float64 {
	switch {
	case i.ValidatedQuantity != 0:
		return i.ValidatedQuantity
	case i.PackedQuantity != 0:
		return i.PackedQuantity
	case i.PickedQuantity != 0:
		return i.PickedQuantity
	default:
		return i.OrderedQuantity
	}
}

// Transfer represents inter-warehouse movement.
// Workflow: draft -> in_transit -> completed, cancellable until completed.
type Transfer struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TransferNumber  string         `gorm:"uniqueIndex;not null;size:50" json:"transfer_number"`
	FromWarehouseID uint           `gorm:"not null;index" json:"from_warehouse_id"`
	ToWarehouseID   uint           `gorm:"not null;index" json:"to_warehouse_id"`
	Status          Status         `gorm:"not null;default:'draft';index" json:"status"`
	ShippedDate     *time.Time     `json:"shipped_date,omitempty"`
	CompletedDate   *time.Time     `json:"completed_date,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Items           []TransferItem `gorm:"foreignKey:TransferID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// TransferItem is one product line on a transfer
type TransferItem struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	TransferID          uint    `gorm:"not null;index" json:"transfer_id"`
	ProductID           uint    `gorm:"not null;index" json:"product_id"`
	RequestedQuantity   float64 `gorm:"not null" json:"requested_quantity"`
	TransferredQuantity float64 `gorm:"default:0" json:"transferred_quantity"`
	ReceivedQuantity    float64 `gorm:"default:0" json:"received_quantity"`
	Notes               string  `gorm:"type:text" json:"notes"`
}

// FinalQuantity is the quantity moved at completion: the first non-zero of
// received, transferred, requested.
func (i *TransferItem) FinalQuantity() float64 {
	switch {
	case i.ReceivedQuantity != 0:
		return i.ReceivedQuantity
	case i.TransferredQuantity != 0:
		return i.TransferredQuantity
	default:
		return i.RequestedQuantity
	}
}

// Adjustment represents a stock correction.
// Workflow: draft -> approved, cancellable until approved.
//
// SystemQuantity is captured from the live stock level at creation time and
// the difference is applied as-is at approval, even if stock moved meanwhile.
type Adjustment struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	AdjustmentNumber string     `gorm:"uniqueIndex;not null;size:50" json:"adjustment_number"`
	WarehouseID      uint       `gorm:"not null;index" json:"warehouse_id"`
	ProductID        uint       `gorm:"not null;index" json:"product_id"`
	AdjustmentType   string     `gorm:"size:50;default:'physical_count'" json:"adjustment_type"`
	Status           Status     `gorm:"not null;default:'draft';index" json:"status"`
	AdjustmentDate   time.Time  `gorm:"not null" json:"adjustment_date"`
	SystemQuantity   float64    `gorm:"not null" json:"system_quantity"`
	PhysicalQuantity float64    `gorm:"not null" json:"physical_quantity"`
	Difference       float64    `gorm:"not null" json:"difference"`
	Reason           string     `gorm:"type:text" json:"reason"`
	Notes            string     `gorm:"type:text" json:"notes"`
	ApprovedBy       *uint      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CreatedBy        uint       `gorm:"index" json:"created_by"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName overrides
func (StatusHistoryEntry) TableName() string { return "document_status_history" }
func (Receipt) TableName() string            { return "receipts" }
func (ReceiptItem) TableName() string        { return "receipt_items" }
func (Delivery) TableName() string           { return "deliveries" }
func (DeliveryItem) TableName() string       { return "delivery_items" }
func (Transfer) TableName() string           { return "transfers" }
func (TransferItem) TableName() string       { return "transfer_items" }
func (Adjustment) TableName() string         { return "adjustments" }
