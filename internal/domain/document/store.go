// internal/domain/document/store.go
package document

import (
	"context"
)

// ListFilter narrows document listings. Zero values mean "any".
type ListFilter struct {
	WarehouseID uint
	Status      Status
	Page        int
	PerPage     int
}

// Store is the persistence boundary for workflow documents and their
// status history. Creating a document whose number already exists fails
// with a DuplicateNumberError.
type Store interface {
	CreateReceipt(ctx context.Context, receipt *Receipt) error
	GetReceipt(ctx context.Context, id uint) (*Receipt, error)
	SaveReceipt(ctx context.Context, receipt *Receipt) error
	ListReceipts(ctx context.Context, filter ListFilter) ([]Receipt, int64, error)

	CreateDelivery(ctx context.Context, delivery *Delivery) error
	GetDelivery(ctx context.Context, id uint) (*Delivery, error)
	SaveDelivery(ctx context.Context, delivery *Delivery) error
	ListDeliveries(ctx context.Context, filter ListFilter) ([]Delivery, int64, error)

	CreateTransfer(ctx context.Context, transfer *Transfer) error
	GetTransfer(ctx context.Context, id uint) (*Transfer, error)
	SaveTransfer(ctx context.Context, transfer *Transfer) error
	ListTransfers(ctx context.Context, filter ListFilter) ([]Transfer, int64, error)

	CreateAdjustment(ctx context.Context, adjustment *Adjustment) error
	GetAdjustment(ctx context.Context, id uint) (*Adjustment, error)
	SaveAdjustment(ctx context.Context, adjustment *Adjustment) error
	ListAdjustments(ctx context.Context, filter ListFilter) ([]Adjustment, int64, error)

	AppendStatusHistory(ctx context.Context, entry *StatusHistoryEntry) error
	ListStatusHistory(ctx context.Context, docType Type, docID uint) ([]StatusHistoryEntry, error)

	// MaxDocumentNumber returns the lexicographically greatest existing
	// document number starting with numberPrefix, or "" when none exists.
	// Seeds the numbering counters.
	MaxDocumentNumber(ctx context.Context, docType Type, numberPrefix string) (string, error)
}
