// internal/domain/document/gorm_store.go
package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// GormStore implements Store on PostgreSQL
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new PostgreSQL-backed document store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// RECEIPTS

func (s *GormStore) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	if err := s.db.WithContext(ctx).Create(receipt).Error; err != nil {
		return translateCreateError(err, receipt.ReceiptNumber)
	}
	return nil
}

func (s *GormStore) GetReceipt(ctx context.Context, id uint) (*Receipt, error) {
	var receipt Receipt
	err := s.db.WithContext(ctx).Preload("Items").First(&receipt, id).Error
	if err != nil {
		return nil, translateGetError(err, "receipt", id)
	}
	return &receipt, nil
}

func (s *GormStore) SaveReceipt(ctx context.Context, receipt *Receipt) error {
	if err := s.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(receipt).Error; err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	return nil
}

func (s *GormStore) ListReceipts(ctx context.Context, filter ListFilter) ([]Receipt, int64, error) {
	var receipts []Receipt
	total, err := s.list(ctx, &Receipt{}, filter, "warehouse_id", true, &receipts)
	return receipts, total, err
}

// DELIVERIES

func (s *GormStore) CreateDelivery(ctx context.Context, delivery *Delivery) error {
	if err := s.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return translateCreateError(err, delivery.DeliveryNumber)
	}
	return nil
}

func (s *GormStore) GetDelivery(ctx context.Context, id uint) (*Delivery, error) {
	var delivery Delivery
	err := s.db.WithContext(ctx).Preload("Items").First(&delivery, id).Error
	if err != nil {
		return nil, translateGetError(err, "delivery", id)
	}
	return &delivery, nil
}

func (s *GormStore) SaveDelivery(ctx context.Context, delivery *Delivery) error {
	if err := s.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(delivery).Error; err != nil {
		return fmt.Errorf("failed to save delivery: %w", err)
	}
	return nil
}

func (s *GormStore) ListDeliveries(ctx context.Context, filter ListFilter) ([]Delivery, int64, error) {
	var deliveries []Delivery
	total, err := s.list(ctx, &Delivery{}, filter, "warehouse_id", true, &deliveries)
	return deliveries, total, err
}

// TRANSFERS

func (s *GormStore) CreateTransfer(ctx context.Context, transfer *Transfer) error {
	if err := s.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return translateCreateError(err, transfer.TransferNumber)
	}
	return nil
}

func (s *GormStore) GetTransfer(ctx context.Context, id uint) (*Transfer, error) {
	var transfer Transfer
	err := s.db.WithContext(ctx).Preload("Items").First(&transfer, id).Error
	if err != nil {
		return nil, translateGetError(err, "transfer", id)
	}
	return &transfer, nil
}

func (s *GormStore) SaveTransfer(ctx context.Context, transfer *Transfer) error {
	if err := s.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(transfer).Error; err != nil {
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}

func (s *GormStore) ListTransfers(ctx context.Context, filter ListFilter) ([]Transfer, int64, error) {
	// transfers filter on the source warehouse
	var transfers []Transfer
	total, err := s.list(ctx, &Transfer{}, filter, "from_warehouse_id", true, &transfers)
	return transfers, total, err
}

// ADJUSTMENTS

func (s *GormStore) CreateAdjustment(ctx context.Context, adjustment *Adjustment) error {
	if err := s.db.WithContext(ctx).Create(adjustment).Error; err != nil {
		return translateCreateError(err, adjustment.AdjustmentNumber)
	}
	return nil
}

func (s *GormStore) GetAdjustment(ctx context.Context, id uint) (*Adjustment, error) {
	var adjustment Adjustment
	err := s.db.WithContext(ctx).First(&adjustment, id).Error
	if err != nil {
		return nil, translateGetError(err, "adjustment", id)
	}
	return &adjustment, nil
}

func (s *GormStore) SaveAdjustment(ctx context.Context, adjustment *Adjustment) error {
	if err := s.db.WithContext(ctx).Save(adjustment).Error; err != nil {
		return fmt.Errorf("failed to save adjustment: %w", err)
	}
	return nil
}

func (s *GormStore) ListAdjustments(ctx context.Context, filter ListFilter) ([]Adjustment, int64, error) {
	var adjustments []Adjustment
	total, err := s.list(ctx, &Adjustment{}, filter, "warehouse_id", false, &adjustments)
	return adjustments, total, err
}

// STATUS HISTORY

func (s *GormStore) AppendStatusHistory(ctx context.Context, entry *StatusHistoryEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}

func (s *GormStore) ListStatusHistory(ctx context.Context, docType Type, docID uint) ([]StatusHistoryEntry, error) {
	var entries []StatusHistoryEntry
	err := s.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, docID).
		Order("changed_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve status history: %w", err)
	}
	return entries, nil
}

// NUMBERING SEED

func (s *GormStore) MaxDocumentNumber(ctx context.Context, docType Type, numberPrefix string) (string, error) {
	table, column, err := numberColumn(docType)
	if err != nil {
		return "", err
	}

	var max string
	row := s.db.WithContext(ctx).
		Table(table).
		Select("COALESCE(MAX("+column+"), '')").
		Where(column+" LIKE ?", numberPrefix+"%").
		Row()
	if err := row.Scan(&max); err != nil {
		return "", fmt.Errorf("failed to find max document number: %w", err)
	}
	return max, nil
}

func numberColumn(docType Type) (table, column string, err error) {
	switch docType {
	case TypeReceipt:
		return "receipts", "receipt_number", nil
	case TypeDelivery:
		return "deliveries", "delivery_number", nil
	case TypeTransfer:
		return "transfers", "transfer_number", nil
	case TypeAdjustment:
		return "adjustments", "adjustment_number", nil
	default:
		return "", "", fmt.Errorf("unknown document type: %s", docType)
	}
}

// helpers

func (s *GormStore) list(ctx context.Context, model interface{}, filter ListFilter, warehouseColumn string, preloadItems bool, dest interface{}) (int64, error) {
	page, perPage := filter.Page, filter.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := s.db.WithContext(ctx).Model(model)
	if filter.WarehouseID != 0 {
		query = query.Where(warehouseColumn+" = ?", filter.WarehouseID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	if preloadItems {
		query = query.Preload("Items")
	}
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(dest).Error; err != nil {
		return 0, fmt.Errorf("failed to retrieve documents: %w", err)
	}
	return total, nil
}

func translateCreateError(err error, number string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return &apperrors.DuplicateNumberError{Number: number}
	}
	return fmt.Errorf("failed to create document: %w", err)
}

func translateGetError(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &apperrors.NotFoundError{Resource: resource, ID: strconv.FormatUint(uint64(id), 10)}
	}
	return fmt.Errorf("failed to retrieve %s: %w", resource, err)
}

// isUniqueViolation matches postgres unique constraint errors (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
