// internal/domain/stock/gorm_store.go
package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on PostgreSQL. Per-pair serialization comes from
// a SELECT ... FOR UPDATE on the stock_levels row inside the transaction, so
// the ledger append and the projection update commit together.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new PostgreSQL-backed stock store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transact runs fn inside a database transaction
func (s *GormStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
	if err != nil && isSerializationFailure(err) {
		return &apperrors.ConcurrentUpdateConflictError{}
	}
	return err
}

// LockLevel reads the stock level row FOR UPDATE, creating it lazily when
// the pair has no row yet
func (s *GormStore) LockLevel(ctx context.Context, productID, warehouseID uint, createIfMissing bool) (*StockLevel, error) {
	var level StockLevel
	db := s.db.WithContext(ctx)

	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&level).Error
	if err == nil {
		return &level, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to lock stock level: %w", err)
	}

	if !createIfMissing {
		return nil, &apperrors.NotFoundError{
			Resource: "stock level",
			ID:       fmt.Sprintf("product %d / warehouse %d", productID, warehouseID),
		}
	}

	// Lazy creation on first transaction for the pair. A concurrent insert
	// loses to the unique index; the locked re-read below resolves the winner.
	created := StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		LastUpdated: time.Now().UTC(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
		DoNothing: true,
	}).Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create stock level: %w", err)
	}

	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&level).Error; err != nil {
		return nil, fmt.Errorf("failed to lock stock level: %w", err)
	}
	return &level, nil
}

// SaveLevel persists a locked stock level
func (s *GormStore) SaveLevel(ctx context.Context, level *StockLevel) error {
	if err := s.db.WithContext(ctx).Save(level).Error; err != nil {
		return fmt.Errorf("failed to save stock level: %w", err)
	}
	return nil
}

// AppendEntry inserts an immutable ledger entry
func (s *GormStore) AppendEntry(ctx context.Context, entry *LedgerEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// GetLevel retrieves the current stock level for a pair
func (s *GormStore) GetLevel(ctx context.Context, productID, warehouseID uint) (*StockLevel, error) {
	var level StockLevel
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&level).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{
				Resource: "stock level",
				ID:       fmt.Sprintf("product %d / warehouse %d", productID, warehouseID),
			}
		}
		return nil, fmt.Errorf("failed to retrieve stock level: %w", err)
	}
	return &level, nil
}

// ListLevels retrieves stock levels with filters and pagination
func (s *GormStore) ListLevels(ctx context.Context, filter LevelFilter) ([]StockLevel, int64, error) {
	page, perPage := normalizePage(filter.Page, filter.PerPage)

	query := s.db.WithContext(ctx).Model(&StockLevel{})
	if filter.ProductID != 0 {
		query = query.Where("stock_levels.product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != 0 {
		query = query.Where("stock_levels.warehouse_id = ?", filter.WarehouseID)
	}
	if filter.LowStock {
		query = query.
			Joins("JOIN products ON products.id = stock_levels.product_id").
			Where("stock_levels.quantity <= products.reorder_level")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock levels: %w", err)
	}

	var levels []StockLevel
	if err := query.
		Order("stock_levels.warehouse_id ASC, stock_levels.product_id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&levels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve stock levels: %w", err)
	}
	return levels, total, nil
}

// ListEntries retrieves ledger entries ordered by transaction date descending
func (s *GormStore) ListEntries(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error) {
	page, perPage := normalizePage(filter.Page, filter.PerPage)

	query := s.db.WithContext(ctx).Model(&LedgerEntry{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != 0 {
		query = query.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	var entries []LedgerEntry
	if err := query.
		Order("transaction_date DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve ledger entries: %w", err)
	}
	return entries, total, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// isSerializationFailure matches postgres deadlock / serialization errors
// (SQLSTATE 40001 and 40P01)
func isSerializationFailure(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "deadlock detected")
}
