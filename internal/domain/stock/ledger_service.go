// internal/domain/stock/ledger_service.go
//
// The ledger service is the sole authorized mutator of stock levels and
// ledger entries. Every stock movement flows through RecordTransaction,
// which appends the immutable ledger entry and updates the projection
// atomically inside one store transaction.
package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// LedgerService handles stock ledger business logic
type LedgerService struct {
	store  Store
	config *config.Config
	logger *logrus.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store Store, cfg *config.Config, logger *logrus.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// RecordRequest describes one stock movement to record
type RecordRequest struct {
	ProductID       uint            `json:"product_id" binding:"required"`
	WarehouseID     uint            `json:"warehouse_id" binding:"required"`
	TransactionType TransactionType `json:"transaction_type" binding:"required"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     uint            `json:"reference_id"`
	ReferenceNumber string          `json:"reference_number"`
	QuantityChange  float64         `json:"quantity_change" binding:"required"`
	CreatedBy       uint            `json:"created_by"`
	Notes           string          `json:"notes"`
}

// LedgerHistory wraps a paginated ledger listing
type LedgerHistory struct {
	Entries    []LedgerEntry `json:"entries"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

// RecordTransaction records a single stock movement with an atomic stock
// level update. Fails with InsufficientStockError when the movement would
// drive quantity negative and negative stock is disallowed.
func (s *LedgerService) RecordTransaction(ctx context.Context, req RecordRequest) (*LedgerEntry, error) {
	var entry *LedgerEntry
	err := s.store.Transact(ctx, func(tx Store) error {
		recorded, err := s.record(ctx, tx, req)
		if err != nil {
			return err
		}
		entry = recorded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordAll records a batch of stock movements in one transaction: either
// every movement commits or none does. Transfer completion relies on this to
// roll the source-warehouse write back when the destination write fails.
func (s *LedgerService) RecordAll(ctx context.Context, reqs []RecordRequest) ([]LedgerEntry, error) {
	entries := make([]LedgerEntry, 0, len(reqs))
	err := s.store.Transact(ctx, func(tx Store) error {
		if err := lockPairs(ctx, tx, reqs); err != nil {
			return err
		}
		for _, req := range reqs {
			recorded, err := s.record(ctx, tx, req)
			if err != nil {
				return err
			}
			entries = append(entries, *recorded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// lockPairs takes every (product, warehouse) pair lock of a batch up front,
// in ascending pair order. Two batches touching the same pairs in opposite
// request order would otherwise deadlock against each other.
func lockPairs(ctx context.Context, tx Store, reqs []RecordRequest) error {
	type pair struct {
		productID   uint
		warehouseID uint
	}
	seen := make(map[pair]bool, len(reqs))
	pairs := make([]pair, 0, len(reqs))
	for _, req := range reqs {
		p := pair{req.ProductID, req.WarehouseID}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].productID != pairs[j].productID {
			return pairs[i].productID < pairs[j].productID
		}
		return pairs[i].warehouseID < pairs[j].warehouseID
	})

	for _, p := range pairs {
		if _, err := tx.LockLevel(ctx, p.productID, p.warehouseID, true); err != nil {
			return err
		}
	}
	return nil
}

// record runs the critical section for one pair: lock, check, append, update.
func (s *LedgerService) record(ctx context.Context, tx Store, req RecordRequest) (*LedgerEntry, error) {
	level, err := tx.LockLevel(ctx, req.ProductID, req.WarehouseID, true)
	if err != nil {
		return nil, err
	}

	quantityBefore := level.Quantity
	quantityAfter := quantityBefore + req.QuantityChange

	if quantityAfter < 0 && !s.config.Stock.AllowNegativeStock {
		return nil, &apperrors.InsufficientStockError{
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			Available:   quantityBefore,
			Requested:   -req.QuantityChange,
		}
	}

	now := time.Now().UTC()
	entry := &LedgerEntry{
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		TransactionType: req.TransactionType,
		ReferenceType:   req.ReferenceType,
		ReferenceID:     req.ReferenceID,
		ReferenceNumber: req.ReferenceNumber,
		QuantityChange:  req.QuantityChange,
		QuantityBefore:  quantityBefore,
		QuantityAfter:   quantityAfter,
		CreatedBy:       req.CreatedBy,
		TransactionDate: now,
		Notes:           req.Notes,
	}
	if err := tx.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}

	level.Quantity = quantityAfter
	level.LastUpdated = now
	if err := tx.SaveLevel(ctx, level); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_type": req.TransactionType,
		"product_id":       req.ProductID,
		"warehouse_id":     req.WarehouseID,
		"quantity_change":  req.QuantityChange,
		"new_balance":      quantityAfter,
		"reference":        req.ReferenceNumber,
	}).Info("Stock transaction recorded")

	return entry, nil
}

// ReserveStock places a soft hold on available quantity. It does not change
// on-hand quantity and creates no ledger entry.
func (s *LedgerService) ReserveStock(ctx context.Context, productID, warehouseID uint, quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("reservation quantity must be positive, got %.2f", quantity)
	}
	return s.store.Transact(ctx, func(tx Store) error {
		level, err := tx.LockLevel(ctx, productID, warehouseID, false)
		if err != nil {
			return err
		}

		available := level.AvailableQuantity()
		if available < quantity {
			return &apperrors.InsufficientAvailableStockError{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Available:   available,
				Requested:   quantity,
			}
		}

		level.ReservedQuantity += quantity
		level.LastUpdated = time.Now().UTC()
		if err := tx.SaveLevel(ctx, level); err != nil {
			return err
		}

		s.logger.WithFields(logrus.Fields{
			"product_id":   productID,
			"warehouse_id": warehouseID,
			"quantity":     quantity,
		}).Info("Stock reserved")
		return nil
	})
}

// ReleaseReservation releases previously reserved quantity, flooring at 0.
// Releasing against a pair with no stock level row is a no-op.
func (s *LedgerService) ReleaseReservation(ctx context.Context, productID, warehouseID uint, quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("reservation quantity must be positive, got %.2f", quantity)
	}
	return s.store.Transact(ctx, func(tx Store) error {
		level, err := tx.LockLevel(ctx, productID, warehouseID, false)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil
			}
			return err
		}

		level.ReservedQuantity -= quantity
		if level.ReservedQuantity < 0 {
			level.ReservedQuantity = 0
		}
		level.LastUpdated = time.Now().UTC()
		if err := tx.SaveLevel(ctx, level); err != nil {
			return err
		}

		s.logger.WithFields(logrus.Fields{
			"product_id":   productID,
			"warehouse_id": warehouseID,
			"quantity":     quantity,
		}).Info("Stock reservation released")
		return nil
	})
}

// GetLedgerHistory returns ledger entries matching the filter, newest first.
// Pure read; no side effects.
func (s *LedgerService) GetLedgerHistory(ctx context.Context, filter LedgerFilter) (*LedgerHistory, error) {
	entries, total, err := s.store.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	page, perPage := normalizePage(filter.Page, filter.PerPage)
	return &LedgerHistory{
		Entries:    entries,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

// GetCurrentStock returns the current stock level for a pair. Pure read.
func (s *LedgerService) GetCurrentStock(ctx context.Context, productID, warehouseID uint) (*StockLevel, error) {
	return s.store.GetLevel(ctx, productID, warehouseID)
}

// ListStockLevels returns stock levels matching the filter. Pure read.
func (s *LedgerService) ListStockLevels(ctx context.Context, filter LevelFilter) ([]StockLevel, int64, error) {
	return s.store.ListLevels(ctx, filter)
}
