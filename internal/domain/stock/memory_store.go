// internal/domain/stock/memory_store.go
package stock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

type pairKey struct {
	productID   uint
	warehouseID uint
}

// MemoryStore implements Store in process memory with a mutex per
// (product, warehouse) pair. It backs the unit tests; distinct pairs never
// serialize against each other, matching the contract of the SQL store.
type MemoryStore struct {
	mu          sync.Mutex
	locks       map[pairKey]*sync.Mutex
	levels      map[pairKey]StockLevel
	entries     []LedgerEntry
	reorder     map[uint]float64
	nextLevelID uint
	nextEntryID uint
}

// NewMemoryStore creates an empty in-memory stock store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks:   make(map[pairKey]*sync.Mutex),
		levels:  make(map[pairKey]StockLevel),
		reorder: make(map[uint]float64),
	}
}

// SetReorderLevel registers a product reorder threshold for low-stock queries
func (s *MemoryStore) SetReorderLevel(productID uint, level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reorder[productID] = level
}

func (s *MemoryStore) pairMutex(k pairKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[k]
	if !ok {
		m = &sync.Mutex{}
		s.locks[k] = m
	}
	return m
}

// Transact stages all writes and applies them only when fn succeeds
func (s *MemoryStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	tx := &memTx{
		store:  s,
		held:   make(map[pairKey]*sync.Mutex),
		staged: make(map[pairKey]*StockLevel),
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		// staged writes are discarded; nothing reached the store
		return err
	}
	tx.commit()
	return nil
}

// LockLevel outside a transaction is a programming error
func (s *MemoryStore) LockLevel(ctx context.Context, productID, warehouseID uint, createIfMissing bool) (*StockLevel, error) {
	return nil, fmt.Errorf("LockLevel requires an enclosing Transact")
}

// SaveLevel outside a transaction is a programming error
func (s *MemoryStore) SaveLevel(ctx context.Context, level *StockLevel) error {
	return fmt.Errorf("SaveLevel requires an enclosing Transact")
}

// AppendEntry outside a transaction is a programming error
func (s *MemoryStore) AppendEntry(ctx context.Context, entry *LedgerEntry) error {
	return fmt.Errorf("AppendEntry requires an enclosing Transact")
}

// GetLevel retrieves a copy of the current stock level for a pair
func (s *MemoryStore) GetLevel(ctx context.Context, productID, warehouseID uint) (*StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, ok := s.levels[pairKey{productID, warehouseID}]
	if !ok {
		return nil, &apperrors.NotFoundError{
			Resource: "stock level",
			ID:       fmt.Sprintf("product %d / warehouse %d", productID, warehouseID),
		}
	}
	copied := level
	return &copied, nil
}

// ListLevels retrieves stock levels with filters and pagination
func (s *MemoryStore) ListLevels(ctx context.Context, filter LevelFilter) ([]StockLevel, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []StockLevel
	for _, level := range s.levels {
		if filter.ProductID != 0 && level.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != 0 && level.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.LowStock && level.Quantity > s.reorder[level.ProductID] {
			continue
		}
		matched = append(matched, level)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].WarehouseID != matched[j].WarehouseID {
			return matched[i].WarehouseID < matched[j].WarehouseID
		}
		return matched[i].ProductID < matched[j].ProductID
	})

	total := int64(len(matched))
	page, perPage := normalizePage(filter.Page, filter.PerPage)
	return paginate(matched, page, perPage), total, nil
}

// ListEntries retrieves ledger entries ordered by transaction date descending
func (s *MemoryStore) ListEntries(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []LedgerEntry
	for _, entry := range s.entries {
		if filter.ProductID != 0 && entry.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != 0 && entry.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.StartDate != nil && entry.TransactionDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entry.TransactionDate.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].TransactionDate.Equal(matched[j].TransactionDate) {
			return matched[i].TransactionDate.After(matched[j].TransactionDate)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	page, perPage := normalizePage(filter.Page, filter.PerPage)
	return paginate(matched, page, perPage), total, nil
}

func paginate[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// memTx holds pair locks and staged writes for one Transact call
type memTx struct {
	store         *MemoryStore
	held          map[pairKey]*sync.Mutex
	staged        map[pairKey]*StockLevel
	stagedEntries []LedgerEntry
}

func (t *memTx) release() {
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = nil
}

func (t *memTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, level := range t.staged {
		if level.ID == 0 {
			s.nextLevelID++
			level.ID = s.nextLevelID
		}
		s.levels[key] = *level
	}
	for _, entry := range t.stagedEntries {
		s.nextEntryID++
		entry.ID = s.nextEntryID
		s.entries = append(s.entries, entry)
	}
}

// Transact on an open transaction reuses it
func (t *memTx) Transact(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (t *memTx) LockLevel(ctx context.Context, productID, warehouseID uint, createIfMissing bool) (*StockLevel, error) {
	key := pairKey{productID, warehouseID}

	if level, ok := t.staged[key]; ok {
		return level, nil
	}

	if _, ok := t.held[key]; !ok {
		m := t.store.pairMutex(key)
		m.Lock()
		t.held[key] = m
	}

	t.store.mu.Lock()
	level, ok := t.store.levels[key]
	t.store.mu.Unlock()

	if ok {
		copied := level
		t.staged[key] = &copied
		return &copied, nil
	}

	if !createIfMissing {
		return nil, &apperrors.NotFoundError{
			Resource: "stock level",
			ID:       fmt.Sprintf("product %d / warehouse %d", productID, warehouseID),
		}
	}

	created := &StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		LastUpdated: time.Now().UTC(),
	}
	t.staged[key] = created
	return created, nil
}

func (t *memTx) SaveLevel(ctx context.Context, level *StockLevel) error {
	key := pairKey{level.ProductID, level.WarehouseID}
	if _, ok := t.staged[key]; !ok {
		return fmt.Errorf("stock level for product %d / warehouse %d was not locked", level.ProductID, level.WarehouseID)
	}
	t.staged[key] = level
	return nil
}

func (t *memTx) AppendEntry(ctx context.Context, entry *LedgerEntry) error {
	t.stagedEntries = append(t.stagedEntries, *entry)
	return nil
}

func (t *memTx) GetLevel(ctx context.Context, productID, warehouseID uint) (*StockLevel, error) {
	if level, ok := t.staged[pairKey{productID, warehouseID}]; ok {
		copied := *level
		return &copied, nil
	}
	return t.store.GetLevel(ctx, productID, warehouseID)
}

func (t *memTx) ListLevels(ctx context.Context, filter LevelFilter) ([]StockLevel, int64, error) {
	return t.store.ListLevels(ctx, filter)
}

func (t *memTx) ListEntries(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error) {
	return t.store.ListEntries(ctx, filter)
}
