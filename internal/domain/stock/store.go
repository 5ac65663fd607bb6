// internal/domain/stock/store.go
package stock

import (
	"context"
)

// Store is the persistence boundary for the stock projection and ledger.
// The ledger service is the only authorized caller of its mutating methods.
//
// Implementations must serialize the lock-mutate-save sequence per
// (product, warehouse) pair: between LockLevel and the end of the enclosing
// Transact, no other writer may observe or act on a stale quantity for that
// pair. Distinct pairs must not serialize against each other.
type Store interface {
	// Transact runs fn atomically: every AppendEntry and SaveLevel inside fn
	// persists together or not at all.
	Transact(ctx context.Context, fn func(tx Store) error) error

	// LockLevel returns the stock level for the pair with exclusive ownership
	// until the enclosing Transact finishes. When the row is absent it is
	// created with zero quantities if createIfMissing is set, otherwise
	// a NotFoundError is returned. Transactions locking more than one pair
	// must acquire them in ascending (productID, warehouseID) order.
	LockLevel(ctx context.Context, productID, warehouseID uint, createIfMissing bool) (*StockLevel, error)

	// SaveLevel persists a level previously obtained from LockLevel.
	SaveLevel(ctx context.Context, level *StockLevel) error

	// AppendEntry persists an immutable ledger entry.
	AppendEntry(ctx context.Context, entry *LedgerEntry) error

	// GetLevel is a pure read; returns NotFoundError when the pair has no row.
	GetLevel(ctx context.Context, productID, warehouseID uint) (*StockLevel, error)

	// ListLevels is a pure read over the projection.
	ListLevels(ctx context.Context, filter LevelFilter) ([]StockLevel, int64, error)

	// ListEntries is a pure read ordered by transaction date descending.
	ListEntries(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error)
}
