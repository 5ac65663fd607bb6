// internal/domain/stock/ledger_service_test.go
package stock

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

func newTestLedger(t *testing.T, allowNegative bool) (*LedgerService, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	cfg := &config.Config{
		Stock: config.StockConfig{
			AllowNegativeStock:  allowNegative,
			NumberRetryAttempts: 3,
		},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewLedgerService(store, cfg, logger), store
}

func TestRecordTransactionCreatesLevelAndEntry(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	entry, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID:       1,
		WarehouseID:     1,
		TransactionType: TransactionTypeReceipt,
		ReferenceType:   "receipt",
		ReferenceNumber: "RCP-2026-0001",
		QuantityChange:  8,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), entry.QuantityBefore)
	assert.Equal(t, float64(8), entry.QuantityChange)
	assert.Equal(t, float64(8), entry.QuantityAfter)

	level, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(8), level.Quantity)
	assert.Equal(t, float64(0), level.ReservedQuantity)
}

func TestRecordTransactionDeducts(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  10,
	})
	require.NoError(t, err)

	entry, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeDelivery,
		QuantityChange:  -5,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(10), entry.QuantityBefore)
	assert.Equal(t, float64(5), entry.QuantityAfter)
}

func TestRecordTransactionRejectsNegativeStock(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  3,
	})
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeDelivery,
		QuantityChange:  -5,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientStock(err))

	// the failed movement must leave no trace
	level, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(3), level.Quantity)

	history, err := svc.GetLedgerHistory(ctx, LedgerFilter{ProductID: 1, WarehouseID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.Total)
}

func TestRecordTransactionAllowsNegativeWhenConfigured(t *testing.T) {
	svc, _ := newTestLedger(t, true)
	ctx := context.Background()

	entry, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeAdjustment,
		QuantityChange:  -4,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(-4), entry.QuantityAfter)
}

func TestRecordAllIsAtomic(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  50,
	})
	require.NoError(t, err)

	// transfer both legs in one batch
	entries, err := svc.RecordAll(ctx, []RecordRequest{
		{ProductID: 1, WarehouseID: 1, TransactionType: TransactionTypeTransferOut, QuantityChange: -20},
		{ProductID: 1, WarehouseID: 2, TransactionType: TransactionTypeTransferIn, QuantityChange: 20},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	source, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(30), source.Quantity)
	dest, err := svc.GetCurrentStock(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, float64(20), dest.Quantity)
}

func TestRecordAllRollsBackOnFailure(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  10,
	})
	require.NoError(t, err)

	// second leg overdraws warehouse 2, so the first leg must roll back too
	_, err = svc.RecordAll(ctx, []RecordRequest{
		{ProductID: 1, WarehouseID: 1, TransactionType: TransactionTypeTransferOut, QuantityChange: -5},
		{ProductID: 1, WarehouseID: 2, TransactionType: TransactionTypeTransferOut, QuantityChange: -5},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientStock(err))

	source, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(10), source.Quantity)

	history, err := svc.GetLedgerHistory(ctx, LedgerFilter{ProductID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.Total)
}

func TestLedgerEntriesAreConsistent(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	changes := []float64{10, -3, 7, -5, 1}
	for _, change := range changes {
		txType := TransactionTypeReceipt
		if change < 0 {
			txType = TransactionTypeDelivery
		}
		_, err := svc.RecordTransaction(ctx, RecordRequest{
			ProductID: 1, WarehouseID: 1,
			TransactionType: txType,
			QuantityChange:  change,
		})
		require.NoError(t, err)
	}

	history, err := svc.GetLedgerHistory(ctx, LedgerFilter{ProductID: 1, WarehouseID: 1, PerPage: 100})
	require.NoError(t, err)
	require.Equal(t, int64(len(changes)), history.Total)

	// every entry balances, and the change sum equals the projection
	var sum float64
	for _, entry := range history.Entries {
		assert.Equal(t, entry.QuantityAfter, entry.QuantityBefore+entry.QuantityChange)
		sum += entry.QuantityChange
	}
	level, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, level.Quantity, sum)
}

func TestConcurrentWritersLoseNoUpdates(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  100,
	})
	require.NoError(t, err)

	// 99 writers plus the seed entry fit one max-size history page
	const writers = 99
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordTransaction(ctx, RecordRequest{
				ProductID: 1, WarehouseID: 1,
				TransactionType: TransactionTypeDelivery,
				QuantityChange:  -1,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	level, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(1), level.Quantity)

	history, err := svc.GetLedgerHistory(ctx, LedgerFilter{ProductID: 1, WarehouseID: 1, PerPage: 100})
	require.NoError(t, err)
	require.Equal(t, int64(writers+1), history.Total)
	require.Len(t, history.Entries, writers+1)

	var sum float64
	seen := make(map[float64]bool)
	for _, entry := range history.Entries {
		assert.Equal(t, entry.QuantityAfter, entry.QuantityBefore+entry.QuantityChange)
		assert.False(t, seen[entry.QuantityAfter], "duplicate running balance means a lost update")
		seen[entry.QuantityAfter] = true
		assert.GreaterOrEqual(t, entry.QuantityAfter, float64(0))
		sum += entry.QuantityChange
	}
	assert.Equal(t, level.Quantity, sum)
}

func TestOppositeDirectionTransfersComplete(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	for _, warehouseID := range []uint{1, 2} {
		_, err := svc.RecordTransaction(ctx, RecordRequest{
			ProductID: 1, WarehouseID: warehouseID,
			TransactionType: TransactionTypeReceipt,
			QuantityChange:  100,
		})
		require.NoError(t, err)
	}

	transfer := func(from, to uint) error {
		_, err := svc.RecordAll(ctx, []RecordRequest{
			{ProductID: 1, WarehouseID: from, TransactionType: TransactionTypeTransferOut, QuantityChange: -1},
			{ProductID: 1, WarehouseID: to, TransactionType: TransactionTypeTransferIn, QuantityChange: 1},
		})
		return err
	}

	// equal traffic both ways: each batch names the pairs in opposite order
	const rounds = 25
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for _, dir := range [][2]uint{{1, 2}, {2, 1}} {
		wg.Add(1)
		go func(from, to uint) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				errs <- transfer(from, to)
			}
		}(dir[0], dir[1])
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("opposite-direction transfer batches never completed")
	}

	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// equal rounds each way, so both warehouses end where they started
	for _, warehouseID := range []uint{1, 2} {
		level, err := svc.GetCurrentStock(ctx, 1, warehouseID)
		require.NoError(t, err)
		assert.Equal(t, float64(100), level.Quantity)
	}
}

func TestConcurrentOverdrawKeepsLedgerConsistent(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  100,
	})
	require.NoError(t, err)

	// 75 writers deduct 2 each; only 50 can succeed before stock runs out
	const writers = 75
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordTransaction(ctx, RecordRequest{
				ProductID: 1, WarehouseID: 1,
				TransactionType: TransactionTypeDelivery,
				QuantityChange:  -2,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err == nil {
			continue
		}
		var insufficient *apperrors.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		failures++
	}
	assert.Equal(t, writers-50, failures)

	level, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), level.Quantity)

	// failed calls leave no trace: 50 deductions plus the seed entry
	history, err := svc.GetLedgerHistory(ctx, LedgerFilter{ProductID: 1, WarehouseID: 1, PerPage: 100})
	require.NoError(t, err)
	require.Equal(t, int64(51), history.Total)
	require.Len(t, history.Entries, 51)

	var sum float64
	for _, entry := range history.Entries {
		assert.Equal(t, entry.QuantityAfter, entry.QuantityBefore+entry.QuantityChange)
		assert.GreaterOrEqual(t, entry.QuantityAfter, float64(0))
		sum += entry.QuantityChange
	}
	assert.Equal(t, level.Quantity, sum)
}

func TestReserveStock(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  10,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReserveStock(ctx, 1, 1, 6))

	level, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(10), level.Quantity)
	assert.Equal(t, float64(6), level.ReservedQuantity)
	assert.Equal(t, float64(4), level.AvailableQuantity())

	// only 4 available now
	err = svc.ReserveStock(ctx, 1, 1, 5)
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientAvailableStock(err))

	require.NoError(t, svc.ReleaseReservation(ctx, 1, 1, 6))
	level, err = svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), level.ReservedQuantity)
}

func TestReserveStockUnknownPair(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	err := svc.ReserveStock(ctx, 9, 9, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// releasing against a missing level is a no-op
	require.NoError(t, svc.ReleaseReservation(ctx, 9, 9, 1))
}

func TestReleaseReservationFloorsAtZero(t *testing.T) {
	svc, _ := newTestLedger(t, false)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  10,
	})
	require.NoError(t, err)
	require.NoError(t, svc.ReserveStock(ctx, 1, 1, 2))
	require.NoError(t, svc.ReleaseReservation(ctx, 1, 1, 5))

	level, err := svc.GetCurrentStock(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), level.ReservedQuantity)
}

func TestListStockLevelsLowStockFilter(t *testing.T) {
	svc, store := newTestLedger(t, false)
	ctx := context.Background()

	store.SetReorderLevel(1, 5)
	store.SetReorderLevel(2, 5)

	_, err := svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 1, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  3,
	})
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, RecordRequest{
		ProductID: 2, WarehouseID: 1,
		TransactionType: TransactionTypeReceipt,
		QuantityChange:  20,
	})
	require.NoError(t, err)

	levels, total, err := svc.ListStockLevels(ctx, LevelFilter{LowStock: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, levels, 1)
	assert.Equal(t, uint(1), levels[0].ProductID)
}
