// internal/domain/document/service_test.go
package document

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/numbering"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

type testEnv struct {
	svc    *Service
	ledger *stock.LedgerService
	stock  *stock.MemoryStore
	docs   *MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Stock: config.StockConfig{
			AllowNegativeStock:  false,
			NumberRetryAttempts: 3,
		},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stockStore := stock.NewMemoryStore()
	ledger := stock.NewLedgerService(stockStore, cfg, logger)
	docStore := NewMemoryStore()
	num := numbering.NewService(nil, logger)

	return &testEnv{
		svc:    NewService(docStore, ledger, num, cfg, logger),
		ledger: ledger,
		stock:  stockStore,
		docs:   docStore,
	}
}

func (e *testEnv) seedStock(t *testing.T, productID, warehouseID uint, qty float64) {
	t.Helper()
	_, err := e.ledger.RecordTransaction(context.Background(), stock.RecordRequest{
		ProductID:       productID,
		WarehouseID:     warehouseID,
		TransactionType: stock.TransactionTypeReceipt,
		QuantityChange:  qty,
	})
	require.NoError(t, err)
}

func (e *testEnv) quantity(t *testing.T, productID, warehouseID uint) float64 {
	t.Helper()
	level, err := e.ledger.GetCurrentStock(context.Background(), productID, warehouseID)
	if apperrors.IsNotFound(err) {
		return 0
	}
	require.NoError(t, err)
	return level.Quantity
}

func yearPrefix(docPrefix string) string {
	return fmt.Sprintf("%s-%d-", docPrefix, time.Now().UTC().Year())
}

func TestReceiptLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receipt, err := env.svc.CreateReceipt(ctx, &CreateReceiptRequest{
		WarehouseID:  1,
		SupplierName: "Acme Supply",
		Items: []ReceiptItemInput{
			{ProductID: 1, ExpectedQuantity: 10},
		},
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, receipt.Status)
	assert.True(t, strings.HasPrefix(receipt.ReceiptNumber, yearPrefix("RCP")))
	assert.True(t, strings.HasSuffix(receipt.ReceiptNumber, "-0001"))

	// no stock effect before completion
	assert.Equal(t, float64(0), env.quantity(t, 1, 1))

	received := 10.0
	damaged := 2.0
	_, err = env.svc.UpdateReceiptItems(ctx, receipt.ID, &UpdateReceiptItemsRequest{
		Items: []ReceiptItemUpdate{
			{ProductID: 1, ReceivedQuantity: &received, DamagedQuantity: &damaged},
		},
	})
	require.NoError(t, err)

	for _, status := range []Status{StatusWaiting, StatusReady} {
		receipt, err = env.svc.TransitionReceipt(ctx, receipt.ID, status, 7)
		require.NoError(t, err)
		assert.Equal(t, float64(0), env.quantity(t, 1, 1))
	}

	receipt, err = env.svc.TransitionReceipt(ctx, receipt.ID, StatusDone, 7)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, receipt.Status)
	require.NotNil(t, receipt.ReceivedDate)

	// 10 received minus 2 damaged
	assert.Equal(t, float64(8), env.quantity(t, 1, 1))

	history, err := env.svc.GetStatusHistory(ctx, TypeReceipt, receipt.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, StatusDraft, history[0].Status)
	assert.Equal(t, StatusDone, history[3].Status)
}

func TestReceiptDefaultsReceivedToExpected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receipt, err := env.svc.CreateReceipt(ctx, &CreateReceiptRequest{
		WarehouseID: 1,
		Items:       []ReceiptItemInput{{ProductID: 1, ExpectedQuantity: 15}},
	}, 1)
	require.NoError(t, err)

	for _, status := range []Status{StatusWaiting, StatusReady, StatusDone} {
		receipt, err = env.svc.TransitionReceipt(ctx, receipt.ID, status, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, float64(15), env.quantity(t, 1, 1))
	assert.Equal(t, float64(15), receipt.Items[0].ReceivedQuantity)
}

func TestReceiptRejectsStageSkip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receipt, err := env.svc.CreateReceipt(ctx, &CreateReceiptRequest{
		WarehouseID: 1,
		Items:       []ReceiptItemInput{{ProductID: 1, ExpectedQuantity: 5}},
	}, 1)
	require.NoError(t, err)

	_, err = env.svc.TransitionReceipt(ctx, receipt.ID, StatusDone, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))

	// status and stock untouched
	current, err := env.svc.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, current.Status)
	assert.Equal(t, float64(0), env.quantity(t, 1, 1))
}

func TestReceiptCancelledIsFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	receipt, err := env.svc.CreateReceipt(ctx, &CreateReceiptRequest{
		WarehouseID: 1,
		Items:       []ReceiptItemInput{{ProductID: 1, ExpectedQuantity: 5}},
	}, 1)
	require.NoError(t, err)

	_, err = env.svc.TransitionReceipt(ctx, receipt.ID, StatusCancelled, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), env.quantity(t, 1, 1))

	_, err = env.svc.TransitionReceipt(ctx, receipt.ID, StatusWaiting, 1)
	assert.True(t, apperrors.IsInvalidTransition(err))

	qty := 5.0
	_, err = env.svc.UpdateReceiptItems(ctx, receipt.ID, &UpdateReceiptItemsRequest{
		Items: []ReceiptItemUpdate{{ProductID: 1, ReceivedQuantity: &qty}},
	})
	require.Error(t, err)
}

func TestDeliveryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, 1, 1, 20)

	delivery, err := env.svc.CreateDelivery(ctx, &CreateDeliveryRequest{
		WarehouseID:  1,
		CustomerName: "Globex",
		Items:        []DeliveryItemInput{{ProductID: 1, OrderedQuantity: 8}},
	}, 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(delivery.DeliveryNumber, yearPrefix("DEL")))

	picked := 6.0
	for _, status := range []Status{StatusPick, StatusPack, StatusValidate} {
		delivery, err = env.svc.TransitionDelivery(ctx, delivery.ID, status, 3)
		require.NoError(t, err)
	}
	_, err = env.svc.UpdateDeliveryItems(ctx, delivery.ID, &UpdateDeliveryItemsRequest{
		Items: []DeliveryItemUpdate{{ProductID: 1, PickedQuantity: &picked}},
	})
	require.NoError(t, err)

	delivery, err = env.svc.TransitionDelivery(ctx, delivery.ID, StatusDone, 3)
	require.NoError(t, err)
	require.NotNil(t, delivery.DeliveredDate)

	// picked quantity wins over ordered when no later stage was recorded
	assert.Equal(t, float64(14), env.quantity(t, 1, 1))
}

func TestDeliveryInsufficientStockBlocksCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, 1, 1, 3)

	delivery, err := env.svc.CreateDelivery(ctx, &CreateDeliveryRequest{
		WarehouseID: 1,
		Items:       []DeliveryItemInput{{ProductID: 1, OrderedQuantity: 5}},
	}, 1)
	require.NoError(t, err)

	for _, status := range []Status{StatusPick, StatusPack, StatusValidate} {
		delivery, err = env.svc.TransitionDelivery(ctx, delivery.ID, status, 1)
		require.NoError(t, err)
	}

	_, err = env.svc.TransitionDelivery(ctx, delivery.ID, StatusDone, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientStock(err))

	// document stays in validate, stock untouched
	current, err := env.svc.GetDelivery(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusValidate, current.Status)
	assert.Nil(t, current.DeliveredDate)
	assert.Equal(t, float64(3), env.quantity(t, 1, 1))
}

func TestTransferLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, 1, 1, 50)

	transfer, err := env.svc.CreateTransfer(ctx, &CreateTransferRequest{
		FromWarehouseID: 1,
		ToWarehouseID:   2,
		Items:           []TransferItemInput{{ProductID: 1, RequestedQuantity: 20}},
	}, 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(transfer.TransferNumber, yearPrefix("TRF")))

	transfer, err = env.svc.TransitionTransfer(ctx, transfer.ID, StatusInTransit, 4)
	require.NoError(t, err)
	require.NotNil(t, transfer.ShippedDate)
	assert.Equal(t, float64(50), env.quantity(t, 1, 1))

	transfer, err = env.svc.TransitionTransfer(ctx, transfer.ID, StatusCompleted, 4)
	require.NoError(t, err)
	require.NotNil(t, transfer.CompletedDate)

	assert.Equal(t, float64(30), env.quantity(t, 1, 1))
	assert.Equal(t, float64(20), env.quantity(t, 1, 2))

	// one OUT and one IN entry referencing the transfer
	history, err := env.ledger.GetLedgerHistory(ctx, stock.LedgerFilter{ProductID: 1, PerPage: 100})
	require.NoError(t, err)
	var out, in int
	for _, entry := range history.Entries {
		if entry.ReferenceNumber != transfer.TransferNumber {
			continue
		}
		switch entry.TransactionType {
		case stock.TransactionTypeTransferOut:
			out++
		case stock.TransactionTypeTransferIn:
			in++
		}
	}
	assert.Equal(t, 1, out)
	assert.Equal(t, 1, in)
}

func TestTransferInsufficientStockRollsBackBothLegs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, 1, 1, 5)

	transfer, err := env.svc.CreateTransfer(ctx, &CreateTransferRequest{
		FromWarehouseID: 1,
		ToWarehouseID:   2,
		Items:           []TransferItemInput{{ProductID: 1, RequestedQuantity: 20}},
	}, 1)
	require.NoError(t, err)

	transfer, err = env.svc.TransitionTransfer(ctx, transfer.ID, StatusInTransit, 1)
	require.NoError(t, err)

	_, err = env.svc.TransitionTransfer(ctx, transfer.ID, StatusCompleted, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientStock(err))

	current, err := env.svc.GetTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInTransit, current.Status)
	assert.Equal(t, float64(5), env.quantity(t, 1, 1))
	assert.Equal(t, float64(0), env.quantity(t, 1, 2))
}

func TestTransferRejectsSameWarehouse(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateTransfer(context.Background(), &CreateTransferRequest{
		FromWarehouseID: 1,
		ToWarehouseID:   1,
		Items:           []TransferItemInput{{ProductID: 1, RequestedQuantity: 1}},
	}, 1)
	require.Error(t, err)
}

func TestAdjustmentFreezesSystemQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, 1, 1, 10)

	adjustment, err := env.svc.CreateAdjustment(ctx, &CreateAdjustmentRequest{
		WarehouseID:      1,
		ProductID:        1,
		PhysicalQuantity: 5,
		Reason:           "cycle count",
	}, 2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(adjustment.AdjustmentNumber, yearPrefix("ADJ")))
	assert.Equal(t, float64(10), adjustment.SystemQuantity)
	assert.Equal(t, float64(-5), adjustment.Difference)

	// stock moves between count and approval; the difference stays frozen
	env.seedStock(t, 1, 1, 3)
	assert.Equal(t, float64(13), env.quantity(t, 1, 1))

	adjustment, err = env.svc.TransitionAdjustment(ctx, adjustment.ID, StatusApproved, 9)
	require.NoError(t, err)
	require.NotNil(t, adjustment.ApprovedBy)
	assert.Equal(t, uint(9), *adjustment.ApprovedBy)
	require.NotNil(t, adjustment.ApprovedAt)

	assert.Equal(t, float64(8), env.quantity(t, 1, 1))
}

func TestAdjustmentOnUnknownPairCountsFromZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	adjustment, err := env.svc.CreateAdjustment(ctx, &CreateAdjustmentRequest{
		WarehouseID:      1,
		ProductID:        1,
		PhysicalQuantity: 7,
		Reason:           "found stock",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), adjustment.SystemQuantity)
	assert.Equal(t, float64(7), adjustment.Difference)

	_, err = env.svc.TransitionAdjustment(ctx, adjustment.ID, StatusApproved, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(7), env.quantity(t, 1, 1))
}

func TestAdjustmentZeroDifferenceWritesNoEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedStock(t, 1, 1, 10)

	adjustment, err := env.svc.CreateAdjustment(ctx, &CreateAdjustmentRequest{
		WarehouseID:      1,
		ProductID:        1,
		PhysicalQuantity: 10,
		Reason:           "count matched",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), adjustment.Difference)

	_, err = env.svc.TransitionAdjustment(ctx, adjustment.ID, StatusApproved, 1)
	require.NoError(t, err)

	history, err := env.ledger.GetLedgerHistory(ctx, stock.LedgerFilter{ProductID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.Total)
}

func TestDocumentNumbersIncrement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.CreateReceipt(ctx, &CreateReceiptRequest{
		WarehouseID: 1,
		Items:       []ReceiptItemInput{{ProductID: 1, ExpectedQuantity: 1}},
	}, 1)
	require.NoError(t, err)
	second, err := env.svc.CreateReceipt(ctx, &CreateReceiptRequest{
		WarehouseID: 1,
		Items:       []ReceiptItemInput{{ProductID: 1, ExpectedQuantity: 1}},
	}, 1)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(first.ReceiptNumber, "-0001"))
	assert.True(t, strings.HasSuffix(second.ReceiptNumber, "-0002"))

	// each variant numbers independently
	transfer, err := env.svc.CreateTransfer(ctx, &CreateTransferRequest{
		FromWarehouseID: 1,
		ToWarehouseID:   2,
		Items:           []TransferItemInput{{ProductID: 1, RequestedQuantity: 1}},
	}, 1)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(transfer.TransferNumber, "-0001"))
}

func TestListReceiptsFiltersAndPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		warehouseID := uint(1)
		if i == 2 {
			warehouseID = 2
		}
		_, err := env.svc.CreateReceipt(ctx, &CreateReceiptRequest{
			WarehouseID: warehouseID,
			Items:       []ReceiptItemInput{{ProductID: 1, ExpectedQuantity: 1}},
		}, 1)
		require.NoError(t, err)
	}

	all, err := env.svc.ListReceipts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 1, all.Page)

	byWarehouse, err := env.svc.ListReceipts(ctx, ListFilter{WarehouseID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byWarehouse.Total)

	byStatus, err := env.svc.ListReceipts(ctx, ListFilter{Status: StatusDraft})
	require.NoError(t, err)
	assert.Equal(t, int64(3), byStatus.Total)
}
