// internal/domain/document/memory_store.go
package document

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// MemoryStore implements Store in process memory. It backs the workflow
// unit tests.
type MemoryStore struct {
	mu          sync.Mutex
	receipts    map[uint]*Receipt
	deliveries  map[uint]*Delivery
	transfers   map[uint]*Transfer
	adjustments map[uint]*Adjustment
	history     []StatusHistoryEntry
	numbers     map[string]bool
	nextID      uint
	nextHistID  uint
}

// NewMemoryStore creates an empty in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		receipts:    make(map[uint]*Receipt),
		deliveries:  make(map[uint]*Delivery),
		transfers:   make(map[uint]*Transfer),
		adjustments: make(map[uint]*Adjustment),
		numbers:     make(map[string]bool),
	}
}

func (s *MemoryStore) claimNumber(number string) error {
	if s.numbers[number] {
		return &apperrors.DuplicateNumberError{Number: number}
	}
	s.numbers[number] = true
	return nil
}

// RECEIPTS

func (s *MemoryStore) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimNumber(receipt.ReceiptNumber); err != nil {
		return err
	}
	s.nextID++
	receipt.ID = s.nextID
	for i := range receipt.Items {
		receipt.Items[i].ReceiptID = receipt.ID
	}
	copied := *receipt
	copied.Items = append([]ReceiptItem(nil), receipt.Items...)
	s.receipts[receipt.ID] = &copied
	return nil
}

func (s *MemoryStore) GetReceipt(ctx context.Context, id uint) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	receipt, ok := s.receipts[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "receipt", ID: strconv.FormatUint(uint64(id), 10)}
	}
	copied := *receipt
	copied.Items = append([]ReceiptItem(nil), receipt.Items...)
	return &copied, nil
}

func (s *MemoryStore) SaveReceipt(ctx context.Context, receipt *Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *receipt
	copied.Items = append([]ReceiptItem(nil), receipt.Items...)
	s.receipts[receipt.ID] = &copied
	return nil
}

func (s *MemoryStore) ListReceipts(ctx context.Context, filter ListFilter) ([]Receipt, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []Receipt
	for _, r := range s.receipts {
		if filter.WarehouseID != 0 && r.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		matched = append(matched, *r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, int64(len(matched)), nil
}

// DELIVERIES

func (s *MemoryStore) CreateDelivery(ctx context.Context, delivery *Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimNumber(delivery.DeliveryNumber); err != nil {
		return err
	}
	s.nextID++
	delivery.ID = s.nextID
	for i := range delivery.Items {
		delivery.Items[i].DeliveryID = delivery.ID
	}
	copied := *delivery
	copied.Items = append([]DeliveryItem(nil), delivery.Items...)
	s.deliveries[delivery.ID] = &copied
	return nil
}

func (s *MemoryStore) GetDelivery(ctx context.Context, id uint) (*Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivery, ok := s.deliveries[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "delivery", ID: strconv.FormatUint(uint64(id), 10)}
	}
	copied := *delivery
	copied.Items = append([]DeliveryItem(nil), delivery.Items...)
	return &copied, nil
}

func (s *MemoryStore) SaveDelivery(ctx context.Context, delivery *Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *delivery
	copied.Items = append([]DeliveryItem(nil), delivery.Items...)
	s.deliveries[delivery.ID] = &copied
	return nil
}

func (s *MemoryStore) ListDeliveries(ctx context.Context, filter ListFilter) ([]Delivery, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []Delivery
	for _, d := range s.deliveries {
		if filter.WarehouseID != 0 && d.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		matched = append(matched, *d)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, int64(len(matched)), nil
}

// TRANSFERS

func (s *MemoryStore) CreateTransfer(ctx context.Context, transfer *Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimNumber(transfer.TransferNumber); err != nil {
		return err
	}
	s.nextID++
	transfer.ID = s.nextID
	for i := range transfer.Items {
		transfer.Items[i].TransferID = transfer.ID
	}
	copied := *transfer
	copied.Items = append([]TransferItem(nil), transfer.Items...)
	s.transfers[transfer.ID] = &copied
	return nil
}

func (s *MemoryStore) GetTransfer(ctx context.Context, id uint) (*Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	transfer, ok := s.transfers[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "transfer", ID: strconv.FormatUint(uint64(id), 10)}
	}
	copied := *transfer
	copied.Items = append([]TransferItem(nil), transfer.Items...)
	return &copied, nil
}

func (s *MemoryStore) SaveTransfer(ctx context.Context, transfer *Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *transfer
	copied.Items = append([]TransferItem(nil), transfer.Items...)
	s.transfers[transfer.ID] = &copied
	return nil
}

func (s *MemoryStore) ListTransfers(ctx context.Context, filter ListFilter) ([]Transfer, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []Transfer
	for _, t := range s.transfers {
		if filter.WarehouseID != 0 && t.FromWarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, int64(len(matched)), nil
}

// ADJUSTMENTS

func (s *MemoryStore) CreateAdjustment(ctx context.Context, adjustment *Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.claimNumber(adjustment.AdjustmentNumber); err != nil {
		return err
	}
	s.nextID++
	adjustment.ID = s.nextID
	copied := *adjustment
	s.adjustments[adjustment.ID] = &copied
	return nil
}

func (s *MemoryStore) GetAdjustment(ctx context.Context, id uint) (*Adjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	adjustment, ok := s.adjustments[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "adjustment", ID: strconv.FormatUint(uint64(id), 10)}
	}
	copied := *adjustment
	return &copied, nil
}

func (s *MemoryStore) SaveAdjustment(ctx context.Context, adjustment *Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *adjustment
	s.adjustments[adjustment.ID] = &copied
	return nil
}

func (s *MemoryStore) ListAdjustments(ctx context.Context, filter ListFilter) ([]Adjustment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []Adjustment
	for _, a := range s.adjustments {
		if filter.WarehouseID != 0 && a.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, *a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, int64(len(matched)), nil
}

// STATUS HISTORY

func (s *MemoryStore) AppendStatusHistory(ctx context.Context, entry *StatusHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHistID++
	entry.ID = s.nextHistID
	s.history = append(s.history, *entry)
	return nil
}

func (s *MemoryStore) ListStatusHistory(ctx context.Context, docType Type, docID uint) ([]StatusHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []StatusHistoryEntry
	for _, e := range s.history {
		if e.DocumentType == docType && e.DocumentID == docID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// NUMBERING SEED

func (s *MemoryStore) MaxDocumentNumber(ctx context.Context, docType Type, numberPrefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := ""
	for number := range s.numbers {
		if strings.HasPrefix(number, numberPrefix) && number > max {
			max = number
		}
	}
	return max, nil
}
