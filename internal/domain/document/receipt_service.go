// internal/domain/document/receipt_service.go
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/stock"
)

// CreateReceiptRequest represents a receipt creation request
type CreateReceiptRequest struct {
	WarehouseID   uint               `json:"warehouse_id" binding:"required"`
	SupplierName  string             `json:"supplier_name"`
	ScheduledDate *time.Time         `json:"scheduled_date"`
	Notes         string             `json:"notes"`
	Items         []ReceiptItemInput `json:"items" binding:"required,min=1,dive"`
}

// ReceiptItemInput is one expected product line on a creation request
type ReceiptItemInput struct {
	ProductID        uint    `json:"product_id" binding:"required"`
	ExpectedQuantity float64 `json:"expected_quantity" binding:"required,gt=0"`
	UnitPrice        float64 `json:"unit_price"`
	Notes            string  `json:"notes"`
}

// UpdateReceiptItemsRequest records counted quantities on a draft or
// in-progress receipt
type UpdateReceiptItemsRequest struct {
	Items []ReceiptItemUpdate `json:"items" binding:"required,min=1,dive"`
}

// ReceiptItemUpdate updates the counted quantities of one receipt line,
// matched by product
type ReceiptItemUpdate struct {
	ProductID        uint     `json:"product_id" binding:"required"`
	ReceivedQuantity *float64 `json:"received_quantity"`
	DamagedQuantity  *float64 `json:"damaged_quantity"`
}

// ReceiptListResponse wraps a paginated receipt listing
type ReceiptListResponse struct {
	Receipts   []Receipt `json:"receipts"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}

// CreateReceipt creates a receipt in draft with a generated number
func (s *Service) CreateReceipt(ctx context.Context, req *CreateReceiptRequest, createdBy uint) (*Receipt, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("receipt requires at least one item")
	}
	for _, item := range req.Items {
		if item.ExpectedQuantity <= 0 {
			return nil, fmt.Errorf("expected quantity must be positive for product %d", item.ProductID)
		}
	}

	now := time.Now().UTC()
	var receipt *Receipt
	err := s.createWithNumber(ctx, TypeReceipt, prefixReceipt, func(number string) error {
		doc := &Receipt{
			ReceiptNumber: number,
			WarehouseID:   req.WarehouseID,
			SupplierName:  req.SupplierName,
			Status:        StatusDraft,
			ScheduledDate: req.ScheduledDate,
			Notes:         req.Notes,
			CreatedBy:     createdBy,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, item := range req.Items {
			doc.Items = append(doc.Items, ReceiptItem{
				ProductID:        item.ProductID,
				ExpectedQuantity: item.ExpectedQuantity,
				UnitPrice:        item.UnitPrice,
				Notes:            item.Notes,
			})
		}
		if err := s.store.CreateReceipt(ctx, doc); err != nil {
			return err
		}
		receipt = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}

	if err := s.recordStatus(ctx, TypeReceipt, receipt.ID, StatusDraft, createdBy, now); err != nil {
		return nil, fmt.Errorf("failed to record receipt status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"receipt_number": receipt.ReceiptNumber,
		"warehouse_id":   receipt.WarehouseID,
		"items":          len(receipt.Items),
	}).Info("Receipt created")

	return receipt, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(ctx context.Context, id uint) (*Receipt, error) {
	return s.store.GetReceipt(ctx, id)
}

// ListReceipts retrieves receipts with pagination
func (s *Service) ListReceipts(ctx context.Context, filter ListFilter) (*ReceiptListResponse, error) {
	filter = normalizeListFilter(filter)
	receipts, total, err := s.store.ListReceipts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return &ReceiptListResponse{
		Receipts:   receipts,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages(total, filter.PerPage),
	}, nil
}

// UpdateReceiptItems records received and damaged quantities on a receipt
// that has not reached a terminal status
func (s *Service) UpdateReceiptItems(ctx context.Context, id uint, req *UpdateReceiptItemsRequest) (*Receipt, error) {
	doc, err := s.store.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if MachineFor(TypeReceipt).IsTerminal(doc.Status) {
		return nil, fmt.Errorf("receipt %s is %s and can no longer be modified", doc.ReceiptNumber, doc.Status)
	}

	for _, update := range req.Items {
		found := false
		for i := range doc.Items {
			if doc.Items[i].ProductID != update.ProductID {
				continue
			}
			found = true
			if update.ReceivedQuantity != nil {
				if *update.ReceivedQuantity < 0 {
					return nil, fmt.Errorf("received quantity cannot be negative for product %d", update.ProductID)
				}
				doc.Items[i].ReceivedQuantity = *update.ReceivedQuantity
			}
			if update.DamagedQuantity != nil {
				if *update.DamagedQuantity < 0 {
					return nil, fmt.Errorf("damaged quantity cannot be negative for product %d", update.ProductID)
				}
				doc.Items[i].DamagedQuantity = *update.DamagedQuantity
			}
		}
		if !found {
			return nil, fmt.Errorf("product %d is not on receipt %s", update.ProductID, doc.ReceiptNumber)
		}
	}

	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveReceipt(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update receipt items: %w", err)
	}
	return doc, nil
}

// TransitionReceipt moves a receipt to a new status. Transitioning to done
// books every usable item quantity into stock before the status is saved.
func (s *Service) TransitionReceipt(ctx context.Context, id uint, newStatus Status, changedBy uint) (*Receipt, error) {
	doc, err := s.store.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := MachineFor(TypeReceipt)
	if err := machine.Validate(doc.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if newStatus == machine.CompletingStatus() {
		if err := s.completeReceipt(ctx, doc, changedBy); err != nil {
			return nil, err
		}
		doc.ReceivedDate = &now
	}

	previous := doc.Status
	doc.Status = newStatus
	doc.UpdatedAt = now
	if err := s.store.SaveReceipt(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	if err := s.recordStatus(ctx, TypeReceipt, doc.ID, newStatus, changedBy, now); err != nil {
		return nil, fmt.Errorf("failed to record receipt status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"receipt_number": doc.ReceiptNumber,
		"from":           previous,
		"to":             newStatus,
	}).Info("Receipt status changed")

	return doc, nil
}

// completeReceipt books every usable item quantity into the receipt's
// warehouse in a single transaction
func (s *Service) completeReceipt(ctx context.Context, doc *Receipt, changedBy uint) error {
	var reqs []stock.RecordRequest
	for i := range doc.Items {
		item := &doc.Items[i]
		if item.ReceivedQuantity == 0 {
			item.ReceivedQuantity = item.ExpectedQuantity
		}
		usable := item.UsableQuantity()
		if usable <= 0 {
			continue
		}
		reqs = append(reqs, stock.RecordRequest{
			ProductID:       item.ProductID,
			WarehouseID:     doc.WarehouseID,
			TransactionType: stock.TransactionTypeReceipt,
			ReferenceType:   string(TypeReceipt),
			ReferenceID:     doc.ID,
			ReferenceNumber: doc.ReceiptNumber,
			QuantityChange:  usable,
			CreatedBy:       changedBy,
			Notes:           fmt.Sprintf("Receipt %s completed", doc.ReceiptNumber),
		})
	}
	if len(reqs) == 0 {
		return nil
	}
	if _, err := s.ledger.RecordAll(ctx, reqs); err != nil {
		return fmt.Errorf("failed to book receipt stock: %w", err)
	}
	return nil
}
