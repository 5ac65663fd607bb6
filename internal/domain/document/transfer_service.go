// internal/domain/document/transfer_service.go
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/stock"
)

// CreateTransferRequest represents a transfer creation request
type CreateTransferRequest struct {
	FromWarehouseID uint                `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uint                `json:"to_warehouse_id" binding:"required"`
	Notes           string              `json:"notes"`
	Items           []TransferItemInput `json:"items" binding:"required,min=1,dive"`
}

// TransferItemInput is one requested product line on a creation request
type TransferItemInput struct {
	ProductID         uint    `json:"product_id" binding:"required"`
	RequestedQuantity float64 `json:"requested_quantity" binding:"required,gt=0"`
	Notes             string  `json:"notes"`
}

// UpdateTransferItemsRequest records shipped and received quantities on an
// in-progress transfer
type UpdateTransferItemsRequest struct {
	Items []TransferItemUpdate `json:"items" binding:"required,min=1,dive"`
}

// TransferItemUpdate updates the movement quantities of one transfer line,
// matched by product
type TransferItemUpdate struct {
	ProductID           uint     `json:"product_id" binding:"required"`
	TransferredQuantity *float64 `json:"transferred_quantity"`
	ReceivedQuantity    *float64 `json:"received_quantity"`
}

// TransferListResponse wraps a paginated transfer listing
type TransferListResponse struct {
	Transfers  []Transfer `json:"transfers"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
}

// CreateTransfer creates a transfer in draft with a generated number
func (s *Service) CreateTransfer(ctx context.Context, req *CreateTransferRequest, createdBy uint) (*Transfer, error) {
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, fmt.Errorf("source and destination warehouse must differ")
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("transfer requires at least one item")
	}
	for _, item := range req.Items {
		if item.RequestedQuantity <= 0 {
			return nil, fmt.Errorf("requested quantity must be positive for product %d", item.ProductID)
		}
	}

	now := time.Now().UTC()
	var transfer *Transfer
	err := s.createWithNumber(ctx, TypeTransfer, prefixTransfer, func(number string) error {
		doc := &Transfer{
			TransferNumber:  number,
			FromWarehouseID: req.FromWarehouseID,
			ToWarehouseID:   req.ToWarehouseID,
			Status:          StatusDraft,
			Notes:           req.Notes,
			CreatedBy:       createdBy,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		for _, item := range req.Items {
			doc.Items = append(doc.Items, TransferItem{
				ProductID:         item.ProductID,
				RequestedQuantity: item.RequestedQuantity,
				Notes:             item.Notes,
			})
		}
		if err := s.store.CreateTransfer(ctx, doc); err != nil {
			return err
		}
		transfer = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	if err := s.recordStatus(ctx, TypeTransfer, transfer.ID, StatusDraft, createdBy, now); err != nil {
		return nil, fmt.Errorf("failed to record transfer status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"transfer_number":   transfer.TransferNumber,
		"from_warehouse_id": transfer.FromWarehouseID,
		"to_warehouse_id":   transfer.ToWarehouseID,
		"items":             len(transfer.Items),
	}).Info("Transfer created")

	return transfer, nil
}

// GetTransfer retrieves a transfer by ID
func (s *Service) GetTransfer(ctx context.Context, id uint) (*Transfer, error) {
	return s.store.GetTransfer(ctx, id)
}

// ListTransfers retrieves transfers with pagination. The warehouse filter
// matches the source warehouse.
func (s *Service) ListTransfers(ctx context.Context, filter ListFilter) (*TransferListResponse, error) {
	filter = normalizeListFilter(filter)
	transfers, total, err := s.store.ListTransfers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return &TransferListResponse{
		Transfers:  transfers,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages(total, filter.PerPage),
	}, nil
}

// UpdateTransferItems records transferred and received quantities on a
// transfer that has not reached a terminal status
func (s *Service) UpdateTransferItems(ctx context.Context, id uint, req *UpdateTransferItemsRequest) (*Transfer, error) {
	doc, err := s.store.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if MachineFor(TypeTransfer).IsTerminal(doc.Status) {
		return nil, fmt.Errorf("transfer %s is %s and can no longer be modified", doc.TransferNumber, doc.Status)
	}

	for _, update := range req.Items {
		found := false
		for i := range doc.Items {
			if doc.Items[i].ProductID != update.ProductID {
				continue
			}
			found = true
			if update.TransferredQuantity != nil {
				if *update.TransferredQuantity < 0 {
					return nil, fmt.Errorf("transferred quantity cannot be negative for product %d", update.ProductID)
				}
				doc.Items[i].TransferredQuantity = *update.TransferredQuantity
			}
			if update.ReceivedQuantity != nil {
				if *update.ReceivedQuantity < 0 {
					return nil, fmt.Errorf("received quantity cannot be negative for product %d", update.ProductID)
				}
				doc.Items[i].ReceivedQuantity = *update.ReceivedQuantity
			}
		}
		if !found {
			return nil, fmt.Errorf("product %d is not on transfer %s", update.ProductID, doc.TransferNumber)
		}
	}

	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveTransfer(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update transfer items: %w", err)
	}
	return doc, nil
}

// TransitionTransfer moves a transfer to a new status. Entering in_transit
// stamps the shipped date. Transitioning to completed books both legs of
// every line, the deduction at the source and the addition at the
// destination, in one stock transaction so a failed leg rolls back the
// other.
func (s *Service) TransitionTransfer(ctx context.Context, id uint, newStatus Status, changedBy uint) (*Transfer, error) {
	doc, err := s.store.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := MachineFor(TypeTransfer)
	if err := machine.Validate(doc.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if newStatus == StatusInTransit {
		doc.ShippedDate = &now
	}
	if newStatus == machine.CompletingStatus() {
		if err := s.completeTransfer(ctx, doc, changedBy); err != nil {
			return nil, err
		}
		doc.CompletedDate = &now
	}

	previous := doc.Status
	doc.Status = newStatus
	doc.UpdatedAt = now
	if err := s.store.SaveTransfer(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save transfer: %w", err)
	}
	if err := s.recordStatus(ctx, TypeTransfer, doc.ID, newStatus, changedBy, now); err != nil {
		return nil, fmt.Errorf("failed to record transfer status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"transfer_number": doc.TransferNumber,
		"from":            previous,
		"to":              newStatus,
	}).Info("Transfer status changed")

	return doc, nil
}

func (s *Service) completeTransfer(ctx context.Context, doc *Transfer, changedBy uint) error {
	var reqs []stock.RecordRequest
	for i := range doc.Items {
		item := &doc.Items[i]
		final := item.FinalQuantity()
		if final <= 0 {
			continue
		}
		notes := fmt.Sprintf("Transfer %s completed", doc.TransferNumber)
		reqs = append(reqs,
			stock.RecordRequest{
				ProductID:       item.ProductID,
				WarehouseID:     doc.FromWarehouseID,
				TransactionType: stock.TransactionTypeTransferOut,
				ReferenceType:   string(TypeTransfer),
				ReferenceID:     doc.ID,
				ReferenceNumber: doc.TransferNumber,
				QuantityChange:  -final,
				CreatedBy:       changedBy,
				Notes:           notes,
			},
			stock.RecordRequest{
				ProductID:       item.ProductID,
				WarehouseID:     doc.ToWarehouseID,
				TransactionType: stock.TransactionTypeTransferIn,
				ReferenceType:   string(TypeTransfer),
				ReferenceID:     doc.ID,
				ReferenceNumber: doc.TransferNumber,
				QuantityChange:  final,
				CreatedBy:       changedBy,
				Notes:           notes,
			},
		)
	}
	if len(reqs) == 0 {
		return nil
	}
	if _, err := s.ledger.RecordAll(ctx, reqs); err != nil {
		return fmt.Errorf("failed to book transfer stock: %w", err)
	}
	return nil
}
