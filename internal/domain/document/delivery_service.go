// internal/domain/document/delivery_service.go
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/stock"
)

// CreateDeliveryRequest represents a delivery creation request
type CreateDeliveryRequest struct {
	WarehouseID     uint                `json:"warehouse_id" binding:"required"`
	CustomerName    string              `json:"customer_name"`
	CustomerAddress string              `json:"customer_address"`
	ScheduledDate   *time.Time          `json:"scheduled_date"`
	Notes           string              `json:"notes"`
	Items           []DeliveryItemInput `json:"items" binding:"required,min=1,dive"`
}

// DeliveryItemInput is one ordered product line on a creation request
type DeliveryItemInput struct {
	ProductID       uint    `json:"product_id" binding:"required"`
	OrderedQuantity float64 `json:"ordered_quantity" binding:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price"`
	Notes           string  `json:"notes"`
}

// UpdateDeliveryItemsRequest records stage quantities on an in-progress
// delivery
type UpdateDeliveryItemsRequest struct {
	Items []DeliveryItemUpdate `json:"items" binding:"required,min=1,dive"`
}

// DeliveryItemUpdate updates the stage quantities of one delivery line,
// matched by product
type DeliveryItemUpdate struct {
	ProductID         uint     `json:"product_id" binding:"required"`
	PickedQuantity    *float64 `json:"picked_quantity"`
	PackedQuantity    *float64 `json:"packed_quantity"`
	ValidatedQuantity *float64 `json:"validated_quantity"`
}

// DeliveryListResponse wraps a paginated delivery listing
type DeliveryListResponse struct {
	Deliveries []Delivery `json:"deliveries"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
}

// CreateDelivery creates a delivery in draft with a generated number
func (s *Service) CreateDelivery(ctx context.Context, req *CreateDeliveryRequest, createdBy uint) (*Delivery, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("delivery requires at least one item")
	}
	for _, item := range req.Items {
		if item.OrderedQuantity <= 0 {
			return nil, fmt.Errorf("ordered quantity must be positive for product %d", item.ProductID)
		}
	}

	now := time.Now().UTC()
	var delivery *Delivery
	err := s.createWithNumber(ctx, TypeDelivery, prefixDelivery, func(number string) error {
		doc := &Delivery{
			DeliveryNumber:  number,
			WarehouseID:     req.WarehouseID,
			CustomerName:    req.CustomerName,
			CustomerAddress: req.CustomerAddress,
			Status:          StatusDraft,
			ScheduledDate:   req.ScheduledDate,
			Notes:           req.Notes,
			CreatedBy:       createdBy,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		for _, item := range req.Items {
			doc.Items = append(doc.Items, DeliveryItem{
				ProductID:       item.ProductID,
				OrderedQuantity: item.OrderedQuantity,
				UnitPrice:       item.UnitPrice,
				Notes:           item.Notes,
			})
		}
		if err := s.store.CreateDelivery(ctx, doc); err != nil {
			return err
		}
		delivery = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	if err := s.recordStatus(ctx, TypeDelivery, delivery.ID, StatusDraft, createdBy, now); err != nil {
		return nil, fmt.Errorf("failed to record delivery status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"delivery_number": delivery.DeliveryNumber,
		"warehouse_id":    delivery.WarehouseID,
		"items":           len(delivery.Items),
	}).Info("Delivery created")

	return delivery, nil
}

// GetDelivery retrieves a delivery by ID
func (s *Service) GetDelivery(ctx context.Context, id uint) (*Delivery, error) {
	return s.store.GetDelivery(ctx, id)
}

// ListDeliveries retrieves deliveries with pagination
func (s *Service) ListDeliveries(ctx context.Context, filter ListFilter) (*DeliveryListResponse, error) {
	filter = normalizeListFilter(filter)
	deliveries, total, err := s.store.ListDeliveries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return &DeliveryListResponse{
		Deliveries: deliveries,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages(total, filter.PerPage),
	}, nil
}

// UpdateDeliveryItems records picked, packed and validated quantities on a
// delivery that has not reached a terminal status
func (s *Service) UpdateDeliveryItems(ctx context.Context, id uint, req *UpdateDeliveryItemsRequest) (*Delivery, error) {
	doc, err := s.store.GetDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if MachineFor(TypeDelivery).IsTerminal(doc.Status) {
		return nil, fmt.Errorf("delivery %s is %s and can no longer be modified", doc.DeliveryNumber, doc.Status)
	}

	for _, update := range req.Items {
		found := false
		for i := range doc.Items {
			if doc.Items[i].ProductID != update.ProductID {
				continue
			}
			found = true
			if update.PickedQuantity != nil {
				if *update.PickedQuantity < 0 {
					return nil, fmt.Errorf("picked quantity cannot be negative for product %d", update.ProductID)
				}
				doc.Items[i].PickedQuantity = *update.PickedQuantity
			}
			if update.PackedQuantity != nil {
				if *update.PackedQuantity < 0 {
					return nil, fmt.Errorf("packed quantity cannot be negative for product %d", update.ProductID)
				}
				doc.Items[i].PackedQuantity = *update.PackedQuantity
			}
			if update.ValidatedQuantity != nil {
				if *update.ValidatedQuantity < 0 {
					return nil, fmt.Errorf("validated quantity cannot be negative for product %d", update.ProductID)
				}
				doc.Items[i].ValidatedQuantity = *update.ValidatedQuantity
			}
		}
		if !found {
			return nil, fmt.Errorf("product %d is not on delivery %s", update.ProductID, doc.DeliveryNumber)
		}
	}

	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDelivery(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update delivery items: %w", err)
	}
	return doc, nil
}

// TransitionDelivery moves a delivery to a new status. Transitioning to done
// deducts every final item quantity from stock before the status is saved,
// and fails the whole transition when any line would go negative.
func (s *Service) TransitionDelivery(ctx context.Context, id uint, newStatus Status, changedBy uint) (*Delivery, error) {
	doc, err := s.store.GetDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := MachineFor(TypeDelivery)
	if err := machine.Validate(doc.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if newStatus == machine.CompletingStatus() {
		if err := s.completeDelivery(ctx, doc, changedBy); err != nil {
			return nil, err
		}
		doc.DeliveredDate = &now
	}

	previous := doc.Status
	doc.Status = newStatus
	doc.UpdatedAt = now
	if err := s.store.SaveDelivery(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save delivery: %w", err)
	}
	if err := s.recordStatus(ctx, TypeDelivery, doc.ID, newStatus, changedBy, now); err != nil {
		return nil, fmt.Errorf("failed to record delivery status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"delivery_number": doc.DeliveryNumber,
		"from":            previous,
		"to":              newStatus,
	}).Info("Delivery status changed")

	return doc, nil
}

func (s *Service) completeDelivery(ctx context.Context, doc *Delivery, changedBy uint) error {
	var reqs []stock.RecordRequest
	for i := range doc.Items {
		item := &doc.Items[i]
		final := item.FinalQuantity()
		if final <= 0 {
			continue
		}
		reqs = append(reqs, stock.RecordRequest{
			ProductID:       item.ProductID,
			WarehouseID:     doc.WarehouseID,
			TransactionType: stock.TransactionTypeDelivery,
			ReferenceType:   string(TypeDelivery),
			ReferenceID:     doc.ID,
			ReferenceNumber: doc.DeliveryNumber,
			QuantityChange:  -final,
			CreatedBy:       changedBy,
			Notes:           fmt.Sprintf("Delivery %s completed", doc.DeliveryNumber),
		})
	}
	if len(reqs) == 0 {
		return nil
	}
	if _, err := s.ledger.RecordAll(ctx, reqs); err != nil {
		return fmt.Errorf("failed to deduct delivery stock: %w", err)
	}
	return nil
}
