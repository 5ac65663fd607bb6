// internal/domain/document/adjustment_service.go
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// CreateAdjustmentRequest represents an adjustment creation request. The
// system quantity is snapshotted from the live stock level, not supplied by
// the caller.
type CreateAdjustmentRequest struct {
	WarehouseID      uint    `json:"warehouse_id" binding:"required"`
	ProductID        uint    `json:"product_id" binding:"required"`
	AdjustmentType   string  `json:"adjustment_type"`
	PhysicalQuantity float64 `json:"physical_quantity"`
	Reason           string  `json:"reason" binding:"required"`
	Notes            string  `json:"notes"`
}

// AdjustmentListResponse wraps a paginated adjustment listing
type AdjustmentListResponse struct {
	Adjustments []Adjustment `json:"adjustments"`
	Total       int64        `json:"total"`
	Page        int          `json:"page"`
	PerPage     int          `json:"per_page"`
	TotalPages  int          `json:"total_pages"`
}

// CreateAdjustment creates an adjustment in draft. The current system
// quantity is frozen on the document at this moment, and the difference
// against the counted physical quantity is what approval will apply, even
// if stock moves in between.
func (s *Service) CreateAdjustment(ctx context.Context, req *CreateAdjustmentRequest, createdBy uint) (*Adjustment, error) {
	if req.PhysicalQuantity < 0 {
		return nil, fmt.Errorf("physical quantity cannot be negative")
	}

	systemQty := 0.0
	level, err := s.ledger.GetCurrentStock(ctx, req.ProductID, req.WarehouseID)
	switch {
	case err == nil:
		systemQty = level.Quantity
	case apperrors.IsNotFound(err):
		// no stock level yet, counts as zero
	default:
		return nil, fmt.Errorf("failed to read current stock: %w", err)
	}

	adjustmentType := req.AdjustmentType
	if adjustmentType == "" {
		adjustmentType = "physical_count"
	}

	now := time.Now().UTC()
	var adjustment *Adjustment
	err = s.createWithNumber(ctx, TypeAdjustment, prefixAdjustment, func(number string) error {
		doc := &Adjustment{
			AdjustmentNumber: number,
			WarehouseID:      req.WarehouseID,
			ProductID:        req.ProductID,
			AdjustmentType:   adjustmentType,
			Status:           StatusDraft,
			AdjustmentDate:   now,
			SystemQuantity:   systemQty,
			PhysicalQuantity: req.PhysicalQuantity,
			Difference:       req.PhysicalQuantity - systemQty,
			Reason:           req.Reason,
			Notes:            req.Notes,
			CreatedBy:        createdBy,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.store.CreateAdjustment(ctx, doc); err != nil {
			return err
		}
		adjustment = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create adjustment: %w", err)
	}

	if err := s.recordStatus(ctx, TypeAdjustment, adjustment.ID, StatusDraft, createdBy, now); err != nil {
		return nil, fmt.Errorf("failed to record adjustment status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"adjustment_number": adjustment.AdjustmentNumber,
		"product_id":        adjustment.ProductID,
		"warehouse_id":      adjustment.WarehouseID,
		"difference":        adjustment.Difference,
	}).Info("Adjustment created")

	return adjustment, nil
}

// GetAdjustment retrieves an adjustment by ID
func (s *Service) GetAdjustment(ctx context.Context, id uint) (*Adjustment, error) {
	return s.store.GetAdjustment(ctx, id)
}

// ListAdjustments retrieves adjustments with pagination
func (s *Service) ListAdjustments(ctx context.Context, filter ListFilter) (*AdjustmentListResponse, error) {
	filter = normalizeListFilter(filter)
	adjustments, total, err := s.store.ListAdjustments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	return &AdjustmentListResponse{
		Adjustments: adjustments,
		Total:       total,
		Page:        filter.Page,
		PerPage:     filter.PerPage,
		TotalPages:  totalPages(total, filter.PerPage),
	}, nil
}

// TransitionAdjustment moves an adjustment to a new status. Approval applies
// the frozen difference to stock before the status is saved and stamps the
// approver.
func (s *Service) TransitionAdjustment(ctx context.Context, id uint, newStatus Status, changedBy uint) (*Adjustment, error) {
	doc, err := s.store.GetAdjustment(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := MachineFor(TypeAdjustment)
	if err := machine.Validate(doc.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if newStatus == machine.CompletingStatus() {
		if err := s.applyAdjustment(ctx, doc, changedBy); err != nil {
			return nil, err
		}
		doc.ApprovedBy = &changedBy
		doc.ApprovedAt = &now
	}

	previous := doc.Status
	doc.Status = newStatus
	doc.UpdatedAt = now
	if err := s.store.SaveAdjustment(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}
	if err := s.recordStatus(ctx, TypeAdjustment, doc.ID, newStatus, changedBy, now); err != nil {
		return nil, fmt.Errorf("failed to record adjustment status: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"adjustment_number": doc.AdjustmentNumber,
		"from":              previous,
		"to":                newStatus,
	}).Info("Adjustment status changed")

	return doc, nil
}

func (s *Service) applyAdjustment(ctx context.Context, doc *Adjustment, changedBy uint) error {
	if doc.Difference == 0 {
		return nil
	}
	_, err := s.ledger.RecordTransaction(ctx, stock.RecordRequest{
		ProductID:       doc.ProductID,
		WarehouseID:     doc.WarehouseID,
		TransactionType: stock.TransactionTypeAdjustment,
		ReferenceType:   string(TypeAdjustment),
		ReferenceID:     doc.ID,
		ReferenceNumber: doc.AdjustmentNumber,
		QuantityChange:  doc.Difference,
		CreatedBy:       changedBy,
		Notes:           fmt.Sprintf("Adjustment %s approved: %s", doc.AdjustmentNumber, doc.Reason),
	})
	if err != nil {
		return fmt.Errorf("failed to apply adjustment: %w", err)
	}
	return nil
}
