// internal/domain/document/service.go
//
// The workflow service drives every document variant through its state
// machine. Stock side effects happen exactly once, at the variant's
// completing transition, and always before the new status is persisted:
// a failed completion hook leaves both the document and the stock
// projection untouched.
package document

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/numbering"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// Document number prefixes per variant
const (
	prefixReceipt    = "RCP"
	prefixDelivery   = "DEL"
	prefixTransfer   = "TRF"
	prefixAdjustment = "ADJ"
)

// Service handles workflow document business logic for all four variants
type Service struct {
	store     Store
	ledger    *stock.LedgerService
	numbering *numbering.Service
	config    *config.Config
	logger    *logrus.Logger
}

// NewService creates a new document workflow service
func NewService(store Store, ledger *stock.LedgerService, num *numbering.Service, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		store:     store,
		ledger:    ledger,
		numbering: num,
		config:    cfg,
		logger:    logger,
	}
}

// GetStatusHistory returns a document's append-only status audit trail
func (s *Service) GetStatusHistory(ctx context.Context, docType Type, docID uint) ([]StatusHistoryEntry, error) {
	return s.store.ListStatusHistory(ctx, docType, docID)
}

func (s *Service) scanner(docType Type) numbering.Scanner {
	return numbering.ScanFunc(func(ctx context.Context, numberPrefix string) (string, error) {
		return s.store.MaxDocumentNumber(ctx, docType, numberPrefix)
	})
}

// createWithNumber generates a document number and runs create, regenerating
// on uniqueness violations up to the configured attempt budget. The only
// error class that auto-retries.
func (s *Service) createWithNumber(ctx context.Context, docType Type, prefix string, create func(number string) error) error {
	attempts := s.config.Stock.NumberRetryAttempts
	var lastErr error
	for i := 0; i < attempts; i++ {
		number, err := s.numbering.Generate(ctx, prefix, s.scanner(docType))
		if err != nil {
			return err
		}
		err = create(number)
		if err == nil {
			return nil
		}
		if !apperrors.IsDuplicateNumber(err) {
			return err
		}
		lastErr = err
		s.logger.WithFields(logrus.Fields{
			"document_type": docType,
			"number":        number,
		}).Warn("Document number collision, regenerating")
	}
	return lastErr
}

func (s *Service) recordStatus(ctx context.Context, docType Type, docID uint, status Status, changedBy uint, at time.Time) error {
	return s.store.AppendStatusHistory(ctx, &StatusHistoryEntry{
		DocumentType: docType,
		DocumentID:   docID,
		Status:       status,
		ChangedBy:    changedBy,
		ChangedAt:    at,
	})
}

func normalizeListFilter(filter ListFilter) ListFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}
	return filter
}

func totalPages(total int64, perPage int) int {
	return int((total + int64(perPage) - 1) / int64(perPage))
}
