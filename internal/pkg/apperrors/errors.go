// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// InsufficientStockError indicates a transaction would drive on-hand quantity
// below zero while negative stock is disallowed. Recoverable by the caller.
type InsufficientStockError struct {
	ProductID   uint
	WarehouseID uint
	Available   float64
	Requested   float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d in warehouse %d: available %.2f, requested %.2f",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

// InsufficientAvailableStockError indicates a reservation request exceeds
// available (on-hand minus reserved) quantity.
type InsufficientAvailableStockError struct {
	ProductID   uint
	WarehouseID uint
	Available   float64
	Requested   float64
}

func (e *InsufficientAvailableStockError) Error() string {
	return fmt.Sprintf("insufficient available stock for product %d in warehouse %d: available %.2f, requested %.2f",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

// InvalidTransitionError indicates a status change not listed in the document
// variant's transition table. Never retried automatically.
type InvalidTransitionError struct {
	DocumentType string
	From         string
	To           string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.DocumentType, e.From, e.To)
}

// NotFoundError indicates a referenced resource does not resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// DuplicateNumberError indicates a document number uniqueness violation.
// The only error in this taxonomy that triggers automatic regenerate-and-retry.
type DuplicateNumberError struct {
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("document number %s already exists", e.Number)
}

// ConcurrentUpdateConflictError indicates the stock level write lost its
// conflict-retry budget. The caller may retry the whole transition.
type ConcurrentUpdateConflictError struct {
	ProductID   uint
	WarehouseID uint
}

func (e *ConcurrentUpdateConflictError) Error() string {
	return fmt.Sprintf("concurrent update conflict on stock level for product %d in warehouse %d",
		e.ProductID, e.WarehouseID)
}

// Matching helpers used by handlers to map errors to HTTP status codes.

func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

func IsInsufficientAvailableStock(err error) bool {
	var target *InsufficientAvailableStockError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsDuplicateNumber(err error) bool {
	var target *DuplicateNumberError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConcurrentUpdateConflictError
	return errors.As(err, &target)
}
