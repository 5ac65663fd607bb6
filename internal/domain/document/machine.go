// internal/domain/document/machine.go
package document

import (
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// Machine enforces one document variant's finite-state machine. The
// transition table is the sole gate: a status change not listed there is
// rejected, without exception.
type Machine struct {
	docType     Type
	transitions map[Status][]Status
	completing  Status
}

var machines = map[Type]*Machine{
	TypeReceipt: {
		docType: TypeReceipt,
		transitions: map[Status][]Status{
			StatusDraft:   {StatusWaiting, StatusCancelled},
			StatusWaiting: {StatusReady, StatusCancelled},
			StatusReady:   {StatusDone, StatusCancelled},
		},
		completing: StatusDone,
	},
	TypeDelivery: {
		docType: TypeDelivery,
		transitions: map[Status][]Status{
			StatusDraft:    {StatusPick, StatusCancelled},
			StatusPick:     {StatusPack, StatusCancelled},
			StatusPack:     {StatusValidate, StatusCancelled},
			StatusValidate: {StatusDone, StatusCancelled},
		},
		completing: StatusDone,
	},
	TypeTransfer: {
		docType: TypeTransfer,
		transitions: map[Status][]Status{
			StatusDraft:     {StatusInTransit, StatusCancelled},
			StatusInTransit: {StatusCompleted, StatusCancelled},
		},
		completing: StatusCompleted,
	},
	TypeAdjustment: {
		docType: TypeAdjustment,
		transitions: map[Status][]Status{
			StatusDraft: {StatusApproved, StatusCancelled},
		},
		completing: StatusApproved,
	},
}

// MachineFor returns the state machine for a document type
func MachineFor(docType Type) *Machine {
	return machines[docType]
}

// CanTransitionTo reports whether the variant allows moving from one status
// to another. Total over all inputs; terminal statuses allow nothing.
func (m *Machine) CanTransitionTo(from, to Status) bool {
	for _, allowed := range m.transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Validate returns an InvalidTransitionError when the transition is not
// listed in the variant's table
func (m *Machine) Validate(from, to Status) error {
	if !m.CanTransitionTo(from, to) {
		return &apperrors.InvalidTransitionError{
			DocumentType: string(m.docType),
			From:         string(from),
			To:           string(to),
		}
	}
	return nil
}

// CompletingStatus is the transition target that triggers stock side effects
func (m *Machine) CompletingStatus() Status {
	return m.completing
}

// IsTerminal reports whether a status admits no further transitions
func (m *Machine) IsTerminal(status Status) bool {
	return len(m.transitions[status]) == 0
}
