// internal/domain/document/machine_test.go
package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name    string
		docType Type
		from    Status
		to      Status
		allowed bool
	}{
		{"receipt draft to waiting", TypeReceipt, StatusDraft, StatusWaiting, true},
		{"receipt waiting to ready", TypeReceipt, StatusWaiting, StatusReady, true},
		{"receipt ready to done", TypeReceipt, StatusReady, StatusDone, true},
		{"receipt draft to done skips stages", TypeReceipt, StatusDraft, StatusDone, false},
		{"receipt waiting to draft goes backwards", TypeReceipt, StatusWaiting, StatusDraft, false},
		{"receipt draft to cancelled", TypeReceipt, StatusDraft, StatusCancelled, true},
		{"receipt ready to cancelled", TypeReceipt, StatusReady, StatusCancelled, true},
		{"receipt done to cancelled", TypeReceipt, StatusDone, StatusCancelled, false},

		{"delivery draft to pick", TypeDelivery, StatusDraft, StatusPick, true},
		{"delivery pick to pack", TypeDelivery, StatusPick, StatusPack, true},
		{"delivery pack to validate", TypeDelivery, StatusPack, StatusValidate, true},
		{"delivery validate to done", TypeDelivery, StatusValidate, StatusDone, true},
		{"delivery pick to validate skips pack", TypeDelivery, StatusPick, StatusValidate, false},
		{"delivery validate to cancelled", TypeDelivery, StatusValidate, StatusCancelled, true},
		{"delivery done to cancelled", TypeDelivery, StatusDone, StatusCancelled, false},

		{"transfer draft to in_transit", TypeTransfer, StatusDraft, StatusInTransit, true},
		{"transfer in_transit to completed", TypeTransfer, StatusInTransit, StatusCompleted, true},
		{"transfer draft to completed skips transit", TypeTransfer, StatusDraft, StatusCompleted, false},
		{"transfer in_transit to cancelled", TypeTransfer, StatusInTransit, StatusCancelled, true},
		{"transfer completed to cancelled", TypeTransfer, StatusCompleted, StatusCancelled, false},

		{"adjustment draft to approved", TypeAdjustment, StatusDraft, StatusApproved, true},
		{"adjustment draft to cancelled", TypeAdjustment, StatusDraft, StatusCancelled, true},
		{"adjustment approved to draft", TypeAdjustment, StatusApproved, StatusDraft, false},
		{"adjustment approved to cancelled", TypeAdjustment, StatusApproved, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MachineFor(tt.docType)
			require.NotNil(t, m)
			assert.Equal(t, tt.allowed, m.CanTransitionTo(tt.from, tt.to))

			err := m.Validate(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.IsInvalidTransition(err))
			}
		})
	}
}

func TestMachineIsTotalOverUnknownStatuses(t *testing.T) {
	m := MachineFor(TypeReceipt)
	assert.False(t, m.CanTransitionTo(Status("bogus"), StatusDone))
	assert.False(t, m.CanTransitionTo(StatusDraft, Status("bogus")))
	assert.True(t, apperrors.IsInvalidTransition(m.Validate(StatusCancelled, StatusDraft)))
}

func TestMachineTerminalStatuses(t *testing.T) {
	for _, docType := range []Type{TypeReceipt, TypeDelivery, TypeTransfer, TypeAdjustment} {
		m := MachineFor(docType)
		require.NotNil(t, m, docType)
		assert.True(t, m.IsTerminal(StatusCancelled), docType)
		assert.True(t, m.IsTerminal(m.CompletingStatus()), docType)
		assert.False(t, m.IsTerminal(StatusDraft), docType)
	}
}

func TestMachineCompletingStatus(t *testing.T) {
	assert.Equal(t, StatusDone, MachineFor(TypeReceipt).CompletingStatus())
	assert.Equal(t, StatusDone, MachineFor(TypeDelivery).CompletingStatus())
	assert.Equal(t, StatusCompleted, MachineFor(TypeTransfer).CompletingStatus())
	assert.Equal(t, StatusApproved, MachineFor(TypeAdjustment).CompletingStatus())
}
