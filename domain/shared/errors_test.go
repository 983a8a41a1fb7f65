package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"not found", NewNotFoundError("machine", "m-1"), KindNotFound},
		{"conflict", NewConflictError("machine", "serial_number", "duplicate"), KindConflict},
		{"concurrent modification is a conflict", NewConcurrentModificationError("ticket", "t-1"), KindConflict},
		{"forbidden", NewForbiddenError("ticket", "customers cannot assign"), KindForbidden},
		{"invalid input", NewInvalidInputError("ticket", "title", "required"), KindValidationFailed},
		{"validation error", &ValidationError{Request: "X", Fields: map[string][]string{"a": {"b"}}}, KindValidationFailed},
		{"wrapped", fmt.Errorf("load: %w", NewNotFoundError("user", "u")), KindNotFound},
		{"unexpected wins over cause", NewUnexpectedError("ticket", "corrupt row", ErrNotFound), KindUnexpected},
		{"plain", errors.New("boom"), KindUnexpected},
		{"cancelled", context.Canceled, KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestDomainError_CapturesStack(t *testing.T) {
	err := NewNotFoundError("ticket", "TICK-2025-00001")

	var stacker Stacker
	require.ErrorAs(t, err, &stacker)
	stack := stacker.Stack()
	require.NotEmpty(t, stack)
	assert.Contains(t, stack[0], "TestDomainError_CapturesStack")
	assert.Equal(t, "ticket not found: TICK-2025-00001", err.Error())
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := &ValidationError{
		Request: "RegisterMachineCommand",
		Fields: map[string][]string{
			"serial_number": {"is required"},
			"model":         {"too long", "contains tabs"},
		},
	}

	assert.Equal(t,
		"validation failed for RegisterMachineCommand: model: too long, contains tabs; serial_number: is required",
		err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}
