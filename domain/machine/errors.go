package machine

import (
	"errors"

	"servicedesk/domain/shared"
)

var (
	ErrOrganizationRequired = invalid("organization_id", "organization is required")
	ErrSerialNumberRequired = invalid("serial_number", "serial number is required")
	ErrSerialNumberTooLong  = invalid("serial_number", "serial number must be at most 64 characters")
	ErrModelTooLong         = invalid("model", "model must be at most 100 characters")

	ErrAlreadyRetired = errors.New("machine is already retired")
)

func invalid(field, message string) error {
	return &shared.DomainError{
		Err:     shared.ErrInvalidInput,
		Entity:  "machine",
		Field:   field,
		Message: message,
	}
}

// NewDuplicateSerialNumberError 序列号唯一约束冲突
func NewDuplicateSerialNumberError(serialNumber string) error {
	return shared.NewConflictError("machine", "serial_number", "machine with serial number already exists: "+serialNumber)
}
