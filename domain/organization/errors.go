package organization

import (
	"errors"

	"servicedesk/domain/shared"
)

var (
	ErrNameRequired             = invalid("name", "organization name is required")
	ErrNameTooLong              = invalid("name", "organization name must be at most 200 characters")
	ErrContactEmailRequired     = invalid("contact_email", "contact email is required")
	ErrSuspensionReasonRequired = invalid("reason", "suspension reason is required")

	ErrAlreadySuspended = errors.New("organization is already suspended")
)

func invalid(field, message string) error {
	return &shared.DomainError{
		Err:     shared.ErrInvalidInput,
		Entity:  "organization",
		Field:   field,
		Message: message,
	}
}

// NewDuplicateNameError 组织名唯一约束冲突
func NewDuplicateNameError(name string) error {
	return shared.NewConflictError("organization", "name", "organization already exists: "+name)
}
