/*
Package user 定义用户领域错误。
*/
package user

import (
	"errors"

	"servicedesk/domain/shared"
)

var (
	ErrInvalidName          = errors.New("name cannot be empty")
	ErrInvalidRole          = errors.New("role must be one of admin, technician, customer")
	ErrOrganizationRequired = errors.New("customer users must belong to an organization")
	ErrUserNotActive        = errors.New("user is not active")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidEmail         = errors.New("invalid email")
)

func NewInvalidNameError() error {
	return &userDomainError{
		sentinels: []error{ErrInvalidName, shared.ErrInvalidInput},
		field:     "name",
		message:   "name cannot be empty",
		stack:     shared.CaptureStack(3),
	}
}

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinels: []error{ErrInvalidEmail, shared.ErrInvalidInput},
		field:     "email",
		message:   "invalid email: " + email,
		stack:     shared.CaptureStack(3),
	}
}

func NewInvalidRoleError(role string) error {
	return &userDomainError{
		sentinels: []error{ErrInvalidRole, shared.ErrInvalidInput},
		field:     "role",
		message:   "invalid role: " + role,
		stack:     shared.CaptureStack(3),
	}
}

func NewOrganizationRequiredError() error {
	return &userDomainError{
		sentinels: []error{ErrOrganizationRequired, shared.ErrInvalidInput},
		field:     "organization_id",
		message:   ErrOrganizationRequired.Error(),
		stack:     shared.CaptureStack(3),
	}
}

func NewUserNotActiveError(userID string) error {
	return &userDomainError{
		sentinels: []error{ErrUserNotActive, shared.ErrConflict},
		message:   "user " + userID + " is not active",
		stack:     shared.CaptureStack(3),
	}
}

func NewEmailAlreadyExistsError(email string) error {
	return &userDomainError{
		sentinels: []error{ErrEmailAlreadyExists, shared.ErrConflict},
		field:     "email",
		message:   "email already exists: " + email,
		stack:     shared.CaptureStack(3),
	}
}

// userDomainError 同时匹配用户子域哨兵错误与共享哨兵错误
type userDomainError struct {
	sentinels []error
	field     string
	message   string
	stack     []uintptr
}

func (e *userDomainError) Error() string   { return e.message }
func (e *userDomainError) Unwrap() []error { return e.sentinels }
func (e *userDomainError) Field() string   { return e.field }
func (e *userDomainError) Stack() []string { return shared.FormatStack(e.stack) }
