/*
Package ticket - 工单领域错误定义

状态迁移被拒绝属于预期内的业务分支，应用层把 ErrInvalidStatusTransition
转换为 Result 失败；其余错误按 shared 的哨兵错误归类。
*/
package ticket

import (
	"errors"
	"fmt"

	"servicedesk/domain/shared"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")

	ErrNumberRequired       = invalid("number", "ticket number is required")
	ErrTitleRequired        = invalid("title", "title is required")
	ErrOrganizationRequired = invalid("organization_id", "organization is required")
	ErrInvalidPriority      = invalid("priority", "priority must be one of LOW, MEDIUM, HIGH, URGENT")
	ErrInvalidStatus        = invalid("status", "status must be one of OPEN, IN_PROGRESS, RESOLVED, CLOSED")
	ErrAssigneeRequired     = invalid("assignee_id", "assignee is required")

	// ErrInvalidStatusTransition 不允许的状态迁移
	ErrInvalidStatusTransition = errors.New("invalid ticket status transition")

	// ErrTicketClosed 已关闭工单不能再修改
	ErrTicketClosed = errors.New("ticket is closed")
)

func invalid(field, message string) error {
	return &shared.DomainError{
		Err:     shared.ErrInvalidInput,
		Entity:  "ticket",
		Field:   field,
		Message: message,
	}
}

// NewTicketNotFoundError 创建工单未找到错误（带堆栈）
func NewTicketNotFoundError(number string) error {
	return &ticketDomainError{
		sentinels: []error{ErrTicketNotFound, shared.ErrNotFound},
		message:   "ticket not found: " + number,
		stack:     shared.CaptureStack(3),
	}
}

// NewInvalidStatusTransitionError 创建状态迁移错误
func NewInvalidStatusTransitionError(from, to Status) error {
	return &ticketDomainError{
		sentinels: []error{ErrInvalidStatusTransition},
		message:   fmt.Sprintf("cannot transition ticket from %s to %s", from, to),
		stack:     shared.CaptureStack(3),
	}
}

// NewDuplicateNumberError 工单号唯一约束冲突
func NewDuplicateNumberError(number string) error {
	return shared.NewConflictError("ticket", "number", "ticket number already exists: "+number)
}

type ticketDomainError struct {
	sentinels []error
	message   string
	stack     []uintptr
}

func (e *ticketDomainError) Error() string   { return e.message }
func (e *ticketDomainError) Unwrap() []error { return e.sentinels }
func (e *ticketDomainError) Stack() []string { return shared.FormatStack(e.stack) }
