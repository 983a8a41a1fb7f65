/*
Package shared - 领域层共享错误定义

设计原则:
1. 领域层定义哨兵错误(sentinel errors)，用于 errors.Is() 类型安全判断
2. DomainError 在创建时捕获堆栈，但延迟格式化（按需打印）
3. 领域错误不包含 HTTP 状态码等传输层概念，由调用方通过 KindOf 翻译
4. 预期内的业务拒绝不走错误通道，使用 Result[T]

堆栈捕获策略:
- 捕获时机：错误创建时（构造函数内）
- 格式化时机：日志打印时（Stack() 方法）
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ============================================================================
// 哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 资源冲突（唯一约束、业务约束冲突）
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput 无效输入（参数校验失败）
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden 禁止访问（已认证但无权限）
	ErrForbidden = errors.New("forbidden")

	// ErrUnexpected 基础设施或编程错误
	ErrUnexpected = errors.New("unexpected error")

	// ErrConcurrentModification 乐观锁冲突，同时也是 ErrConflict
	ErrConcurrentModification = fmt.Errorf("%w: concurrent modification", ErrConflict)

	// ErrUnitOfWorkClosed 工作单元已提交或回滚后被再次使用
	ErrUnitOfWorkClosed = errors.New("unit of work already completed")

	// ErrUnitOfWorkNotStarted 工作单元尚未 Begin
	ErrUnitOfWorkNotStarted = errors.New("unit of work not started")
)

// ============================================================================
// 错误分类 (Error Kind)
// ============================================================================

// ErrorKind 错误类别，调用方（如 HTTP 层）据此生成问题描述
type ErrorKind string

const (
	KindValidationFailed     ErrorKind = "validation_failed"
	KindNotFound             ErrorKind = "not_found"
	KindConflict             ErrorKind = "conflict"
	KindForbidden            ErrorKind = "forbidden"
	KindBusinessRuleRejected ErrorKind = "business_rule_rejected"
	KindUnexpected           ErrorKind = "unexpected"
)

// KindOf 将错误归类；nil 返回空字符串
// KindBusinessRuleRejected 不会由错误产生，它只出现在 Result 的失败分支
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnexpected):
		return KindUnexpected
	case errors.Is(err, ErrInvalidInput):
		return KindValidationFailed
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindUnexpected
	}
}

// ============================================================================
// 领域错误结构体 (Domain Error)
// ============================================================================

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误，用于 errors.Is() 判断
	Err error

	// Entity 发生错误的实体名称（如 "machine", "ticket"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：发生错误的字段名
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack 按需格式化堆栈（只在打印日志时调用）
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack 捕获当前调用栈（导出供子领域包使用）
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧为字符串切片，过滤 runtime 内部帧，最多 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// NewNotFoundError 创建"未找到"领域错误
func NewNotFoundError(entity, id string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found: " + id,
		stack:   CaptureStack(3),
	}
}

// NewConflictError 创建"冲突"领域错误
func NewConflictError(entity, field, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Field:   field,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建乐观锁冲突错误
func NewConcurrentModificationError(entity, id string) error {
	return &DomainError{
		Err:     ErrConcurrentModification,
		Entity:  entity,
		Message: entity + " " + id + " was modified by another transaction, please retry",
		stack:   CaptureStack(3),
	}
}

// NewForbiddenError 创建"禁止访问"领域错误
func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewInvalidInputError 创建单字段校验失败错误
// kinds 为子领域更细的哨兵错误，结果同时匹配它们与 ErrInvalidInput
func NewInvalidInputError(entity, field, reason string, kinds ...error) error {
	err := ErrInvalidInput
	if len(kinds) > 0 {
		err = errors.Join(append(kinds, ErrInvalidInput)...)
	}
	return &DomainError{
		Err:     err,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewUnexpectedError 基础设施故障或数据损坏，cause 可为 nil
func NewUnexpectedError(entity, message string, cause error) error {
	err := ErrUnexpected
	if cause != nil {
		err = errors.Join(ErrUnexpected, cause)
	}
	return &DomainError{
		Err:     err,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// ============================================================================
// 校验错误 (Validation Error)
// ============================================================================

// ValidationError 请求校验失败，字段 -> 消息列表
type ValidationError struct {
	Request string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Request, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Stacker 可提供堆栈的错误接口，API 层与日志行为统一提取堆栈
type Stacker interface {
	Stack() []string
}
