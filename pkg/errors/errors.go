package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"servicedesk/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeTimeout        ErrorCode = "TIMEOUT"

	// 业务拒绝：请求合法，但业务规则不允许
	CodeBusinessRule ErrorCode = "BUSINESS_RULE_REJECTED"

	// 乐观锁冲突，客户端可以重试
	CodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode           `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrentModification:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeBusinessRule:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 常用错误构造函数

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

// BusinessRule 由 Result 的失败分支产生
func BusinessRule(message string) *AppError {
	return New(CodeBusinessRule, message)
}

// FromDomainError 按错误类别映射为应用错误；Unexpected 的消息不对外暴露
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeTimeout, "request timed out")
	}

	switch shared.KindOf(err) {
	case shared.KindValidationFailed:
		out := Wrap(err, CodeValidation, err.Error())
		var verr *shared.ValidationError
		if errors.As(err, &verr) {
			out.Message = "request validation failed"
			out.Fields = verr.Fields
		} else if field := domainField(err); field != "" {
			out.Fields = map[string][]string{field: {err.Error()}}
		}
		return out
	case shared.KindNotFound:
		return Wrap(err, CodeNotFound, err.Error())
	case shared.KindConflict:
		if errors.Is(err, shared.ErrConcurrentModification) {
			return Wrap(err, CodeConcurrentModification, err.Error())
		}
		return Wrap(err, CodeConflict, err.Error())
	case shared.KindForbidden:
		return Wrap(err, CodeForbidden, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}

func domainField(err error) string {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		return derr.Field
	}
	return ""
}
