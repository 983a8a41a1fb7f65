/*
Package validation 请求校验

校验器收集所有字段上的所有失败，而不是遇到第一个就返回。
声明式规则写在请求结构体的 validate 标签上（go-playground/validator），
跨字段或依赖领域值对象的规则用 Rule[R] 补充。
*/
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"servicedesk/domain/shared"

	"github.com/go-playground/validator/v10"
)

// Errors 字段 -> 失败消息列表
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Empty() bool { return len(e) == 0 }

// Fields 返回排序后的字段名
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AsError 没有失败时返回 nil
func (e Errors) AsError(requestName string) error {
	if e.Empty() {
		return nil
	}
	return &shared.ValidationError{Request: requestName, Fields: e}
}

// Validator 校验一个请求，返回全部失败
type Validator interface {
	Validate(ctx context.Context, req any) Errors
}

// Rule 针对具体请求类型的校验规则，把失败写入 errs
type Rule[R any] func(ctx context.Context, req R, errs Errors)

// Rules 结构体标签校验 + 自定义规则
type Rules[R any] struct {
	rules []Rule[R]
}

// For 创建请求类型 R 的校验器
func For[R any](rules ...Rule[R]) *Rules[R] {
	return &Rules[R]{rules: rules}
}

func (v *Rules[R]) Validate(ctx context.Context, req any) Errors {
	errs := Errors{}
	typed, ok := req.(R)
	if !ok {
		errs.Add("request", fmt.Sprintf("expected %T, got %T", *new(R), req))
		return errs
	}

	validateStruct(typed, errs)
	for _, rule := range v.rules {
		rule(ctx, typed, errs)
	}
	return errs
}

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// engine 返回共享的 validator 实例，字段名取自 json 标签
func engine() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		structValidator = v
	})
	return structValidator
}

func validateStruct(req any, errs Errors) {
	value := reflect.ValueOf(req)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			errs.Add("request", "request is required")
			return
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return
	}

	err := engine().Struct(value.Interface())
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("request", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), describe(fe))
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		return "must be a valid UUID"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// ============================================================================
// 常用规则
// ============================================================================

// NotBlank 去除空白后不能为空
func NotBlank[R any](field string, get func(R) string) Rule[R] {
	return func(_ context.Context, req R, errs Errors) {
		if strings.TrimSpace(get(req)) == "" {
			errs.Add(field, "must not be blank")
		}
	}
}

// Must 谓词不成立时记录 message
func Must[R any](field, message string, predicate func(R) bool) Rule[R] {
	return func(_ context.Context, req R, errs Errors) {
		if !predicate(req) {
			errs.Add(field, message)
		}
	}
}

// ValidEmail 使用领域 Email 值对象的规则校验，空值交给 required 处理
func ValidEmail[R any](field string, get func(R) string) Rule[R] {
	return func(_ context.Context, req R, errs Errors) {
		raw := get(req)
		if strings.TrimSpace(raw) == "" {
			return
		}
		if _, ok := shared.TryParseEmail(raw); !ok {
			errs.Add(field, "must be a valid email address")
		}
	}
}
