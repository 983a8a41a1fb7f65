/*
Package mediator 请求分发器

每种请求类型恰好注册一个处理器，Send 是唯一入口。
分发时按构造顺序把行为（Behavior）从右向左组合成单个调用链：
第一个行为在最外层，处理器在最内层。
*/
package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"servicedesk/domain/shared"
)

var (
	// ErrHandlerNotFound 请求类型没有注册处理器（编程错误，归类为 Unexpected）
	ErrHandlerNotFound = fmt.Errorf("%w: no handler registered", shared.ErrUnexpected)

	// ErrDuplicateHandler 同一请求类型重复注册
	ErrDuplicateHandler = errors.New("handler already registered")

	// ErrResponseType 处理器返回值与 Send 期望的类型不符
	ErrResponseType = fmt.Errorf("%w: unexpected response type", shared.ErrUnexpected)
)

// Handler 处理一种请求并产生一种响应
type Handler[R any, T any] interface {
	Handle(ctx context.Context, req R) (T, error)
}

// HandlerFunc 允许普通函数作为 Handler
type HandlerFunc[R any, T any] func(ctx context.Context, req R) (T, error)

func (f HandlerFunc[R, T]) Handle(ctx context.Context, req R) (T, error) { return f(ctx, req) }

// Next 调用链中的下一个环节
type Next func(ctx context.Context) (any, error)

// Behavior 包裹处理器的管道环节
// 行为可以在调用 next 前后执行逻辑，也可以不调用 next 直接短路
type Behavior interface {
	Name() string
	Handle(ctx context.Context, req any, next Next) (any, error)
}

type registration struct {
	requestName  string
	responseType reflect.Type
	invoke       func(ctx context.Context, req any) (any, error)
}

// Mediator 请求分发器，注册完成后可并发使用
type Mediator struct {
	mu        sync.RWMutex
	handlers  map[reflect.Type]registration
	behaviors []Behavior
}

// New 以给定顺序创建分发器，第一个行为位于最外层
func New(behaviors ...Behavior) *Mediator {
	return &Mediator{
		handlers:  make(map[reflect.Type]registration),
		behaviors: append([]Behavior(nil), behaviors...),
	}
}

// Behaviors 返回行为名称，按执行顺序
func (m *Mediator) Behaviors() []string {
	names := make([]string, len(m.behaviors))
	for i, b := range m.behaviors {
		names[i] = b.Name()
	}
	return names
}

// Registered 返回已注册的请求名
func (m *Mediator) Registered() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.handlers))
	for _, reg := range m.handlers {
		names = append(names, reg.requestName)
	}
	return names
}

// Register 为请求类型 R 注册处理器，重复注册返回 ErrDuplicateHandler
func Register[R any, T any](m *Mediator, h Handler[R, T]) error {
	if h == nil {
		return fmt.Errorf("mediator: nil handler for %s", typeName(reflect.TypeFor[R]()))
	}
	key := reflect.TypeFor[R]()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, typeName(key))
	}
	m.handlers[key] = registration{
		requestName:  typeName(key),
		responseType: reflect.TypeFor[T](),
		invoke: func(ctx context.Context, req any) (any, error) {
			return h.Handle(ctx, req.(R))
		},
	}
	return nil
}

// MustRegister 注册失败时 panic，用于启动阶段的静态装配
func MustRegister[R any, T any](m *Mediator, h Handler[R, T]) {
	if err := Register(m, h); err != nil {
		panic(err)
	}
}

// Send 分发请求，经过全部行为后到达处理器
func Send[R any, T any](ctx context.Context, m *Mediator, req R) (T, error) {
	var zero T

	key := reflect.TypeFor[R]()
	m.mu.RLock()
	reg, ok := m.handlers[key]
	m.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrHandlerNotFound, typeName(key))
	}
	if want := reflect.TypeFor[T](); want != reg.responseType {
		return zero, fmt.Errorf("%w: %s handler returns %s, caller expects %s",
			ErrResponseType, reg.requestName, reg.responseType, want)
	}

	next := Next(func(ctx context.Context) (any, error) {
		return reg.invoke(ctx, req)
	})
	for i := len(m.behaviors) - 1; i >= 0; i-- {
		behavior, inner := m.behaviors[i], next
		next = func(ctx context.Context) (any, error) {
			return behavior.Handle(ctx, req, inner)
		}
	}

	resp, err := next(ctx)
	if err != nil {
		return zero, err
	}
	if resp == nil {
		return zero, nil
	}
	typed, ok := resp.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s produced %T", ErrResponseType, reg.requestName, resp)
	}
	return typed, nil
}

// RequestName 返回请求的具体类型名（指针会被解引用）
func RequestName(req any) string {
	if req == nil {
		return "<nil>"
	}
	return typeName(reflect.TypeOf(req))
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
