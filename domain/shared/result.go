package shared

// Result 预期内业务规则结果：要么成功携带值，要么失败携带消息，二者互斥。
// 不存在、冲突、无权限等异常情况走 error 通道，不使用 Result。
type Result[T any] struct {
	value   T
	message string
	ok      bool
}

// Success 创建成功结果
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure 创建业务拒绝结果
func Failure[T any](message string) Result[T] {
	if message == "" {
		message = "business rule rejected"
	}
	return Result[T]{message: message}
}

func (r Result[T]) IsSuccess() bool { return r.ok }
func (r Result[T]) IsFailure() bool { return !r.ok }

// Value 读取成功值；对失败结果调用属于编程错误，直接 panic
func (r Result[T]) Value() T {
	if !r.ok {
		panic("shared: Value called on a failed Result: " + r.message)
	}
	return r.value
}

// Message 读取失败消息；对成功结果调用属于编程错误，直接 panic
// Result 不实现 error，失败不能被误当作错误传播
func (r Result[T]) Message() string {
	if r.ok {
		panic("shared: Message called on a successful Result")
	}
	return r.message
}

// ValueOr 失败时返回给定的默认值
func (r Result[T]) ValueOr(fallback T) T {
	if !r.ok {
		return fallback
	}
	return r.value
}

// Rejection 让调用方无需知道 T 即可识别业务拒绝
type Rejection interface {
	IsFailure() bool
	Message() string
}

var _ Rejection = Result[struct{}]{}
