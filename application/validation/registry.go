package validation

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry 请求类型 -> 校验器，每种类型零个或一个
type Registry struct {
	mu         sync.RWMutex
	validators map[reflect.Type]Validator
}

func NewRegistry() *Registry {
	return &Registry{validators: make(map[reflect.Type]Validator)}
}

// Register 为请求类型 R 注册校验器
func Register[R any](reg *Registry, v Validator) error {
	key := reflect.TypeFor[R]()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.validators[key]; exists {
		return fmt.Errorf("validation: validator already registered for %s", key)
	}
	reg.validators[key] = v
	return nil
}

// MustRegister 注册失败时 panic
func MustRegister[R any](reg *Registry, v Validator) {
	if err := Register[R](reg, v); err != nil {
		panic(err)
	}
}

// Lookup 按请求的动态类型查找校验器
func (reg *Registry) Lookup(req any) (Validator, bool) {
	if req == nil {
		return nil, false
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	v, ok := reg.validators[reflect.TypeOf(req)]
	return v, ok
}

// Len 已注册数量
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.validators)
}
