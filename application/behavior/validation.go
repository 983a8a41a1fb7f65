package behavior

import (
	"context"

	"servicedesk/application/mediator"
	"servicedesk/application/validation"
)

// Validation 查找请求类型对应的校验器；没有校验器直接放行，
// 有任何失败时返回 *shared.ValidationError 且不调用下游
type Validation struct {
	registry *validation.Registry
}

func NewValidation(registry *validation.Registry) *Validation {
	if registry == nil {
		registry = validation.NewRegistry()
	}
	return &Validation{registry: registry}
}

func (b *Validation) Name() string { return "validation" }

func (b *Validation) Handle(ctx context.Context, req any, next mediator.Next) (any, error) {
	v, ok := b.registry.Lookup(req)
	if !ok {
		return next(ctx)
	}
	if errs := v.Validate(ctx, req); !errs.Empty() {
		return nil, errs.AsError(mediator.RequestName(req))
	}
	return next(ctx)
}
