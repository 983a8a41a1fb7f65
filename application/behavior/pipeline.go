package behavior

import (
	"servicedesk/application/mediator"
	"servicedesk/application/validation"
	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence/retry"

	"go.uber.org/zap"
)

// Options 管道装配参数
type Options struct {
	Logger     *zap.Logger
	Actors     shared.ActorProvider
	Recorder   Recorder
	Validators *validation.Registry
	UnitOfWork shared.UnitOfWorkFactory
	Policy     TransactionPolicy
	Retry      retry.Config
}

// Pipeline 按固定顺序返回行为：Logging → Validation → UnitOfWork
func Pipeline(opts Options) []mediator.Behavior {
	return []mediator.Behavior{
		NewLogging(opts.Logger, opts.Actors, opts.Recorder),
		NewValidation(opts.Validators),
		NewUnitOfWork(opts.UnitOfWork,
			WithTransactionPolicy(opts.Policy),
			WithRetry(opts.Retry),
			WithLogger(opts.Logger)),
	}
}
