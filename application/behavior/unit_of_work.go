package behavior

import (
	"context"
	"strings"
	"time"

	"servicedesk/application/mediator"
	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence/retry"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
)

// TransactionPolicy 判断请求是否需要事务
type TransactionPolicy func(req any) bool

// CommandSuffix 默认策略：请求类型名以 Command 结尾即需要事务
func CommandSuffix(req any) bool {
	return strings.HasSuffix(mediator.RequestName(req), "Command")
}

// UnitOfWork 为需要事务的请求开启工作单元，处理器成功后提交，否则回滚。
// 可重试的失败（乐观锁冲突、死锁、锁等待超时）会用新的工作单元重新执行处理器。
type UnitOfWork struct {
	factory shared.UnitOfWorkFactory
	policy  TransactionPolicy
	retry   retry.Config
	logger  *zap.Logger
}

type UnitOfWorkOption func(*UnitOfWork)

// WithTransactionPolicy 替换默认的命名约定
func WithTransactionPolicy(policy TransactionPolicy) UnitOfWorkOption {
	return func(b *UnitOfWork) {
		if policy != nil {
			b.policy = policy
		}
	}
}

// WithRetry 设置重试策略，默认不重试
func WithRetry(cfg retry.Config) UnitOfWorkOption {
	return func(b *UnitOfWork) { b.retry = cfg }
}

func WithLogger(log *zap.Logger) UnitOfWorkOption {
	return func(b *UnitOfWork) {
		if log != nil {
			b.logger = log
		}
	}
}

func NewUnitOfWork(factory shared.UnitOfWorkFactory, opts ...UnitOfWorkOption) *UnitOfWork {
	b := &UnitOfWork{
		factory: factory,
		policy:  CommandSuffix,
		retry:   retry.Config{Enabled: false},
		logger:  logger.Get(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *UnitOfWork) Name() string { return "unit_of_work" }

func (b *UnitOfWork) Handle(ctx context.Context, req any, next mediator.Next) (any, error) {
	if !b.policy(req) {
		return next(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := mediator.RequestName(req)
	cfg := b.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.FromContext(ctx, b.logger).Warn("Retrying unit of work",
			zap.String("request", name),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	}

	var resp any
	err := retry.ExecuteWithRetry(ctx, cfg, func(ctx context.Context) error {
		r, err := b.runOnce(ctx, name, next)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// runOnce 一次完整的 Begin → handler → SaveChanges/Rollback
func (b *UnitOfWork) runOnce(ctx context.Context, name string, next mediator.Next) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uow := b.factory.New()
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	txCtx = shared.ContextWithUnitOfWork(txCtx, uow)

	// 处理器 panic 时同样回滚，释放事务连接并丢弃事件，然后继续向上传播
	finished := false
	defer func() {
		if finished {
			return
		}
		if recovered := recover(); recovered != nil {
			b.rollback(ctx, uow, name)
			panic(recovered)
		}
	}()

	resp, err := next(txCtx)
	finished = true
	if err != nil {
		b.rollback(ctx, uow, name)
		return nil, err
	}

	// 处理器完成后请求已被取消：不提交
	if err := ctx.Err(); err != nil {
		b.rollback(ctx, uow, name)
		return nil, err
	}

	affected, err := uow.SaveChanges(txCtx)
	if err != nil {
		b.rollback(ctx, uow, name)
		return nil, err
	}

	logger.FromContext(ctx, b.logger).Debug("Unit of work committed",
		zap.String("request", name),
		zap.Int("affected", affected))
	return resp, nil
}

// rollback 在取消的 context 上也必须执行，回滚失败只记录日志，不覆盖原始错误
func (b *UnitOfWork) rollback(ctx context.Context, uow shared.UnitOfWork, name string) {
	if err := uow.Rollback(context.WithoutCancel(ctx)); err != nil {
		logger.FromContext(ctx, b.logger).Error("Unit of work rollback failed",
			zap.String("request", name),
			zap.Error(err))
	}
}
