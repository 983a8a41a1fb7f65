package memory

import (
	"context"
	"sync"

	"servicedesk/domain/shared"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
)

type uowState int

const (
	stateNew uowState = iota
	stateActive
	stateFailed
	stateDone
)

// UnitOfWork 内存工作单元：暂存写操作，提交时一次性应用，然后把事件交给发布器
type UnitOfWork struct {
	mu        sync.Mutex
	store     *Store
	publisher shared.EventPublisher
	logger    *zap.Logger

	state   uowState
	ops     []op
	tracked []shared.AggregateRoot
}

func NewUnitOfWork(store *Store, publisher shared.EventPublisher) *UnitOfWork {
	return &UnitOfWork{store: store, publisher: publisher, logger: logger.Get()}
}

// NewUnitOfWorkFactory 每个请求创建一个新的工作单元
func NewUnitOfWorkFactory(store *Store, publisher shared.EventPublisher) shared.UnitOfWorkFactory {
	return shared.UnitOfWorkFactoryFunc(func() shared.UnitOfWork {
		return NewUnitOfWork(store, publisher)
	})
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state != stateNew {
		return ctx, shared.ErrUnitOfWorkClosed
	}
	u.state = stateActive
	return shared.ContextWithUnitOfWork(ctx, u), nil
}

func (u *UnitOfWork) Track(aggregate shared.AggregateRoot) {
	if aggregate == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state != stateActive {
		return
	}
	for _, existing := range u.tracked {
		if existing == aggregate {
			return
		}
	}
	u.tracked = append(u.tracked, aggregate)
}

func (u *UnitOfWork) stage(o op) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch u.state {
	case stateNew:
		return shared.ErrUnitOfWorkNotStarted
	case stateActive:
		u.ops = append(u.ops, o)
		return nil
	default:
		return shared.ErrUnitOfWorkClosed
	}
}

func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	u.mu.Lock()
	switch u.state {
	case stateNew:
		u.mu.Unlock()
		return 0, shared.ErrUnitOfWorkNotStarted
	case stateFailed, stateDone:
		u.mu.Unlock()
		return 0, shared.ErrUnitOfWorkClosed
	}

	affected, err := u.store.apply(u.ops)
	if err != nil {
		u.state = stateFailed
		u.mu.Unlock()
		return 0, err
	}

	u.state = stateDone
	var events []shared.DomainEvent
	for _, aggregate := range u.tracked {
		events = append(events, aggregate.PullEvents()...)
	}
	u.ops, u.tracked = nil, nil
	u.mu.Unlock()

	u.publish(ctx, events)
	return affected, nil
}

// publish 发布失败只记录日志：数据已经提交
func (u *UnitOfWork) publish(ctx context.Context, events []shared.DomainEvent) {
	if u.publisher == nil {
		return
	}
	for _, event := range events {
		if err := u.publisher.Publish(event); err != nil {
			logger.FromContext(ctx, u.logger).Warn("Failed to publish domain event",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
				zap.Error(err))
		}
	}
}

func (u *UnitOfWork) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == stateDone {
		return nil
	}
	for _, aggregate := range u.tracked {
		aggregate.PullEvents()
	}
	u.state = stateDone
	u.ops, u.tracked = nil, nil
	return nil
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
