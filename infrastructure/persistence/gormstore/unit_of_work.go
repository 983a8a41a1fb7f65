package gormstore

import (
	"context"
	"sync"

	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type uowState int

const (
	stateNew uowState = iota
	stateActive
	stateDone
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It owns one database transaction and collects domain events from tracked aggregates.
// Events are written to the outbox inside the transaction, and after a successful
// commit they are also handed to the optional in-process publisher.
type UnitOfWork struct {
	mu        sync.Mutex
	db        *gorm.DB
	outbox    *OutboxRepository
	publisher shared.EventPublisher
	logger    *zap.Logger

	state   uowState
	tx      *gorm.DB
	tracked []shared.AggregateRoot
}

func NewUnitOfWork(db *gorm.DB, publisher shared.EventPublisher) *UnitOfWork {
	return &UnitOfWork{
		db:        db,
		outbox:    NewOutboxRepository(db),
		publisher: publisher,
		logger:    logger.Get(),
	}
}

// Begin 开启事务并把事务与工作单元放入 context，仓储据此参与事务
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state != stateNew {
		return ctx, shared.ErrUnitOfWorkClosed
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.state = stateDone
		return ctx, dbError("unit_of_work", "begin", tx.Error)
	}
	u.tx = tx
	u.state = stateActive

	ctx = persistence.ContextWithTx(ctx, tx)
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

// SaveChanges 写出 outbox 后提交；任何失败都回滚整个事务
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	u.mu.Lock()
	switch u.state {
	case stateNew:
		u.mu.Unlock()
		return 0, shared.ErrUnitOfWorkNotStarted
	case stateDone:
		u.mu.Unlock()
		return 0, shared.ErrUnitOfWorkClosed
	}

	var events []shared.DomainEvent
	for _, aggregate := range u.tracked {
		events = append(events, aggregate.PullEvents()...)
	}
	affected := len(u.tracked)
	u.tracked = nil
	u.state = stateDone

	for _, event := range events {
		if err := u.outbox.saveEventWithTx(u.tx, event); err != nil {
			u.tx.Rollback()
			u.mu.Unlock()
			return 0, shared.NewUnexpectedError("unit_of_work", "failed to write outbox", err)
		}
	}

	if err := u.tx.Commit().Error; err != nil {
		u.mu.Unlock()
		return 0, dbError("unit_of_work", "commit", err)
	}
	u.mu.Unlock()

	u.publish(ctx, events)
	return affected, nil
}

// publish 进程内发布失败只记录日志，outbox 中的副本仍会由 worker 发出
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

// Rollback 可重复调用；已提交后为空操作
func (u *UnitOfWork) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, aggregate := range u.tracked {
		aggregate.PullEvents()
	}
	u.tracked = nil

	if u.state != stateActive {
		u.state = stateDone
		return nil
	}
	u.state = stateDone
	if err := u.tx.Rollback().Error; err != nil {
		return dbError("unit_of_work", "rollback", err)
	}
	return nil
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
