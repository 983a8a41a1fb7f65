package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicedesk/infrastructure/persistence/gormstore/po"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
)

type OutboxPublisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

// LoggingOutboxPublisher 默认发布器：只写日志
type LoggingOutboxPublisher struct{}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, eventType, payload string) error {
	logger.FromContext(ctx, logger.Get()).Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.String("payload", payload),
	)
	return nil
}

// OutboxObserver 接收每条事件的处理结果（PUBLISHED、PENDING 或 FAILED）
type OutboxObserver interface {
	ObserveOutbox(eventType string, status string)
}

type WorkerOptions struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	Retention    time.Duration // 0 表示不清理
	Observer     OutboxObserver
}

type OutboxWorker struct {
	repository *OutboxRepository
	publisher  OutboxPublisher
	opts       WorkerOptions
	logger     *zap.Logger
}

func NewOutboxWorker(repository *OutboxRepository, publisher OutboxPublisher, opts WorkerOptions) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if opts.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if opts.MaxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository: repository,
		publisher:  publisher,
		opts:       opts,
		logger:     logger.Get().Named("outbox"),
	}, nil
}

// Run 轮询直到 ctx 取消；取消时返回 nil
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	w.logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.opts.PollInterval),
		zap.Int("batch_size", w.opts.BatchSize),
		zap.Int("max_retries", w.opts.MaxRetries),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Outbox worker stopped")
			return nil
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("Outbox batch processing failed", zap.Error(err))
			}
			w.purge(ctx)
		}
	}
}

// ProcessBatch 处理一批待发布事件，返回成功发布的数量
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repository.GetPendingEvents(ctx, w.opts.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}

		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			w.logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, event.EventType, string(event.Payload)); err != nil {
			status, failErr := w.repository.MarkEventFailed(ctx, event.ID, w.opts.MaxRetries, err)
			if failErr != nil {
				w.logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
				continue
			}
			w.logger.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			w.observe(event.EventType, status)
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			w.logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		published++
		w.observe(event.EventType, po.EventStatusPublished)
	}

	return published, nil
}

func (w *OutboxWorker) purge(ctx context.Context) {
	if w.opts.Retention <= 0 {
		return
	}
	removed, err := w.repository.PurgePublished(ctx, time.Now().Add(-w.opts.Retention))
	if err != nil {
		w.logger.Warn("Failed to purge published outbox events", zap.Error(err))
		return
	}
	if removed > 0 {
		w.logger.Debug("Purged published outbox events", zap.Int64("removed", removed))
	}
}

func (w *OutboxWorker) observe(eventType string, status po.EventStatus) {
	if w.opts.Observer != nil {
		w.opts.Observer.ObserveOutbox(eventType, string(status))
	}
}
