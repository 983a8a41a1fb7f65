/*
Package behavior 请求管道的各个环节

固定顺序：Logging → Validation → UnitOfWork → Handler。
日志在最外层，因此被校验拒绝、被回滚的尝试同样会被记录。
*/
package behavior

import (
	"context"
	"errors"
	"time"

	"servicedesk/application/mediator"
	"servicedesk/domain/shared"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
)

// Recorder 接收每次分发的结果，kind 为空表示成功
type Recorder interface {
	Observe(request string, kind shared.ErrorKind, elapsed time.Duration)
}

// Logging 记录请求的进入、耗时与结果，原样返回下游的错误
type Logging struct {
	logger   *zap.Logger
	actors   shared.ActorProvider
	recorder Recorder
}

func NewLogging(log *zap.Logger, actors shared.ActorProvider, recorder Recorder) *Logging {
	if log == nil {
		log = logger.Get()
	}
	if actors == nil {
		actors = shared.ContextActorProvider
	}
	return &Logging{logger: log, actors: actors, recorder: recorder}
}

func (b *Logging) Name() string { return "logging" }

func (b *Logging) Handle(ctx context.Context, req any, next mediator.Next) (any, error) {
	name := mediator.RequestName(req)
	actor := b.actors.CurrentActor(ctx)
	log := logger.FromContext(ctx, b.logger).With(
		zap.String("request", name),
		zap.String("actor_id", actor.ID),
		zap.String("actor_name", actor.Name),
	)

	log.Info("Handling request")
	start := time.Now()

	returned := false
	defer func() {
		if returned {
			return
		}
		if recovered := recover(); recovered != nil {
			elapsed := time.Since(start)
			log.Error("Request panicked",
				zap.Duration("elapsed", elapsed),
				zap.Any("panic", recovered),
				zap.Stack("stack"))
			b.observe(name, shared.KindUnexpected, elapsed)
			panic(recovered)
		}
	}()

	resp, err := next(ctx)
	returned = true
	elapsed := time.Since(start)

	if err != nil {
		kind := shared.KindOf(err)
		fields := []zap.Field{
			zap.Duration("elapsed", elapsed),
			zap.String("error_kind", string(kind)),
			zap.Error(err),
		}
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			log.Warn("Request cancelled", fields...)
		case kind == shared.KindUnexpected:
			var stacker shared.Stacker
			if errors.As(err, &stacker) {
				fields = append(fields, zap.Strings("stack", stacker.Stack()))
			}
			log.Error("Request failed", fields...)
		default:
			var verr *shared.ValidationError
			if errors.As(err, &verr) {
				fields = append(fields, zap.Any("fields", verr.Fields))
			}
			log.Warn("Request failed", fields...)
		}
		b.observe(name, kind, elapsed)
		return resp, err
	}

	if rejection, ok := resp.(shared.Rejection); ok && rejection.IsFailure() {
		log.Info("Request rejected by business rule",
			zap.Duration("elapsed", elapsed),
			zap.String("reason", rejection.Message()))
		b.observe(name, shared.KindBusinessRuleRejected, elapsed)
		return resp, nil
	}

	log.Info("Request handled", zap.Duration("elapsed", elapsed))
	b.observe(name, "", elapsed)
	return resp, nil
}

func (b *Logging) observe(name string, kind shared.ErrorKind, elapsed time.Duration) {
	if b.recorder != nil {
		b.recorder.Observe(name, kind, elapsed)
	}
}
