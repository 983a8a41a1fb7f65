// Package events 进程内领域事件订阅者
package events

import (
	"fmt"

	"servicedesk/domain/shared"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
)

// Names 所有聚合发出的事件名
var Names = []string{
	"organization.registered",
	"organization.status_changed",
	"machine.registered",
	"machine.status_changed",
	"ticket.opened",
	"ticket.assigned",
	"ticket.status_changed",
	"user.registered",
	"user.activation_changed",
	"user.role_changed",
}

// LoggingHandler 把提交后的领域事件写入日志
type LoggingHandler struct {
	logger *zap.Logger
}

func NewLoggingHandler(log *zap.Logger) *LoggingHandler {
	if log == nil {
		log = logger.Get()
	}
	return &LoggingHandler{logger: log.Named("events")}
}

func (h *LoggingHandler) Handle(event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event", event.EventName()),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.Time("occurred_on", event.OccurredOn()),
	}
	if transition, ok := event.(shared.StatusTransition); ok {
		fields = append(fields,
			zap.String("old_status", transition.OldStatus()),
			zap.String("new_status", transition.NewStatus()),
			zap.String("actor_id", transition.ActorID()),
		)
	}
	h.logger.Info("Domain event published", fields...)
	return nil
}

func (h *LoggingHandler) Name() string { return "logging" }

// SubscribeAll 把每个处理器订阅到全部事件
func SubscribeAll(subscriber shared.EventSubscriber, handlers ...shared.EventHandler) error {
	for _, handler := range handlers {
		for _, name := range Names {
			if err := subscriber.Subscribe(name, handler); err != nil {
				return fmt.Errorf("subscribe %s to %s: %w", handler.Name(), name, err)
			}
		}
	}
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)
