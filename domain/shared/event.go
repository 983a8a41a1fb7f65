package shared

import (
	"fmt"
	"sync"
	"time"
)

// DomainEvent 领域事件：已经发生的、不可变的事实
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// StatusTransition 状态迁移事件的公共载荷
// 所有描述状态变化的事件都携带旧状态、新状态和操作人
type StatusTransition interface {
	DomainEvent
	OldStatus() string
	NewStatus() string
	ActorID() string
}

type EventPublisher interface {
	Publish(event DomainEvent) error
}

type EventSubscriber interface {
	Subscribe(eventName string, handler EventHandler) error
	Unsubscribe(eventName string, handler EventHandler) error
}

type EventHandler interface {
	Handle(event DomainEvent) error
	Name() string
}

type EventPublishResult struct {
	EventName   string    `json:"event_name"`
	AggregateID string    `json:"aggregate_id"`
	Success     bool      `json:"success"`
	Message     string    `json:"message,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

const maxPublishHistory = 1000

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}

// EventBus 进程内事件总线
// 工作单元提交成功后把取出的事件交给总线；回滚的事件永远不会到达这里
type EventBus struct {
	handlers  map[string][]EventHandler
	mu        sync.RWMutex
	history   []EventPublishResult
	muHistory sync.Mutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
		history:  make([]EventPublishResult, 0),
	}
}

func (bus *EventBus) Publish(event DomainEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	bus.mu.RLock()
	handlers := append([]EventHandler(nil), bus.handlers[event.EventName()]...)
	bus.mu.RUnlock()

	result := EventPublishResult{
		EventName:   event.EventName(),
		AggregateID: event.GetAggregateID(),
		Success:     true,
		PublishedAt: time.Now(),
	}

	if len(handlers) == 0 {
		result.Message = "no handlers registered for this event"
		bus.record(result)
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", handler.Name(), err))
		}
	}
	if len(errs) > 0 {
		result.Success = false
		result.Message = fmt.Sprintf("%d handlers failed", len(errs))
		bus.record(result)
		return fmt.Errorf("event %s: %d handlers failed: %v", event.EventName(), len(errs), errs)
	}

	bus.record(result)
	return nil
}

func (bus *EventBus) record(result EventPublishResult) {
	bus.muHistory.Lock()
	defer bus.muHistory.Unlock()

	bus.history = append(bus.history, result)
	if len(bus.history) > maxPublishHistory {
		bus.history = bus.history[len(bus.history)-maxPublishHistory:]
	}
}

func (bus *EventBus) Subscribe(eventName string, handler EventHandler) error {
	if eventName == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, h := range bus.handlers[eventName] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventName)
		}
	}

	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	return nil
}

func (bus *EventBus) Unsubscribe(eventName string, handler EventHandler) error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	handlers, exists := bus.handlers[eventName]
	if !exists {
		return nil
	}

	for i, h := range handlers {
		if h.Name() == handler.Name() {
			bus.handlers[eventName] = append(handlers[:i:i], handlers[i+1:]...)
			return nil
		}
	}

	return nil
}

func (bus *EventBus) GetPublishHistory() []EventPublishResult {
	bus.muHistory.Lock()
	defer bus.muHistory.Unlock()

	history := make([]EventPublishResult, len(bus.history))
	copy(history, bus.history)
	return history
}

type FuncHandler struct {
	name string
	fn   func(DomainEvent) error
}

func NewFuncHandler(name string, fn func(DomainEvent) error) *FuncHandler {
	if name == "" {
		name = fmt.Sprintf("func-handler-%d", time.Now().UnixNano())
	}
	return &FuncHandler{
		name: name,
		fn:   fn,
	}
}

func (h *FuncHandler) Handle(event DomainEvent) error {
	return h.fn(event)
}

func (h *FuncHandler) Name() string {
	return h.name
}

var (
	_ EventPublisher  = (*EventBus)(nil)
	_ EventSubscriber = (*EventBus)(nil)
)
