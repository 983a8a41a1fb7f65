package shared

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleEvent struct {
	name string
	id   string
	at   time.Time
}

func (e sampleEvent) EventName() string      { return e.name }
func (e sampleEvent) OccurredOn() time.Time  { return e.at }
func (e sampleEvent) GetAggregateID() string { return e.id }

func TestEventBus_PublishToSubscribers(t *testing.T) {
	bus := NewEventBus()
	var got []string
	require.NoError(t, bus.Subscribe("ticket.opened", NewFuncHandler("a", func(e DomainEvent) error {
		got = append(got, "a:"+e.GetAggregateID())
		return nil
	})))
	require.NoError(t, bus.Subscribe("ticket.opened", NewFuncHandler("b", func(e DomainEvent) error {
		got = append(got, "b:"+e.GetAggregateID())
		return nil
	})))

	err := bus.Publish(sampleEvent{name: "ticket.opened", id: "t-1", at: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, []string{"a:t-1", "b:t-1"}, got)
	history := bus.GetPublishHistory()
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
}

func TestEventBus_DuplicateSubscription(t *testing.T) {
	bus := NewEventBus()
	h := NewFuncHandler("same", func(DomainEvent) error { return nil })

	require.NoError(t, bus.Subscribe("x", h))
	assert.Error(t, bus.Subscribe("x", h))

	require.NoError(t, bus.Unsubscribe("x", h))
	assert.NoError(t, bus.Subscribe("x", h))
}

func TestEventBus_HandlerFailureIsReported(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.Subscribe("x", NewFuncHandler("bad", func(DomainEvent) error { return errors.New("boom") })))

	err := bus.Publish(sampleEvent{name: "x", id: "1", at: time.Now()})

	assert.Error(t, err)
	assert.False(t, bus.GetPublishHistory()[0].Success)
}

func TestValidateEvent(t *testing.T) {
	assert.Error(t, ValidateEvent(nil))
	assert.Error(t, ValidateEvent(sampleEvent{id: "1", at: time.Now()}))
	assert.Error(t, ValidateEvent(sampleEvent{name: "x", at: time.Now()}))
	assert.Error(t, ValidateEvent(sampleEvent{name: "x", id: "1"}))
	assert.NoError(t, ValidateEvent(sampleEvent{name: "x", id: "1", at: time.Now()}))
}
