package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"servicedesk/domain/machine"
	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"
)

func TestLoggingHandler_StatusTransitionFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := shared.NewEventBus()
	require.NoError(t, SubscribeAll(bus, NewLoggingHandler(zap.New(core))))

	tk, err := ticket.Open(ticket.OpenOptions{
		Number:         ticket.MustParseNumber("TICK-2026-00001"),
		OrganizationID: "org-1",
		Title:          "Paper jam",
		ActorID:        "u-1",
	})
	require.NoError(t, err)
	require.NoError(t, tk.ChangeStatus(ticket.StatusInProgress, "tech-1"))

	for _, event := range tk.PullEvents() {
		require.NoError(t, bus.Publish(event))
	}

	entries := logs.FilterMessage("Domain event published").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ticket.opened", entries[0].ContextMap()["event"])

	changed := entries[1].ContextMap()
	assert.Equal(t, "ticket.status_changed", changed["event"])
	assert.Equal(t, "OPEN", changed["old_status"])
	assert.Equal(t, "IN_PROGRESS", changed["new_status"])
	assert.Equal(t, "tech-1", changed["actor_id"])
}

func TestSubscribeAll_RejectsDuplicateHandler(t *testing.T) {
	bus := shared.NewEventBus()
	handler := NewLoggingHandler(zap.NewNop())
	require.NoError(t, SubscribeAll(bus, handler))
	assert.Error(t, SubscribeAll(bus, handler))
}

func TestNames_CoverMachineEvents(t *testing.T) {
	m, err := machine.Register("org-1", "SN-1", "X", "u-1")
	require.NoError(t, err)
	require.NoError(t, m.Retire("u-1"))
	for _, event := range m.PullEvents() {
		assert.Contains(t, Names, event.EventName())
		assert.False(t, event.OccurredOn().After(time.Now()))
	}
}
