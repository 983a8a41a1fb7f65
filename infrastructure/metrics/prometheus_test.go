package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicedesk/domain/shared"
)

type fakeEvent struct{}

func (fakeEvent) EventName() string      { return "ticket.opened" }
func (fakeEvent) OccurredOn() time.Time  { return time.Now() }
func (fakeEvent) GetAggregateID() string { return "t-1" }

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry(), "servicedesk")

	m.Observe("OpenTicketCommand", "", 10*time.Millisecond)
	m.Observe("OpenTicketCommand", shared.KindNotFound, time.Millisecond)
	m.Observe("OpenTicketCommand", "", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("OpenTicketCommand", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("OpenTicketCommand", "not_found")))
}

func TestMetrics_EventsAndOutbox(t *testing.T) {
	m := New(nil, "sd")

	require.NoError(t, m.Handle(fakeEvent{}))
	m.ObserveOutbox("ticket.opened", "PUBLISHED")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.domainEvents.WithLabelValues("ticket.opened")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboxEvents.WithLabelValues("ticket.opened", "PUBLISHED")))
	assert.Equal(t, "metrics", m.Name())
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry(), "servicedesk")
	m.Observe("GetTicketQuery", "", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `servicedesk_requests_total{outcome="success",request="GetTicketQuery"} 1`)
}
