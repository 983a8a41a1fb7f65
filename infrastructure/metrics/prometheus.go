// Package metrics 基于 Prometheus 的指标：请求分发结果、领域事件与 outbox 发布
package metrics

import (
	"net/http"
	"time"

	"servicedesk/domain/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 请求耗时的直方图分桶（秒）
var defaultBuckets = []float64{
	.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

const outcomeSuccess = "success"

type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	domainEvents    *prometheus.CounterVec
	outboxEvents    *prometheus.CounterVec
	gatherer        prometheus.Gatherer
}

// New 在 reg 上注册全部指标；reg 为 nil 时使用独立的注册表
func New(reg *prometheus.Registry, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of dispatched requests by outcome",
		}, []string{"request", "outcome"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request handling time in seconds",
			Buckets:   defaultBuckets,
		}, []string{"request"}),

		domainEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Domain events published after commit",
		}, []string{"event"}),

		outboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_total",
			Help:      "Outbox publish attempts by resulting status",
		}, []string{"event_type", "status"}),

		gatherer: reg,
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.domainEvents,
		m.outboxEvents,
	)
	return m
}

// Observe 记录一次分发；kind 为空表示成功
func (m *Metrics) Observe(request string, kind shared.ErrorKind, elapsed time.Duration) {
	outcome := outcomeSuccess
	if kind != "" {
		outcome = string(kind)
	}
	m.requestsTotal.WithLabelValues(request, outcome).Inc()
	m.requestDuration.WithLabelValues(request).Observe(elapsed.Seconds())
}

// ObserveOutbox 记录 outbox 事件的处理结果
func (m *Metrics) ObserveOutbox(eventType, status string) {
	m.outboxEvents.WithLabelValues(eventType, status).Inc()
}

// Handle 作为事件总线的订阅者统计领域事件
func (m *Metrics) Handle(event shared.DomainEvent) error {
	m.domainEvents.WithLabelValues(event.EventName()).Inc()
	return nil
}

func (m *Metrics) Name() string { return "metrics" }

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

var _ shared.EventHandler = (*Metrics)(nil)
