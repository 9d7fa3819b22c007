package observability

import (
	"net/http"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported by huddle processes.
type Metrics struct {
	registry *prometheus.Registry

	AccessDecisions  *prometheus.CounterVec
	EventsConsumed   *prometheus.CounterVec
	NotificationsOut *prometheus.CounterVec
}

// OutboxStats is the snapshot read when the outbox collectors are scraped.
type OutboxStats struct {
	Published  uint64
	Failed     uint64
	Dead       uint64
	LagSeconds float64
}

// NewMetrics registers the huddle collectors on a private registry, along
// with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AccessDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huddle_access_decisions_total",
				Help: "Join attempts by meeting type and access outcome",
			},
			[]string{"meeting_type", "outcome"},
		),
		EventsConsumed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huddle_events_consumed_total",
				Help: "Meeting events consumed by the worker",
			},
			[]string{"routing_key", "result"},
		),
		NotificationsOut: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huddle_notifications_pushed_total",
				Help: "Notifications pushed to user inboxes",
			},
			[]string{"severity"},
		),
	}
}

// RecordDecision counts one access decision.
func (m *Metrics) RecordDecision(meetingType domain.Type, outcome domain.Outcome) {
	label := string(meetingType)
	if label == "" {
		label = "unknown"
	}
	m.AccessDecisions.WithLabelValues(label, string(outcome)).Inc()
}

// ObserveOutbox exports the outbox processor's own counters. stats is
// called on every scrape.
func (m *Metrics) ObserveOutbox(stats func() OutboxStats) {
	factory := promauto.With(m.registry)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "huddle_outbox_published_total",
		Help: "Outbox messages published to the broker",
	}, func() float64 { return float64(stats().Published) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "huddle_outbox_failed_total",
		Help: "Outbox publish attempts that failed",
	}, func() float64 { return float64(stats().Failed) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "huddle_outbox_dead_total",
		Help: "Outbox messages moved to the dead letter state",
	}, func() float64 { return float64(stats().Dead) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "huddle_outbox_lag_seconds",
		Help: "Age of the oldest message in the last processed batch",
	}, func() float64 { return stats().LagSeconds })
}

// RecordConsumed counts one consumed delivery.
func (m *Metrics) RecordConsumed(routingKey string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsConsumed.WithLabelValues(routingKey, result).Inc()
}

// RecordNotification counts one pushed notification.
func (m *Metrics) RecordNotification(severity string) {
	m.NotificationsOut.WithLabelValues(severity).Inc()
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
