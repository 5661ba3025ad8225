// Package metrics exposes prometheus counters for the subscription flow
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsletter"

// Outcome labels
const (
	OutcomeOK              = "ok"
	OutcomeInvalid         = "invalid"
	OutcomeUnknownToken    = "unknown_token"
	OutcomeStorageError    = "storage_error"
	OutcomeDeliveryFailure = "delivery_failure"
)

type Metrics struct {
	registry *prometheus.Registry

	Subscriptions *prometheus.CounterVec
	Confirmations *prometheus.CounterVec
	EmailsSent    *prometheus.CounterVec
	StalePending  prometheus.Gauge
}

// New registers the collectors on a private registry so multiple
// instances (one per test) don't collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_total",
			Help:      "Signup attempts by outcome.",
		}, []string{"outcome"}),
		Confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_total",
			Help:      "Confirmation link visits by outcome.",
		}, []string{"outcome"}),
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Confirmation email delivery attempts by outcome.",
		}, []string{"outcome"}),
		StalePending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_pending_subscriptions",
			Help:      "Subscribers still pending confirmation after the report interval.",
		}),
	}

	reg.MustRegister(
		m.Subscriptions,
		m.Confirmations,
		m.EmailsSent,
		m.StalePending,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
