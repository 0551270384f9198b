// Package metrics registers the Prometheus collectors for the autonomy
// core. All recording helpers are nil-safe so components can run without
// metrics in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the core collectors.
type Metrics struct {
	registry *prometheus.Registry

	dispatches        *prometheus.CounterVec
	cronTriggers      prometheus.Counter
	cronMissed        prometheus.Counter
	providerFailures  *prometheus.CounterVec
	providerFallbacks prometheus.Counter
	tickDuration      prometheus.Histogram
}

// New creates and registers the collectors under the given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Commands dispatched by the scheduler",
			},
			[]string{"source"},
		),
		cronTriggers: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cron_triggers_total",
				Help:      "Cron jobs triggered live",
			},
		),
		cronMissed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cron_missed_total",
				Help:      "Cron jobs detected as missed by the replay sweep",
			},
		),
		providerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_failures_total",
				Help:      "Provider requests recorded as failed",
			},
			[]string{"provider"},
		),
		providerFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fallbacks_total",
				Help:      "Fallback provider selections",
			},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tick_duration_seconds",
				Help:      "Duration of one scheduler tick",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
	}

	registry.MustRegister(
		m.dispatches,
		m.cronTriggers,
		m.cronMissed,
		m.providerFailures,
		m.providerFallbacks,
		m.tickDuration,
	)
	return m
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for scraping and tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordDispatch counts one dispatched command by source.
func (m *Metrics) RecordDispatch(source string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(source).Inc()
}

// RecordCronTrigger counts one live cron trigger.
func (m *Metrics) RecordCronTrigger() {
	if m == nil {
		return
	}
	m.cronTriggers.Inc()
}

// RecordCronMissed counts jobs detected by the missed-job sweep.
func (m *Metrics) RecordCronMissed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cronMissed.Add(float64(n))
}

// RecordProviderFailure counts one recorded provider failure.
func (m *Metrics) RecordProviderFailure(providerID string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(providerID).Inc()
}

// RecordProviderFallback counts one fallback selection.
func (m *Metrics) RecordProviderFallback() {
	if m == nil {
		return
	}
	m.providerFallbacks.Inc()
}

// RecordTick records the duration of one scheduler tick.
func (m *Metrics) RecordTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}
