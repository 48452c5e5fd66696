package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relay"

// Webhook outcome labels.
const (
	OutcomeRelayed  = "relayed"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Provider operation labels.
const (
	OpCreateSession = "create_session"
	OpSendMessage   = "send_message"
)

// Collector owns every Prometheus instrument the relay exports, registered on
// a private registry so tests can construct collectors freely. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	webhookEvents    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	providerErrors   *prometheus.CounterVec
	sessionsSwept    prometheus.Counter
}

// New builds a Collector. sessionCount, when non-nil, is exported as the
// relay_sessions_active gauge and sampled at scrape time.
func New(sessionCount func() int) *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Count of processed webhook events by outcome.",
		}, []string{"outcome"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_seconds",
			Help:      "Latency of YourGPT API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Count of failed YourGPT API calls.",
		}, []string{"operation"}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Cumulative count of idle sessions removed by the janitor.",
		}),
	}
	registry.MustRegister(c.webhookEvents, c.providerDuration, c.providerErrors, c.sessionsSwept)

	if sessionCount != nil {
		registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of session records currently held in memory.",
		}, func() float64 {
			return float64(sessionCount())
		}))
	}
	return c
}

// RecordWebhook counts one processed webhook event.
func (c *Collector) RecordWebhook(outcome string) {
	if c == nil {
		return
	}
	c.webhookEvents.WithLabelValues(outcome).Inc()
}

// ObserveProviderRequest tracks the duration of one provider call and counts
// it as an error when err is non-nil.
func (c *Collector) ObserveProviderRequest(operation string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.providerDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		c.providerErrors.WithLabelValues(operation).Inc()
	}
}

// RecordSweep adds removed to the swept-session counter.
func (c *Collector) RecordSweep(removed int) {
	if c == nil || removed <= 0 {
		return
	}
	c.sessionsSwept.Add(float64(removed))
}

// Handler serves the exposition endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
