package outbox

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "droneregistry/pkg/platform/audit"
)

// Metrics tracks outbox writes and relay progress.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
	Published       prometheus.Counter
	PublishFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the outbox metrics on reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_audit_events_emitted_total",
			Help: "Audit events appended to the outbox",
		}, []string{"category"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_audit_persist_failures_total",
			Help: "Outbox appends that failed and aborted their operation",
		}),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_audit_persist_duration_seconds",
			Help:    "Duration of outbox appends",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_audit_events_published_total",
			Help: "Outbox entries delivered to the broker",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_audit_publish_failures_total",
			Help: "Relay batches the broker rejected",
		}),
	}
}

func (m *Metrics) IncEventsEmitted(category audit.EventCategory) {
	m.EventsEmitted.WithLabelValues(string(category)).Inc()
}

func (m *Metrics) IncPersistFailures() {
	m.PersistFailures.Inc()
}

// ObservePersistDuration records the duration of an append started at start.
func (m *Metrics) ObservePersistDuration(start time.Time) {
	m.PersistDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddPublished(n int) {
	m.Published.Add(float64(n))
}

func (m *Metrics) IncPublishFailures() {
	m.PublishFailures.Inc()
}
