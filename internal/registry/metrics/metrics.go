package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the registry module.
type Metrics struct {
	EntitiesCreated             *prometheus.CounterVec
	DefaultManufacturersCreated prometheus.Counter
	RIDTransitions              *prometheus.CounterVec
	RIDHeartbeats               prometheus.Counter
	LoginAttempts               *prometheus.CounterVec
	CreateDuration              *prometheus.HistogramVec
	PrivilegedViewDuration      *prometheus.HistogramVec
}

// New registers the registry metrics with reg, or the default registerer
// when reg is nil. Registering twice on one registerer panics.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		EntitiesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_entities_created_total",
			Help: "Total number of registry entities created, by entity type",
		}, []string{"entity"}),
		DefaultManufacturersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_default_manufacturers_created_total",
			Help: "Total number of synthetic default manufacturers created",
		}),
		RIDTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_rid_transitions_total",
			Help: "Total number of RID module status changes, by target status",
		}, []string{"status"}),
		RIDHeartbeats: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_rid_heartbeats_total",
			Help: "Total number of accepted RID module heartbeats",
		}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_operator_logins_total",
			Help: "Operator login attempts, by outcome",
		}, []string{"outcome"}),
		CreateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_create_duration_seconds",
			Help:    "Duration of nested create operations, by entity type",
			Buckets: durationBuckets,
		}, []string{"entity"}),
		PrivilegedViewDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_privileged_view_duration_seconds",
			Help:    "Duration of privileged view projections, by entity type",
			Buckets: durationBuckets,
		}, []string{"entity"}),
	}
}

func (m *Metrics) IncrementCreated(entity string) {
	m.EntitiesCreated.WithLabelValues(entity).Inc()
}

func (m *Metrics) IncrementDefaultManufacturer() {
	m.DefaultManufacturersCreated.Inc()
}

func (m *Metrics) IncrementTransition(status string) {
	m.RIDTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementHeartbeat() {
	m.RIDHeartbeats.Inc()
}

func (m *Metrics) IncrementLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveCreate records the duration of a create. Call with time.Now() at
// the start of the operation.
func (m *Metrics) ObserveCreate(entity string, start time.Time) {
	m.CreateDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObservePrivilegedView(entity string, start time.Time) {
	m.PrivilegedViewDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
}
