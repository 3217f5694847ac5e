package authlockout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FailuresRecorded prometheus.Counter
	Lockouts         prometheus.Counter
	Rejected         prometheus.Counter
}

// NewMetrics registers on reg; nil means the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		FailuresRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_login_failures_recorded_total",
			Help: "Failed operator logins counted towards a lockout",
		}),
		Lockouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_login_lockouts_total",
			Help: "Identifier and IP pairs locked after too many failures",
		}),
		Rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_login_rejected_total",
			Help: "Login attempts refused while locked",
		}),
	}
}
