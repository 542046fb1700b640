package loggate

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WithRegisterer returns an Option that maintains Prometheus counters for the
// records created through the State and registers them with reg.
// Collectors already registered by another State on the same registerer are reused.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *State) {
		if reg == nil {
			return
		}
		s.metrics = newRecordMetrics(reg)
	}
}

func newRecordMetrics(reg prometheus.Registerer) *recordMetrics {
	emitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loggate_records_total",
			Help: "Total number of records that passed the severity gate",
		},
		[]string{"severity", "backend"},
	)
	suppressed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loggate_records_suppressed_total",
			Help: "Total number of records rejected by the severity gate",
		},
		[]string{"severity"},
	)
	return &recordMetrics{
		emitted:    registerCounterVec(reg, emitted),
		suppressed: registerCounterVec(reg, suppressed),
	}
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		// Unregistrable collectors still count, they are just not exported.
		return c
	}
	return c
}

// observe counts a record at construction time. A nil receiver does nothing.
func (m *recordMetrics) observe(enabled bool, severity Severity, backend string) {
	if m == nil {
		return
	}
	if enabled {
		m.emitted.WithLabelValues(severity.String(), backend).Inc()
		return
	}
	m.suppressed.WithLabelValues(severity.String()).Inc()
}
