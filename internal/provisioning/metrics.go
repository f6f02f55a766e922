package provisioning

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records resolver decisions and composer timings.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	decisions       *prometheus.CounterVec
	composeDuration *prometheus.HistogramVec
	composeErrors   *prometheus.CounterVec
}

// NewMetrics creates the resolver metrics and registers them on reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "appstack",
				Subsystem: "resolver",
				Name:      "decisions_total",
				Help:      "Total number of resolver decisions by kind and outcome",
			},
			[]string{"kind", "decision"},
		),
		composeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "appstack",
				Subsystem: "composer",
				Name:      "duration_seconds",
				Help:      "Duration of composer calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"kind"},
		),
		composeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "appstack",
				Subsystem: "composer",
				Name:      "errors_total",
				Help:      "Total number of composer errors by kind",
			},
			[]string{"kind"},
		),
	}

	var err error
	if m.decisions, err = register(reg, m.decisions); err != nil {
		return nil, err
	}
	if m.composeDuration, err = register(reg, m.composeDuration); err != nil {
		return nil, err
	}
	if m.composeErrors, err = register(reg, m.composeErrors); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) recordDecision(kind Kind, present bool) {
	if m == nil {
		return
	}
	decision := "absent"
	if present {
		decision = "present"
	}
	m.decisions.WithLabelValues(string(kind), decision).Inc()
}

func (m *Metrics) observeCompose(kind Kind, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.composeDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
	if err != nil {
		m.composeErrors.WithLabelValues(string(kind)).Inc()
	}
}
