package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors reported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	scheduleOutcomes *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	credentialEvents *prometheus.CounterVec
}

// New registers the collectors with reg. Collectors already registered by an
// earlier call are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		scheduleOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "schedule",
			Name:      "outcomes_total",
			Help:      "Scheduling requests by terminal outcome.",
		}, []string{"outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls to the LLM and calendar providers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		credentialEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "credential",
			Name:      "events_total",
			Help:      "Credential lifecycle changes by reason.",
		}, []string{"reason"}),
	}

	var err error
	if m.scheduleOutcomes, err = register(reg, m.scheduleOutcomes); err != nil {
		return nil, err
	}
	if m.upstreamDuration, err = register(reg, m.upstreamDuration); err != nil {
		return nil, err
	}
	if m.credentialEvents, err = register(reg, m.credentialEvents); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) IncScheduleOutcome(outcome string) {
	if m == nil {
		return
	}
	m.scheduleOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstream(stage string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.upstreamDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

func (m *Metrics) IncCredentialEvent(reason string) {
	if m == nil {
		return
	}
	m.credentialEvents.WithLabelValues(reason).Inc()
}
