package observability

import (
	"context"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records the workflow in Prometheus collectors.
type Metrics struct {
	StageEntries  *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	CurrentStage  *prometheus.GaugeVec
	Pulses        prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bubblefx_stage_entries_total",
				Help: "Total number of stage entries",
			},
			[]string{"stage"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bubblefx_stage_duration_seconds",
				Help:    "Time spent in each stage before it advanced",
				Buckets: []float64{0.1, 0.3, 1, 3, 10, 30, 60},
			},
			[]string{"stage"},
		),
		CurrentStage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bubblefx_current_stage",
				Help: "1 for the active stage, 0 otherwise",
			},
			[]string{"stage"},
		),
		Pulses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bubblefx_grid_pulses_total",
			Help: "Total number of grid pulses",
		}),
	}
	reg.MustRegister(m.StageEntries, m.StageDuration, m.CurrentStage, m.Pulses)
	for _, s := range domain.Stages {
		m.CurrentStage.WithLabelValues(s.String()).Set(0)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
			m.StageEntries.WithLabelValues(e.Stage.String()).Inc()
			m.CurrentStage.WithLabelValues(e.Stage.String()).Set(1)
		},
		OnStageLeave: func(_ context.Context, e *domain.StageEvent) {
			m.StageDuration.WithLabelValues(e.Stage.String()).Observe(e.Elapsed.Seconds())
			m.CurrentStage.WithLabelValues(e.Stage.String()).Set(0)
		},
		OnPulse: func(context.Context, *domain.PulseEvent) {
			m.Pulses.Inc()
		},
	}
}
