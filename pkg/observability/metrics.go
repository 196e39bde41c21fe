package observability

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tracer/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	StepsPresented  *prometheus.CounterVec
	StepsResolved   *prometheus.CounterVec
	ActionsRejected *prometheus.CounterVec
	RunsCompleted   *prometheus.CounterVec
	ScoreRatio      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StepsPresented: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracer_steps_presented_total",
				Help: "Total number of steps presented to learners",
			},
			[]string{"exercise", "type"},
		),
		StepsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracer_steps_resolved_total",
				Help: "Total number of steps resolved",
			},
			[]string{"exercise", "type"},
		),
		ActionsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracer_actions_rejected_total",
				Help: "Total number of learner actions that did not match the pending step",
			},
			[]string{"exercise", "type"},
		),
		RunsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracer_runs_completed_total",
				Help: "Total number of exercise runs that reached the end",
			},
			[]string{"exercise"},
		),
		ScoreRatio: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracer_run_score_ratio",
				Help:    "Achieved over maximum score of completed runs",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"exercise"},
		),
	}
	for _, c := range []prometheus.Collector{m.StepsPresented, m.StepsResolved, m.ActionsRejected, m.RunsCompleted, m.ScoreRatio} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepsPresented.WithLabelValues(e.Exercise, string(e.StepType)).Inc()
		},
		OnStepResolved: func(_ context.Context, e *domain.StepEvent) {
			m.StepsResolved.WithLabelValues(e.Exercise, string(e.StepType)).Inc()
		},
		OnActionRejected: func(_ context.Context, e *domain.StepEvent) {
			m.ActionsRejected.WithLabelValues(e.Exercise, string(e.StepType)).Inc()
		},
		OnTerminal: func(_ context.Context, e *domain.TerminalEvent) {
			m.RunsCompleted.WithLabelValues(e.Exercise).Inc()
			if e.Score.MaxScore > 0 {
				m.ScoreRatio.WithLabelValues(e.Exercise).Observe(float64(e.Score.Achieved) / float64(e.Score.MaxScore))
			}
		},
	}
}

// LogHooks returns lifecycle hooks writing one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_enter", "exercise", e.Exercise, "step", e.Index, "type", e.StepType)
		},
		OnStepResolved: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_resolved", "exercise", e.Exercise, "step", e.Index, "type", e.StepType)
		},
		OnActionRejected: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "action_rejected", "exercise", e.Exercise, "step", e.Index, "type", e.StepType)
		},
		OnTerminal: func(ctx context.Context, e *domain.TerminalEvent) {
			logger.InfoContext(ctx, "terminal",
				"exercise", e.Exercise,
				"maxscore", e.Score.MaxScore,
				"achieved", e.Score.Achieved,
			)
		},
	}
}

// Combine returns hooks calling each of hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStepEnter != nil {
					h.OnStepEnter(ctx, e)
				}
			}
		},
		OnStepResolved: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStepResolved != nil {
					h.OnStepResolved(ctx, e)
				}
			}
		},
		OnActionRejected: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnActionRejected != nil {
					h.OnActionRejected(ctx, e)
				}
			}
		},
		OnTerminal: func(ctx context.Context, e *domain.TerminalEvent) {
			for _, h := range hooks {
				if h.OnTerminal != nil {
					h.OnTerminal(ctx, e)
				}
			}
		},
	}
}
