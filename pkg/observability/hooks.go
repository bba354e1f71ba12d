package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/bubblefx/pkg/domain"
)

// Chain combines several hook sets into one. Callbacks run in argument
// order; nil callbacks are skipped.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			for _, h := range hooks {
				if h.OnStageEnter != nil {
					h.OnStageEnter(ctx, e)
				}
			}
		},
		OnStageLeave: func(ctx context.Context, e *domain.StageEvent) {
			for _, h := range hooks {
				if h.OnStageLeave != nil {
					h.OnStageLeave(ctx, e)
				}
			}
		},
		OnPulse: func(ctx context.Context, e *domain.PulseEvent) {
			for _, h := range hooks {
				if h.OnPulse != nil {
					h.OnPulse(ctx, e)
				}
			}
		},
	}
}

// LogHooks audits every lifecycle event at info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			logger.InfoContext(ctx, "stage_enter", "session", e.SessionID, "stage", e.Stage)
		},
		OnStageLeave: func(ctx context.Context, e *domain.StageEvent) {
			logger.InfoContext(ctx, "stage_leave", "session", e.SessionID, "stage", e.Stage, "elapsed", e.Elapsed)
		},
		OnPulse: func(ctx context.Context, e *domain.PulseEvent) {
			logger.InfoContext(ctx, "grid_pulse", "session", e.SessionID, "x", e.Location.X, "y", e.Location.Y)
		},
	}
}
