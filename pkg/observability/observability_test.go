package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStageEnter(ctx, &domain.StageEvent{Stage: domain.StageCalibrate})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageEntries.WithLabelValues("calibrate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CurrentStage.WithLabelValues("calibrate")))

	hooks.OnStageLeave(ctx, &domain.StageEvent{Stage: domain.StageCalibrate, Elapsed: 3 * time.Second})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CurrentStage.WithLabelValues("calibrate")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))

	hooks.OnPulse(ctx, &domain.PulseEvent{})
	hooks.OnPulse(ctx, &domain.PulseEvent{})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Pulses))

	// One gauge series per stage is pre-created.
	assert.Equal(t, len(domain.Stages), testutil.CollectAndCount(m.CurrentStage))
}

func TestChain(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnStageEnter: func(context.Context, *domain.StageEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnStageEnter: func(context.Context, *domain.StageEvent) { order = append(order, "b") },
		OnPulse:      func(context.Context, *domain.PulseEvent) { order = append(order, "b-pulse") },
	}

	h := observability.Chain(a, b)
	h.OnStageEnter(context.Background(), &domain.StageEvent{})
	h.OnStageLeave(context.Background(), &domain.StageEvent{})
	h.OnPulse(context.Background(), &domain.PulseEvent{})

	assert.Equal(t, []string{"a", "b", "b-pulse"}, order)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := observability.LogHooks(logger)
	h.OnStageEnter(context.Background(), &domain.StageEvent{SessionID: "s1", Stage: domain.StageFinishUp})

	assert.Contains(t, buf.String(), "stage_enter")
	assert.Contains(t, buf.String(), "stage=finish_up")
	assert.Contains(t, buf.String(), "session=s1")
}
