package bubblefx_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/aretw0/bubblefx"
	"github.com/aretw0/bubblefx/pkg/adapters/memory"
	"github.com/aretw0/bubblefx/pkg/config"
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/observability"
	"github.com/aretw0/bubblefx/pkg/ports"
	"github.com/aretw0/bubblefx/pkg/reactor"
	"github.com/aretw0/bubblefx/pkg/signal"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startLoop(t *testing.T) (*reactor.Loop, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	loop := reactor.New(reactor.WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return loop, clock
}

func TestEffect_RunsOnLoop(t *testing.T) {
	loop, clock := startLoop(t)
	ctx := context.Background()
	scene := memory.NewScene(nil)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	var (
		effect   *bubblefx.Effect
		newErr   error
		startErr error
	)
	require.NoError(t, loop.Call(ctx, func() {
		effect, newErr = bubblefx.New(scene.Ports(), loop,
			bubblefx.WithRand(rand.New(rand.NewSource(1))),
			bubblefx.WithSessionID("e2e"),
			bubblefx.WithLifecycleHooks(metrics.Hooks()),
		)
		if newErr == nil {
			startErr = effect.Start(ctx)
		}
	}))
	require.NoError(t, newErr)
	require.NoError(t, startErr)
	assert.Equal(t, domain.StageAwaitBackCamera, effect.State().Stage)
	assert.NotNil(t, scene.Bubble.Slot(domain.SlotDiffuse))
	assert.NotNil(t, scene.Grid.Slot(domain.SlotDiffuse))

	require.NoError(t, loop.Call(ctx, func() { scene.Camera.FacingValue.Set(domain.FacingBack) }))
	assert.Equal(t, domain.StageCalibrate, effect.State().Stage)

	clock.Advance(config.Default().Calibration)
	assert.Eventually(t, func() bool {
		return effect.State().Stage == domain.StageAwaitPlacement
	}, time.Second, time.Millisecond)

	require.NoError(t, loop.Call(ctx, func() { scene.Touch.Tap(domain.Location{X: 0.1, Y: 0.2}) }))
	assert.Equal(t, domain.StageFinishUp, effect.State().Stage)

	clock.Advance(config.Default().Overlay.FadeOut)
	select {
	case <-effect.Done().Done():
	case <-time.After(time.Second):
		t.Fatal("workflow did not reach ready")
	}

	s := effect.State()
	assert.Equal(t, domain.StatusReady, s.Status)
	assert.Equal(t, "e2e", s.SessionID)
	assert.Len(t, s.History, len(domain.Stages))
	assert.True(t, scene.Overlay.Hidden())
	assert.True(t, scene.Hints.Visible(domain.HintPressToLaunch))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Pulses))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StageEntries.WithLabelValues("ready")))
}

func TestNew_Validation(t *testing.T) {
	sched := reactor.New()

	t.Run("Missing Handle", func(t *testing.T) {
		scene := memory.NewScene(nil).Ports()
		scene.Touch = nil
		_, err := bubblefx.New(scene, sched)
		assert.ErrorIs(t, err, ports.ErrMissingHandle)
	})

	t.Run("Invalid Config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Pulse.Duration = 0
		_, err := bubblefx.New(memory.NewScene(nil).Ports(), sched, bubblefx.WithConfig(cfg))
		assert.ErrorIs(t, err, config.ErrInvalid)
	})
}

func TestNew_AppliesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Overlay.Color = [3]float64{1, 0, 0}
	cfg.Overlay.Opacity = 0.8
	cfg.Pulse.TimerPolicy = "cancel-pending"

	scene := memory.NewScene(nil)
	effect, err := bubblefx.New(scene.Ports(), reactor.New(), bubblefx.WithConfig(cfg))
	require.NoError(t, err)

	got := scene.Overlay.Slot(domain.SlotDiffuse).Eval(signal.NewEnv(0.5, 0.5))
	assert.True(t, got.ApproxEqual(signal.Vec4(1, 0, 0, 0.8), 1e-9), "got %s", got)
	assert.Equal(t, "cancel-pending", effect.Pulse().Policy().String())
	assert.Equal(t, cfg, effect.Config())
}
