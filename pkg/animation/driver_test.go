package animation_test

import (
	"testing"
	"time"

	"github.com/aretw0/bubblefx/internal/testutils"
	"github.com/aretw0/bubblefx/pkg/animation"
	"github.com/aretw0/bubblefx/pkg/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriver_RejectsNonPositiveDuration(t *testing.T) {
	sched := testutils.NewManualScheduler()
	_, err := animation.NewDriver(sched, animation.DriverConfig{})
	assert.ErrorIs(t, err, animation.ErrInvalidDuration)

	d, err := animation.NewDriver(sched, animation.DriverConfig{Duration: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Config().LoopCount)
	assert.NotEmpty(t, d.ID())
}

func TestDriver_OneShot(t *testing.T) {
	sched := testutils.NewManualScheduler()
	d, err := animation.NewDriver(sched, animation.OneShot(400*time.Millisecond))
	require.NoError(t, err)

	completions := 0
	d.OnCompleted(func() { completions++ })

	assert.Equal(t, 0.0, d.Progress())
	d.Start()
	assert.True(t, d.Running())

	sched.Advance(100 * time.Millisecond)
	assert.InDelta(t, 0.25, d.Progress(), 1e-9)

	d.Start() // no-op while running
	sched.Advance(300 * time.Millisecond)
	assert.False(t, d.Running())
	assert.Equal(t, 1.0, d.Progress())
	assert.Equal(t, 1, completions)
}

func TestDriver_ResetCancelsCompletion(t *testing.T) {
	sched := testutils.NewManualScheduler()
	d, err := animation.NewDriver(sched, animation.OneShot(time.Second))
	require.NoError(t, err)

	completions := 0
	d.OnCompleted(func() { completions++ })

	d.Start()
	sched.Advance(500 * time.Millisecond)
	d.Reset()
	assert.False(t, d.Running())
	assert.Equal(t, 0.0, d.Progress())

	sched.Advance(2 * time.Second)
	assert.Equal(t, 0, completions)
	assert.Equal(t, 0, sched.Pending())
}

func TestDriver_Mirror(t *testing.T) {
	sched := testutils.NewManualScheduler()
	d, err := animation.NewDriver(sched, animation.DriverConfig{Duration: time.Second, LoopCount: 2, Mirror: true})
	require.NoError(t, err)

	d.Start()
	sched.Advance(1250 * time.Millisecond)
	assert.InDelta(t, 0.75, d.Progress(), 1e-9)

	sched.Advance(time.Second)
	assert.False(t, d.Running())
	assert.Equal(t, 0.0, d.Progress())
}

func TestAnimate_Linear(t *testing.T) {
	sched := testutils.NewManualScheduler()
	d, err := animation.NewDriver(sched, animation.OneShot(time.Second))
	require.NoError(t, err)

	alpha := animation.Animate(d, animation.Linear{From: 0.5, To: 0})
	env := signal.NewEnv(0, 0)

	assert.InDelta(t, 0.5, alpha.Eval(env).Float(), 1e-9)
	d.Start()
	sched.Advance(500 * time.Millisecond)
	assert.InDelta(t, 0.25, alpha.Eval(env).Float(), 1e-9)
	sched.Advance(500 * time.Millisecond)
	assert.InDelta(t, 0, alpha.Eval(env).Float(), 1e-9)
}
