package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/bubblefx/pkg/config"
	"github.com/aretw0/bubblefx/pkg/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, pulse.KeepStale, cfg.TimerPolicy())
}

func TestParse_MergesOverDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
calibration: 5s
overlay:
  color: [1, 0.5, 0]
pulse:
  duration: 250ms
  timer_policy: cancel-pending
`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Calibration)
	assert.Equal(t, [3]float64{1, 0.5, 0}, cfg.Overlay.Color)
	assert.Equal(t, 0.5, cfg.Overlay.Opacity, "unset keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Pulse.Duration)
	assert.Equal(t, 80.0, cfg.Pulse.Size)
	assert.Equal(t, pulse.CancelPending, cfg.TimerPolicy())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "colour: red"},
		{"bad duration", "calibration: soon"},
		{"negative opacity", "overlay: {opacity: -1}"},
		{"bad policy", "pulse: {timer_policy: sometimes}"},
		{"bad level", "log_level: loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestApply_Overrides(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Apply([]string{
		"pulse.duration=1s",
		"overlay.color=0.1,0.2,0.3",
		"render.width = 64",
		"log_level=debug",
	}))

	assert.Equal(t, time.Second, cfg.Pulse.Duration)
	assert.Equal(t, [3]float64{0.1, 0.2, 0.3}, cfg.Overlay.Color)
	assert.Equal(t, 64, cfg.Render.Width)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.ErrorIs(t, cfg.Apply([]string{"pulse.duration"}), config.ErrInvalid)
	assert.ErrorIs(t, cfg.Apply([]string{"pulse.size=0"}), config.ErrInvalid)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "effect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render: {seed: 7}\n"), 0o644))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Render.Seed)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
