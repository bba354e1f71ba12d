package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/pkg/pulse"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the effect configuration. Zero-valued sections are filled from
// Default when loading.
type Config struct {
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// Calibration is how long the look-around stage lasts.
	Calibration time.Duration `yaml:"calibration" mapstructure:"calibration"`

	Overlay OverlayConfig `yaml:"overlay" mapstructure:"overlay"`
	Pulse   PulseConfig   `yaml:"pulse" mapstructure:"pulse"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
}

// OverlayConfig configures the setup overlay.
type OverlayConfig struct {
	Color   [3]float64    `yaml:"color" mapstructure:"color"`
	Opacity float64       `yaml:"opacity" mapstructure:"opacity"`
	FadeOut time.Duration `yaml:"fade_out" mapstructure:"fade_out"`
}

// PulseConfig configures the grid pulse.
type PulseConfig struct {
	Duration    time.Duration `yaml:"duration" mapstructure:"duration"`
	Size        float64       `yaml:"size" mapstructure:"size"`
	TimerPolicy string        `yaml:"timer_policy" mapstructure:"timer_policy"`
}

// RenderConfig configures offline rendering of the material.
type RenderConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
	// Seed drives the accent shuffle. Zero picks a random seed.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// Default returns the configuration the effect ships with.
func Default() Config {
	return Config{
		LogLevel:    "info",
		Calibration: 3 * time.Second,
		Overlay: OverlayConfig{
			Opacity: 0.5,
			FadeOut: 300 * time.Millisecond,
		},
		Pulse: PulseConfig{
			Duration:    pulse.DefaultDuration,
			Size:        80,
			TimerPolicy: pulse.KeepStale.String(),
		},
		Render: RenderConfig{Width: 256, Height: 256},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.merge(raw); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Set applies a dotted key override such as "pulse.duration=250ms".
// Values go through the same decoding as the YAML file.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	var raw any = value
	for i := len(parts) - 1; i >= 0; i-- {
		raw = map[string]any{parts[i]: raw}
	}
	return c.merge(raw.(map[string]any))
}

// Apply parses "key=value" overrides in order.
func (c *Config) Apply(overrides []string) error {
	for _, o := range overrides {
		key, value, ok := strings.Cut(o, "=")
		if !ok {
			return fmt.Errorf("%w: override %q is not key=value", ErrInvalid, o)
		}
		if err := c.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return c.Validate()
}

func (c *Config) merge(raw map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.DecodeHookFuncType(stringToListHook),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// stringToListHook splits "a,b,c" for slice and array fields so colours can be
// overridden from the command line.
func stringToListHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || (to.Kind() != reflect.Array && to.Kind() != reflect.Slice) {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return []string{}, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := pulse.ParseTimerPolicy(c.Pulse.TimerPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch {
	case c.Calibration <= 0:
		return fmt.Errorf("%w: calibration must be > 0", ErrInvalid)
	case c.Overlay.FadeOut <= 0:
		return fmt.Errorf("%w: overlay.fade_out must be > 0", ErrInvalid)
	case c.Overlay.Opacity < 0 || c.Overlay.Opacity > 1:
		return fmt.Errorf("%w: overlay.opacity must be in [0, 1]", ErrInvalid)
	case c.Pulse.Duration <= 0:
		return fmt.Errorf("%w: pulse.duration must be > 0", ErrInvalid)
	case c.Pulse.Size <= 0:
		return fmt.Errorf("%w: pulse.size must be > 0", ErrInvalid)
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("%w: render size must be positive", ErrInvalid)
	}
	return nil
}

// TimerPolicy returns the parsed pulse timer policy.
func (c Config) TimerPolicy() pulse.TimerPolicy {
	p, _ := pulse.ParseTimerPolicy(c.Pulse.TimerPolicy)
	return p
}
