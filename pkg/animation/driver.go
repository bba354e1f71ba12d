package animation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/pkg/reactive"
	"github.com/aretw0/bubblefx/pkg/reactor"
	"github.com/google/uuid"
)

// ErrInvalidDuration is returned for drivers whose duration is not positive.
var ErrInvalidDuration = errors.New("animation: driver duration must be > 0")

// DriverConfig mirrors the host's time driver parameters.
type DriverConfig struct {
	Duration  time.Duration `yaml:"duration" mapstructure:"duration"`
	LoopCount int           `yaml:"loop_count" mapstructure:"loop_count"`
	Mirror    bool          `yaml:"mirror" mapstructure:"mirror"`
}

// OneShot is the single linear pass every component of the effect uses.
func OneShot(d time.Duration) DriverConfig {
	return DriverConfig{Duration: d, LoopCount: 1}
}

// Driver is an animation clock. Progress runs from 0 to 1 over Duration,
// LoopCount times, reversing on odd loops when Mirror is set.
type Driver struct {
	id     string
	cfg    DriverConfig
	sched  reactor.Scheduler
	logger *slog.Logger

	running   bool
	finished  bool
	startedAt time.Time
	timer     reactor.Timer
	completed *reactive.Stream[struct{}]
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithID overrides the generated driver id.
func WithID(id string) Option {
	return func(d *Driver) {
		d.id = id
	}
}

// NewDriver creates an idle driver at its start value.
func NewDriver(sched reactor.Scheduler, cfg DriverConfig, opts ...Option) (*Driver, error) {
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDuration, cfg.Duration)
	}
	if cfg.LoopCount < 1 {
		cfg.LoopCount = 1
	}
	d := &Driver{
		id:        uuid.NewString(),
		cfg:       cfg,
		sched:     sched,
		logger:    logging.NewNop(),
		completed: reactive.NewStream[struct{}](),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ID identifies the driver in logs.
func (d *Driver) ID() string { return d.id }

// Config returns the driver's configuration.
func (d *Driver) Config() DriverConfig { return d.cfg }

// Start runs the driver from its start value. It is a no-op while running.
func (d *Driver) Start() {
	if d.running {
		return
	}
	d.running = true
	d.finished = false
	d.startedAt = d.sched.Now()
	total := d.cfg.Duration * time.Duration(d.cfg.LoopCount)
	d.timer = d.sched.AfterFunc(total, d.complete)
	d.logger.Debug("driver started", "driver", d.id, "duration", total)
}

// Reset stops the driver and returns it to its start value. A pending
// completion is cancelled.
func (d *Driver) Reset() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.running = false
	d.finished = false
}

// Running reports whether the driver is animating.
func (d *Driver) Running() bool { return d.running }

// Progress returns the current animation value in [0, 1].
func (d *Driver) Progress() float64 {
	switch {
	case d.running:
		elapsed := d.sched.Now().Sub(d.startedAt)
		t := float64(elapsed) / float64(d.cfg.Duration)
		if t >= float64(d.cfg.LoopCount) {
			return d.endValue()
		}
		k := math.Floor(t)
		f := t - k
		if d.cfg.Mirror && int(k)%2 == 1 {
			return 1 - f
		}
		return f
	case d.finished:
		return d.endValue()
	default:
		return 0
	}
}

func (d *Driver) endValue() float64 {
	if d.cfg.Mirror && d.cfg.LoopCount%2 == 0 {
		return 0
	}
	return 1
}

// OnCompleted notifies fn every time the driver runs to completion.
func (d *Driver) OnCompleted(fn func()) *reactive.Subscription {
	return d.completed.Subscribe(func(struct{}) { fn() })
}

func (d *Driver) complete() {
	d.running = false
	d.finished = true
	d.timer = nil
	d.logger.Debug("driver completed", "driver", d.id)
	d.completed.Emit(struct{}{})
}
