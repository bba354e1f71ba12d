package pulse

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/pkg/animation"
	"github.com/aretw0/bubblefx/pkg/material"
	"github.com/aretw0/bubblefx/pkg/reactor"
	"github.com/aretw0/bubblefx/pkg/signal"
)

const (
	// DefaultDuration is the length of each ring animation.
	DefaultDuration = 500 * time.Millisecond
	// OutDelayRatio divides the duration to get the delay before the ring
	// starts clearing from the inside.
	OutDelayRatio = 1.75
)

// TimerPolicy decides what happens to the delayed out-start of a previous
// pulse when Pulse is called again before it fires.
type TimerPolicy int

const (
	// KeepStale leaves the earlier timer armed. It can restart the out
	// driver ahead of the new pulse's own schedule.
	KeepStale TimerPolicy = iota
	// CancelPending stops the earlier timer so every pulse restarts cleanly.
	CancelPending
)

func (p TimerPolicy) String() string {
	switch p {
	case KeepStale:
		return "keep-stale"
	case CancelPending:
		return "cancel-pending"
	default:
		return fmt.Sprintf("TimerPolicy(%d)", int(p))
	}
}

// ParseTimerPolicy is the inverse of TimerPolicy.String.
func ParseTimerPolicy(s string) (TimerPolicy, error) {
	switch s {
	case "", "keep-stale":
		return KeepStale, nil
	case "cancel-pending":
		return CancelPending, nil
	}
	return KeepStale, fmt.Errorf("pulse: unknown timer policy %q", s)
}

// Animator draws an expanding ring over the grid. The in driver grows the
// ring and the out driver, started later, clears it from the centre.
type Animator struct {
	sched    reactor.Scheduler
	logger   *slog.Logger
	duration time.Duration
	size     float64
	policy   TimerPolicy

	in, out *animation.Driver
	pending reactor.Timer
	texture *signal.Signal
	pulses  int
}

// Option configures an Animator.
type Option func(*Animator)

// WithDuration sets the ring animation length.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		a.duration = d
	}
}

// WithSize sets the grid density.
func WithSize(size float64) Option {
	return func(a *Animator) {
		a.size = size
	}
}

// WithTimerPolicy picks how overlapping pulses treat the pending out-start.
func WithTimerPolicy(p TimerPolicy) Option {
	return func(a *Animator) {
		a.policy = p
	}
}

// WithLogger sets the animator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		a.logger = logger
	}
}

// New creates an idle animator. The texture is empty until the first Pulse.
func New(sched reactor.Scheduler, opts ...Option) (*Animator, error) {
	a := &Animator{
		sched:    sched,
		logger:   logging.NewNop(),
		duration: DefaultDuration,
		size:     material.DefaultGridSize,
		policy:   KeepStale,
	}
	for _, opt := range opts {
		opt(a)
	}

	var err error
	cfg := animation.OneShot(a.duration)
	if a.in, err = animation.NewDriver(sched, cfg, animation.WithLogger(a.logger), animation.WithID("pulse-in")); err != nil {
		return nil, fmt.Errorf("pulse: in driver: %w", err)
	}
	if a.out, err = animation.NewDriver(sched, cfg, animation.WithLogger(a.logger), animation.WithID("pulse-out")); err != nil {
		return nil, fmt.Errorf("pulse: out driver: %w", err)
	}

	center := signal.Vec2Of(0.5, 0.5)
	ring := func(d *animation.Driver) *signal.Signal {
		radius := animation.Animate(d, animation.Linear{From: 0, To: 1})
		// A zero radius is an empty ring, not a half-covered centre sample.
		visible := signal.Step(radius, signal.Float(1e-9))
		return signal.AntiAlias(signal.SDFEllipse(center, radius)).Mul(visible)
	}
	cutout := signal.Step(signal.Float(0), signal.SDFEllipse(center, signal.Float(0.5)))
	a.texture = cutout.Mul(material.Grid(a.size).Mul(ring(a.in).Sub(ring(a.out))))
	return a, nil
}

// Texture is the animated grid texture.
func (a *Animator) Texture() *signal.Signal { return a.texture }

// Pulse resets both drivers, starts the in driver and schedules the out
// driver to start after duration/1.75.
func (a *Animator) Pulse() {
	a.out.Reset()
	a.in.Reset()

	if a.policy == CancelPending && a.pending != nil {
		if a.pending.Stop() {
			a.logger.Debug("pulse: cancelled pending out-start")
		}
	}
	delay := time.Duration(float64(a.duration) / OutDelayRatio)
	a.pending = a.sched.AfterFunc(delay, a.out.Start)

	a.in.Start()
	a.pulses++
	a.logger.Debug("pulse", "count", a.pulses, "out_delay", delay, "policy", a.policy)
}

// Pulses returns how many times Pulse has been called.
func (a *Animator) Pulses() int { return a.pulses }

// InDriver is the ring-growing driver.
func (a *Animator) InDriver() *animation.Driver { return a.in }

// OutDriver is the ring-clearing driver.
func (a *Animator) OutDriver() *animation.Driver { return a.out }

// Policy reports the configured timer policy.
func (a *Animator) Policy() TimerPolicy { return a.policy }
