package overlay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/pkg/animation"
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/ports"
	"github.com/aretw0/bubblefx/pkg/reactive"
	"github.com/aretw0/bubblefx/pkg/reactor"
	"github.com/aretw0/bubblefx/pkg/signal"
)

const (
	// DefaultFadeDuration is used by FadeIn and FadeOut for d <= 0.
	DefaultFadeDuration = 300 * time.Millisecond
	// DefaultOpacity is the alpha of an active overlay.
	DefaultOpacity = 0.5
)

// Overlay controls the alpha of a full-screen tint. It is active on
// construction.
//
// Fades are not serialized: each call writes its own animated alpha to the
// same slot and the last write wins. Callers wait on the returned future
// before fading again.
type Overlay struct {
	root    ports.OverlayRoot
	sched   reactor.Scheduler
	logger  *slog.Logger
	color   [3]float64
	opacity float64

	active bool
	alpha  *signal.Signal
	fades  int
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithColor sets the tint colour. The default is black.
func WithColor(r, g, b float64) Option {
	return func(o *Overlay) {
		o.color = [3]float64{r, g, b}
	}
}

// WithOpacity sets the alpha of the active overlay.
func WithOpacity(opacity float64) Option {
	return func(o *Overlay) {
		o.opacity = opacity
	}
}

// WithLogger sets the overlay's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Overlay) {
		o.logger = logger
	}
}

// New creates an active overlay and writes its colour to root immediately.
func New(root ports.OverlayRoot, sched reactor.Scheduler, opts ...Option) *Overlay {
	o := &Overlay{
		root:    root,
		sched:   sched,
		logger:  logging.NewNop(),
		opacity: DefaultOpacity,
		active:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.write(signal.Float(o.opacity))
	return o
}

// Toggle switches the overlay without animation. It turns on when inactive
// or when force is set, and off otherwise.
func (o *Overlay) Toggle(force bool) {
	if !o.active || force {
		o.active = true
		o.write(signal.Float(o.opacity))
	} else {
		o.active = false
		o.write(signal.Float(0))
	}
	o.logger.Debug("overlay toggled", "active", o.active)
}

// Fade animates alpha towards the opacity (in) or towards zero (out) over d
// with a fresh driver. The future resolves once, after IsActive reflects the
// direction.
func (o *Overlay) Fade(in bool, d time.Duration) (*reactive.Future, error) {
	o.fades++
	driver, err := animation.NewDriver(o.sched, animation.OneShot(d),
		animation.WithLogger(o.logger),
		animation.WithID(fmt.Sprintf("overlay-fade-%d", o.fades)),
	)
	if err != nil {
		return nil, fmt.Errorf("overlay: fade: %w", err)
	}

	done := reactive.NewFuture()
	var sub *reactive.Subscription
	sub = driver.OnCompleted(func() {
		sub.Unsubscribe()
		o.active = in
		o.logger.Debug("overlay fade completed", "in", in, "driver", driver.ID())
		done.Resolve()
	})

	sampler := animation.Linear{From: o.opacity, To: 0}
	if in {
		sampler = animation.Linear{From: 0, To: o.opacity}
	}
	o.write(animation.Animate(driver, sampler))
	driver.Start()
	return done, nil
}

// FadeIn fades the overlay in. d <= 0 means DefaultFadeDuration.
func (o *Overlay) FadeIn(d time.Duration) (*reactive.Future, error) {
	return o.Fade(true, orDefault(d))
}

// FadeOut fades the overlay out. d <= 0 means DefaultFadeDuration.
func (o *Overlay) FadeOut(d time.Duration) (*reactive.Future, error) {
	return o.Fade(false, orDefault(d))
}

// Hide removes the overlay object from rendering.
func (o *Overlay) Hide() {
	o.root.SetHidden(true)
}

// IsActive mirrors the last toggle or completed fade.
func (o *Overlay) IsActive() bool { return o.active }

// Alpha is the alpha signal currently written to the slot.
func (o *Overlay) Alpha() *signal.Signal { return o.alpha }

func (o *Overlay) write(alpha *signal.Signal) {
	o.alpha = alpha
	o.root.SetTextureSlot(domain.SlotDiffuse, signal.Pack4(
		signal.Float(o.color[0]),
		signal.Float(o.color[1]),
		signal.Float(o.color[2]),
		alpha,
	))
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultFadeDuration
	}
	return d
}
