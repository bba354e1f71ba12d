package bubblefx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/internal/runtime"
	"github.com/aretw0/bubblefx/pkg/config"
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/material"
	"github.com/aretw0/bubblefx/pkg/overlay"
	"github.com/aretw0/bubblefx/pkg/ports"
	"github.com/aretw0/bubblefx/pkg/pulse"
	"github.com/aretw0/bubblefx/pkg/reactive"
	"github.com/aretw0/bubblefx/pkg/reactor"
	"github.com/aretw0/bubblefx/pkg/signal"
)

// Effect is the high-level entry point of the library. It assigns the bubble
// and grid materials and sequences the setup workflow over a host scene.
type Effect struct {
	scene   *ports.Scene
	engine  *runtime.Engine
	overlay *overlay.Overlay
	pulse   *pulse.Animator
	layers  material.Layers

	cfg       config.Config
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	rng       signal.Rand
	sessionID string
}

// Option defines a functional option for configuring the Effect.
type Option func(*Effect)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Effect) {
		e.cfg = cfg
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Effect) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the effect and everything
// it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Effect) {
		e.logger = logger
	}
}

// WithRand seeds the accent shuffle of the bubble material.
func WithRand(rng signal.Rand) Option {
	return func(e *Effect) {
		e.rng = rng
	}
}

// WithSessionID fixes the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(e *Effect) {
		e.sessionID = id
	}
}

// New validates scene, writes both materials and prepares the workflow.
// Nothing waits on the host until Start.
func New(scene *ports.Scene, sched reactor.Scheduler, opts ...Option) (*Effect, error) {
	e := &Effect{
		scene:  scene,
		cfg:    config.Default(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	matOpts := []material.Option{material.WithLogger(e.logger)}
	if e.rng != nil {
		matOpts = append(matOpts, material.WithRand(e.rng))
	}
	e.layers = material.Compose(scene.CameraTexture, matOpts...)
	scene.Bubble.SetTextureSlot(domain.SlotDiffuse, e.layers.Output)

	p, err := pulse.New(sched,
		pulse.WithDuration(e.cfg.Pulse.Duration),
		pulse.WithSize(e.cfg.Pulse.Size),
		pulse.WithTimerPolicy(e.cfg.TimerPolicy()),
		pulse.WithLogger(e.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid pulse: %w", err)
	}
	e.pulse = p
	scene.Grid.SetTextureSlot(domain.SlotDiffuse, p.Texture())

	c := e.cfg.Overlay.Color
	e.overlay = overlay.New(scene.Overlay, sched,
		overlay.WithColor(c[0], c[1], c[2]),
		overlay.WithOpacity(e.cfg.Overlay.Opacity),
		overlay.WithLogger(e.logger),
	)

	engineOpts := []runtime.Option{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithCalibrationDuration(e.cfg.Calibration),
		runtime.WithFadeOutDuration(e.cfg.Overlay.FadeOut),
	}
	if e.sessionID != "" {
		engineOpts = append(engineOpts, runtime.WithSessionID(e.sessionID))
	}
	e.engine = runtime.NewEngine(scene, sched, e.overlay, e.pulse, engineOpts...)
	return e, nil
}

// Start begins the setup workflow. It must run on the host loop.
func (e *Effect) Start(ctx context.Context) error {
	return e.engine.Start(ctx)
}

// Dispatch delivers an event directly, bypassing the host streams. It must
// run on the host loop.
func (e *Effect) Dispatch(ev domain.Event) error {
	return e.engine.Dispatch(ev)
}

// State returns a snapshot of the session. It is safe from any goroutine.
func (e *Effect) State() *domain.State {
	return e.engine.State()
}

// Done resolves once the workflow reaches Ready.
func (e *Effect) Done() *reactive.Future {
	return e.engine.Done()
}

// Layers exposes the bubble material's intermediate signals.
func (e *Effect) Layers() material.Layers { return e.layers }

// Overlay returns the setup overlay controller.
func (e *Effect) Overlay() *overlay.Overlay { return e.overlay }

// Pulse returns the grid pulse animator.
func (e *Effect) Pulse() *pulse.Animator { return e.pulse }

// Config returns the configuration in use.
func (e *Effect) Config() config.Config { return e.cfg }
