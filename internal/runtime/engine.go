package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/ports"
	"github.com/aretw0/bubblefx/pkg/reactive"
	"github.com/aretw0/bubblefx/pkg/reactor"
	"github.com/google/uuid"
)

const (
	// DefaultCalibrationDuration is how long the look-around hint stays up.
	DefaultCalibrationDuration = 3 * time.Second
	// DefaultFadeOutDuration is the overlay fade at the end of setup.
	DefaultFadeOutDuration = 300 * time.Millisecond
)

// Pulser triggers the grid pulse when the plane is placed.
type Pulser interface {
	Pulse()
}

// Fader dismisses the setup overlay.
type Fader interface {
	FadeOut(d time.Duration) (*reactive.Future, error)
	Hide()
}

// Engine sequences the calibration workflow. Every method except State must
// be called from the host loop; host callbacks are queued and applied one at
// a time, so stage actions never run nested inside each other.
type Engine struct {
	scene   *ports.Scene
	sched   reactor.Scheduler
	overlay Fader
	pulser  Pulser

	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	calibration time.Duration
	fadeOut     time.Duration
	sessionID   string

	ctx         context.Context
	mu          sync.RWMutex
	state       *domain.State
	started     bool
	queue       []domain.Event
	dispatching bool
	wait        *reactive.Subscription
	timer       reactor.Timer
	done        *reactive.Future
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCalibrationDuration sets how long the Calibrate stage lasts.
func WithCalibrationDuration(d time.Duration) Option {
	return func(e *Engine) {
		e.calibration = d
	}
}

// WithFadeOutDuration sets the overlay fade-out length.
func WithFadeOutDuration(d time.Duration) Option {
	return func(e *Engine) {
		e.fadeOut = d
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.sessionID = id
	}
}

// NewEngine creates an engine over scene. It does nothing until Start.
func NewEngine(scene *ports.Scene, sched reactor.Scheduler, overlay Fader, pulser Pulser, opts ...Option) *Engine {
	e := &Engine{
		scene:       scene,
		sched:       sched,
		overlay:     overlay,
		pulser:      pulser,
		logger:      logging.NewNop(),
		calibration: DefaultCalibrationDuration,
		fadeOut:     DefaultFadeOutDuration,
		ctx:         context.Background(),
		done:        reactive.NewFuture(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sessionID == "" {
		e.sessionID = uuid.NewString()
	}
	e.state = domain.NewState(e.sessionID)
	return e
}

// Start enters the first stage. The context is passed to lifecycle hooks.
func (e *Engine) Start(ctx context.Context) error {
	if e.started {
		return domain.ErrAlreadyStarted
	}
	e.started = true
	e.ctx = ctx

	e.mu.Lock()
	e.state.Status = domain.StatusActive
	e.mu.Unlock()

	e.logger.Info("calibration started", "session", e.sessionID)
	e.dispatching = true
	e.enter(domain.StageAwaitBackCamera)
	e.drain()
	return nil
}

// Dispatch applies ev to the current stage. Events dispatched from inside a
// stage action are queued and applied after it returns; their errors are
// logged rather than returned.
func (e *Engine) Dispatch(ev domain.Event) error {
	if !e.started {
		return domain.ErrNotStarted
	}
	if e.dispatching {
		e.queue = append(e.queue, ev)
		return nil
	}
	e.dispatching = true
	err := e.apply(ev)
	e.drain()
	return err
}

// State returns a snapshot of the session. It is safe to call from any
// goroutine.
func (e *Engine) State() *domain.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// Stage is the current stage.
func (e *Engine) Stage() domain.Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Stage
}

// Done resolves when the Ready stage is entered.
func (e *Engine) Done() *reactive.Future { return e.done }

// post is the callback path for host streams and timers.
func (e *Engine) post(ev domain.Event) {
	if err := e.Dispatch(ev); err != nil {
		e.logger.Warn("event dropped", "event", ev, "err", err)
	}
}

func (e *Engine) drain() {
	for len(e.queue) > 0 {
		ev := e.queue[0]
		e.queue = e.queue[1:]
		if err := e.apply(ev); err != nil {
			e.logger.Warn("event dropped", "event", ev, "err", err)
		}
	}
	e.dispatching = false
}

func (e *Engine) apply(ev domain.Event) error {
	from := e.Stage()
	to, ok := Transition(from, ev)
	if !ok {
		return fmt.Errorf("%w: %s in %s", domain.ErrStageRejected, ev, from)
	}
	e.leave(from, ev)
	e.enter(to)
	return nil
}

func (e *Engine) enter(stage domain.Stage) {
	now := e.sched.Now()
	e.mu.Lock()
	e.state.Stage = stage
	e.state.EnteredAt = now
	e.state.History = append(e.state.History, stage)
	if stage.Terminal() {
		e.state.Status = domain.StatusReady
	}
	e.mu.Unlock()

	e.logger.Debug("stage entered", "session", e.sessionID, "stage", stage)
	if e.hooks.OnStageEnter != nil {
		e.hooks.OnStageEnter(e.ctx, &domain.StageEvent{Timestamp: now, SessionID: e.sessionID, Stage: stage})
	}

	switch stage {
	case domain.StageAwaitBackCamera:
		e.awaitBackCamera()
	case domain.StageCalibrate:
		e.calibrate()
	case domain.StageAwaitPlacement:
		e.awaitPlacement()
	case domain.StageFinishUp:
		e.finishUp()
	case domain.StageReady:
		e.logger.Info("calibration ready", "session", e.sessionID)
		e.done.Resolve()
	}
}

func (e *Engine) leave(stage domain.Stage, ev domain.Event) {
	e.wait.Unsubscribe()
	e.wait = nil
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	switch stage {
	case domain.StageAwaitBackCamera:
		e.scene.Hints.Bind(domain.HintFlipCamera, false)
	case domain.StageCalibrate:
		e.scene.Hints.Bind(domain.HintLookAround, false)
	case domain.StageAwaitPlacement:
		e.place(ev.Location)
	case domain.StageFinishUp:
		e.overlay.Hide()
		e.scene.Hints.BindLive(domain.HintPressToLaunch, reactive.Not(e.scene.Camera.Recording()))
	}

	now := e.sched.Now()
	e.mu.RLock()
	elapsed := now.Sub(e.state.EnteredAt)
	e.mu.RUnlock()
	if e.hooks.OnStageLeave != nil {
		e.hooks.OnStageLeave(e.ctx, &domain.StageEvent{Timestamp: now, SessionID: e.sessionID, Stage: stage, Elapsed: elapsed})
	}
}
