package reactor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/jonboulle/clockwork"
)

// ErrStopped is returned by Call once the loop has exited.
var ErrStopped = errors.New("reactor: loop stopped")

// DefaultQueueSize is the number of tasks that can be pending before Post
// blocks.
const DefaultQueueSize = 256

// Scheduler is the part of the loop components depend on.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Loop is the host's single-threaded cooperative event loop. Every task and
// timer callback runs on the goroutine executing Run, one at a time, so the
// components it drives need no locking.
type Loop struct {
	clock  clockwork.Clock
	logger *slog.Logger
	tasks  chan func()
	done   chan struct{}
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock replaces the real clock, typically with clockwork.NewFakeClock.
func WithClock(c clockwork.Clock) Option {
	return func(l *Loop) {
		l.clock = c
	}
}

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithQueueSize sets the task buffer size.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// New creates a loop. It does nothing until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock:  clockwork.NewRealClock(),
		logger: logging.NewNop(),
		tasks:  make(chan func(), DefaultQueueSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.logger.Debug("reactor loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("reactor loop stopped", "err", ctx.Err())
			return ctx.Err()
		case task := <-l.tasks:
			task()
		}
	}
}

// Post queues f to run on the loop. Tasks posted after the loop exits are
// dropped.
func (l *Loop) Post(f func()) {
	select {
	case l.tasks <- f:
	case <-l.done:
	}
}

// Call runs f on the loop and waits for it to return. It must not be called
// from the loop goroutine.
func (l *Loop) Call(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		f()
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Now returns the loop clock's time.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// Clock returns the loop clock.
func (l *Loop) Clock() clockwork.Clock { return l.clock }

// AfterFunc runs f on the loop once d has elapsed. It must be called from the
// loop goroutine, as must Stop on the returned timer.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.inner = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped || t.fired {
				return
			}
			t.fired = true
			f()
		})
	})
	return t
}

type loopTimer struct {
	inner   clockwork.Timer
	stopped bool
	fired   bool
}

// Stop also covers a callback the clock already handed to the loop but the
// loop has not run yet.
func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.inner.Stop()
	return true
}
