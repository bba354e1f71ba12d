package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/bubblefx"
	"github.com/aretw0/bubblefx/internal/presentation/tui"
	"github.com/aretw0/bubblefx/pkg/adapters/memory"
	httpadapter "github.com/aretw0/bubblefx/pkg/adapters/http"
	"github.com/aretw0/bubblefx/pkg/config"
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/observability"
	"github.com/aretw0/bubblefx/pkg/reactor"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// ErrStalled is returned when the session is still waiting after the script
// and the grace period are over.
var ErrStalled = errors.New("session stalled")

// DefaultGrace is how long a simulation waits for Ready after its last step.
const DefaultGrace = 5 * time.Second

// SimulateOptions contains all the configuration for the simulate command.
type SimulateOptions struct {
	ScriptPath string
	ConfigPath string
	Overrides  []string
	LogLevel   string

	// Addr serves the status API while the session runs. Empty disables it.
	Addr string
	// Hold keeps the status API up after the session ends, until interrupted.
	Hold bool

	// Speed divides every duration of the config and the script.
	Speed float64
	// Grace is the wall-clock wait for Ready after the last step.
	Grace time.Duration

	Quiet bool
	Out   io.Writer

	// OnListen is called with the bound status address.
	OnListen func(net.Addr)
}

// Result is the outcome of a simulation.
type Result struct {
	Script *Script
	State  *domain.State
	Hints  []string
}

// Simulate replays a script against an in-memory scene on a host loop.
func Simulate(ctx context.Context, opts SimulateOptions) (*Result, error) {
	cfg, err := loadConfig(opts.ConfigPath, opts.Overrides, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := createLogger(cfg)
	script, err := LoadScript(opts.ScriptPath)
	if err != nil {
		return nil, err
	}
	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}
	cfg = scaleConfig(cfg, speed)
	grace := opts.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	printer := tui.NewPrinter(out)
	if !opts.Quiet {
		tui.PrintBanner(out, bubblefx.Version)
		printer.Message("Running script '%s' (%d steps, speed x%g).", script.Name, len(script.Steps), speed)
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	status := httpadapter.NewServer(nil,
		httpadapter.WithGatherer(reg),
		httpadapter.WithVersion(bubblefx.Version),
		httpadapter.WithLogger(logger),
	)

	hooks := []domain.LifecycleHooks{observability.LogHooks(logger), metrics.Hooks(), status.Hooks()}
	if !opts.Quiet {
		hooks = append(hooks, printer.Hooks())
	}

	loop := reactor.New(reactor.WithLogger(logger))
	scene := memory.NewScene(nil)
	scene.Plane = memory.NewPlane(script.PlaneScale)

	// Nothing runs on the loop yet, so the effect can be built here.
	effect, err := bubblefx.New(scene.Ports(), loop,
		bubblefx.WithConfig(cfg),
		bubblefx.WithLogger(logger),
		bubblefx.WithLifecycleHooks(observability.Chain(hooks...)),
	)
	if err != nil {
		return nil, err
	}
	status.Session = effect

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(loop.Run(gctx))
	})

	if opts.Addr != "" {
		ln, err := net.Listen("tcp", opts.Addr)
		if err != nil {
			cancel()
			_ = g.Wait()
			return nil, fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
		}
		logger.Info("status server listening", "addr", ln.Addr().String())
		if !opts.Quiet {
			printer.Message("Status API at http://%s (/state, /graph, /events, /metrics).", ln.Addr())
		}
		if opts.OnListen != nil {
			opts.OnListen(ln.Addr())
		}
		g.Go(func() error {
			return serve(gctx, ln, status.Handler(), logger)
		})
	}

	var stalled bool
	g.Go(func() error {
		var err error
		stalled, err = feed(gctx, loop, effect, scene, script, speed, grace, logger, printer, opts.Quiet)
		if err == nil && opts.Hold && opts.Addr != "" {
			if !opts.Quiet {
				printer.Message("Holding status API, press Ctrl+C to exit.")
			}
			<-gctx.Done()
		}
		cancel()
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Script: script, State: effect.State(), Hints: scene.Hints.Shown()}
	if !opts.Quiet {
		if md, err := tui.NewRenderer()(tui.HintsMarkdown(res.State.Stage, res.Hints)); err == nil {
			fmt.Fprint(out, md)
		}
	}
	if stalled {
		if !opts.Quiet {
			printer.Message("Stalled at '%s' stage.", res.State.Stage)
		}
		return res, fmt.Errorf("%w at %s", ErrStalled, res.State.Stage)
	}
	if !opts.Quiet && res.State.Status == domain.StatusReady {
		printer.Message("Finished at '%s' stage.", res.State.Stage)
	}
	return res, nil
}

// feed starts the effect and replays the steps at their offsets. It reports
// whether Ready was still pending when the grace period ran out.
func feed(ctx context.Context, loop *reactor.Loop, effect *bubblefx.Effect, scene *memory.Scene, script *Script, speed float64, grace time.Duration, logger *slog.Logger, printer *tui.Printer, quiet bool) (bool, error) {
	var startErr error
	if err := loop.Call(ctx, func() { startErr = effect.Start(ctx) }); err != nil {
		return false, stopped(ctx, err)
	}
	if startErr != nil {
		return false, startErr
	}

	clock := loop.Clock()
	begin := clock.Now()
	for _, st := range script.Steps {
		wait := begin.Add(scale(st.At, speed)).Sub(clock.Now())
		select {
		case <-ctx.Done():
			return false, nil
		case <-clock.After(wait):
		}

		if !quiet {
			printer.Message("t+%s %s", st.At, st)
		}
		var applyErr error
		if err := loop.Call(ctx, func() { applyErr = apply(effect, scene, st) }); err != nil {
			return false, stopped(ctx, err)
		}
		if applyErr != nil {
			logger.Warn("script step rejected", "step", st.String(), "err", applyErr)
		}
	}

	select {
	case <-effect.Done().Done():
		return false, nil
	case <-clock.After(grace):
		return true, nil
	case <-ctx.Done():
		return false, nil
	}
}

// stopped drops loop errors caused by the session being cancelled.
func stopped(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// apply runs on the loop.
func apply(effect *bubblefx.Effect, scene *memory.Scene, st Step) error {
	switch {
	case st.Camera != "":
		scene.Camera.FacingValue.Set(domain.Facing(strings.ToUpper(st.Camera)))
	case st.Tap != nil:
		scene.Touch.Tap(*st.Tap)
	case st.Recording != nil:
		scene.Camera.RecordingValue.Set(*st.Recording)
	default:
		return effect.Dispatch(domain.Event{Type: domain.EventType(st.Event)})
	}
	return nil
}

func serve(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		// Streaming requests end with the session.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return fmt.Errorf("status server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("status server shutdown", "err", err)
		}
		<-errCh
		return nil
	}
}

func scale(d time.Duration, speed float64) time.Duration {
	s := time.Duration(float64(d) / speed)
	if d > 0 && s <= 0 {
		return 1
	}
	return s
}

func scaleConfig(cfg config.Config, speed float64) config.Config {
	cfg.Calibration = scale(cfg.Calibration, speed)
	cfg.Overlay.FadeOut = scale(cfg.Overlay.FadeOut, speed)
	cfg.Pulse.Duration = scale(cfg.Pulse.Duration, speed)
	return cfg
}
