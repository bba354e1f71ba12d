package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets editors finish writing before the script is re-read.
const reloadDelay = 100 * time.Millisecond

// RunWatch replays the script every time it or the config file changes,
// until ctx is cancelled. A run still in progress is cancelled by a change.
func RunWatch(ctx context.Context, opts SimulateOptions) error {
	if opts.ScriptPath == "" {
		return errors.New("--watch needs a script file")
	}
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, p := range []string{opts.ScriptPath, opts.ConfigPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Editors often replace files, so the directory is watched instead.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}
	logger.Info("Starting Watcher", "script", opts.ScriptPath, "config", opts.ConfigPath)

	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			_, err := Simulate(runCtx, opts)
			done <- err
		}()

		reload := false
		for !reload {
			select {
			case <-ctx.Done():
				cancel()
				if done != nil {
					<-done
				}
				return nil
			case err := <-done:
				done = nil
				if err := HandleExecutionError(err); err != nil {
					logger.Error("Simulation failed", "err", err)
				}
				printSystemMessage("Waiting for changes...")
			case ev, ok := <-watcher.Events:
				if !ok {
					cancel()
					return nil
				}
				if watched[filepath.Clean(ev.Name)] && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.Info("Change detected, triggering reload", "event", ev.String())
					printSystemMessage("Change detected in '%s'.", filepath.Base(ev.Name))
					reload = true
				}
			case err, ok := <-watcher.Errors:
				if ok {
					logger.Warn("Watcher error", "err", err)
				}
			}
		}

		cancel()
		if done != nil {
			<-done
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reloadDelay):
		}
	}
}
