package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// NewOutput returns a termenv output for w. Anything that is not a terminal
// gets plain ASCII so logs and pipes stay free of escape codes.
func NewOutput(w io.Writer) *termenv.Output {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.NewOutput(w)
	}
	return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
}

// Printer writes one line per workflow event.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, out: NewOutput(w)}
}

// Hooks returns lifecycle hooks that print every event.
func (p *Printer) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(_ context.Context, e *domain.StageEvent) { p.StageEntered(e) },
		OnStageLeave: func(_ context.Context, e *domain.StageEvent) { p.StageLeft(e) },
		OnPulse:      func(_ context.Context, e *domain.PulseEvent) { p.Pulsed(e) },
	}
}

func (p *Printer) StageEntered(e *domain.StageEvent) {
	color := "#38bdf8"
	if e.Stage.Terminal() {
		color = "#4ade80"
	}
	p.println(p.out.String("▸ " + e.Stage.String()).Foreground(p.out.Color(color)).Bold())
}

func (p *Printer) StageLeft(e *domain.StageEvent) {
	p.println(p.out.String(fmt.Sprintf("  ✓ %s (%s)", e.Stage, e.Elapsed.Round(time.Millisecond))).Faint())
}

func (p *Printer) Pulsed(e *domain.PulseEvent) {
	p.println(p.out.String(fmt.Sprintf("  ◎ pulse at (%.2f, %.2f, %.2f)", e.Location.X, e.Location.Y, e.Location.Z)).
		Foreground(p.out.Color("#c084fc")))
}

// Message prints a system message.
func (p *Printer) Message(format string, args ...any) {
	p.println(fmt.Sprintf(">>> %s", fmt.Sprintf(format, args...)))
}

func (p *Printer) println(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, v)
}
