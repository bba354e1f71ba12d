package tui_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aretw0/bubblefx/internal/presentation/tui"
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	h := tui.NewPrinter(&buf).Hooks()
	ctx := context.Background()

	h.OnStageEnter(ctx, &domain.StageEvent{Stage: domain.StageCalibrate})
	h.OnStageLeave(ctx, &domain.StageEvent{Stage: domain.StageCalibrate, Elapsed: 3 * time.Second})
	h.OnPulse(ctx, &domain.PulseEvent{Location: domain.Location{X: 0.5, Y: 0.25}})

	assert.Equal(t, "▸ calibrate\n  ✓ calibrate (3s)\n  ◎ pulse at (0.50, 0.25, 0.00)\n", buf.String())
	assert.NotContains(t, buf.String(), "\x1b[", "buffers are not terminals")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestHintsMarkdown(t *testing.T) {
	md := tui.HintsMarkdown(domain.StageReady, []string{domain.HintPressToLaunch})
	assert.Equal(t, "### ready\n\n- **Press to launch bubbles** `press_to_launch`\n", md)

	assert.Contains(t, tui.HintsMarkdown(domain.StageCalibrate, nil), "_no hints_")
	assert.Equal(t, "custom", tui.HintText("custom"))
}
