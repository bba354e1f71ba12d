package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// hintText is what the device shows for each hint.
var hintText = map[string]string{
	domain.HintFlipCamera:    "Flip to the back camera",
	domain.HintLookAround:    "Look around to find a surface",
	domain.HintTapToPlace:    "Tap a surface to place the bubble",
	domain.HintPressToLaunch: "Press to launch bubbles",
}

// HintText returns the instruction shown for hint, or the id itself.
func HintText(hint string) string {
	if t, ok := hintText[hint]; ok {
		return t
	}
	return hint
}

// HintsMarkdown lists the visible hints as a markdown section.
func HintsMarkdown(stage domain.Stage, shown []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n\n", stage)
	if len(shown) == 0 {
		sb.WriteString("_no hints_\n")
		return sb.String()
	}
	shown = append([]string(nil), shown...)
	sort.Strings(shown)
	for _, h := range shown {
		fmt.Fprintf(&sb, "- **%s** `%s`\n", HintText(h), h)
	}
	return sb.String()
}
