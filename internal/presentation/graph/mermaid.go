package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/bubblefx/internal/runtime"
	"github.com/aretw0/bubblefx/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	Visited []domain.Stage
	Current *domain.Stage
}

// OverlayFromState builds an overlay from a session snapshot.
func OverlayFromState(s *domain.State) *GraphOverlay {
	if s == nil || s.Status == domain.StatusIdle {
		return nil
	}
	current := s.Stage
	return &GraphOverlay{Visited: s.History, Current: &current}
}

// GenerateMermaid produces a Mermaid flowchart of the calibration workflow.
// It applies semantic styling:
// - First stage: ((Circle))
// - Timed stage: [[Subroutine]]
// - Stage waiting on user input: [/Parallelogram/]
// - Terminal: ([Stadium])
// - Default: [Rectangle]
// Edges are labelled with the event each stage waits for.
func GenerateMermaid(overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, stage := range domain.Stages {
		id := stage.String()

		opener, closer := "[", "]"
		switch {
		case stage == domain.StageAwaitBackCamera:
			opener, closer = "((", "))"
		case stage == domain.StageCalibrate:
			opener, closer = "[[", "]]"
		case stage == domain.StageAwaitPlacement:
			opener, closer = "[/", "/]"
		case stage.Terminal():
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, id, closer)

		ev, ok := runtime.AwaitedEvent(stage)
		if !ok {
			continue
		}
		if next, ok := stage.Next(); ok {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, ev, next)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Stage]bool)
		for _, s := range overlay.Visited {
			if seen[s] {
				continue
			}
			seen[s] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", s)
		}
		if overlay.Current != nil {
			fmt.Fprintf(&sb, "    class %s current;\n", *overlay.Current)
		}
	}

	return sb.String()
}
