package ports

import (
	"errors"
	"fmt"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/reactive"
	"github.com/aretw0/bubblefx/pkg/signal"
)

// ErrMissingHandle is returned by Scene.Validate for unset handles.
var ErrMissingHandle = errors.New("scene handle missing")

func missing(name string) error { return fmt.Errorf("%w: %s", ErrMissingHandle, name) }

// HintBinder activates on-screen instruction hints.
type HintBinder interface {
	// Bind shows or hides hint. It replaces any previous binding of hint.
	Bind(hint string, on bool)

	// BindLive keeps hint in sync with cond until it is bound again.
	BindLive(hint string, cond reactive.Behavior[bool])
}

// MaterialSlot receives the signal driving one texture slot of a material.
type MaterialSlot interface {
	SetTextureSlot(slot string, s *signal.Signal)
}

// OverlayRoot is the full-screen overlay object.
type OverlayRoot interface {
	MaterialSlot

	// SetHidden removes the overlay from rendering.
	SetHidden(hidden bool)
}

// PlaneTracker is a host object locking a virtual surface to a real plane.
type PlaneTracker interface {
	// WorldScale is the plane's current world-space scale.
	WorldScale() [3]float64

	// TrackPoint anchors the plane at a tap location.
	TrackPoint(loc domain.Location)
}

// Positioner is a scene node whose scale can be set.
type Positioner interface {
	SetScale(scale [3]float64)
}

// Camera exposes the capture device state.
type Camera interface {
	Facing() reactive.Behavior[domain.Facing]
	Recording() reactive.Behavior[bool]
}

// Touch exposes tap gestures.
type Touch interface {
	Taps() reactive.Observable[domain.Location]
}

// Scene holds the long-lived host handles. It is populated once at load and
// only read afterwards.
type Scene struct {
	Hints      HintBinder
	Overlay    OverlayRoot
	Bubble     MaterialSlot
	Grid       MaterialSlot
	Plane      PlaneTracker
	Positioner Positioner
	Camera     Camera
	Touch      Touch

	// CameraTexture is the live camera feed.
	CameraTexture *signal.Signal
}

// Validate reports the first missing handle.
func (s *Scene) Validate() error {
	switch {
	case s.Hints == nil:
		return missing("hints")
	case s.Overlay == nil:
		return missing("overlay")
	case s.Bubble == nil:
		return missing("bubble material")
	case s.Grid == nil:
		return missing("grid material")
	case s.Plane == nil:
		return missing("plane tracker")
	case s.Positioner == nil:
		return missing("positioner")
	case s.Camera == nil:
		return missing("camera")
	case s.Touch == nil:
		return missing("touch")
	case s.CameraTexture == nil:
		return missing("camera texture")
	}
	return nil
}
