package domain

import (
	"context"
	"time"
)

// EventType is the kind of an external event delivered to the orchestrator.
type EventType string

const (
	EventCameraBack         EventType = "camera_back"
	EventCalibrationElapsed EventType = "calibration_elapsed"
	EventTap                EventType = "tap"
	EventOverlayHidden      EventType = "overlay_hidden"
)

// Event is one external occurrence. Location is only set for taps.
type Event struct {
	Type     EventType `json:"type"`
	Location Location  `json:"location,omitempty"`
}

func (e Event) String() string { return string(e.Type) }

// CameraBack reports that the back camera became active.
func CameraBack() Event { return Event{Type: EventCameraBack} }

// CalibrationElapsed reports the end of the calibration timer.
func CalibrationElapsed() Event { return Event{Type: EventCalibrationElapsed} }

// Tap reports a surface tap at loc.
func Tap(loc Location) Event { return Event{Type: EventTap, Location: loc} }

// OverlayHidden reports that the overlay fade-out completed.
func OverlayHidden() Event { return Event{Type: EventOverlayHidden} }

// StageEvent describes entry into or exit from a stage.
type StageEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Stage     Stage     `json:"stage"`
	// Elapsed is the time spent in Stage. It is zero on entry.
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// PulseEvent describes a grid pulse triggered by a placement tap.
type PulseEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Location  Location  `json:"location"`
}

// LifecycleHooks defines callbacks for orchestrator observability.
type LifecycleHooks struct {
	OnStageEnter func(context.Context, *StageEvent)
	OnStageLeave func(context.Context, *StageEvent)
	OnPulse      func(context.Context, *PulseEvent)
}
