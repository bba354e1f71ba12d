package runtime

import "github.com/aretw0/bubblefx/pkg/domain"

// edges is the whole workflow: one accepted event per non-terminal stage.
var edges = map[domain.Stage]domain.EventType{
	domain.StageAwaitBackCamera: domain.EventCameraBack,
	domain.StageCalibrate:       domain.EventCalibrationElapsed,
	domain.StageAwaitPlacement:  domain.EventTap,
	domain.StageFinishUp:        domain.EventOverlayHidden,
}

// Transition returns the stage that follows stage on ev. It reports false,
// and returns stage unchanged, when stage does not accept ev.
func Transition(stage domain.Stage, ev domain.Event) (domain.Stage, bool) {
	want, ok := edges[stage]
	if !ok || want != ev.Type {
		return stage, false
	}
	return stage.Next()
}

// AwaitedEvent is the event the stage blocks on, if any.
func AwaitedEvent(stage domain.Stage) (domain.EventType, bool) {
	ev, ok := edges[stage]
	return ev, ok
}
