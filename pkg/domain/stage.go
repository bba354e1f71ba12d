package domain

import "fmt"

// Stage is a step of the calibration workflow.
type Stage int

const (
	// StageAwaitBackCamera waits for the back camera to be active.
	StageAwaitBackCamera Stage = iota
	// StageCalibrate asks the user to look around for a fixed time.
	StageCalibrate
	// StageAwaitPlacement waits for a tap on a detected surface.
	StageAwaitPlacement
	// StageFinishUp fades the overlay out.
	StageFinishUp
	// StageReady is terminal.
	StageReady
)

// Stages lists every stage in workflow order.
var Stages = []Stage{StageAwaitBackCamera, StageCalibrate, StageAwaitPlacement, StageFinishUp, StageReady}

var stageNames = map[Stage]string{
	StageAwaitBackCamera: "await_back_camera",
	StageCalibrate:       "calibrate",
	StageAwaitPlacement:  "await_placement",
	StageFinishUp:        "finish_up",
	StageReady:           "ready",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseStage returns the stage with the given name.
func ParseStage(name string) (Stage, error) {
	for s, n := range stageNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", name)
}

// Terminal reports whether s has no outgoing edge.
func (s Stage) Terminal() bool { return s == StageReady }

// Next returns the stage that follows s, if any.
func (s Stage) Next() (Stage, bool) {
	if s < StageAwaitBackCamera || s >= StageReady {
		return s, false
	}
	return s + 1, true
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	v, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
