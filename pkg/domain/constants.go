package domain

// Hint identifiers understood by the host's instruction binder.
const (
	HintFlipCamera    = "flip_camera"
	HintLookAround    = "look_around"
	HintTapToPlace    = "tap_to_place"
	HintPressToLaunch = "press_to_launch"
)

// SlotDiffuse is the material texture slot every component writes to.
const SlotDiffuse = "DIFFUSE"

// Facing is the capture device position reported by the camera.
type Facing string

const (
	FacingFront Facing = "FRONT"
	FacingBack  Facing = "BACK"
)

// Location is a point reported by a touch gesture, in screen or world
// coordinates depending on the host.
type Location struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
	Z float64 `json:"z,omitempty" yaml:"z,omitempty" mapstructure:"z"`
}
