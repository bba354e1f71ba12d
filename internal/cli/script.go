package cli

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScript is wrapped by every script validation failure.
var ErrInvalidScript = errors.New("invalid script")

// Script is a timed sequence of host events replayed against the in-memory
// scene.
//
//	name: happy-path
//	plane_scale: [2, 2, 2]
//	steps:
//	  - at: 500ms
//	    camera: BACK
//	  - at: 4s
//	    tap: {x: 0.5, y: 0.5}
type Script struct {
	Name       string     `mapstructure:"name"`
	PlaneScale [3]float64 `mapstructure:"plane_scale"`
	Steps      []Step     `mapstructure:"steps"`
}

// Step is one host event. Exactly one of Camera, Tap, Recording or Event is
// set. At is measured from the start of the session.
type Step struct {
	At        time.Duration    `mapstructure:"at"`
	Camera    string           `mapstructure:"camera"`
	Tap       *domain.Location `mapstructure:"tap"`
	Recording *bool            `mapstructure:"recording"`
	// Event dispatches a workflow event directly, skipping the host.
	Event string `mapstructure:"event"`
}

func (s Step) String() string {
	switch {
	case s.Camera != "":
		return "camera " + s.Camera
	case s.Tap != nil:
		return fmt.Sprintf("tap (%.2f, %.2f)", s.Tap.X, s.Tap.Y)
	case s.Recording != nil:
		return fmt.Sprintf("recording %t", *s.Recording)
	default:
		return "event " + s.Event
	}
}

// DefaultScript is the shortest run that reaches Ready with the default
// configuration.
func DefaultScript() *Script {
	return &Script{
		Name:       "default",
		PlaneScale: [3]float64{1, 1, 1},
		Steps: []Step{
			{At: 500 * time.Millisecond, Camera: string(domain.FacingBack)},
			{At: 5 * time.Second, Tap: &domain.Location{X: 0.5, Y: 0.5}},
		},
	}
}

// LoadScript reads a script file. An empty path returns DefaultScript.
func LoadScript(path string) (*Script, error) {
	if path == "" {
		return DefaultScript(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script. Steps are ordered by At,
// keeping file order for equal offsets.
func ParseScript(data []byte) (*Script, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	s := &Script{PlaneScale: [3]float64{1, 1, 1}}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           s,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(s.Steps, func(a, b Step) int {
		return cmp.Compare(a.At, b.At)
	})
	return s, nil
}

// Validate reports the first malformed step.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		set := 0
		if st.Camera != "" {
			set++
			switch domain.Facing(strings.ToUpper(st.Camera)) {
			case domain.FacingBack, domain.FacingFront:
			default:
				return fmt.Errorf("%w: step %d: unknown camera facing %q", ErrInvalidScript, i, st.Camera)
			}
		}
		if st.Tap != nil {
			set++
		}
		if st.Recording != nil {
			set++
		}
		if st.Event != "" {
			set++
			if !knownEvent(domain.EventType(st.Event)) {
				return fmt.Errorf("%w: step %d: unknown event %q", ErrInvalidScript, i, st.Event)
			}
		}
		if set != 1 {
			return fmt.Errorf("%w: step %d: exactly one of camera, tap, recording or event is required", ErrInvalidScript, i)
		}
		if st.At < 0 {
			return fmt.Errorf("%w: step %d: negative offset", ErrInvalidScript, i)
		}
	}
	return nil
}

func knownEvent(t domain.EventType) bool {
	switch t {
	case domain.EventCameraBack, domain.EventCalibrationElapsed, domain.EventTap, domain.EventOverlayHidden:
		return true
	}
	return false
}

// Duration is the offset of the last step.
func (s *Script) Duration() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At
}
