package signal

import (
	"errors"
	"fmt"
)

// ErrTooFewStops is wrapped by the ConfigurationError GradientStep returns
// when it is given fewer than two stops.
var ErrTooFewStops = errors.New("gradient needs at least 2 stops")

// ConfigurationError reports an expression graph that was assembled wrongly.
// It indicates a programming error in a literal table, not a runtime state.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("signal: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// GradientStop is a colour and the threshold at which it is fully reached.
type GradientStop struct {
	Color     *Signal
	Threshold float64
}

// Stop is shorthand for a GradientStop.
func Stop(color *Signal, threshold float64) GradientStop {
	return GradientStop{Color: color, Threshold: threshold}
}

// GradientStep maps gradient onto a colour ramp. Starting from the first
// stop's colour, every following stop blends the running colour towards its
// own colour weighted by smoothStep(gradient, previous.Threshold,
// stop.Threshold).
//
// Stops are consumed in the order given. Callers must supply ascending
// thresholds; other orders produce a different, still well-defined blend.
func GradientStep(gradient *Signal, stops ...GradientStop) (*Signal, error) {
	if len(stops) < 2 {
		return nil, &ConfigurationError{Op: "gradientStep", Err: fmt.Errorf("%w, got %d", ErrTooFewStops, len(stops))}
	}
	out := stops[0].Color
	for i := 1; i < len(stops); i++ {
		w := SmoothStep(gradient, Float(stops[i-1].Threshold), Float(stops[i].Threshold))
		out = Mix(out, stops[i].Color, w)
	}
	return out, nil
}

// MustGradientStep is like GradientStep but panics on error. It is meant for
// literal stop tables known at compile time.
func MustGradientStep(gradient *Signal, stops ...GradientStop) *Signal {
	s, err := GradientStep(gradient, stops...)
	if err != nil {
		panic(err)
	}
	return s
}
