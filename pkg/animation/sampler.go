package animation

import "github.com/aretw0/bubblefx/pkg/signal"

// Sampler maps driver progress to an animated value.
type Sampler interface {
	Sample(progress float64) float64
}

// Linear interpolates from From to To.
type Linear struct {
	From, To float64
}

func (l Linear) Sample(p float64) float64 {
	return l.From + (l.To-l.From)*p
}

// Animate is a signal that reads the driver's progress through s every time
// it is evaluated.
func Animate(d *Driver, s Sampler) *signal.Signal {
	return signal.FromSource(animated{driver: d, sampler: s})
}

type animated struct {
	driver  *Driver
	sampler Sampler
}

func (a animated) Value() signal.Value {
	return signal.Scalar(a.sampler.Sample(a.driver.Progress()))
}
