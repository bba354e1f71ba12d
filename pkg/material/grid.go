package material

import "github.com/aretw0/bubblefx/pkg/signal"

// DefaultGridSize is the number of grid cells per unit of surface position.
const DefaultGridSize = 80

// Grid draws anti-aliased world-space grid lines. RGB carries the line
// intensity and alpha is 1 on the lines only.
func Grid(size float64) *signal.Signal {
	coord := signal.Pack2(signal.Position().X(), signal.Position().Y()).Mul(signal.Float(size))
	half := signal.Float(0.5)
	dist := coord.Sub(half).Fract().Sub(half).Abs().Div(signal.FWidth(coord))

	nearest := signal.Min(signal.Min(dist.X(), dist.Y()), signal.Float(1))
	lines := signal.Float(1.89).Sub(nearest)
	return signal.Pack4(lines, lines, lines, signal.Step(lines, signal.Float(0.9)))
}
