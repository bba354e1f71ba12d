package material

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/pkg/signal"
)

// Accents are the three highlight colours of the iridescent ramp, before
// shuffling.
var Accents = [3]signal.Value{
	signal.Vec4(0.9490196078, 0.7176470588, 0.02745098039, 1),
	signal.Vec4(0.01568627451, 0.9490196078, 0.7843137255, 1),
	signal.Vec4(0.6392156863, 0.01176470588, 0.3647058824, 1),
}

const (
	// Darken is subtracted from the final colour to keep highlights in range.
	Darken = 0.025
	// LuminanceThreshold is where the highlight mask starts to rise.
	LuminanceThreshold = 0.4

	diagonal     = 0.785398163
	antiDiagonal = 3.92699082
)

var (
	black = signal.Vec4Of(0, 0, 0, 1)
	grey  = signal.Vec4Of(0.5, 0.5, 0.5, 1)
	dim   = signal.Vec4Of(0.25, 0.25, 0.25, 1)
)

// Option configures the composer.
type Option func(*composer)

type composer struct {
	rng    signal.Rand
	logger *slog.Logger
}

// WithRand sets the random source used to shuffle the accent colours.
func WithRand(rng signal.Rand) Option {
	return func(c *composer) {
		c.rng = rng
	}
}

// WithLogger sets the composer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *composer) {
		c.logger = logger
	}
}

// Layers exposes the intermediate fields of the bubble material. Output is
// the one assigned to the material's diffuse slot.
type Layers struct {
	// Palette is the accent order picked at construction.
	Palette []signal.Value

	Mask        *signal.Signal
	Gradient    *signal.Signal
	Gradient2   *signal.Signal
	Gradient3   *signal.Signal
	Background  *signal.Signal
	Reflection  *signal.Signal
	Iridescence *signal.Signal
	Color       *signal.Signal
	Alpha       *signal.Signal
	Output      *signal.Signal
}

// Bubble returns the RGBA bubble material for a live camera texture.
func Bubble(texture *signal.Signal, opts ...Option) *signal.Signal {
	return Compose(texture, opts...).Output
}

// Compose builds every layer of the bubble material. The result has no state
// of its own; it is a pure function of texture, re-read on every evaluation.
func Compose(texture *signal.Signal, opts ...Option) Layers {
	c := &composer{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var l Layers
	uv := signal.UV()
	l.Mask = signal.CircularGradient()

	l.Palette = append([]signal.Value(nil), Accents[:]...)
	signal.Shuffle(l.Palette, c.rng)
	c.logger.Debug("bubble palette", "palette", l.Palette)

	l.Gradient = signal.MustGradientStep(l.Mask,
		signal.Stop(black, 0.1),
		signal.Stop(signal.Const(l.Palette[0]), 0.6),
		signal.Stop(signal.Const(l.Palette[1]), 0.8),
		signal.Stop(signal.Const(l.Palette[2]), 1),
	)
	l.Gradient2 = signal.MustGradientStep(l.Mask,
		signal.Stop(black, 0.9),
		signal.Stop(grey, 1),
	)
	l.Gradient3 = signal.Max(
		band(0.5, signal.UVRotate(uv, diagonal)),
		band(0.2, signal.UVRotate(uv, antiDiagonal)),
	)

	l.Background = signal.Composition(texture, signal.UVScreenSpace())

	displace := signal.Composition(l.Mask.Pow(signal.Float(4)).ToRange(0, 0.5), uv)
	reflection := signal.Composition(texture, uv.Add(displace))
	l.Reflection = signal.BlendLighten(
		reflection,
		signal.Composition(reflection, signal.UVRotate(uv, math.Pi)),
	).Add(signal.Max(l.Gradient2, l.Gradient3))

	highlights := signal.HighLuminance(l.Reflection, LuminanceThreshold)
	l.Iridescence = highlights.Mul(signal.Max(l.Gradient, l.Gradient3))

	l.Color = signal.BlendLighten(
		l.Background,
		l.Reflection.Add(l.Gradient3).Mul(l.Iridescence),
	).Sub(signal.Float(Darken))

	l.Alpha = l.Mask.Pow(signal.Float(100)).ToRange(1, 0)
	l.Output = signal.Pack4(l.Color.X(), l.Color.Y(), l.Color.Z(), l.Alpha)
	return l
}

// band is a horizontal dim-to-black ramp ending at edge, sampled along coord.
func band(edge float64, coord *signal.Signal) *signal.Signal {
	ramp := signal.MustGradientStep(signal.HorizontalGradient(),
		signal.Stop(dim, 0),
		signal.Stop(black, edge),
	)
	return signal.Composition(ramp, coord)
}
