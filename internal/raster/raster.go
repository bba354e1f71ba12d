// Package raster evaluates signals over a pixel grid so materials can be
// inspected without a device.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decoder registration for LoadImage
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	goruntime "runtime"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/pkg/signal"
	"golang.org/x/sync/errgroup"
)

// Renderer evaluates a signal once per pixel centre.
type Renderer struct {
	workers int
	surface signal.SurfaceFunc
	logger  *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers bounds the number of rows evaluated concurrently.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSurface replaces the clip-space quad the signal is evaluated on.
func WithSurface(fn signal.SurfaceFunc) Option {
	return func(r *Renderer) {
		r.surface = fn
	}
}

// WithLogger sets the renderer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New creates a renderer using one worker per CPU.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		workers: goruntime.NumCPU(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render evaluates s into a width×height image. Rows are evaluated in
// parallel, so every Source in s must be safe to read concurrently.
func (r *Renderer) Render(ctx context.Context, s *signal.Signal, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	base := signal.NewEnv(0, 0)
	base.Step = [2]float64{1 / float64(width), 1 / float64(height)}
	base.Surface = r.surface

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for y := 0; y < height; y++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v := (float64(y) + 0.5) / float64(height)
			for x := 0; x < width; x++ {
				u := (float64(x) + 0.5) / float64(width)
				img.SetNRGBA(x, y, ToColor(s.Eval(base.At(u, v))))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("signal rendered", "width", width, "height", height)
	return img, nil
}

// ToColor maps a value to a pixel. Scalars are grey, two-component values
// fill red and green, and anything without an alpha channel is opaque.
// Components are clamped to [0, 1]; NaN renders as 0.
func ToColor(v signal.Value) color.NRGBA {
	c := [4]float64{0, 0, 0, 1}
	switch v.Kind {
	case signal.KindScalar, signal.KindBool:
		c[0], c[1], c[2] = v.V[0], v.V[0], v.V[0]
	case signal.KindVec2:
		c[0], c[1] = v.V[0], v.V[1]
	case signal.KindVec3:
		c[0], c[1], c[2] = v.V[0], v.V[1], v.V[2]
	default:
		c = v.V
	}
	return color.NRGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: channel(c[3])}
}

func channel(x float64) uint8 {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(math.Round(x * 255))
}

// ImageTexture samples an image with nearest-neighbour lookup. Coordinates
// outside the unit square clamp to the edge.
type ImageTexture struct {
	img image.Image
}

// NewImageTexture wraps img as a texture source.
func NewImageTexture(img image.Image) *ImageTexture {
	return &ImageTexture{img: img}
}

func (t *ImageTexture) Sample(u, v float64) [4]float64 {
	b := t.img.Bounds()
	x := b.Min.X + clampIndex(u, b.Dx())
	y := b.Min.Y + clampIndex(v, b.Dy())
	c := color.NRGBAModel.Convert(t.img.At(x, y)).(color.NRGBA)
	return [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

func clampIndex(t float64, n int) int {
	i := int(math.Floor(t * float64(n)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// LoadImage decodes a PNG or JPEG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
