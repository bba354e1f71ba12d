package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/bubblefx/internal/raster"
	"github.com/aretw0/bubblefx/pkg/material"
	"github.com/aretw0/bubblefx/pkg/signal"
)

// RenderOptions contains all the configuration for the render command.
type RenderOptions struct {
	ConfigPath string
	Overrides  []string
	LogLevel   string

	// Input is a PNG or JPEG standing in for the camera feed. Empty uses a
	// procedural sky.
	Input string
	// Output is the PNG path; "-" writes to Out.
	Output string
	// Layer selects which signal to render. See Layers.
	Layer string
	Out   io.Writer
}

// Layers lists the renderable layer names.
func Layers() []string {
	names := make([]string, 0, len(layerPicks)+1)
	for k := range layerPicks {
		names = append(names, k)
	}
	names = append(names, "grid")
	sort.Strings(names)
	return names
}

var layerPicks = map[string]func(material.Layers) *signal.Signal{
	"output":      func(l material.Layers) *signal.Signal { return l.Output },
	"mask":        func(l material.Layers) *signal.Signal { return l.Mask },
	"gradient":    func(l material.Layers) *signal.Signal { return l.Gradient },
	"gradient2":   func(l material.Layers) *signal.Signal { return l.Gradient2 },
	"gradient3":   func(l material.Layers) *signal.Signal { return l.Gradient3 },
	"background":  func(l material.Layers) *signal.Signal { return l.Background },
	"reflection":  func(l material.Layers) *signal.Signal { return l.Reflection },
	"iridescence": func(l material.Layers) *signal.Signal { return l.Iridescence },
	"color":       func(l material.Layers) *signal.Signal { return l.Color },
	"alpha":       func(l material.Layers) *signal.Signal { return l.Alpha },
}

// sky is the default camera stand-in: a vertical blue gradient with a warm
// horizon.
var sky = signal.TextureFunc(func(u, v float64) [4]float64 {
	return [4]float64{0.35 + 0.5*v, 0.55 + 0.25*v, 0.95 - 0.35*v, 1}
})

// Render writes one material layer as a PNG.
func Render(ctx context.Context, opts RenderOptions) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.Overrides, opts.LogLevel)
	if err != nil {
		return err
	}
	logger := createLogger(cfg)

	var tex signal.TextureSource = sky
	if opts.Input != "" {
		img, err := raster.LoadImage(opts.Input)
		if err != nil {
			return err
		}
		tex = raster.NewImageTexture(img)
	}

	seed := cfg.Render.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("rendering", "layer", opts.Layer, "seed", seed)

	layer := strings.ToLower(opts.Layer)
	if layer == "" {
		layer = "output"
	}
	var s *signal.Signal
	if layer == "grid" {
		s = material.Grid(cfg.Pulse.Size)
	} else {
		pick, ok := layerPicks[layer]
		if !ok {
			return fmt.Errorf("unknown layer %q (want one of %s)", opts.Layer, strings.Join(Layers(), ", "))
		}
		l := material.Compose(signal.Texture(tex),
			material.WithRand(rand.New(rand.NewSource(seed))),
			material.WithLogger(logger),
		)
		s = pick(l)
	}

	img, err := raster.New(raster.WithLogger(logger)).Render(ctx, s, cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return err
	}

	if opts.Output == "" || opts.Output == "-" {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return raster.WritePNG(out, img)
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.Output, err)
	}
	if err := raster.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
