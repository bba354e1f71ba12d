package raster_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/aretw0/bubblefx/internal/raster"
	"github.com/aretw0/bubblefx/pkg/material"
	"github.com/aretw0/bubblefx/pkg/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_UV(t *testing.T) {
	img, err := raster.New(raster.WithWorkers(2)).Render(context.Background(), signal.UV(), 4, 4)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	// Pixel centres sit at 1/8, 3/8, 5/8, 7/8.
	assert.Equal(t, color.NRGBA{R: 32, G: 32, B: 0, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 223, G: 96, B: 0, A: 255}, img.NRGBAAt(3, 1))
}

func TestRender_SucceedsWithLiveContext(t *testing.T) {
	ctx := context.Background()
	r := raster.New(raster.WithWorkers(3))
	for i := 0; i < 2; i++ {
		img, err := r.Render(ctx, signal.Float(1), 2, 2)
		require.NoError(t, err)
		require.NotNil(t, img)
		assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(1, 1))
	}
}

func TestRender_InvalidSize(t *testing.T) {
	_, err := raster.New().Render(context.Background(), signal.UV(), 0, 4)
	assert.Error(t, err)
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := raster.New().Render(ctx, signal.UV(), 8, 8)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_Bubble(t *testing.T) {
	tex := signal.Texture(signal.TextureFunc(func(u, v float64) [4]float64 { return [4]float64{0.2, 0.4, 0.6, 1} }))
	bubble := material.Bubble(tex, material.WithRand(rand.New(rand.NewSource(7))))

	img, err := raster.New().Render(context.Background(), bubble, 16, 16)
	require.NoError(t, err)

	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A, "corners are cut out")
	assert.Equal(t, uint8(255), img.NRGBAAt(8, 8).A, "centre is opaque")
}

func TestToColor(t *testing.T) {
	tests := []struct {
		name string
		in   signal.Value
		want color.NRGBA
	}{
		{"Scalar Grey", signal.Scalar(0.5), color.NRGBA{128, 128, 128, 255}},
		{"Vec2", signal.Vec2(1, 0), color.NRGBA{255, 0, 0, 255}},
		{"Vec3", signal.Vec3(0, 1, 0), color.NRGBA{0, 255, 0, 255}},
		{"Vec4 Alpha", signal.Vec4(0, 0, 1, 0), color.NRGBA{0, 0, 255, 0}},
		{"Clamped", signal.Vec4(-1, 2, 0.5, 1), color.NRGBA{0, 255, 128, 255}},
		{"NaN", signal.Scalar(math.NaN()), color.NRGBA{0, 0, 0, 255}},
		{"Bool", signal.Bool(true), color.NRGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, raster.ToColor(tt.in))
		})
	}
}

func TestImageTexture(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(1, 1, color.NRGBA{0, 0, 255, 255})

	tex := raster.NewImageTexture(src)
	assert.Equal(t, [4]float64{1, 0, 0, 1}, tex.Sample(0.1, 0.1))
	assert.Equal(t, [4]float64{0, 0, 1, 1}, tex.Sample(0.9, 0.9))
	assert.Equal(t, [4]float64{0, 0, 1, 1}, tex.Sample(5, 5), "clamps to edge")
	assert.Equal(t, [4]float64{1, 0, 0, 1}, tex.Sample(-1, -1), "clamps to edge")
}

func TestWritePNG(t *testing.T) {
	img, err := raster.New().Render(context.Background(), signal.Float(1), 3, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, raster.WritePNG(&buf, img))

	decoded, format, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
}
