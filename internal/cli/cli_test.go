package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(`
name: out-of-order
plane_scale: [2, 2, 2]
steps:
  - at: 4s
    tap: {x: 0.5, y: 0.25}
  - at: 500ms
    camera: back
  - at: 4s
    recording: true
`))
	require.NoError(t, err)

	assert.Equal(t, "out-of-order", s.Name)
	assert.Equal(t, [3]float64{2, 2, 2}, s.PlaneScale)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "camera back", s.Steps[0].String())
	assert.Equal(t, &domain.Location{X: 0.5, Y: 0.25}, s.Steps[1].Tap, "equal offsets keep file order")
	assert.Equal(t, "recording true", s.Steps[2].String())
	assert.Equal(t, 4*time.Second, s.Duration())
}

func TestParseScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Two Actions", "steps:\n  - at: 1s\n    camera: BACK\n    recording: true\n"},
		{"No Action", "steps:\n  - at: 1s\n"},
		{"Bad Facing", "steps:\n  - camera: SIDEWAYS\n"},
		{"Bad Event", "steps:\n  - event: explode\n"},
		{"Unknown Field", "steps:\n  - at: 1s\n    camera: BACK\n    colour: red\n"},
		{"Negative Offset", "steps:\n  - at: -1s\n    camera: BACK\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidScript)
		})
	}
}

func TestLoadScript_Default(t *testing.T) {
	s, err := LoadScript("")
	require.NoError(t, err)
	assert.Equal(t, "default", s.Name)
	assert.NoError(t, s.Validate())
}

func TestScale(t *testing.T) {
	assert.Equal(t, 30*time.Millisecond, scale(3*time.Second, 100))
	assert.Equal(t, time.Duration(1), scale(time.Nanosecond, 1000), "positive durations stay positive")
	assert.Equal(t, time.Duration(0), scale(0, 10))
}

func TestSimulate_DefaultScript(t *testing.T) {
	var out bytes.Buffer
	res, err := Simulate(context.Background(), SimulateOptions{Speed: 20, Out: &out})
	require.NoError(t, err)

	assert.Equal(t, domain.StageReady, res.State.Stage)
	assert.Equal(t, domain.StatusReady, res.State.Status)
	assert.Equal(t, 1, res.State.Pulses)
	assert.Equal(t, []string{domain.HintPressToLaunch}, res.Hints)
	assert.Contains(t, out.String(), "▸ ready")
	assert.Contains(t, out.String(), "Finished at 'ready' stage.")
}

func TestSimulate_Stalls(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: no-back-camera\nsteps:\n  - at: 1ms\n    camera: FRONT\n"), 0o644))

	res, err := Simulate(context.Background(), SimulateOptions{
		ScriptPath: path,
		Grace:      20 * time.Millisecond,
		Quiet:      true,
	})
	assert.ErrorIs(t, err, ErrStalled)
	require.NotNil(t, res)
	assert.Equal(t, domain.StageAwaitBackCamera, res.State.Stage)
	assert.Equal(t, []string{domain.HintFlipCamera}, res.Hints)
}

func TestSimulate_StatusServer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "serve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
steps:
  - at: 1ms
    camera: BACK
  - at: 200ms
    tap: {x: 0.1, y: 0.1}
`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		_, err := Simulate(ctx, SimulateOptions{
			ScriptPath: path,
			Overrides:  []string{"calibration=20ms", "overlay.fade_out=5ms", "pulse.duration=5ms"},
			Addr:       "127.0.0.1:0",
			Hold:       true,
			Quiet:      true,
			OnListen:   func(a net.Addr) { addrCh <- a },
		})
		done <- err
	}()

	var base string
	select {
	case a := <-addrCh:
		base = "http://" + a.String()
	case <-time.After(2 * time.Second):
		t.Fatal("status server did not start")
	}

	assert.Eventually(t, func() bool {
		resp, err := http.Get(base + "/state")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var st domain.State
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			return false
		}
		return st.Status == domain.StatusReady
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), `bubblefx_stage_entries_total{stage="ready"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("simulation did not stop")
	}
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bubble.png")
	err := Render(context.Background(), RenderOptions{
		Overrides: []string{"render.width=16", "render.height=8", "render.seed=3"},
		Output:    path,
	})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
}

func TestRender_Layers(t *testing.T) {
	var buf bytes.Buffer
	err := Render(context.Background(), RenderOptions{
		Overrides: []string{"render.width=4", "render.height=4"},
		Layer:     "grid",
		Output:    "-",
		Out:       &buf,
	})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())

	err = Render(context.Background(), RenderOptions{Layer: "sparkles", Output: "-", Out: &buf})
	assert.ErrorContains(t, err, "unknown layer")
	assert.Contains(t, Layers(), "iridescence")
}

func TestExampleFiles(t *testing.T) {
	paths, err := filepath.Glob("../../examples/scripts/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			_, err := LoadScript(p)
			assert.NoError(t, err)
		})
	}

	_, err = loadConfig("../../examples/config/fast.yaml", nil, "")
	assert.NoError(t, err)
}

func TestRunWatch_RestartsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watch.yaml")
	write := func(name string) {
		require.NoError(t, os.WriteFile(path, []byte("name: "+name+"\nsteps:\n  - at: 1ms\n    camera: BACK\n"), 0o644))
	}
	write("first")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan net.Addr, 8)
	done := make(chan error, 1)
	go func() {
		done <- RunWatch(ctx, SimulateOptions{
			ScriptPath: path,
			Overrides:  []string{"calibration=10ms"},
			Addr:       "127.0.0.1:0",
			Hold:       true,
			Quiet:      true,
			OnListen:   func(a net.Addr) { runs <- a },
		})
	}()

	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("first run did not start")
	}

	write("second")
	select {
	case <-runs:
	case <-time.After(3 * time.Second):
		t.Fatal("change did not restart the run")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
