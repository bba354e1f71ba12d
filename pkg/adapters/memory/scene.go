package memory

import (
	"sync"

	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/ports"
	"github.com/aretw0/bubblefx/pkg/reactive"
	"github.com/aretw0/bubblefx/pkg/signal"
)

// Material implements ports.MaterialSlot by remembering the last signal
// written to each slot.
type Material struct {
	Name string

	mu     sync.RWMutex
	slots  map[string]*signal.Signal
	writes int
}

// NewMaterial creates an empty material.
func NewMaterial(name string) *Material {
	return &Material{Name: name, slots: make(map[string]*signal.Signal)}
}

func (m *Material) SetTextureSlot(slot string, s *signal.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = s
	m.writes++
}

// Slot returns the signal in slot, or nil.
func (m *Material) Slot(slot string) *signal.Signal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot]
}

// Writes counts SetTextureSlot calls.
func (m *Material) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Overlay implements ports.OverlayRoot.
type Overlay struct {
	*Material

	mu     sync.RWMutex
	hidden bool
}

// NewOverlay creates a visible overlay.
func NewOverlay() *Overlay {
	return &Overlay{Material: NewMaterial("overlay")}
}

func (o *Overlay) SetHidden(hidden bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hidden = hidden
}

// Hidden reports whether SetHidden(true) was the last call.
func (o *Overlay) Hidden() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.hidden
}

// Plane implements ports.PlaneTracker.
type Plane struct {
	mu      sync.RWMutex
	scale   [3]float64
	tracked []domain.Location
}

// NewPlane creates a plane with the given world scale.
func NewPlane(scale [3]float64) *Plane {
	return &Plane{scale: scale}
}

func (p *Plane) WorldScale() [3]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scale
}

func (p *Plane) TrackPoint(loc domain.Location) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracked = append(p.tracked, loc)
}

// Tracked returns every anchored location, oldest first.
func (p *Plane) Tracked() []domain.Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Location(nil), p.tracked...)
}

// Positioner implements ports.Positioner.
type Positioner struct {
	mu    sync.RWMutex
	scale [3]float64
}

// NewPositioner creates a positioner at unit scale.
func NewPositioner() *Positioner {
	return &Positioner{scale: [3]float64{1, 1, 1}}
}

func (p *Positioner) SetScale(scale [3]float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scale = scale
}

// Scale returns the last scale set.
func (p *Positioner) Scale() [3]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scale
}

// Camera implements ports.Camera with settable values.
type Camera struct {
	FacingValue    *reactive.Value[domain.Facing]
	RecordingValue *reactive.Value[bool]
}

// NewCamera creates a front-facing camera that is not recording.
func NewCamera() *Camera {
	return &Camera{
		FacingValue:    reactive.NewValue(domain.FacingFront),
		RecordingValue: reactive.NewValue(false),
	}
}

func (c *Camera) Facing() reactive.Behavior[domain.Facing] { return c.FacingValue }
func (c *Camera) Recording() reactive.Behavior[bool]       { return c.RecordingValue }

// Touch implements ports.Touch.
type Touch struct {
	stream *reactive.Stream[domain.Location]
}

// NewTouch creates a tap stream with no subscribers.
func NewTouch() *Touch {
	return &Touch{stream: reactive.NewStream[domain.Location]()}
}

func (t *Touch) Taps() reactive.Observable[domain.Location] { return t.stream }

// Tap emits a tap at loc.
func (t *Touch) Tap(loc domain.Location) { t.stream.Emit(loc) }

// Scene is a complete in-memory host. Its fields are the concrete fakes, kept
// for inspection.
type Scene struct {
	Hints      *Hints
	Overlay    *Overlay
	Bubble     *Material
	Grid       *Material
	Plane      *Plane
	Positioner *Positioner
	Camera     *Camera
	Touch      *Touch
	Texture    signal.TextureSource
}

// NewScene creates a host whose camera texture is texture. A nil texture
// samples mid grey.
func NewScene(texture signal.TextureSource) *Scene {
	if texture == nil {
		texture = signal.TextureFunc(func(u, v float64) [4]float64 { return [4]float64{0.5, 0.5, 0.5, 1} })
	}
	return &Scene{
		Hints:      NewHints(),
		Overlay:    NewOverlay(),
		Bubble:     NewMaterial("bubble"),
		Grid:       NewMaterial("grid"),
		Plane:      NewPlane([3]float64{1, 1, 1}),
		Positioner: NewPositioner(),
		Camera:     NewCamera(),
		Touch:      NewTouch(),
		Texture:    texture,
	}
}

// Ports returns the scene as the effect's collaborators.
func (s *Scene) Ports() *ports.Scene {
	return &ports.Scene{
		Hints:         s.Hints,
		Overlay:       s.Overlay,
		Bubble:        s.Bubble,
		Grid:          s.Grid,
		Plane:         s.Plane,
		Positioner:    s.Positioner,
		Camera:        s.Camera,
		Touch:         s.Touch,
		CameraTexture: signal.Texture(s.Texture),
	}
}
