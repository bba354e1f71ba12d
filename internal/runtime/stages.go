package runtime

import (
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/aretw0/bubblefx/pkg/reactive"
)

func (e *Engine) awaitBackCamera() {
	isBack := reactive.Equals(e.scene.Camera.Facing(), domain.FacingBack)
	e.scene.Hints.BindLive(domain.HintFlipCamera, reactive.Not(isBack))
	e.wait = reactive.Once(isBack, true, func(back bool) bool { return back }, func(bool) {
		e.post(domain.CameraBack())
	})
}

// calibrate is time based; no motion is sensed.
func (e *Engine) calibrate() {
	e.scene.Hints.Bind(domain.HintLookAround, true)
	e.timer = e.sched.AfterFunc(e.calibration, func() {
		e.post(domain.CalibrationElapsed())
	})
}

func (e *Engine) awaitPlacement() {
	e.scene.Hints.Bind(domain.HintTapToPlace, true)
	e.normalizeScale()
	e.wait = reactive.First(e.scene.Touch.Taps(), nil, func(loc domain.Location) {
		e.post(domain.Tap(loc))
	})
}

// normalizeScale cancels the plane's scale on the positioner so content
// placed under it keeps its authored size.
func (e *Engine) normalizeScale() {
	s := e.scene.Plane.WorldScale()
	var inv [3]float64
	for i, c := range s {
		if c == 0 {
			e.logger.Warn("plane scale component is zero, keeping unit scale", "axis", i)
			inv[i] = 1
			continue
		}
		inv[i] = 1 / c
	}
	e.scene.Positioner.SetScale(inv)
}

func (e *Engine) place(loc domain.Location) {
	e.scene.Plane.TrackPoint(loc)
	e.scene.Hints.Bind(domain.HintTapToPlace, false)
	e.pulser.Pulse()

	e.mu.Lock()
	e.state.Pulses++
	e.mu.Unlock()

	e.logger.Debug("plane placed", "session", e.sessionID, "x", loc.X, "y", loc.Y, "z", loc.Z)
	if e.hooks.OnPulse != nil {
		e.hooks.OnPulse(e.ctx, &domain.PulseEvent{Timestamp: e.sched.Now(), SessionID: e.sessionID, Location: loc})
	}
}

// finishUp stalls silently if the fade cannot start, like every other stage
// whose awaited event never comes.
func (e *Engine) finishUp() {
	done, err := e.overlay.FadeOut(e.fadeOut)
	if err != nil {
		e.logger.Error("overlay fade-out failed", "session", e.sessionID, "err", err)
		return
	}
	done.OnResolve(func() {
		e.post(domain.OverlayHidden())
	})
}
