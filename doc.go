/*
Package bubblefx is an augmented-reality bubble effect: an iridescent material
and a pulsing placement grid built from reactive signal graphs, plus the
one-shot setup workflow that gets the user from the selfie camera to a placed
surface.

# Concept

The effect never draws anything itself. It writes signals into material slots
owned by the host and binds on-screen hints; the host evaluates the signals
every frame and renders the hints. Everything that changes over time is a
host-driven value (camera facing, taps, animation clocks) read by the signals
at evaluation time.

The setup workflow is a linear state machine:

	await_back_camera -> calibrate -> await_placement -> finish_up -> ready

Each stage waits on exactly one thing: the back camera, a timer, a tap, and
the overlay fade-out. Stages without their event simply wait; there are no
timeouts.

# Usage

All calls except State must run on the host's loop goroutine. reactor.Loop is
a ready-made loop for hosts that do not have one.

	loop := reactor.New()
	go loop.Run(ctx)

	scene := memory.NewScene(nil)
	var effect *bubblefx.Effect
	err := loop.Call(ctx, func() {
		effect, err = bubblefx.New(scene.Ports(), loop)
		if err == nil {
			err = effect.Start(ctx)
		}
	})

	// Host events now drive the workflow.
	loop.Post(func() { scene.Camera.FacingValue.Set(domain.FacingBack) })
*/
package bubblefx
