/*
Package signal is the reactive expression algebra used to compose procedural
materials.

A Signal is an immutable node in a dataflow graph. Combinators never mutate
their inputs; they return new nodes, so the graph is acyclic by construction.
Values are pulled: Eval walks the inputs of a node for one sample described by
an Env, with no caching, which keeps host-driven sources (textures, animation
clocks) live.

The central primitive is Composition: evaluating one field with another
field's output as its sampling coordinate. Texture effects are built by
feeding gradients, rotations and screen-space projections into each other:

	uv := signal.UV()
	ramp := signal.MustGradientStep(signal.HorizontalGradient(),
		signal.Stop(signal.Vec4Of(0.25, 0.25, 0.25, 1), 0),
		signal.Stop(signal.Vec4Of(0, 0, 0, 1), 0.5),
	)
	diagonal := signal.Composition(ramp, signal.UVRotate(uv, math.Pi/4))
	v := diagonal.Eval(signal.NewEnv(0.3, 0.7))
*/
package signal
