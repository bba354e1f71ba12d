package signal

import "math"

// UVScreenSpace projects the surface position through the MVP transform,
// divides by w and remaps clip space to the unit square. Y is inverted so the
// result follows the top-left image origin of camera textures.
func UVScreenSpace() *Signal {
	clip := ClipPosition()
	ndc := Pack3(clip.X(), clip.Y(), clip.Z()).Div(clip.W()).Mul(Float(0.5)).Add(Float(0.5))
	return Pack2(ndc.X(), ndc.Y().ToRange(1, 0))
}

// UVRotate rotates a unit-square coordinate about (0.5, 0.5) by rad.
func UVRotate(uv *Signal, rad float64) *Signal {
	c, s := Float(math.Cos(rad)), Float(math.Sin(rad))
	half := Float(0.5)
	x := uv.X().Sub(half)
	y := uv.Y().Sub(half)
	return Pack2(
		c.Mul(x).Add(s.Mul(y)).Add(half),
		c.Mul(y).Sub(s.Mul(x)).Add(half),
	)
}

// AntiAlias turns a signed distance field into a coverage mask that is 1
// inside, 0 outside and blends over roughly one sample at the boundary.
func AntiAlias(dist *Signal) *Signal {
	w := FWidth(dist).Max(Float(1e-9))
	return Float(0.5).Sub(dist.Div(w)).Clamp(0, 1)
}

// BlendLighten keeps the brighter of base and blend per component.
func BlendLighten(base, blend *Signal) *Signal {
	return Max(base, blend)
}

// Rec. 709 luma weights.
var luminance = Vec4Of(0.2126, 0.7152, 0.0722, 0)

// HighLuminance is a mask of the parts of color brighter than threshold.
func HighLuminance(color *Signal, threshold float64) *Signal {
	return SmoothStep(luminance.Dot(color), Float(threshold), Float(1))
}
