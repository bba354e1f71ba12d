package signal

import "math"

// Op tags the operation a Signal node performs.
type Op uint8

const (
	OpConst Op = iota
	OpUV
	OpPosition
	OpClipPosition
	OpTexture
	OpSource

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpPow
	OpEq
	OpStep
	OpDot

	OpNeg
	OpNot
	OpAbs
	OpFloor
	OpFract
	OpSin
	OpCos
	OpLength

	OpClamp
	OpToRange
	OpMix
	OpSmoothStep

	OpPack
	OpComponent
	OpComposition
	OpFWidth
	OpCircularGradient
	OpHorizontalGradient
	OpSDFEllipse
)

// TextureSource is a host texture sampled at unit-square coordinates.
type TextureSource interface {
	Sample(u, v float64) [4]float64
}

// TextureFunc adapts a plain function to TextureSource.
type TextureFunc func(u, v float64) [4]float64

func (f TextureFunc) Sample(u, v float64) [4]float64 { return f(u, v) }

// Source is a host-driven value read at evaluation time, such as the
// progress of an animation clock.
type Source interface {
	Value() Value
}

// Signal is an immutable node of the expression graph. Combinators return
// new nodes referencing their inputs; no node ever references its own output.
type Signal struct {
	op    Op
	in    []*Signal
	val   Value
	index int
	tex   TextureSource
	src   Source
}

func node(op Op, in ...*Signal) *Signal {
	return &Signal{op: op, in: in}
}

// Op returns the node's operation tag.
func (s *Signal) Op() Op { return s.op }

// Inputs returns the node's direct inputs.
func (s *Signal) Inputs() []*Signal { return s.in }

// Const wraps a literal value.
func Const(v Value) *Signal { return &Signal{op: OpConst, val: v} }

// Float is shorthand for a scalar constant.
func Float(x float64) *Signal { return Const(Scalar(x)) }

// Vec2Of, Vec3Of and Vec4Of are shorthands for vector constants.
func Vec2Of(x, y float64) *Signal       { return Const(Vec2(x, y)) }
func Vec3Of(x, y, z float64) *Signal    { return Const(Vec3(x, y, z)) }
func Vec4Of(x, y, z, w float64) *Signal { return Const(Vec4(x, y, z, w)) }

// UV is the current sampling coordinate.
func UV() *Signal { return node(OpUV) }

// Position is the object-space surface position at the current coordinate.
func Position() *Signal { return node(OpPosition) }

// ClipPosition is the homogeneous clip-space position, MVP x (position, 1).
func ClipPosition() *Signal { return node(OpClipPosition) }

// Texture samples a host texture at the current coordinate.
func Texture(t TextureSource) *Signal { return &Signal{op: OpTexture, tex: t} }

// FromSource reads a host-driven value on every evaluation.
func FromSource(src Source) *Signal { return &Signal{op: OpSource, src: src} }

func (s *Signal) Add(o *Signal) *Signal { return node(OpAdd, s, o) }
func (s *Signal) Sub(o *Signal) *Signal { return node(OpSub, s, o) }
func (s *Signal) Mul(o *Signal) *Signal { return node(OpMul, s, o) }
func (s *Signal) Div(o *Signal) *Signal { return node(OpDiv, s, o) }
func (s *Signal) Min(o *Signal) *Signal { return node(OpMin, s, o) }
func (s *Signal) Max(o *Signal) *Signal { return node(OpMax, s, o) }
func (s *Signal) Pow(o *Signal) *Signal { return node(OpPow, s, o) }

// Eq is true when every component of s equals the matching component of o.
func (s *Signal) Eq(o *Signal) *Signal { return node(OpEq, s, o) }

// Dot is the dot product over the wider of the two widths.
func (s *Signal) Dot(o *Signal) *Signal { return node(OpDot, s, o) }

func (s *Signal) Neg() *Signal    { return node(OpNeg, s) }
func (s *Signal) Not() *Signal    { return node(OpNot, s) }
func (s *Signal) Abs() *Signal    { return node(OpAbs, s) }
func (s *Signal) Floor() *Signal  { return node(OpFloor, s) }
func (s *Signal) Sin() *Signal    { return node(OpSin, s) }
func (s *Signal) Cos() *Signal    { return node(OpCos, s) }
func (s *Signal) Length() *Signal { return node(OpLength, s) }

// Fract is x - floor(x).
func (s *Signal) Fract() *Signal { return node(OpFract, s) }

// Clamp limits every component to [lo, hi].
func (s *Signal) Clamp(lo, hi float64) *Signal {
	return node(OpClamp, s, Float(lo), Float(hi))
}

// ToRange remaps a unit-interval value linearly into [a, b]. a > b inverts.
func (s *Signal) ToRange(a, b float64) *Signal {
	return node(OpToRange, s, Float(a), Float(b))
}

func (s *Signal) X() *Signal { return component(s, 0) }
func (s *Signal) Y() *Signal { return component(s, 1) }
func (s *Signal) Z() *Signal { return component(s, 2) }
func (s *Signal) W() *Signal { return component(s, 3) }

func component(s *Signal, i int) *Signal {
	return &Signal{op: OpComponent, in: []*Signal{s}, index: i}
}

// Min and Max are the two-argument forms of the methods of the same name.
func Min(a, b *Signal) *Signal { return a.Min(b) }
func Max(a, b *Signal) *Signal { return a.Max(b) }

// Step is 0 where x < edge and 1 elsewhere, per component.
func Step(x, edge *Signal) *Signal { return node(OpStep, x, edge) }

// Mix interpolates linearly from a to b by t. t is not clamped.
func Mix(a, b, t *Signal) *Signal { return node(OpMix, a, b, t) }

// SmoothStep is the cubic Hermite transition of x between edge0 and edge1.
func SmoothStep(x, edge0, edge1 *Signal) *Signal { return node(OpSmoothStep, x, edge0, edge1) }

// Pack2, Pack3 and Pack4 build vectors from scalar signals.
func Pack2(x, y *Signal) *Signal       { return node(OpPack, x, y) }
func Pack3(x, y, z *Signal) *Signal    { return node(OpPack, x, y, z) }
func Pack4(x, y, z, w *Signal) *Signal { return node(OpPack, x, y, z, w) }

// Composition evaluates s using coord's value as the sampling coordinate.
func Composition(s, coord *Signal) *Signal { return node(OpComposition, s, coord) }

// FWidth is the local magnitude of change of s across adjacent samples.
func FWidth(s *Signal) *Signal { return node(OpFWidth, s) }

// CircularGradient is 0 at the centre of the unit square and 1 on the
// inscribed circle and beyond.
func CircularGradient() *Signal { return node(OpCircularGradient) }

// HorizontalGradient runs from 0 at the left edge to 1 at the right edge.
func HorizontalGradient() *Signal { return node(OpHorizontalGradient) }

// SDFEllipse is the signed distance from the current coordinate to an
// ellipse. radius may be a scalar (circle) or a vec2 of half extents.
func SDFEllipse(center, radius *Signal) *Signal { return node(OpSDFEllipse, center, radius) }

// Eval computes the node's value at env. Nothing is cached; every call walks
// the inputs again so host-driven sources are always read fresh.
func (s *Signal) Eval(env Env) Value {
	switch s.op {
	case OpConst:
		return s.val
	case OpUV:
		return Vec2(env.UV[0], env.UV[1])
	case OpPosition:
		p := env.position()
		return Vec3(p[0], p[1], p[2])
	case OpClipPosition:
		p := env.position()
		c := env.MVP.MulVec([4]float64{p[0], p[1], p[2], 1})
		return Vec4(c[0], c[1], c[2], c[3])
	case OpTexture:
		c := s.tex.Sample(env.UV[0], env.UV[1])
		return Vec4(c[0], c[1], c[2], c[3])
	case OpSource:
		return s.src.Value()

	case OpAdd:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), func(x, y float64) float64 { return x + y })
	case OpSub:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), func(x, y float64) float64 { return x - y })
	case OpMul:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), func(x, y float64) float64 { return x * y })
	case OpDiv:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), func(x, y float64) float64 { return x / y })
	case OpMin:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), math.Min)
	case OpMax:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), math.Max)
	case OpPow:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), math.Pow)
	case OpStep:
		return zip(s.in[0].Eval(env), s.in[1].Eval(env), step)
	case OpEq:
		a, b := s.in[0].Eval(env), s.in[1].Eval(env)
		eq := zip(a, b, func(x, y float64) float64 {
			if x == y {
				return 1
			}
			return 0
		})
		for i := 0; i < eq.Kind.Width(); i++ {
			if eq.V[i] == 0 {
				return Bool(false)
			}
		}
		return Bool(true)
	case OpDot:
		p := zip(s.in[0].Eval(env), s.in[1].Eval(env), func(x, y float64) float64 { return x * y })
		sum := 0.0
		for i := 0; i < p.Kind.Width(); i++ {
			sum += p.V[i]
		}
		return Scalar(sum)

	case OpNeg:
		return mapv(s.in[0].Eval(env), func(x float64) float64 { return -x })
	case OpNot:
		return Bool(!s.in[0].Eval(env).Truthy())
	case OpAbs:
		return mapv(s.in[0].Eval(env), math.Abs)
	case OpFloor:
		return mapv(s.in[0].Eval(env), math.Floor)
	case OpFract:
		return mapv(s.in[0].Eval(env), func(x float64) float64 { return x - math.Floor(x) })
	case OpSin:
		return mapv(s.in[0].Eval(env), math.Sin)
	case OpCos:
		return mapv(s.in[0].Eval(env), math.Cos)
	case OpLength:
		v := s.in[0].Eval(env)
		sum := 0.0
		for i := 0; i < v.Kind.Width(); i++ {
			sum += v.V[i] * v.V[i]
		}
		return Scalar(math.Sqrt(sum))

	case OpClamp:
		return zip3(s.in[0].Eval(env), s.in[1].Eval(env), s.in[2].Eval(env), func(x, lo, hi float64) float64 {
			return math.Min(math.Max(x, lo), hi)
		})
	case OpToRange:
		return zip3(s.in[0].Eval(env), s.in[1].Eval(env), s.in[2].Eval(env), func(x, a, b float64) float64 {
			return a + x*(b-a)
		})
	case OpMix:
		return zip3(s.in[0].Eval(env), s.in[1].Eval(env), s.in[2].Eval(env), func(a, b, t float64) float64 {
			return a*(1-t) + b*t
		})
	case OpSmoothStep:
		return zip3(s.in[0].Eval(env), s.in[1].Eval(env), s.in[2].Eval(env), smoothStep)

	case OpPack:
		out := Value{Kind: kindOfWidth(len(s.in))}
		for i, in := range s.in {
			out.V[i] = in.Eval(env).Float()
		}
		return out
	case OpComponent:
		return Scalar(s.in[0].Eval(env).Component(s.index))
	case OpComposition:
		c := s.in[1].Eval(env)
		return s.in[0].Eval(env.At(c.Component(0), c.Component(1)))
	case OpFWidth:
		here := s.in[0].Eval(env)
		du := s.in[0].Eval(env.At(env.UV[0]+env.Step[0], env.UV[1]))
		dv := s.in[0].Eval(env.At(env.UV[0], env.UV[1]+env.Step[1]))
		return zip3(here, du, dv, func(h, x, y float64) float64 {
			return math.Abs(x-h) + math.Abs(y-h)
		})
	case OpCircularGradient:
		dx, dy := env.UV[0]-0.5, env.UV[1]-0.5
		return Scalar(math.Min(math.Sqrt(dx*dx+dy*dy)*2, 1))
	case OpHorizontalGradient:
		return Scalar(env.UV[0])
	case OpSDFEllipse:
		c, r := s.in[0].Eval(env), s.in[1].Eval(env)
		return Scalar(sdEllipse(env.UV[0]-c.Component(0), env.UV[1]-c.Component(1), r.Component(0), r.Component(1)))
	}
	panic("signal: unknown op")
}

func step(x, edge float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

func smoothStep(x, e0, e1 float64) float64 {
	if e0 == e1 {
		return step(x, e0)
	}
	t := math.Min(math.Max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}

// sdEllipse approximates the signed distance to an axis-aligned ellipse with
// half extents (rx, ry). It is exact for circles.
func sdEllipse(px, py, rx, ry float64) float64 {
	if rx <= 0 || ry <= 0 {
		return math.Hypot(px, py)
	}
	k0 := math.Hypot(px/rx, py/ry)
	k1 := math.Hypot(px/(rx*rx), py/(ry*ry))
	if k1 == 0 {
		return -math.Min(rx, ry)
	}
	return k0 * (k0 - 1) / k1
}
