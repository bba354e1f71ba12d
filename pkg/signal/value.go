package signal

import (
	"fmt"
	"math"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindVec2
	KindVec3
	KindVec4
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindVec4:
		return "vec4"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Width returns the number of meaningful components for the kind.
func (k Kind) Width() int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	default:
		return 1
	}
}

func kindOfWidth(n int) Kind {
	switch n {
	case 2:
		return KindVec2
	case 3:
		return KindVec3
	case 4:
		return KindVec4
	default:
		return KindScalar
	}
}

// Value is the result of evaluating a Signal at one sample.
// Booleans are stored as 0 or 1 in the first component.
type Value struct {
	Kind Kind
	V    [4]float64
}

// Scalar returns a scalar Value.
func Scalar(x float64) Value { return Value{Kind: KindScalar, V: [4]float64{x}} }

// Vec2 returns a two component Value.
func Vec2(x, y float64) Value { return Value{Kind: KindVec2, V: [4]float64{x, y}} }

// Vec3 returns a three component Value.
func Vec3(x, y, z float64) Value { return Value{Kind: KindVec3, V: [4]float64{x, y, z}} }

// Vec4 returns a four component Value.
func Vec4(x, y, z, w float64) Value { return Value{Kind: KindVec4, V: [4]float64{x, y, z, w}} }

// Bool returns a boolean Value.
func Bool(b bool) Value {
	if b {
		return Value{Kind: KindBool, V: [4]float64{1}}
	}
	return Value{Kind: KindBool}
}

// Component returns component i. Scalars and booleans broadcast, so every
// component of a scalar reads as the scalar itself.
func (v Value) Component(i int) float64 {
	if v.Kind == KindScalar || v.Kind == KindBool {
		return v.V[0]
	}
	if i >= v.Kind.Width() {
		return 0
	}
	return v.V[i]
}

// Truthy reports whether the value is a non-zero first component.
func (v Value) Truthy() bool { return v.V[0] != 0 }

// Float returns the first component.
func (v Value) Float() float64 { return v.V[0] }

// ApproxEqual compares kinds and components within tol.
func (v Value) ApproxEqual(o Value, tol float64) bool {
	if v.Kind != o.Kind {
		return false
	}
	for i := 0; i < v.Kind.Width(); i++ {
		if math.Abs(v.V[i]-o.V[i]) > tol {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%t", v.Truthy())
	case KindScalar:
		return fmt.Sprintf("%g", v.V[0])
	default:
		return fmt.Sprintf("%s%v", v.Kind, v.V[:v.Kind.Width()])
	}
}

// zip applies fn component-wise. A scalar operand broadcasts against a
// vector; two vectors combine over the wider width.
func zip(a, b Value, fn func(x, y float64) float64) Value {
	wa, wb := a.Kind.Width(), b.Kind.Width()
	w := wa
	if wb > w {
		w = wb
	}
	out := Value{Kind: kindOfWidth(w)}
	for i := 0; i < w; i++ {
		out.V[i] = fn(a.Component(i), b.Component(i))
	}
	return out
}

func zip3(a, b, c Value, fn func(x, y, z float64) float64) Value {
	w := a.Kind.Width()
	if b.Kind.Width() > w {
		w = b.Kind.Width()
	}
	if c.Kind.Width() > w {
		w = c.Kind.Width()
	}
	out := Value{Kind: kindOfWidth(w)}
	for i := 0; i < w; i++ {
		out.V[i] = fn(a.Component(i), b.Component(i), c.Component(i))
	}
	return out
}

func mapv(a Value, fn func(x float64) float64) Value {
	out := Value{Kind: a.Kind}
	if out.Kind == KindBool {
		out.Kind = KindScalar
	}
	for i := 0; i < out.Kind.Width(); i++ {
		out.V[i] = fn(a.Component(i))
	}
	return out
}
