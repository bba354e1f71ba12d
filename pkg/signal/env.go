package signal

// Mat4 is a row-major 4x4 matrix.
type Mat4 [4][4]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// MulVec multiplies m by the column vector v.
func (m Mat4) MulVec(v [4]float64) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2] + m[r][3]*v[3]
	}
	return out
}

// SurfaceFunc maps a sampling coordinate to the object-space position of the
// surface at that coordinate.
type SurfaceFunc func(u, v float64) [3]float64

// ClipQuad is the default surface: a quad covering clip space whose texture
// coordinates have a top-left origin.
func ClipQuad(u, v float64) [3]float64 {
	return [3]float64{2*u - 1, 1 - 2*v, 0}
}

// Env is the evaluation context of one sample. It is passed by value so
// compositions can rebind the coordinate without touching the caller's copy.
type Env struct {
	// UV is the sampling coordinate of the current sample.
	UV [2]float64
	// Step is the coordinate distance to the adjacent samples along u and v,
	// used by FWidth.
	Step [2]float64
	// MVP is the model-view-projection transform.
	MVP Mat4
	// Surface maps coordinates to positions. Nil means ClipQuad.
	Surface SurfaceFunc
}

// NewEnv returns an Env at (u, v) with identity transform and a 1/512 step.
func NewEnv(u, v float64) Env {
	return Env{
		UV:   [2]float64{u, v},
		Step: [2]float64{1.0 / 512, 1.0 / 512},
		MVP:  Identity(),
	}
}

// At returns a copy of the env sampling at (u, v).
func (e Env) At(u, v float64) Env {
	e.UV = [2]float64{u, v}
	return e
}

func (e Env) position() [3]float64 {
	if e.Surface == nil {
		return ClipQuad(e.UV[0], e.UV[1])
	}
	return e.Surface(e.UV[0], e.UV[1])
}
