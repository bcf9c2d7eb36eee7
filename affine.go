package drizzle

import "math"

// Affine is a 2D affine matrix laid out as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Surfaces keep one as their current transform and compose it the way a
// canvas context does: Translate, Rotate and Scale apply before the existing
// transform (right-multiplication).
type Affine [6]float64

// Identity is the identity affine matrix.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// Mul returns m * o (o is applied first, then m).
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		m[0]*o[0] + m[2]*o[1],
		m[1]*o[0] + m[3]*o[1],
		m[0]*o[2] + m[2]*o[3],
		m[1]*o[2] + m[3]*o[3],
		m[0]*o[4] + m[2]*o[5] + m[4],
		m[1]*o[4] + m[3]*o[5] + m[5],
	}
}

// Translate returns m with a translation applied in local space.
func (m Affine) Translate(x, y float64) Affine {
	return m.Mul(Affine{1, 0, 0, 1, x, y})
}

// Rotate returns m with a rotation (radians, clockwise in Y-down space)
// applied in local space.
func (m Affine) Rotate(theta float64) Affine {
	sin, cos := math.Sincos(theta)
	return m.Mul(Affine{cos, sin, -sin, cos, 0, 0})
}

// Scale returns m with a scale applied in local space.
func (m Affine) Scale(sx, sy float64) Affine {
	return m.Mul(Affine{sx, 0, 0, sy, 0, 0})
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// UniformScale returns the geometric mean of the axis scale factors. Used to
// map line widths and arc radii through transforms without skew.
func (m Affine) UniformScale() float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[2]*m[1]))
}

// Angle returns the rotation encoded in m.
func (m Affine) Angle() float64 {
	return math.Atan2(m[1], m[0])
}
