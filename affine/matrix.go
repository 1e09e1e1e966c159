package affine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Matrix3 is a 3x3 homogeneous matrix describing a 2D affine transform.
// Row-major: M01 is row 0, column 1.
type Matrix3 struct {
	M00, M01, M02 float64
	M10, M11, M12 float64
	M20, M21, M22 float64
}

// Identity returns the identity matrix.
func Identity() Matrix3 {
	return Matrix3{
		M00: 1,
		M11: 1,
		M22: 1,
	}
}

// FromRotation returns a counter-clockwise rotation by angle radians.
func FromRotation(angle float64) Matrix3 {
	sin, cos := math.Sincos(angle)
	return Matrix3{
		M00: cos, M01: -sin,
		M10: sin, M11: cos,
		M22: 1,
	}
}

// FromTranslation returns a translation by (x, y).
func FromTranslation(x, y float64) Matrix3 {
	return Matrix3{
		M00: 1, M02: x,
		M11: 1, M12: y,
		M22: 1,
	}
}

// FromScale returns a non-uniform scale by (x, y).
func FromScale(x, y float64) Matrix3 {
	return Matrix3{
		M00: x,
		M11: y,
		M22: 1,
	}
}

// Add returns the component-wise sum m + o.
func (m Matrix3) Add(o Matrix3) Matrix3 {
	return Matrix3{
		M00: m.M00 + o.M00, M01: m.M01 + o.M01, M02: m.M02 + o.M02,
		M10: m.M10 + o.M10, M11: m.M11 + o.M11, M12: m.M12 + o.M12,
		M20: m.M20 + o.M20, M21: m.M21 + o.M21, M22: m.M22 + o.M22,
	}
}

// Sub returns the component-wise difference m - o.
func (m Matrix3) Sub(o Matrix3) Matrix3 {
	return Matrix3{
		M00: m.M00 - o.M00, M01: m.M01 - o.M01, M02: m.M02 - o.M02,
		M10: m.M10 - o.M10, M11: m.M11 - o.M11, M12: m.M12 - o.M12,
		M20: m.M20 - o.M20, M21: m.M21 - o.M21, M22: m.M22 - o.M22,
	}
}

// Mul returns the matrix product m * o. Applied to a column vector, o acts first.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	return Matrix3{
		M00: m.M00*o.M00 + m.M01*o.M10 + m.M02*o.M20,
		M01: m.M00*o.M01 + m.M01*o.M11 + m.M02*o.M21,
		M02: m.M00*o.M02 + m.M01*o.M12 + m.M02*o.M22,

		M10: m.M10*o.M00 + m.M11*o.M10 + m.M12*o.M20,
		M11: m.M10*o.M01 + m.M11*o.M11 + m.M12*o.M21,
		M12: m.M10*o.M02 + m.M11*o.M12 + m.M12*o.M22,

		M20: m.M20*o.M00 + m.M21*o.M10 + m.M22*o.M20,
		M21: m.M20*o.M01 + m.M21*o.M11 + m.M22*o.M21,
		M22: m.M20*o.M02 + m.M21*o.M12 + m.M22*o.M22,
	}
}

// Lerp interpolates every field of a towards b independently. This is only
// geometrically meaningful when a and b share their rotation.
func Lerp(a, b Matrix3, t float64) Matrix3 {
	return Matrix3{
		M00: lerp(a.M00, b.M00, t), M01: lerp(a.M01, b.M01, t), M02: lerp(a.M02, b.M02, t),
		M10: lerp(a.M10, b.M10, t), M11: lerp(a.M11, b.M11, t), M12: lerp(a.M12, b.M12, t),
		M20: lerp(a.M20, b.M20, t), M21: lerp(a.M21, b.M21, t), M22: lerp(a.M22, b.M22, t),
	}
}

// lerp is exact at both endpoints and when a == b.
func lerp(a, b, t float64) float64 {
	if a == b {
		return a
	}
	return a*(1-t) + b*t
}

// Lerp is the method form of Lerp.
func (m Matrix3) Lerp(o Matrix3, t float64) Matrix3 {
	return Lerp(m, o, t)
}

// Apply transforms the point v.
func (m Matrix3) Apply(v Vec2) Vec2 {
	return Vec2{
		X: m.M00*v.X + m.M01*v.Y + m.M02,
		Y: m.M10*v.X + m.M11*v.Y + m.M12,
	}
}

// Equal reports exact field-wise equality.
func (m Matrix3) Equal(o Matrix3) bool {
	return m == o
}

// ApproxEqual reports whether every field of m is within eps of o.
func (m Matrix3) ApproxEqual(o Matrix3, eps float64) bool {
	a, b := m.Mat3(), o.Mat3()
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Mat3 converts m to a column-major mathgl matrix.
func (m Matrix3) Mat3() mgl64.Mat3 {
	return mgl64.Mat3{
		m.M00, m.M10, m.M20,
		m.M01, m.M11, m.M21,
		m.M02, m.M12, m.M22,
	}
}

// FromMat3 converts a column-major mathgl matrix.
func FromMat3(c mgl64.Mat3) Matrix3 {
	return Matrix3{
		M00: c[0], M01: c[3], M02: c[6],
		M10: c[1], M11: c[4], M12: c[7],
		M20: c[2], M21: c[5], M22: c[8],
	}
}

// Inverse returns the inverse of m. ok is false for singular matrices.
func (m Matrix3) Inverse() (inv Matrix3, ok bool) {
	c := m.Mat3()
	if c.Det() == 0 {
		return Matrix3{}, false
	}
	return FromMat3(c.Inv()), true
}

func (m Matrix3) String() string {
	return fmt.Sprintf("Matrix3{%g, %g, %g; %g, %g, %g; %g, %g, %g}",
		m.M00, m.M01, m.M02, m.M10, m.M11, m.M12, m.M20, m.M21, m.M22)
}
