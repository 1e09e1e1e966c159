package affine

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrDivideByZero is returned by vector division with a zero divisor.
var ErrDivideByZero = errors.New("affine: divide by zero")

// Vec2 is a 2D vector or point.
type Vec2 struct {
	X, Y float64
}

var (
	Zero  = Vec2{}
	One   = Vec2{X: 1, Y: 1}
	XAxis = Vec2{X: 1}
	YAxis = Vec2{Y: 1}
)

func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul multiplies component-wise.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{X: v.X * o.X, Y: v.Y * o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div divides both components by s.
func (v Vec2) Div(s float64) (Vec2, error) {
	if s == 0 {
		return Vec2{}, ErrDivideByZero
	}
	return Vec2{X: v.X / s, Y: v.Y / s}, nil
}

// DivVec divides component-wise; any zero component of o is an error.
func (v Vec2) DivVec(o Vec2) (Vec2, error) {
	if o.X == 0 || o.Y == 0 {
		return Vec2{}, errors.Wrap(ErrDivideByZero, "vector components")
	}
	return Vec2{X: v.X / o.X, Y: v.Y / o.Y}, nil
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Magnitude()
}

// Unit returns v scaled to length one. The zero vector yields NaN components.
func (v Vec2) Unit() Vec2 {
	m := v.Magnitude()
	return Vec2{X: v.X / m, Y: v.Y / m}
}

func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: lerp(v.X, o.X, t), Y: lerp(v.Y, o.Y, t)}
}

// MaxByMagnitude returns the longest of v and others; ties keep the earliest.
func (v Vec2) MaxByMagnitude(others ...Vec2) Vec2 {
	best, bestMag := v, v.Magnitude()
	for _, o := range others {
		if m := o.Magnitude(); m > bestMag {
			best, bestMag = o, m
		}
	}
	return best
}

// MinByMagnitude returns the shortest of v and others; ties keep the earliest.
func (v Vec2) MinByMagnitude(others ...Vec2) Vec2 {
	best, bestMag := v, v.Magnitude()
	for _, o := range others {
		if m := o.Magnitude(); m < bestMag {
			best, bestMag = o, m
		}
	}
	return best
}

func (v Vec2) String() string {
	return fmt.Sprintf("%g, %g", v.X, v.Y)
}
