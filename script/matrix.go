package script

import (
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/token"
	"github.com/milk9111/bee2d/affine"
)

// Matrix is the immutable script value for affine.Matrix3.
type Matrix struct {
	tengo.ObjectImpl
	Value affine.Matrix3
}

func newMatrix(m affine.Matrix3) *Matrix {
	return &Matrix{Value: m}
}

func (m *Matrix) TypeName() string {
	return "Matrix3"
}

func (m *Matrix) String() string {
	return m.Value.String()
}

func (m *Matrix) Copy() tengo.Object {
	return &Matrix{Value: m.Value}
}

func (m *Matrix) IsFalsy() bool {
	return false
}

// Equals is exact field-wise comparison.
func (m *Matrix) Equals(o tengo.Object) bool {
	other, ok := o.(*Matrix)
	return ok && m.Value.Equal(other.Value)
}

func (m *Matrix) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	v := m.Value
	switch key {
	case "m00":
		return floatObject(v.M00), nil
	case "m01":
		return floatObject(v.M01), nil
	case "m02":
		return floatObject(v.M02), nil
	case "m10":
		return floatObject(v.M10), nil
	case "m11":
		return floatObject(v.M11), nil
	case "m12":
		return floatObject(v.M12), nil
	case "m20":
		return floatObject(v.M20), nil
	case "m21":
		return floatObject(v.M21), nil
	case "m22":
		return floatObject(v.M22), nil
	case "lerp":
		return callable("lerp", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			o, err := matrixArg(args, 0)
			if err != nil {
				return nil, err
			}
			t, err := floatArg(args, 1)
			if err != nil {
				return nil, err
			}
			return newMatrix(m.Value.Lerp(o, t)), nil
		}), nil
	case "apply":
		return callable("apply", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			p, err := vectorArg(args, 0)
			if err != nil {
				return nil, err
			}
			return newVector(m.Value.Apply(p)), nil
		}), nil
	case "inverse":
		return callable("inverse", func(args ...tengo.Object) (tengo.Object, error) {
			inv, ok := m.Value.Inverse()
			if !ok {
				return tengo.UndefinedValue, nil
			}
			return newMatrix(inv), nil
		}), nil
	}
	return tengo.UndefinedValue, nil
}

func (m *Matrix) BinaryOp(op token.Token, rhs tengo.Object) (tengo.Object, error) {
	switch o := rhs.(type) {
	case *Matrix:
		switch op {
		case token.Add:
			return newMatrix(m.Value.Add(o.Value)), nil
		case token.Sub:
			return newMatrix(m.Value.Sub(o.Value)), nil
		case token.Mul:
			return newMatrix(m.Value.Mul(o.Value)), nil
		}
	case *Vector:
		if op == token.Mul {
			return newVector(m.Value.Apply(o.Value)), nil
		}
	}
	return nil, tengo.ErrInvalidOperator
}

// matrixModule builds the Matrix3 global.
func matrixModule() *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"new": callable("new", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 9 {
				return nil, tengo.ErrWrongNumArguments
			}
			f, err := floatArgs(args, 0, 9)
			if err != nil {
				return nil, err
			}
			return newMatrix(affine.Matrix3{
				M00: f[0], M01: f[1], M02: f[2],
				M10: f[3], M11: f[4], M12: f[5],
				M20: f[6], M21: f[7], M22: f[8],
			}), nil
		}),
		"identity": newMatrix(affine.Identity()),
		"fromRotation": callable("fromRotation", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			a, err := floatArg(args, 0)
			if err != nil {
				return nil, err
			}
			return newMatrix(affine.FromRotation(a)), nil
		}),
		"fromTranslation": callable("fromTranslation", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			xy, err := floatArgs(args, 0, 2)
			if err != nil {
				return nil, err
			}
			return newMatrix(affine.FromTranslation(xy[0], xy[1])), nil
		}),
		"fromScale": callable("fromScale", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			xy, err := floatArgs(args, 0, 2)
			if err != nil {
				return nil, err
			}
			return newMatrix(affine.FromScale(xy[0], xy[1])), nil
		}),
		"lerp": callable("lerp", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 3 {
				return nil, tengo.ErrWrongNumArguments
			}
			a, err := matrixArg(args, 0)
			if err != nil {
				return nil, err
			}
			b, err := matrixArg(args, 1)
			if err != nil {
				return nil, err
			}
			t, err := floatArg(args, 2)
			if err != nil {
				return nil, err
			}
			return newMatrix(affine.Lerp(a, b, t)), nil
		}),
	}}
}
