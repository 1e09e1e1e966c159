package script

import (
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/token"
	"github.com/milk9111/bee2d/affine"
)

// Vector is the immutable script value for affine.Vec2.
type Vector struct {
	tengo.ObjectImpl
	Value affine.Vec2
}

func newVector(v affine.Vec2) *Vector {
	return &Vector{Value: v}
}

func (v *Vector) TypeName() string {
	return "Vector2"
}

func (v *Vector) String() string {
	return "Vector2(" + v.Value.String() + ")"
}

func (v *Vector) Copy() tengo.Object {
	return &Vector{Value: v.Value}
}

func (v *Vector) IsFalsy() bool {
	return false
}

func (v *Vector) Equals(o tengo.Object) bool {
	other, ok := o.(*Vector)
	return ok && other.Value == v.Value
}

func (v *Vector) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	switch key {
	case "x":
		return floatObject(v.Value.X), nil
	case "y":
		return floatObject(v.Value.Y), nil
	case "magnitude":
		return floatObject(v.Value.Magnitude()), nil
	case "unit":
		return newVector(v.Value.Unit()), nil
	case "lerp":
		return callable("lerp", v.lerp), nil
	case "dot":
		return callable("dot", v.binaryScalar(affine.Vec2.Dot)), nil
	case "cross":
		return callable("cross", v.binaryScalar(affine.Vec2.Cross)), nil
	case "distance":
		return callable("distance", v.binaryScalar(affine.Vec2.Distance)), nil
	case "max":
		return callable("max", v.pick(affine.Vec2.MaxByMagnitude)), nil
	case "min":
		return callable("min", v.pick(affine.Vec2.MinByMagnitude)), nil
	}
	return tengo.UndefinedValue, nil
}

func (v *Vector) BinaryOp(op token.Token, rhs tengo.Object) (tengo.Object, error) {
	if o, ok := rhs.(*Vector); ok {
		switch op {
		case token.Add:
			return newVector(v.Value.Add(o.Value)), nil
		case token.Sub:
			return newVector(v.Value.Sub(o.Value)), nil
		case token.Mul:
			return newVector(v.Value.Mul(o.Value)), nil
		case token.Quo:
			res, err := v.Value.DivVec(o.Value)
			if err != nil {
				return nil, err
			}
			return newVector(res), nil
		}
		return nil, tengo.ErrInvalidOperator
	}
	s, ok := tengo.ToFloat64(rhs)
	if !ok {
		return nil, tengo.ErrInvalidOperator
	}
	switch op {
	case token.Mul:
		return newVector(v.Value.Scale(s)), nil
	case token.Quo:
		res, err := v.Value.Div(s)
		if err != nil {
			return nil, err
		}
		return newVector(res), nil
	}
	return nil, tengo.ErrInvalidOperator
}

func (v *Vector) lerp(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	o, err := vectorArg(args, 0)
	if err != nil {
		return nil, err
	}
	t, err := floatArg(args, 1)
	if err != nil {
		return nil, err
	}
	return newVector(v.Value.Lerp(o, t)), nil
}

func (v *Vector) binaryScalar(fn func(a, b affine.Vec2) float64) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		o, err := vectorArg(args, 0)
		if err != nil {
			return nil, err
		}
		return floatObject(fn(v.Value, o)), nil
	}
}

func (v *Vector) pick(fn func(v affine.Vec2, others ...affine.Vec2) affine.Vec2) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		others := make([]affine.Vec2, len(args))
		for i := range args {
			o, err := vectorArg(args, i)
			if err != nil {
				return nil, err
			}
			others[i] = o
		}
		return newVector(fn(v.Value, others...)), nil
	}
}

// vectorModule builds the Vector2 global.
func vectorModule() *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"new": callable("new", func(args ...tengo.Object) (tengo.Object, error) {
			switch len(args) {
			case 0:
				return newVector(affine.Zero), nil
			case 2:
				xy, err := floatArgs(args, 0, 2)
				if err != nil {
					return nil, err
				}
				return newVector(affine.V(xy[0], xy[1])), nil
			}
			return nil, tengo.ErrWrongNumArguments
		}),
		"zero":  newVector(affine.Zero),
		"one":   newVector(affine.One),
		"xAxis": newVector(affine.XAxis),
		"yAxis": newVector(affine.YAxis),
	}}
}
