package script

import (
	"image/color"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/bee2d/affine"
	"github.com/milk9111/bee2d/render"
)

var argNames = []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth"}

func argName(i int) string {
	if i < len(argNames) {
		return argNames[i]
	}
	return "argument"
}

func invalidArg(i int, expected string, found tengo.Object) error {
	return tengo.ErrInvalidArgumentType{
		Name:     argName(i),
		Expected: expected,
		Found:    found.TypeName(),
	}
}

func floatArg(args []tengo.Object, i int) (float64, error) {
	v, ok := tengo.ToFloat64(args[i])
	if !ok {
		return 0, invalidArg(i, "number", args[i])
	}
	return v, nil
}

func floatArgs(args []tengo.Object, from, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := floatArg(args, from+i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func intArg(args []tengo.Object, i int) (int, error) {
	v, ok := tengo.ToInt(args[i])
	if !ok {
		return 0, invalidArg(i, "int", args[i])
	}
	return v, nil
}

func stringArg(args []tengo.Object, i int) (string, error) {
	if s, ok := args[i].(*tengo.String); ok {
		return s.Value, nil
	}
	return "", invalidArg(i, "string", args[i])
}

func vectorArg(args []tengo.Object, i int) (affine.Vec2, error) {
	if v, ok := args[i].(*Vector); ok {
		return v.Value, nil
	}
	return affine.Vec2{}, invalidArg(i, "Vector2", args[i])
}

func matrixArg(args []tengo.Object, i int) (affine.Matrix3, error) {
	if m, ok := args[i].(*Matrix); ok {
		return m.Value, nil
	}
	return affine.Matrix3{}, invalidArg(i, "Matrix3", args[i])
}

func callableArg(args []tengo.Object, i int) (tengo.Object, error) {
	if !args[i].CanCall() {
		return nil, invalidArg(i, "function", args[i])
	}
	return args[i], nil
}

func arrayValues(o tengo.Object) ([]tengo.Object, bool) {
	switch v := o.(type) {
	case *tengo.Array:
		return v.Value, true
	case *tengo.ImmutableArray:
		return v.Value, true
	}
	return nil, false
}

// colorArg converts a 3 or 4 element numeric array into a color. Channels are
// 0-255 and clamped; a missing alpha is opaque.
func colorArg(args []tengo.Object, i int) (color.NRGBA, error) {
	values, ok := arrayValues(args[i])
	if !ok || len(values) < 3 || len(values) > 4 {
		return color.NRGBA{}, invalidArg(i, "color array [r, g, b, a]", args[i])
	}
	ch := [4]float64{0, 0, 0, 255}
	for j, v := range values {
		f, ok := tengo.ToFloat64(v)
		if !ok {
			return color.NRGBA{}, invalidArg(i, "color array [r, g, b, a]", args[i])
		}
		ch[j] = f
	}
	return render.Color(ch[0], ch[1], ch[2], ch[3]), nil
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func floatObject(v float64) tengo.Object {
	return &tengo.Float{Value: v}
}

func callable(name string, fn tengo.CallableFunc) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: fn}
}
