package affine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorArithmetic(t *testing.T) {
	a, b := V(3, 4), V(-1, 2)

	assert.Equal(t, V(2, 6), a.Add(b))
	assert.Equal(t, V(4, 2), a.Sub(b))
	assert.Equal(t, V(-3, 8), a.Mul(b))
	assert.Equal(t, V(6, 8), a.Scale(2))
	assert.Equal(t, 5.0, a.Dot(b))
	assert.Equal(t, 10.0, a.Cross(b))
	assert.Equal(t, 5.0, a.Magnitude())
	assert.InDelta(t, math.Sqrt(20), a.Distance(b), epsilon)

	u := a.Unit()
	assert.InDelta(t, 0.6, u.X, epsilon)
	assert.InDelta(t, 0.8, u.Y, epsilon)
}

func TestVectorDivision(t *testing.T) {
	got, err := V(4, 8).Div(2)
	require.NoError(t, err)
	assert.Equal(t, V(2, 4), got)

	_, err = V(1, 1).Div(0)
	assert.True(t, errors.Is(err, ErrDivideByZero))

	got, err = V(4, 9).DivVec(V(2, 3))
	require.NoError(t, err)
	assert.Equal(t, V(2, 3), got)

	_, err = V(4, 9).DivVec(V(2, 0))
	assert.True(t, errors.Is(err, ErrDivideByZero))
}

func TestVectorLerpEndpoints(t *testing.T) {
	a, b := V(0.1, -7), V(0.3, 2.5)
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, a, a.Lerp(a, 0.37))
}

func TestVectorMaxMin(t *testing.T) {
	a, b, c := V(1, 0), V(0, 3), V(-2, 0)
	assert.Equal(t, b, a.MaxByMagnitude(b, c))
	assert.Equal(t, a, a.MinByMagnitude(b, c))
	assert.Equal(t, a, a.MaxByMagnitude())
	assert.Equal(t, a, a.MaxByMagnitude(V(0, -1)), "ties keep the receiver")
}
