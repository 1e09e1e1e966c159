package ecs

import (
	"image/color"
	"math"
	"testing"

	"github.com/milk9111/bee2d/affine"
	"github.com/milk9111/bee2d/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpriteDrawsAtGlobalTransform(t *testing.T) {
	w := NewWorld()
	parent := w.CreateEntity("parent")
	child := w.CreateEntity("child")
	tr := w.Tree()
	require.NoError(t, tr.SetLocalPosition(parent.Node, affine.V(10, 20)))
	require.NoError(t, tr.SetLocalScale(parent.Node, affine.V(2, 2)))
	require.NoError(t, tr.SetParent(child.Node, parent.Node))
	require.NoError(t, tr.SetLocalPosition(child.Node, affine.V(1, 1)))

	tint := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	_, err := w.Attach(child, &Sprite{Texture: "bee.png", Color: tint})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	var q render.Queue
	require.NoError(t, w.Draw(&q))
	require.Equal(t, 1, q.Len())
	req := q.Requests()[0]
	assert.Equal(t, render.KindSprite, req.Kind)
	assert.Equal(t, "bee.png", req.Texture)
	assert.Equal(t, affine.V(12, 22), req.Position)
	assert.Equal(t, 2.0, req.Scale)
	assert.Equal(t, tint, req.Color)

	require.NoError(t, tr.SetLocalRotation(parent.Node, math.Pi/2))
	q.Reset()
	require.NoError(t, w.Draw(&q))
	assert.InDelta(t, 90, q.Requests()[0].Rotation, 1e-9)
}

func TestTweenReachesTarget(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity("mover")
	require.NoError(t, w.Tree().SetLocalPosition(e.Node, affine.V(0, 10)))

	fn, ok := Easing("in_out_quad")
	require.True(t, ok)
	tw := &Tween{To: affine.V(100, 10), Duration: 1, Ease: fn}
	_, err := w.Attach(e, tw)
	require.NoError(t, err)

	require.NoError(t, w.Update(0.5))
	mid := w.Tree().LocalPosition(e.Node)
	assert.InDelta(t, 50, mid.X, 1e-3)
	assert.False(t, tw.Done())

	require.NoError(t, w.Update(0.75))
	assert.True(t, tw.Done())
	assert.Equal(t, affine.V(100, 10), w.Tree().LocalPosition(e.Node))

	dup := tw.Duplicate().(*Tween)
	assert.False(t, dup.Done())
	assert.Equal(t, tw.To, dup.To)
}

func TestEasingLookup(t *testing.T) {
	for _, name := range []string{"", "linear", "OutBounce", "in-out-sine", "in_elastic"} {
		_, ok := Easing(name)
		assert.True(t, ok, name)
	}
	_, ok := Easing("wobble")
	assert.False(t, ok)
}
