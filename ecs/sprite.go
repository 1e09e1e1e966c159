package ecs

import (
	"image/color"
	"math"

	"github.com/milk9111/bee2d/render"
)

// Sprite draws a cached texture at its owner's global transform every frame.
type Sprite struct {
	Texture string
	Color   color.NRGBA
}

func (s *Sprite) Start(c *Component) error {
	return nil
}

func (s *Sprite) Update(c *Component, dt float64) error {
	return nil
}

func (s *Sprite) Draw(c *Component, q *render.Queue) error {
	tree, node := c.Tree(), c.Node()
	if !tree.IsAlive(node) {
		return nil
	}
	pos := tree.GlobalPosition(node)
	rotation := tree.GlobalRotation(node) * 180 / math.Pi
	scale := tree.GlobalScale(node).X
	q.PushSprite(s.Texture, pos, rotation, scale, s.Color)
	return nil
}

func (s *Sprite) Duplicate() Behavior {
	cp := *s
	return &cp
}
