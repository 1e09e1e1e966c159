package ecs

import "github.com/milk9111/bee2d/render"

// Behavior is the payload of a Component. The World drives the three phases
// without knowing concrete behavior types.
type Behavior interface {
	Start(c *Component) error
	Update(c *Component, dt float64) error
	Draw(c *Component, q *render.Queue) error
	// Duplicate returns a copy whose state is independent of the receiver.
	Duplicate() Behavior
}

// Component attaches a Behavior to an entity. The owner reference is a
// handle; it never keeps the entity alive.
type Component struct {
	world    *World
	owner    EntityID
	behavior Behavior
	started  bool
	detached bool
}

// Owner resolves the owning entity. It fails once the entity is destroyed.
func (c *Component) Owner() (*Entity, bool) {
	if c == nil || c.world == nil {
		return nil, false
	}
	return c.world.Entity(c.owner)
}

// OwnerID returns the owning entity handle.
func (c *Component) OwnerID() EntityID {
	return c.owner
}

// World returns the world the component was attached in.
func (c *Component) World() *World {
	return c.world
}

// Behavior returns the payload.
func (c *Component) Behavior() Behavior {
	return c.behavior
}

// Started reports whether Start has run.
func (c *Component) Started() bool {
	return c.started
}

// Node returns the owner's transform node, or zero if the owner is gone.
func (c *Component) Node() NodeID {
	e, ok := c.Owner()
	if !ok {
		return 0
	}
	return e.Node
}

// Tree returns the transform arena of the component's world.
func (c *Component) Tree() *Tree {
	if c == nil || c.world == nil {
		return nil
	}
	return c.world.Tree()
}
