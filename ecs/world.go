package ecs

import (
	"github.com/milk9111/bee2d/render"
	"github.com/pkg/errors"
)

// Entity is a named container owning one transform node and an ordered list
// of components.
type Entity struct {
	ID   EntityID
	Name string
	Node NodeID

	components []*Component
}

// Components returns the attached components in attachment order.
func (e *Entity) Components() []*Component {
	if e == nil {
		return nil
	}
	return append([]*Component(nil), e.components...)
}

// World owns the transform arena and every entity.
type World struct {
	tree     *Tree
	handles  handleStore
	entities SparseSet[*Entity]
	order    []EntityID
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{tree: NewTree()}
}

// Tree returns the transform arena.
func (w *World) Tree() *Tree {
	if w == nil {
		return nil
	}
	return w.tree
}

// CreateEntity allocates an entity with a root transform and no components.
func (w *World) CreateEntity(name string) *Entity {
	id := EntityID(w.handles.create())
	e := &Entity{
		ID:   id,
		Name: name,
		Node: w.tree.Create(),
	}
	idx, _ := w.handles.index(uint64(id))
	w.entities.Set(idx, e)
	w.order = append(w.order, id)
	return e
}

// DestroyEntity removes e and its transform node. Children of the node become
// roots. Components are detached and never run again.
func (w *World) DestroyEntity(e *Entity) error {
	if e == nil {
		return ErrEntityNotAlive
	}
	idx, ok := w.handles.index(uint64(e.ID))
	if !ok {
		return errors.Wrapf(ErrEntityNotAlive, "entity %s", e.ID)
	}
	for _, c := range e.components {
		c.detached = true
	}
	if err := w.tree.Destroy(e.Node); err != nil {
		return err
	}
	w.entities.Remove(idx)
	w.handles.destroy(uint64(e.ID))
	for i, id := range w.order {
		if id == e.ID {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entity looks up a live entity.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	if w == nil {
		return nil, false
	}
	idx, ok := w.handles.index(uint64(id))
	if !ok {
		return nil, false
	}
	return w.entities.Get(idx)
}

// IsAlive reports whether e is a live entity of this world.
func (w *World) IsAlive(e *Entity) bool {
	if e == nil {
		return false
	}
	got, ok := w.Entity(e.ID)
	return ok && got == e
}

// Entities returns live entities in creation order.
func (w *World) Entities() []*Entity {
	if w == nil {
		return nil
	}
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		if e, ok := w.Entity(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.Len()
}

// Find returns the first live entity with the given name.
func (w *World) Find(name string) (*Entity, bool) {
	for _, e := range w.Entities() {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// EntityByNode returns the live entity owning node.
func (w *World) EntityByNode(node NodeID) (*Entity, bool) {
	for _, e := range w.Entities() {
		if e.Node == node {
			return e, true
		}
	}
	return nil, false
}

// Attach appends a component wrapping b to e. Start is deferred to the next
// lifecycle pass.
func (w *World) Attach(e *Entity, b Behavior) (*Component, error) {
	if b == nil {
		return nil, ErrNilBehavior
	}
	if !w.IsAlive(e) {
		return nil, ErrEntityNotAlive
	}
	c := &Component{world: w, owner: e.ID, behavior: b}
	e.components = append(e.components, c)
	return c, nil
}

// Duplicate attaches an independent copy of c's behavior to target.
func (w *World) Duplicate(c *Component, target *Entity) (*Component, error) {
	if c == nil || c.behavior == nil {
		return nil, ErrNilBehavior
	}
	return w.Attach(target, c.behavior.Duplicate())
}

// Instantiate creates a new entity named name that copies template's local
// transform and parent and carries duplicates of all its components.
func (w *World) Instantiate(template *Entity, name string) (*Entity, error) {
	if !w.IsAlive(template) {
		return nil, ErrEntityNotAlive
	}
	e := w.CreateEntity(name)
	t := w.tree
	src := template.Node
	if err := t.SetLocalRotationMatrix(e.Node, t.LocalRotation(src)); err != nil {
		return nil, err
	}
	if err := t.SetLocalPosition(e.Node, t.LocalPosition(src)); err != nil {
		return nil, err
	}
	if err := t.SetLocalScale(e.Node, t.LocalScale(src)); err != nil {
		return nil, err
	}
	if parent, ok := t.Parent(src); ok {
		if err := t.SetParent(e.Node, parent); err != nil {
			return nil, err
		}
	}
	for _, c := range template.components {
		if _, err := w.Duplicate(c, e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Start runs Start once on every component that has not started yet.
func (w *World) Start() error {
	for _, e := range w.Entities() {
		for _, c := range e.Components() {
			if err := w.startComponent(e, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *World) startComponent(e *Entity, c *Component) error {
	if c.started || c.detached {
		return nil
	}
	c.started = true
	if err := c.behavior.Start(c); err != nil {
		return errors.Wrapf(err, "start component of %q", e.Name)
	}
	return nil
}

// Update starts components attached since the last pass, then updates every
// started component in entity creation order.
func (w *World) Update(dt float64) error {
	if err := w.Start(); err != nil {
		return err
	}
	for _, e := range w.Entities() {
		for _, c := range e.Components() {
			if !c.started || c.detached {
				continue
			}
			if err := c.behavior.Update(c, dt); err != nil {
				return errors.Wrapf(err, "update component of %q", e.Name)
			}
		}
	}
	return nil
}

// Draw lets every started component enqueue render requests.
func (w *World) Draw(q *render.Queue) error {
	for _, e := range w.Entities() {
		for _, c := range e.Components() {
			if !c.started || c.detached {
				continue
			}
			if err := c.behavior.Draw(c, q); err != nil {
				return errors.Wrapf(err, "draw component of %q", e.Name)
			}
		}
	}
	return nil
}
