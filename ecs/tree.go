package ecs

import (
	"math"

	"github.com/milk9111/bee2d/affine"
	"github.com/pkg/errors"
)

type node struct {
	parent   NodeID
	children []NodeID

	rotation    affine.Matrix3
	translation affine.Matrix3
	scale       affine.Matrix3
	angle       float64

	local  affine.Matrix3
	global affine.Matrix3
}

func newNode() node {
	id := affine.Identity()
	return node{
		rotation:    id,
		translation: id,
		scale:       id,
		local:       id,
		global:      id,
	}
}

// Tree is an arena of transform nodes addressed by generational NodeIDs.
//
// Global matrices are recomputed eagerly: every mutation of a node's local
// state or parent link recomputes that node and walks all of its descendants,
// so GlobalMatrix is always current when read.
type Tree struct {
	store handleStore
	nodes []node
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{}
}

// Create allocates a root node with identity transforms.
func (t *Tree) Create() NodeID {
	id := NodeID(t.store.create())
	idx := int(handleSlot(uint64(id))) - 1
	if idx >= len(t.nodes) {
		t.nodes = append(t.nodes, newNode())
	} else {
		t.nodes[idx] = newNode()
	}
	return id
}

// Destroy removes a node. It is detached from its parent and its children
// become roots.
func (t *Tree) Destroy(id NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.parent.Valid() {
		t.unlink(n.parent, id)
	}
	children := n.children
	n.children = nil
	for _, c := range children {
		cn, err := t.get(c)
		if err != nil {
			continue
		}
		cn.parent = 0
		t.recompute(c)
	}
	t.store.destroy(uint64(id))
	return nil
}

// IsAlive reports whether id refers to a live node.
func (t *Tree) IsAlive(id NodeID) bool {
	return t != nil && t.store.isAlive(uint64(id))
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return t.store.len()
}

func (t *Tree) get(id NodeID) (*node, error) {
	if t == nil {
		return nil, ErrNodeNotAlive
	}
	idx, ok := t.store.index(uint64(id))
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotAlive, "node %s", id)
	}
	return &t.nodes[idx], nil
}

// SetLocalPosition replaces the local translation.
func (t *Tree) SetLocalPosition(id NodeID, v affine.Vec2) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.translation = affine.FromTranslation(v.X, v.Y)
	t.recompute(id)
	return nil
}

// SetLocalRotation replaces the local rotation with a rotation by angle radians.
func (t *Tree) SetLocalRotation(id NodeID, angle float64) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.rotation = affine.FromRotation(angle)
	n.angle = angle
	t.recompute(id)
	return nil
}

// SetLocalRotationMatrix replaces the local rotation with m, which must be a
// pure rotation. The cached angle is derived from m.
func (t *Tree) SetLocalRotationMatrix(id NodeID, m affine.Matrix3) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.rotation = m
	n.angle = math.Atan2(m.M10, m.M00)
	t.recompute(id)
	return nil
}

// SetLocalScale replaces the local scale.
func (t *Tree) SetLocalScale(id NodeID, v affine.Vec2) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.scale = affine.FromScale(v.X, v.Y)
	t.recompute(id)
	return nil
}

// SetParent attaches id under parent, moving it out of its previous parent's
// children. A zero parent detaches the node.
func (t *Tree) SetParent(id, parent NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if parent.Valid() {
		if _, err := t.get(parent); err != nil {
			return err
		}
		if t.isAncestorOrSelf(id, parent) {
			return &CycleError{Node: id, Parent: parent}
		}
	}
	if n.parent == parent {
		t.recompute(id)
		return nil
	}
	if n.parent.Valid() {
		t.unlink(n.parent, id)
	}
	n.parent = parent
	if parent.Valid() {
		pn, _ := t.get(parent)
		pn.children = append(pn.children, id)
	}
	t.recompute(id)
	return nil
}

// ClearParent detaches id, making it a root.
func (t *Tree) ClearParent(id NodeID) error {
	return t.SetParent(id, 0)
}

// isAncestorOrSelf reports whether candidate is node or one of its ancestors.
func (t *Tree) isAncestorOrSelf(candidate, node NodeID) bool {
	for cur := node; cur.Valid(); {
		if cur == candidate {
			return true
		}
		n, err := t.get(cur)
		if err != nil {
			return false
		}
		cur = n.parent
	}
	return false
}

func (t *Tree) unlink(parent, child NodeID) {
	pn, err := t.get(parent)
	if err != nil {
		return
	}
	for i, c := range pn.children {
		if c == child {
			pn.children = append(pn.children[:i], pn.children[i+1:]...)
			return
		}
	}
}

// recompute rebuilds the local and global matrices of id and every
// descendant.
func (t *Tree) recompute(id NodeID) {
	n, err := t.get(id)
	if err != nil {
		return
	}
	n.local = n.rotation.Mul(n.translation).Mul(n.scale)
	n.global = n.local
	if n.parent.Valid() {
		if pn, err := t.get(n.parent); err == nil {
			n.global = pn.global.Mul(n.local)
		}
	}
	for _, c := range n.children {
		t.recompute(c)
	}
}

// Parent returns the parent of id, if any.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	n, err := t.get(id)
	if err != nil || !n.parent.Valid() {
		return 0, false
	}
	return n.parent, true
}

// Children returns a copy of id's children in attachment order.
func (t *Tree) Children(id NodeID) []NodeID {
	n, err := t.get(id)
	if err != nil {
		return nil
	}
	return append([]NodeID(nil), n.children...)
}

// Descendants returns every node below id in depth-first order.
func (t *Tree) Descendants(id NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(cur NodeID) {
		n, err := t.get(cur)
		if err != nil {
			return
		}
		for _, c := range n.children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

func (t *Tree) LocalMatrix(id NodeID) affine.Matrix3 {
	n, err := t.get(id)
	if err != nil {
		return affine.Identity()
	}
	return n.local
}

func (t *Tree) GlobalMatrix(id NodeID) affine.Matrix3 {
	n, err := t.get(id)
	if err != nil {
		return affine.Identity()
	}
	return n.global
}

func (t *Tree) LocalRotation(id NodeID) affine.Matrix3 {
	n, err := t.get(id)
	if err != nil {
		return affine.Identity()
	}
	return n.rotation
}

func (t *Tree) LocalRotationAngle(id NodeID) float64 {
	n, err := t.get(id)
	if err != nil {
		return 0
	}
	return n.angle
}

func (t *Tree) LocalPosition(id NodeID) affine.Vec2 {
	n, err := t.get(id)
	if err != nil {
		return affine.Zero
	}
	return affine.V(n.translation.M02, n.translation.M12)
}

func (t *Tree) LocalScale(id NodeID) affine.Vec2 {
	n, err := t.get(id)
	if err != nil {
		return affine.One
	}
	return affine.V(n.scale.M00, n.scale.M11)
}

// GlobalRotation derives the rotation angle of the global matrix. Like the
// other global accessors it assumes an unskewed matrix.
func (t *Tree) GlobalRotation(id NodeID) float64 {
	g := t.GlobalMatrix(id)
	return math.Atan2(g.M10, g.M00)
}

func (t *Tree) GlobalPosition(id NodeID) affine.Vec2 {
	g := t.GlobalMatrix(id)
	return affine.V(g.M02, g.M12)
}

func (t *Tree) GlobalScale(id NodeID) affine.Vec2 {
	g := t.GlobalMatrix(id)
	return affine.V(g.M00, g.M11)
}

// LocalToGlobal maps a point in id's local space to world space.
func (t *Tree) LocalToGlobal(id NodeID, p affine.Vec2) affine.Vec2 {
	return t.GlobalMatrix(id).Apply(p)
}

// GlobalToLocal maps a world-space point into id's local space. Singular
// transforms map every point to the origin.
func (t *Tree) GlobalToLocal(id NodeID, p affine.Vec2) affine.Vec2 {
	inv, ok := t.GlobalMatrix(id).Inverse()
	if !ok {
		return affine.Zero
	}
	return inv.Apply(p)
}
