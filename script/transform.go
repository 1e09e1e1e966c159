package script

import (
	"github.com/d5/tengo/v2"
	"github.com/milk9111/bee2d/ecs"
)

// Transform exposes a GameObject's transform node.
type Transform struct {
	tengo.ObjectImpl
	obj *GameObject
}

func (t *Transform) TypeName() string {
	return "Transform"
}

func (t *Transform) String() string {
	tree, node := t.tree(), t.obj.entity.Node
	return "Transform(local " + tree.LocalMatrix(node).String() + ", global " + tree.GlobalMatrix(node).String() + ")"
}

func (t *Transform) Copy() tengo.Object {
	return &Transform{obj: t.obj}
}

func (t *Transform) Equals(o tengo.Object) bool {
	other, ok := o.(*Transform)
	return ok && t.obj.Equals(other.obj)
}

func (t *Transform) tree() *ecs.Tree {
	return t.obj.world.Tree()
}

func (t *Transform) transformOf(node ecs.NodeID) tengo.Object {
	e, ok := t.obj.world.EntityByNode(node)
	if !ok {
		return tengo.UndefinedValue
	}
	return &Transform{obj: t.obj.host.gameObject(t.obj.world, e)}
}

func (t *Transform) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	if err := t.obj.alive(); err != nil {
		return nil, err
	}
	tree, node := t.tree(), t.obj.entity.Node
	switch key {
	case "gameObject":
		return t.obj, nil
	case "parent":
		parent, ok := tree.Parent(node)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return t.transformOf(parent), nil
	case "children":
		children := tree.Children(node)
		out := make([]tengo.Object, 0, len(children))
		for _, c := range children {
			if tr := t.transformOf(c); tr != tengo.UndefinedValue {
				out = append(out, tr)
			}
		}
		return &tengo.Array{Value: out}, nil
	case "localMatrix":
		return newMatrix(tree.LocalMatrix(node)), nil
	case "globalMatrix":
		return newMatrix(tree.GlobalMatrix(node)), nil
	case "localRotation":
		return newMatrix(tree.LocalRotation(node)), nil
	case "localRotationAngle":
		return floatObject(tree.LocalRotationAngle(node)), nil
	case "localPosition":
		return newVector(tree.LocalPosition(node)), nil
	case "localScale":
		return newVector(tree.LocalScale(node)), nil
	case "globalRotation":
		return floatObject(tree.GlobalRotation(node)), nil
	case "globalPosition":
		return newVector(tree.GlobalPosition(node)), nil
	case "globalScale":
		return newVector(tree.GlobalScale(node)), nil
	case "localToGlobal":
		return callable("localToGlobal", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			p, err := vectorArg(args, 0)
			if err != nil {
				return nil, err
			}
			return newVector(tree.LocalToGlobal(node, p)), nil
		}), nil
	case "globalToLocal":
		return callable("globalToLocal", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			p, err := vectorArg(args, 0)
			if err != nil {
				return nil, err
			}
			return newVector(tree.GlobalToLocal(node, p)), nil
		}), nil
	}
	return tengo.UndefinedValue, nil
}

func (t *Transform) IndexSet(index, value tengo.Object) error {
	key, ok := tengo.ToString(index)
	if !ok {
		return tengo.ErrInvalidIndexType
	}
	if err := t.obj.alive(); err != nil {
		return err
	}
	tree, node := t.tree(), t.obj.entity.Node
	args := []tengo.Object{value}
	switch key {
	case "parent":
		switch p := value.(type) {
		case *tengo.Undefined:
			return tree.ClearParent(node)
		case *Transform:
			if err := p.obj.alive(); err != nil {
				return err
			}
			return tree.SetParent(node, p.obj.entity.Node)
		case *GameObject:
			if err := p.alive(); err != nil {
				return err
			}
			return tree.SetParent(node, p.entity.Node)
		}
		return invalidArg(0, "Transform, GameObject or undefined", value)
	case "localRotation":
		if m, ok := value.(*Matrix); ok {
			return tree.SetLocalRotationMatrix(node, m.Value)
		}
		angle, err := floatArg(args, 0)
		if err != nil {
			return invalidArg(0, "Matrix3 or number", value)
		}
		return tree.SetLocalRotation(node, angle)
	case "localPosition":
		v, err := vectorArg(args, 0)
		if err != nil {
			return err
		}
		return tree.SetLocalPosition(node, v)
	case "localScale":
		v, err := vectorArg(args, 0)
		if err != nil {
			return err
		}
		return tree.SetLocalScale(node, v)
	}
	return tengo.ErrNotIndexAssignable
}
