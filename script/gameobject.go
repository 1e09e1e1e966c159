package script

import (
	"github.com/d5/tengo/v2"
	"github.com/milk9111/bee2d/affine"
	"github.com/milk9111/bee2d/ecs"
	"github.com/milk9111/bee2d/render"
	"github.com/pkg/errors"
)

// GameObject is the script handle of an ecs.Entity. It never keeps the
// entity alive; operations on a destroyed entity fail.
type GameObject struct {
	tengo.ObjectImpl
	host   *Host
	world  *ecs.World
	entity *ecs.Entity
}

func (h *Host) gameObject(w *ecs.World, e *ecs.Entity) *GameObject {
	return &GameObject{host: h, world: w, entity: e}
}

// Entity returns the underlying entity.
func (g *GameObject) Entity() *ecs.Entity {
	return g.entity
}

func (g *GameObject) TypeName() string {
	return "GameObject"
}

func (g *GameObject) String() string {
	return "GameObject(" + g.entity.Name + ")"
}

func (g *GameObject) Copy() tengo.Object {
	return &GameObject{host: g.host, world: g.world, entity: g.entity}
}

func (g *GameObject) IsFalsy() bool {
	return !g.world.IsAlive(g.entity)
}

func (g *GameObject) Equals(o tengo.Object) bool {
	other, ok := o.(*GameObject)
	return ok && other.world == g.world && other.entity == g.entity
}

func (g *GameObject) alive() error {
	if !g.world.IsAlive(g.entity) {
		return errors.Wrapf(ErrDestroyed, "%q", g.entity.Name)
	}
	return nil
}

func (g *GameObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	switch key {
	case "name":
		return &tengo.String{Value: g.entity.Name}, nil
	case "id":
		return &tengo.String{Value: g.entity.ID.String()}, nil
	case "alive":
		return boolObject(g.world.IsAlive(g.entity)), nil
	case "componentCount":
		return &tengo.Int{Value: int64(len(g.entity.Components()))}, nil
	case "transform":
		return &Transform{obj: g}, nil
	case "addComponent":
		return callable("addComponent", g.addComponent), nil
	case "addSprite":
		return callable("addSprite", g.addSprite), nil
	case "tweenTo":
		return callable("tweenTo", g.tweenTo), nil
	case "clone":
		return callable("clone", g.clone), nil
	case "destroy":
		return callable("destroy", g.destroy), nil
	}
	return tengo.UndefinedValue, nil
}

func (g *GameObject) IndexSet(index, value tengo.Object) error {
	key, ok := tengo.ToString(index)
	if !ok {
		return tengo.ErrInvalidIndexType
	}
	if key != "name" {
		return tengo.ErrNotIndexAssignable
	}
	s, ok := value.(*tengo.String)
	if !ok {
		return tengo.ErrInvalidArgumentType{Name: "name", Expected: "string", Found: value.TypeName()}
	}
	g.entity.Name = s.Value
	return nil
}

// addComponent attaches a scripted component built from a map of optional
// start, update and draw functions plus arbitrary state.
func (g *GameObject) addComponent(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	state, ok := args[0].(*tengo.Map)
	if !ok {
		return nil, invalidArg(0, "map", args[0])
	}
	for _, phase := range componentPhases {
		fn, ok := state.Value[phase]
		if ok && fn != tengo.UndefinedValue && !fn.CanCall() {
			return nil, errors.Errorf("component %s is %s, not a function", phase, fn.TypeName())
		}
	}
	if _, err := g.world.Attach(g.entity, &Component{host: g.host, state: state}); err != nil {
		return nil, err
	}
	return state, nil
}

// addSprite attaches a Sprite and requests its texture.
func (g *GameObject) addSprite(args ...tengo.Object) (tengo.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	path, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	sprite := &ecs.Sprite{Texture: path, Color: render.White}
	if len(args) == 2 {
		if sprite.Color, err = colorArg(args, 1); err != nil {
			return nil, err
		}
	}
	if _, err := g.world.Attach(g.entity, sprite); err != nil {
		return nil, err
	}
	g.host.sched.Textures().RequestLoad(path)
	return g, nil
}

// tweenTo attaches a Tween moving the local position to (x, y).
func (g *GameObject) tweenTo(args ...tengo.Object) (tengo.Object, error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, tengo.ErrWrongNumArguments
	}
	f, err := floatArgs(args, 0, 3)
	if err != nil {
		return nil, err
	}
	if f[2] < 0 {
		return nil, errors.Errorf("tween duration %v is negative", f[2])
	}
	name := ""
	if len(args) == 4 {
		if name, err = stringArg(args, 3); err != nil {
			return nil, err
		}
	}
	fn, ok := ecs.Easing(name)
	if !ok {
		return nil, errors.Errorf("unknown easing %q", name)
	}
	tw := &ecs.Tween{To: affine.V(f[0], f[1]), Duration: float32(f[2]), Ease: fn}
	if _, err := g.world.Attach(g.entity, tw); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GameObject) clone(args ...tengo.Object) (tengo.Object, error) {
	if len(args) > 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	name := g.entity.Name
	if len(args) == 1 {
		var err error
		if name, err = stringArg(args, 0); err != nil {
			return nil, err
		}
	}
	e, err := g.world.Instantiate(g.entity, name)
	if err != nil {
		return nil, err
	}
	return g.host.gameObject(g.world, e), nil
}

func (g *GameObject) destroy(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 0 {
		return nil, tengo.ErrWrongNumArguments
	}
	if err := g.alive(); err != nil {
		return nil, err
	}
	if err := g.world.DestroyEntity(g.entity); err != nil {
		return nil, err
	}
	return tengo.UndefinedValue, nil
}

// gameObjectModule builds the GameObject global.
func (h *Host) gameObjectModule() *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"new": callable("new", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) > 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			name := "GameObject"
			if len(args) == 1 {
				var err error
				if name, err = stringArg(args, 0); err != nil {
					return nil, err
				}
			}
			w := h.sched.World()
			return h.gameObject(w, w.CreateEntity(name)), nil
		}),
		"find": callable("find", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			name, err := stringArg(args, 0)
			if err != nil {
				return nil, err
			}
			w := h.sched.World()
			e, ok := w.Find(name)
			if !ok {
				return tengo.UndefinedValue, nil
			}
			return h.gameObject(w, e), nil
		}),
	}}
}
