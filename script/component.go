package script

import (
	"github.com/d5/tengo/v2"
	"github.com/milk9111/bee2d/ecs"
	"github.com/milk9111/bee2d/render"
)

var componentPhases = []string{"start", "update", "draw"}

// Component is an ecs.Behavior whose phases are script functions stored in a
// map alongside the component's state. Each phase receives the map as self;
// self.gameObject is set before start.
type Component struct {
	host  *Host
	state *tengo.Map
}

// State returns the component's script map.
func (c *Component) State() *tengo.Map {
	return c.state
}

func (c *Component) Start(comp *ecs.Component) error {
	e, ok := comp.Owner()
	if !ok {
		return nil
	}
	c.state.Value["gameObject"] = c.host.gameObject(comp.World(), e)
	return c.invoke("start")
}

func (c *Component) Update(comp *ecs.Component, dt float64) error {
	return c.invoke("update", floatObject(dt))
}

func (c *Component) Draw(comp *ecs.Component, q *render.Queue) error {
	return c.invoke("draw")
}

// Duplicate deep-copies the state map. Functions keep sharing the variables
// they captured.
func (c *Component) Duplicate() ecs.Behavior {
	state, _ := c.state.Copy().(*tengo.Map)
	delete(state.Value, "gameObject")
	return &Component{host: c.host, state: state}
}

func (c *Component) invoke(phase string, args ...tengo.Object) error {
	fn, ok := c.state.Value[phase]
	if !ok || fn == tengo.UndefinedValue {
		return nil
	}
	_, err := c.host.Call(fn, append([]tengo.Object{c.state}, args...)...)
	return wrapError("component "+phase, err)
}
