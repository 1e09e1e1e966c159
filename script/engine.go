package script

import (
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/bee2d/affine"
	"github.com/milk9111/bee2d/render"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// engine is the Bee2D global. Window properties and frame counters read
// live scheduler state; everything else is a host function.
type engine struct {
	tengo.ObjectImpl
	host  *Host
	funcs map[string]tengo.Object
}

func newEngine(h *Host) *engine {
	e := &engine{host: h}
	e.funcs = map[string]tengo.Object{
		"bindToStart":   callable("bindToStart", e.bindToStart),
		"bindToUpdate":  callable("bindToUpdate", e.bindToUpdate),
		"bindToDraw":    callable("bindToDraw", e.bindToDraw),
		"drawRectangle": callable("drawRectangle", e.drawRectangle),
		"drawTexture":   callable("drawTexture", e.drawTexture),
		"loadTexture":   callable("loadTexture", e.loadTexture),
		"setWidth":      callable("setWidth", e.setWidth),
		"setHeight":     callable("setHeight", e.setHeight),
		"setTitle":      callable("setTitle", e.setTitle),
		"setBackground": callable("setBackground", e.setBackground),
		"screenshot":    callable("screenshot", e.screenshot),
		"log":           callable("log", e.log),
	}
	return e
}

func (e *engine) TypeName() string {
	return "Bee2D"
}

func (e *engine) String() string {
	return "<Bee2D>"
}

func (e *engine) Copy() tengo.Object {
	return e
}

func (e *engine) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	s := e.host.sched
	switch key {
	case "width":
		return &tengo.Int{Value: int64(s.Window().Width)}, nil
	case "height":
		return &tengo.Int{Value: int64(s.Window().Height)}, nil
	case "title":
		return &tengo.String{Value: s.Window().Title}, nil
	case "deltaTime":
		return floatObject(s.Delta()), nil
	case "frame":
		return &tengo.Int{Value: int64(s.FrameCount())}, nil
	}
	if fn, ok := e.funcs[key]; ok {
		return fn, nil
	}
	return tengo.UndefinedValue, nil
}

func (e *engine) bindToStart(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	fn, err := callableArg(args, 0)
	if err != nil {
		return nil, err
	}
	h := e.host
	h.sched.BindStart(func() error {
		_, err := h.Call(fn)
		return wrapError("start", err)
	})
	return tengo.UndefinedValue, nil
}

func (e *engine) bindToUpdate(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	fn, err := callableArg(args, 0)
	if err != nil {
		return nil, err
	}
	h := e.host
	h.sched.BindUpdate(func(dt float64) error {
		_, err := h.Call(fn, floatObject(dt))
		return wrapError("update", err)
	})
	return tengo.UndefinedValue, nil
}

func (e *engine) bindToDraw(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	fn, err := callableArg(args, 0)
	if err != nil {
		return nil, err
	}
	h := e.host
	h.sched.BindDraw(func() error {
		_, err := h.Call(fn)
		return wrapError("draw", err)
	})
	return tengo.UndefinedValue, nil
}

// drawRectangle(x, y, width, height, color)
func (e *engine) drawRectangle(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 5 {
		return nil, tengo.ErrWrongNumArguments
	}
	f, err := floatArgs(args, 0, 4)
	if err != nil {
		return nil, err
	}
	c, err := colorArg(args, 4)
	if err != nil {
		return nil, err
	}
	e.host.sched.Queue().PushRectangle(render.Rect{X: f[0], Y: f[1], Width: f[2], Height: f[3]}, c)
	return tengo.UndefinedValue, nil
}

// drawTexture(path, x, y, rotation, scale, color)
func (e *engine) drawTexture(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 6 {
		return nil, tengo.ErrWrongNumArguments
	}
	path, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	f, err := floatArgs(args, 1, 4)
	if err != nil {
		return nil, err
	}
	c, err := colorArg(args, 5)
	if err != nil {
		return nil, err
	}
	e.host.sched.Queue().PushSprite(path, affine.V(f[0], f[1]), f[2], f[3], c)
	return tengo.UndefinedValue, nil
}

func (e *engine) loadTexture(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	path, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	e.host.sched.Textures().RequestLoad(path)
	return tengo.UndefinedValue, nil
}

func (e *engine) setWidth(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	n, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	return tengo.UndefinedValue, e.host.sched.SetWidth(n)
}

func (e *engine) setHeight(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	n, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	return tengo.UndefinedValue, e.host.sched.SetHeight(n)
}

func (e *engine) setTitle(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	title, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	e.host.sched.SetTitle(title)
	return tengo.UndefinedValue, nil
}

func (e *engine) setBackground(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	c, err := colorArg(args, 0)
	if err != nil {
		return nil, err
	}
	e.host.sched.SetBackground(c)
	return tengo.UndefinedValue, nil
}

func (e *engine) screenshot(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	path, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	e.host.sched.RequestScreenshot(path)
	return tengo.UndefinedValue, nil
}

func (e *engine) log(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		if s, ok := a.(*tengo.String); ok {
			parts[i] = s.Value
			continue
		}
		parts[i] = a.String()
	}
	e.host.log.Info(strings.Join(parts, " "), zap.String("script", e.host.name))
	return tengo.UndefinedValue, nil
}

// wait blocks the pipeline. Zero waits one 60 Hz frame.
func (h *Host) wait(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	seconds, err := floatArg(args, 0)
	if err != nil {
		return nil, err
	}
	switch {
	case seconds < 0:
		return nil, errors.Wrapf(ErrNegativeWait, "wait(%v)", seconds)
	case seconds == 0:
		h.sleep(time.Second / 60)
	default:
		h.sleep(time.Duration(seconds * float64(time.Second)))
	}
	return tengo.UndefinedValue, nil
}
