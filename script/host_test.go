package script

import (
	"errors"
	"testing"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/bee2d/affine"
	"github.com/milk9111/bee2d/frame"
	"github.com/milk9111/bee2d/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(16 * time.Millisecond)
	return c.now
}

// reports collects values scripts pass to report(key, value).
type reports map[string]tengo.Object

func (r reports) function() tengo.Object {
	return &tengo.UserFunction{Name: "report", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		key, _ := tengo.ToString(args[0])
		r[key] = args[1]
		return tengo.UndefinedValue, nil
	}}
}

func (r reports) float(t *testing.T, key string) float64 {
	t.Helper()
	v, ok := tengo.ToFloat64(r[key])
	require.True(t, ok, "report %q is %v", key, r[key])
	return v
}

func (r reports) vector(t *testing.T, key string) affine.Vec2 {
	t.Helper()
	v, ok := r[key].(*Vector)
	require.True(t, ok, "report %q is %v", key, r[key])
	return v.Value
}

func (r reports) truth(t *testing.T, key string) bool {
	t.Helper()
	require.Contains(t, r, key)
	return !r[key].IsFalsy()
}

type fixture struct {
	host   *Host
	sched  *frame.Scheduler
	rec    *render.Recorder
	out    reports
	sleeps []time.Duration
}

func newFixture(t *testing.T, missing ...string) *fixture {
	t.Helper()
	f := &fixture{rec: render.NewRecorder(missing...), out: reports{}}
	log := zaptest.NewLogger(t)

	cfg := frame.DefaultConfig()
	cfg.Interval = 0
	cfg.Clock = (&fakeClock{now: time.Unix(0, 0)}).Now
	cfg.Logger = log
	f.sched = frame.New(f.rec, cfg)

	f.host = NewHost(f.sched, Config{
		Logger:  log,
		Sleep:   func(d time.Duration) { f.sleeps = append(f.sleeps, d) },
		Globals: map[string]tengo.Object{"report": f.out.function()},
	})
	return f
}

func (f *fixture) load(t *testing.T, src string) {
	t.Helper()
	require.NoError(t, f.host.Load("test.tengo", []byte(src)))
}

func (f *fixture) start(t *testing.T, src string) {
	t.Helper()
	f.load(t, src)
	require.NoError(t, f.sched.Start())
}

func TestScriptDrivesRenderQueue(t *testing.T) {
	f := newFixture(t)
	f.start(t, `
Bee2D.loadTexture("bee.png")
Bee2D.setTitle("Hive")
Bee2D.setWidth(640)
Bee2D.bindToDraw(func() {
	Bee2D.drawRectangle(1, 2, 3, 4, [255, 0, 0, 255])
	Bee2D.drawRectangle(5, 6, 7, 8, [0, 255, 0])
	Bee2D.drawTexture("bee.png", 9, 10, 90, 2, [255, 255, 255, 128])
	Bee2D.drawTexture("never-loaded.png", 0, 0, 0, 1, [255, 255, 255, 255])
})
`)
	require.NoError(t, f.sched.Frame())

	assert.Equal(t, []string{"load", "size", "title", "rectangle", "rectangle", "texture"},
		f.rec.Ops("load", "size", "title", "rectangle", "texture"))

	var rects, textures []render.Call
	for _, c := range f.rec.Calls {
		switch c.Op {
		case "rectangle":
			rects = append(rects, c)
		case "texture":
			textures = append(textures, c)
		case "size":
			assert.Equal(t, 640, c.Width)
			assert.Equal(t, 800, c.Height)
		case "title":
			assert.Equal(t, "Hive", c.Title)
		}
	}
	require.Len(t, rects, 2)
	assert.Equal(t, render.Rect{X: 1, Y: 2, Width: 3, Height: 4}, rects[0].Rect)
	assert.Equal(t, uint8(255), rects[1].Color.A, "missing alpha is opaque")
	require.Len(t, textures, 1)
	assert.Equal(t, "bee.png", textures[0].Path)
	assert.Equal(t, affine.V(9, 10), textures[0].Position)
	assert.Equal(t, 90.0, textures[0].Rotation)
	assert.Equal(t, 2.0, textures[0].Scale)
	assert.Equal(t, uint8(128), textures[0].Color.A)
	assert.Equal(t, 1, f.sched.Stats().Skipped)
}

func TestCallbacksShareScriptState(t *testing.T) {
	f := newFixture(t)
	f.start(t, `
total := 0.0
calls := 0
order := []
Bee2D.bindToStart(func() { order = append(order, "a") })
Bee2D.bindToStart(func() { order = append(order, "b") })
Bee2D.bindToUpdate(func(dt) { total += dt })
Bee2D.bindToUpdate(func() { calls += 1 })
Bee2D.bindToDraw(func() {
	report("total", total)
	report("calls", calls)
	report("order", order)
	report("frame", Bee2D.frame)
	report("delta", Bee2D.deltaTime)
})
`)
	require.NoError(t, f.sched.Frame())
	require.NoError(t, f.sched.Frame())

	assert.InDelta(t, 0.032, f.out.float(t, "total"), 1e-9)
	assert.Equal(t, 2.0, f.out.float(t, "calls"))
	assert.Equal(t, 1.0, f.out.float(t, "frame"))
	assert.InDelta(t, 0.016, f.out.float(t, "delta"), 1e-9)
	assert.Equal(t, []interface{}{"a", "b"}, tengo.ToInterface(f.out["order"]))
}

func TestScriptErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		phase   string
		message string
		// frame runs a frame after a successful load.
		frame bool
	}{
		{"compile", "x := ", "compile", "", false},
		{"bad_argument", `Bee2D.setWidth("wide")`, "load", "expected int", false},
		{"bad_color", `Bee2D.drawRectangle(0, 0, 1, 1, "red")`, "load", "color array", false},
		{"negative_wait", `wait(-1)`, "load", "negative", false},
		{"update_error_value", `Bee2D.bindToUpdate(func(dt) { return error("boom") })`, "update", "boom", true},
		{"draw_runtime", "zero := 0\nBee2D.bindToDraw(func() { x := 1 / zero })", "draw", "", true},
		{"component", `GameObject.new("g").addComponent({update: func(self, dt) { return error("bad component") }})`, "component update", "bad component", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.host.Load("test.tengo", []byte(c.src))
			if c.frame {
				require.NoError(t, err)
				require.NoError(t, f.sched.Start())
				err = f.sched.Frame()
				assert.Equal(t, frame.Stopped, f.sched.State())
			}
			require.Error(t, err)

			var se *Error
			require.True(t, errors.As(err, &se), "%v", err)
			assert.Equal(t, c.phase, se.Phase)
			if c.message != "" {
				assert.Contains(t, err.Error(), c.message)
			}
		})
	}
}

func TestWait(t *testing.T) {
	f := newFixture(t)
	f.load(t, `
wait(0)
wait(2)
wait(0.5)
`)
	assert.Equal(t, []time.Duration{time.Second / 60, 2 * time.Second, 500 * time.Millisecond}, f.sleeps)
}

func TestVectorAndMatrixValues(t *testing.T) {
	f := newFixture(t)
	f.load(t, `
a := Vector2.new(1, 2)
b := Vector2.new(3, 4)
report("sum", a + b)
report("diff", b - a)
report("scaled", a * 2)
report("mul", a * b)
report("div", b / 2)
report("divVec", b / a)
report("dot", a.dot(b))
report("cross", a.cross(b))
report("mag", b.magnitude)
report("x", b.x)
report("lerp", a.lerp(b, 0.5))
report("max", a.max(b, Vector2.one))
report("min", a.min(b, Vector2.one))
report("eq", a == Vector2.new(1, 2))
report("neq", a == b)

m := Matrix3.fromTranslation(10, 0) * Matrix3.fromScale(2, 2)
report("apply", m * Vector2.new(1, 1))
report("applyMethod", m.apply(Vector2.new(1, 1)))
report("m02", m.m02)
report("identity", Matrix3.identity == Matrix3.new(1, 0, 0, 0, 1, 0, 0, 0, 1))
report("lerpSame", Matrix3.lerp(m, m, 0.3) == m)
report("inverse", m.inverse() * m == Matrix3.identity)
report("singular", Matrix3.fromScale(0, 1).inverse())
`)
	assert.Equal(t, affine.V(4, 6), f.out.vector(t, "sum"))
	assert.Equal(t, affine.V(2, 2), f.out.vector(t, "diff"))
	assert.Equal(t, affine.V(2, 4), f.out.vector(t, "scaled"))
	assert.Equal(t, affine.V(3, 8), f.out.vector(t, "mul"))
	assert.Equal(t, affine.V(1.5, 2), f.out.vector(t, "div"))
	assert.Equal(t, affine.V(3, 2), f.out.vector(t, "divVec"))
	assert.Equal(t, 11.0, f.out.float(t, "dot"))
	assert.Equal(t, -2.0, f.out.float(t, "cross"))
	assert.Equal(t, 5.0, f.out.float(t, "mag"))
	assert.Equal(t, 3.0, f.out.float(t, "x"))
	assert.Equal(t, affine.V(2, 3), f.out.vector(t, "lerp"))
	assert.Equal(t, affine.V(3, 4), f.out.vector(t, "max"))
	assert.Equal(t, affine.V(1, 1), f.out.vector(t, "min"))
	assert.True(t, f.out.truth(t, "eq"))
	assert.False(t, f.out.truth(t, "neq"))

	assert.Equal(t, affine.V(12, 2), f.out.vector(t, "apply"))
	assert.Equal(t, affine.V(12, 2), f.out.vector(t, "applyMethod"))
	assert.Equal(t, 10.0, f.out.float(t, "m02"))
	assert.True(t, f.out.truth(t, "identity"))
	assert.True(t, f.out.truth(t, "lerpSame"))
	assert.True(t, f.out.truth(t, "inverse"))
	assert.Equal(t, tengo.UndefinedValue, f.out["singular"])
}

func TestVectorDivideByZero(t *testing.T) {
	f := newFixture(t)
	err := f.host.Load("test.tengo", []byte(`x := Vector2.one / 0`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "divide by zero")
}

func TestIntegerDivideByZeroInCallback(t *testing.T) {
	f := newFixture(t)
	f.start(t, `
zero := 0
Bee2D.bindToUpdate(func(dt) { report("result", 1 / zero) })
`)
	err := f.sched.Frame()
	require.Error(t, err)

	var se *Error
	require.True(t, errors.As(err, &se), "%v", err)
	assert.Equal(t, "update", se.Phase)
	assert.Contains(t, err.Error(), "divide by zero")
	assert.Equal(t, frame.Stopped, f.sched.State())

	// the host is still usable after the failed call
	require.NoError(t, f.host.Reload([]byte(`Bee2D.bindToUpdate(func(dt) { report("result", 4 / 2) })`)))
	require.NoError(t, f.sched.Frame())
	assert.Equal(t, 2.0, f.out.float(t, "result"))
}

func TestPanickingNativeCallable(t *testing.T) {
	f := newFixture(t)
	f.load(t, `x := 1`)
	boom := &tengo.UserFunction{Name: "boom", Value: func(args ...tengo.Object) (tengo.Object, error) {
		panic("boom")
	}}
	_, err := f.host.Call(boom)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script panic: boom")
	assert.False(t, f.host.busy)
}

func TestTransformHierarchyFromScript(t *testing.T) {
	f := newFixture(t)
	f.load(t, `
root := GameObject.new("root")
child := GameObject.new("child")
child.transform.localPosition = Vector2.new(2, 3)
report("before", child.transform.globalPosition)

p := GameObject.new("p")
p.transform.localPosition = Vector2.new(10, 0)
child.transform.parent = p.transform
report("after", child.transform.globalPosition)
report("parentName", child.transform.parent.gameObject.name)
report("children", len(p.transform.children))

p.transform.localScale = Vector2.new(2, 2)
report("scaled", child.transform.globalPosition)
report("globalScale", child.transform.globalScale)

p.transform.localRotation = 0
report("angle", p.transform.localRotationAngle)
p.transform.localRotation = Matrix3.fromRotation(0.5)
report("angleFromMatrix", p.transform.localRotationAngle)
p.transform.localRotation = 0

child.transform.parent = undefined
report("detached", child.transform.globalPosition)
report("noParent", child.transform.parent)
report("local", p.transform.globalToLocal(Vector2.new(12, 0)))

child.transform.parent = root
report("rootChildren", len(root.transform.children))
`)
	assert.Equal(t, affine.V(2, 3), f.out.vector(t, "before"))
	assert.Equal(t, affine.V(12, 3), f.out.vector(t, "after"))
	assert.Equal(t, "p", tengo.ToInterface(f.out["parentName"]))
	assert.Equal(t, 1.0, f.out.float(t, "children"))
	assert.Equal(t, affine.V(14, 6), f.out.vector(t, "scaled"))
	assert.Equal(t, affine.V(2, 2), f.out.vector(t, "globalScale"))
	assert.Equal(t, 0.0, f.out.float(t, "angle"))
	assert.InDelta(t, 0.5, f.out.float(t, "angleFromMatrix"), 1e-12)
	assert.Equal(t, affine.V(2, 3), f.out.vector(t, "detached"))
	assert.Equal(t, tengo.UndefinedValue, f.out["noParent"])
	assert.Equal(t, affine.V(1, 0), f.out.vector(t, "local"))
	assert.Equal(t, 1.0, f.out.float(t, "rootChildren"))
}

func TestParentCycleIsScriptError(t *testing.T) {
	f := newFixture(t)
	err := f.host.Load("test.tengo", []byte(`
a := GameObject.new("a")
b := GameObject.new("b")
b.transform.parent = a
a.transform.parent = b
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestScriptedComponents(t *testing.T) {
	f := newFixture(t)
	f.start(t, `
hero := GameObject.new("hero")
state := hero.addComponent({
	count: 0,
	start: func(self) { report("start:" + self.gameObject.name, true) },
	update: func(self, dt) { self.count += 1 },
	draw: func(self) { report(self.gameObject.name, self.count) }
})
twin := hero.clone("twin")
state.count = 10
report("components", twin.componentCount)
`)
	assert.True(t, f.out.truth(t, "start:hero"))
	assert.True(t, f.out.truth(t, "start:twin"))
	assert.Equal(t, 1.0, f.out.float(t, "components"))

	require.NoError(t, f.sched.Frame())
	assert.Equal(t, 11.0, f.out.float(t, "hero"))
	assert.Equal(t, 1.0, f.out.float(t, "twin"))
}

func TestComponentRejectsNonFunctionPhase(t *testing.T) {
	f := newFixture(t)
	err := f.host.Load("test.tengo", []byte(`GameObject.new("g").addComponent({update: 5})`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a function")
}

func TestSpriteAndTweenFromScript(t *testing.T) {
	f := newFixture(t)
	f.start(t, `
bee := GameObject.new("bee")
bee.addSprite("bee.png", [255, 255, 255, 255])
bee.tweenTo(100, 0, 1, "linear")
report("found", GameObject.find("bee") == bee)
report("missing", GameObject.find("wasp"))
`)
	assert.True(t, f.out.truth(t, "found"))
	assert.Equal(t, tengo.UndefinedValue, f.out["missing"])
	require.NoError(t, f.sched.Frame())

	assert.Equal(t, 1, f.rec.Count("load"))
	require.Equal(t, 1, f.rec.Count("texture"))
	for _, c := range f.rec.Calls {
		if c.Op == "texture" {
			assert.Equal(t, "bee.png", c.Path)
			assert.InDelta(t, 1.6, c.Position.X, 1e-3)
		}
	}
}

func TestUnknownEasing(t *testing.T) {
	f := newFixture(t)
	err := f.host.Load("test.tengo", []byte(`GameObject.new("g").tweenTo(1, 1, 1, "wobble")`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wobble")
}

func TestDestroyedGameObject(t *testing.T) {
	f := newFixture(t)
	err := f.host.Load("test.tengo", []byte(`
g := GameObject.new("ghost")
g.destroy()
report("alive", g.alive)
x := g.transform.localPosition
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destroyed")
	assert.False(t, f.out.truth(t, "alive"))
}

func TestBee2DFields(t *testing.T) {
	f := newFixture(t)
	f.load(t, `
Bee2D.setWidth(320)
Bee2D.setHeight(200)
Bee2D.setTitle("Fields")
report("width", Bee2D.width)
report("height", Bee2D.height)
report("title", Bee2D.title)
Bee2D.screenshot("out.webp")
Bee2D.setBackground([10, 20, 30])
`)
	assert.Equal(t, 320.0, f.out.float(t, "width"))
	assert.Equal(t, 200.0, f.out.float(t, "height"))
	assert.Equal(t, "Fields", tengo.ToInterface(f.out["title"]))

	path, ok := f.sched.TakeScreenshot()
	assert.True(t, ok)
	assert.Equal(t, "out.webp", path)

	require.NoError(t, f.sched.Start())
	require.NoError(t, f.sched.Frame())
	for _, c := range f.rec.Calls {
		if c.Op == "clear" {
			assert.Equal(t, uint8(30), c.Color.B)
		}
	}
}

func TestNestedCallIsRejected(t *testing.T) {
	f := newFixture(t)
	host := f.host
	host.extra["reenter"] = &tengo.UserFunction{Name: "reenter", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return host.Call(args[0])
	}}
	err := host.Load("test.tengo", []byte(`reenter(func() { return 1 })`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another callback is running")
}

func TestCallBeforeLoad(t *testing.T) {
	f := newFixture(t)
	_, err := f.host.Call(tengo.UndefinedValue)
	assert.True(t, errors.Is(err, ErrNotLoaded))
}

func TestReloadKeepsTextures(t *testing.T) {
	f := newFixture(t)
	f.start(t, `
Bee2D.loadTexture("a.png")
Bee2D.bindToDraw(func() { report("version", 1) })
`)
	require.NoError(t, f.sched.Frame())
	assert.Equal(t, 1.0, f.out.float(t, "version"))

	require.NoError(t, f.host.Reload([]byte(`
Bee2D.loadTexture("a.png")
Bee2D.bindToDraw(func() { report("version", 2) })
`)))
	assert.Equal(t, frame.Running, f.sched.State())
	require.NoError(t, f.sched.Frame())
	assert.Equal(t, 2.0, f.out.float(t, "version"))
	assert.Equal(t, 1, f.rec.Count("load"))
	assert.Equal(t, "test.tengo", f.host.Name())
}

func TestLoadAfterStartFails(t *testing.T) {
	f := newFixture(t)
	f.start(t, ``)
	err := f.host.Load("again.tengo", nil)
	assert.True(t, errors.Is(err, frame.ErrAlreadyStarted))
}
