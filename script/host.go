package script

import (
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/bee2d/frame"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// The user's source becomes the body of __bee2d_main so that its top level
// runs once, on load. Later runs only dispatch a single function call.
const (
	mainPrologue  = "__bee2d_main := func() { "
	dispatchBlock = `
}
if __phase == "load" {
	__bee2d_main()
} else if __phase == "call0" {
	__result = __fn()
} else if __phase == "call1" {
	__result = __fn(__a0)
} else if __phase == "call2" {
	__result = __fn(__a0, __a1)
} else if __phase == "call3" {
	__result = __fn(__a0, __a1, __a2)
}
`
)

var (
	callPhases = []string{"call0", "call1", "call2", "call3"}
	argVars    = []string{"__a0", "__a1", "__a2"}
)

// Config holds Host options.
type Config struct {
	Logger *zap.Logger
	// Sleep implements wait. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Modules lists the importable tengo stdlib modules. Nil allows all.
	Modules []string
	// Globals are extra values visible to scripts.
	Globals map[string]tengo.Object
}

// Host compiles a script, exposes the engine to it and calls back into it
// on behalf of the scheduler.
type Host struct {
	sched   *frame.Scheduler
	log     *zap.Logger
	sleep   func(time.Duration)
	modules []string
	extra   map[string]tengo.Object

	name     string
	compiled *tengo.Compiled
	busy     bool
}

// NewHost creates a host driving s.
func NewHost(s *frame.Scheduler, cfg Config) *Host {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	if cfg.Modules == nil {
		cfg.Modules = stdlib.AllModuleNames()
	}
	return &Host{
		sched:   s,
		log:     cfg.Logger,
		sleep:   cfg.Sleep,
		modules: cfg.Modules,
		extra:   cfg.Globals,
	}
}

func (h *Host) Scheduler() *frame.Scheduler {
	return h.sched
}

// Name returns the name of the loaded script.
func (h *Host) Name() string {
	return h.name
}

func (h *Host) globals() map[string]tengo.Object {
	g := map[string]tengo.Object{
		"Bee2D":      newEngine(h),
		"Vector2":    vectorModule(),
		"Matrix3":    matrixModule(),
		"GameObject": h.gameObjectModule(),
		"wait":       callable("wait", h.wait),
	}
	for k, v := range h.extra {
		g[k] = v
	}
	return g
}

// Load compiles src and runs its top level, which typically binds callbacks
// and creates game objects. The scheduler must not have started yet.
func (h *Host) Load(name string, src []byte) error {
	if h.sched.State() != frame.Uninitialized {
		return &Error{Phase: "load", Err: frame.ErrAlreadyStarted}
	}

	code := make([]byte, 0, len(mainPrologue)+len(src)+len(dispatchBlock))
	code = append(code, mainPrologue...)
	code = append(code, src...)
	code = append(code, dispatchBlock...)

	s := tengo.NewScript(code)
	for k, v := range h.globals() {
		if err := s.Add(k, v); err != nil {
			return &Error{Phase: "compile", Err: err}
		}
	}
	_ = s.Add("__phase", "")
	_ = s.Add("__fn", tengo.UndefinedValue)
	_ = s.Add("__result", tengo.UndefinedValue)
	for _, v := range argVars {
		_ = s.Add(v, tengo.UndefinedValue)
	}
	s.SetImports(stdlib.GetModuleMap(h.modules...))

	compiled, err := s.Compile()
	if err != nil {
		return &Error{Phase: "compile", Err: err}
	}
	h.name = name
	h.compiled = compiled

	if err := h.run("load"); err != nil {
		return &Error{Phase: "load", Err: err}
	}
	h.log.Info("script loaded", zap.String("script", name))
	return nil
}

// Reload resets the scheduler, loads src under the current name and starts
// the scheduler again. Cached textures survive.
func (h *Host) Reload(src []byte) error {
	h.sched.Reset()
	if err := h.Load(h.name, src); err != nil {
		return err
	}
	return h.sched.Start()
}

func (h *Host) run(phase string) (err error) {
	if err := h.compiled.Set("__phase", phase); err != nil {
		return err
	}
	h.busy = true
	defer func() {
		h.busy = false
		if r := recover(); r != nil {
			err = errors.Errorf("script panic: %v", r)
		}
	}()
	return h.compiled.Run()
}

// callNative calls a non-compiled callable, turning a panic into an error.
func callNative(fn tengo.Object, args []tengo.Object) (res tengo.Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errors.Errorf("script panic: %v", r)
		}
	}()
	return fn.Call(args...)
}

// Call invokes a script function. Compiled functions receive exactly as many
// arguments as they declare: extras are dropped and missing ones are
// undefined. A returned error value is reported as a failure.
func (h *Host) Call(fn tengo.Object, args ...tengo.Object) (tengo.Object, error) {
	if h.compiled == nil {
		return nil, ErrNotLoaded
	}
	if h.busy {
		return nil, ErrNestedCall
	}
	if fn == nil || !fn.CanCall() {
		return nil, ErrNotCallable
	}

	cf, ok := fn.(*tengo.CompiledFunction)
	if !ok {
		return checkResult(callNative(fn, args))
	}
	args = fitArgs(cf, args)
	if len(args) > len(argVars) {
		return nil, errors.Wrapf(ErrTooManyArgs, "%d arguments", len(args))
	}

	if err := h.compiled.Set("__fn", cf); err != nil {
		return nil, err
	}
	for i, name := range argVars {
		var v tengo.Object = tengo.UndefinedValue
		if i < len(args) {
			v = args[i]
		}
		if err := h.compiled.Set(name, v); err != nil {
			return nil, err
		}
	}
	if err := h.run(callPhases[len(args)]); err != nil {
		return nil, err
	}
	return checkResult(h.compiled.Get("__result").Object(), nil)
}

func fitArgs(cf *tengo.CompiledFunction, args []tengo.Object) []tengo.Object {
	if cf.VarArgs {
		return args
	}
	n := cf.NumParameters
	if len(args) > n {
		return args[:n]
	}
	for len(args) < n {
		args = append(args, tengo.UndefinedValue)
	}
	return args
}

func checkResult(res tengo.Object, err error) (tengo.Object, error) {
	if err != nil {
		return nil, err
	}
	if e, ok := res.(*tengo.Error); ok {
		return nil, errors.Errorf("callback returned %s", e.Value.String())
	}
	return res, nil
}
