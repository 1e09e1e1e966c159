package frame

import (
	"context"
	"image/color"
	"time"

	"github.com/milk9111/bee2d/ecs"
	"github.com/milk9111/bee2d/render"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config holds scheduler construction options.
type Config struct {
	Window     Window
	Background color.NRGBA

	// Interval paces Run between frames. Zero runs unpaced.
	Interval time.Duration

	// Clock is used for delta time. Defaults to time.Now.
	Clock  func() time.Time
	Logger *zap.Logger
}

// DefaultConfig returns an 800x800 black window titled "Bee2D".
func DefaultConfig() Config {
	return Config{
		Window:     Window{Width: 800, Height: 800, Title: "Bee2D"},
		Background: color.NRGBA{A: 0xff},
		Interval:   time.Second / 60,
		Clock:      time.Now,
	}
}

// Scheduler owns the callback registries, the render queue and the texture
// cache, and drives them through start, update, draw and render.
type Scheduler struct {
	renderer render.Renderer
	textures *render.TextureCache
	world    *ecs.World
	queue    render.Queue
	log      *zap.Logger

	clock      func() time.Time
	interval   time.Duration
	background color.NRGBA

	starts  []func() error
	updates []func(dt float64) error
	draws   []func() error

	state   State
	window  Window
	applied Window
	last    time.Time

	// fresh is set by Tick and cleared by the Render that presents it.
	fresh      bool
	frame      uint64
	delta      float64
	queued     int
	skipped    int
	screenshot string
}

// New creates a scheduler submitting to r.
func New(r render.Renderer, cfg Config) *Scheduler {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Scheduler{
		renderer:   r,
		textures:   render.NewTextureCache(r, cfg.Logger.Named("textures")),
		world:      ecs.NewWorld(),
		log:        cfg.Logger,
		clock:      cfg.Clock,
		interval:   cfg.Interval,
		background: cfg.Background,
		window:     cfg.Window,
	}
}

func (s *Scheduler) BindStart(fn func() error) {
	if fn != nil {
		s.starts = append(s.starts, fn)
	}
}

func (s *Scheduler) BindUpdate(fn func(dt float64) error) {
	if fn != nil {
		s.updates = append(s.updates, fn)
	}
}

func (s *Scheduler) BindDraw(fn func() error) {
	if fn != nil {
		s.draws = append(s.draws, fn)
	}
}

func (s *Scheduler) State() State { return s.state }
func (s *Scheduler) World() *ecs.World { return s.world }
func (s *Scheduler) Queue() *render.Queue { return &s.queue }
func (s *Scheduler) Textures() *render.TextureCache { return s.textures }
func (s *Scheduler) Window() Window { return s.window }
func (s *Scheduler) Delta() float64 { return s.delta }
func (s *Scheduler) FrameCount() uint64 { return s.frame }
func (s *Scheduler) Logger() *zap.Logger { return s.log }

// SetBackground changes the clear color used by Render.
func (s *Scheduler) SetBackground(c color.NRGBA) {
	s.background = c
}

// SetWidth records a pending width, applied on the next Tick.
func (s *Scheduler) SetWidth(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrInvalidWindow, "width %d", n)
	}
	s.window.Width = n
	return nil
}

// SetHeight records a pending height, applied on the next Tick.
func (s *Scheduler) SetHeight(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrInvalidWindow, "height %d", n)
	}
	s.window.Height = n
	return nil
}

// SetTitle records a pending title, applied on the next Tick.
func (s *Scheduler) SetTitle(title string) {
	s.window.Title = title
}

// RequestScreenshot asks the backend to capture the next rendered frame.
func (s *Scheduler) RequestScreenshot(path string) {
	s.screenshot = path
}

// TakeScreenshot returns and clears a pending screenshot request.
func (s *Scheduler) TakeScreenshot() (string, bool) {
	path := s.screenshot
	s.screenshot = ""
	return path, path != ""
}

// Stats reports counters for the last completed frame.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Frame:    s.frame,
		Delta:    s.delta,
		Queued:   s.queued,
		Skipped:  s.skipped,
		Textures: s.textures.Len(),
		Entities: s.world.Len(),
	}
}

// Start runs the start callbacks in registration order, starts every
// attached component and resolves texture loads requested so far. Any
// error stops the scheduler.
func (s *Scheduler) Start() error {
	if s.state != Uninitialized {
		return ErrAlreadyStarted
	}
	s.state = Starting

	for i, fn := range s.starts {
		if err := fn(); err != nil {
			return s.fail(errors.Wrapf(err, "start callback %d", i))
		}
	}
	if err := s.world.Start(); err != nil {
		return s.fail(err)
	}
	s.textures.ResolvePending()
	s.applyWindow()

	s.last = s.clock()
	s.state = Running
	s.log.Debug("scheduler started",
		zap.Int("start_callbacks", len(s.starts)),
		zap.Int("update_callbacks", len(s.updates)),
		zap.Int("draw_callbacks", len(s.draws)),
	)
	return nil
}

// Tick applies window changes, advances the clock and runs the update and
// draw callbacks followed by the world's components. Each Tick starts a new
// queue, so only the latest frame's draw output reaches Render.
func (s *Scheduler) Tick() error {
	if s.state != Running {
		return ErrNotRunning
	}
	s.queue.Reset()
	s.fresh = true
	s.applyWindow()

	now := s.clock()
	dt := now.Sub(s.last).Seconds()
	s.last = now
	s.delta = dt

	for i, fn := range s.updates {
		if err := fn(dt); err != nil {
			return s.fail(errors.Wrapf(err, "update callback %d", i))
		}
	}
	if err := s.world.Update(dt); err != nil {
		return s.fail(err)
	}

	for i, fn := range s.draws {
		if err := fn(); err != nil {
			return s.fail(errors.Wrapf(err, "draw callback %d", i))
		}
	}
	if err := s.world.Draw(&s.queue); err != nil {
		return s.fail(err)
	}
	return nil
}

// Render resolves pending texture loads and submits the queue built by the
// last Tick to the renderer in insertion order. The queue is kept until the
// next Tick, so a Render without a Tick in between redraws the same frame.
func (s *Scheduler) Render() error {
	if s.state != Running {
		return ErrNotRunning
	}
	s.textures.ResolvePending()

	s.renderer.BeginFrame()
	s.renderer.Clear(s.background)
	s.queued = s.queue.Len()
	s.skipped = render.Flush(s.renderer, &s.queue, s.textures)
	s.renderer.EndFrame()

	if s.fresh {
		s.fresh = false
		s.frame++
	}
	return nil
}

// Frame runs one Tick and one Render.
func (s *Scheduler) Frame() error {
	if err := s.Tick(); err != nil {
		return err
	}
	return s.Render()
}

// Run starts the scheduler if needed and runs frames until ctx is done,
// maxFrames frames have run (when positive) or a callback fails.
func (s *Scheduler) Run(ctx context.Context, maxFrames int) error {
	if s.state == Uninitialized {
		if err := s.Start(); err != nil {
			return err
		}
	}

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for n := 0; maxFrames <= 0 || n < maxFrames; n++ {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		default:
		}
		if err := s.Frame(); err != nil {
			return err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				s.Stop()
				return ctx.Err()
			case <-tick:
			}
		}
	}
	s.Stop()
	return nil
}

// Stop moves the scheduler to its terminal state.
func (s *Scheduler) Stop() {
	if s.state != Stopped {
		s.log.Debug("scheduler stopped", zap.Uint64("frames", s.frame))
	}
	s.state = Stopped
}

// Reset drops every callback, entity and queued request and returns the
// scheduler to Uninitialized. The texture cache and window state are kept;
// failed texture loads will be retried.
func (s *Scheduler) Reset() {
	s.starts = nil
	s.updates = nil
	s.draws = nil
	s.world = ecs.NewWorld()
	s.queue.Reset()
	s.fresh = false
	s.textures.ClearFailures()
	s.screenshot = ""
	s.state = Uninitialized
}

func (s *Scheduler) applyWindow() {
	if s.window.Width != s.applied.Width || s.window.Height != s.applied.Height {
		s.renderer.SetWindowSize(s.window.Width, s.window.Height)
	}
	if s.window.Title != s.applied.Title {
		s.renderer.SetWindowTitle(s.window.Title)
	}
	s.applied = s.window
}

func (s *Scheduler) fail(err error) error {
	s.state = Stopped
	s.log.Error("frame pipeline stopped", zap.Error(err))
	return err
}
