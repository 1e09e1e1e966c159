package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bee2d/backend"
	"github.com/milk9111/bee2d/frame"
	"github.com/milk9111/bee2d/render"
	"github.com/milk9111/bee2d/script"
	"go.uber.org/zap"
)

// Game adapts the frame scheduler to ebiten's Update/Draw loop.
type Game struct {
	host    *script.Host
	sched   *frame.Scheduler
	backend *backend.Ebiten
	log     *zap.Logger

	watcher   *script.Watcher
	script    string
	debug     *DebugUI
	maxFrames int

	// stopped is set once a failure has been reported, so a stopped
	// scheduler is logged once while waiting for a reload.
	stopped bool
}

func NewGame(host *script.Host, eb *backend.Ebiten, log *zap.Logger) *Game {
	return &Game{
		host:    host,
		sched:   host.Scheduler(),
		backend: eb,
		log:     log,
	}
}

// Update runs one frame's callbacks. Draw presents the queue they built,
// and redraws it when ebiten draws more often than it updates.
func (g *Game) Update() error {
	g.reload()
	if g.debug != nil {
		g.debug.Update(g.sched.Stats(), ebiten.ActualFPS())
	}

	if err := g.sched.Tick(); err != nil {
		if g.watcher == nil {
			return err
		}
		if !g.stopped {
			g.log.Error("script stopped, waiting for changes", zap.Error(err))
			g.stopped = true
		}
		return nil
	}

	if g.maxFrames > 0 && g.sched.FrameCount() >= uint64(g.maxFrames) {
		return ebiten.Termination
	}
	return nil
}

// reload loads the script again when the watcher saw it change. A failed
// reload leaves the window open.
func (g *Game) reload() {
	if g.watcher == nil || len(g.watcher.Drain()) == 0 {
		return
	}
	src, err := os.ReadFile(g.script)
	if err != nil {
		g.log.Error("read script", zap.String("script", g.script), zap.Error(err))
		return
	}
	if err := g.host.Reload(src); err != nil {
		g.log.Error("reload failed", zap.String("script", g.script), zap.Error(err))
		g.stopped = true
		return
	}
	g.stopped = false
	g.log.Info("script reloaded", zap.String("script", g.script))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.backend.SetTarget(screen)
	if g.sched.State() == frame.Running {
		if err := g.sched.Render(); err != nil {
			g.log.Error("render", zap.Error(err))
		}
	}

	if path, ok := g.sched.TakeScreenshot(); ok {
		if err := render.SaveScreenshot(path, g.backend.Capture()); err != nil {
			g.log.Error("screenshot", zap.String("path", path), zap.Error(err))
		} else {
			g.log.Info("screenshot saved", zap.String("path", path))
		}
	}

	if g.debug != nil {
		g.debug.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := g.sched.Window()
	return w.Width, w.Height
}
