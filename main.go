package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bee2d/backend"
	"github.com/milk9111/bee2d/config"
	"github.com/milk9111/bee2d/demo"
	"github.com/milk9111/bee2d/frame"
	"github.com/milk9111/bee2d/logging"
	"github.com/milk9111/bee2d/render"
	"github.com/milk9111/bee2d/script"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	opts, err := config.ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, config.ErrMissingScript) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err == nil {
		err = opts.Apply(&cfg)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(opts, cfg, log); err != nil {
		log.Error("bee2d exited", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(opts config.Options, cfg config.Config, log *zap.Logger) error {
	src, err := demo.Load(opts.Script)
	if err != nil {
		return errors.Wrap(err, "read script")
	}

	fc := frame.DefaultConfig()
	fc.Window = frame.Window{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: cfg.Window.Title}
	fc.Background = cfg.Background.NRGBA
	fc.Interval = time.Second / time.Duration(cfg.TPS)
	fc.Logger = log.Named("frame")

	if opts.Headless {
		return runHeadless(opts, fc, src, log)
	}

	eb := backend.NewEbiten(os.DirFS(cfg.Assets), log.Named("backend"))
	sched := frame.New(eb, fc)
	host := script.NewHost(sched, script.Config{Logger: log.Named("script")})
	if err := host.Load(opts.Script, src); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	game := NewGame(host, eb, log)
	game.maxFrames = opts.Frames
	if cfg.Watch {
		w, err := script.NewWatcher(log.Named("watch"), opts.Script)
		if err != nil {
			return errors.Wrap(err, "watch script")
		}
		defer func() { _ = w.Close() }()
		game.watcher = w
		game.script = opts.Script
	}
	if cfg.Debug {
		game.debug = NewDebugUI()
	}

	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(game)
}

// runHeadless drives the script against the recording renderer until the
// frame limit or an interrupt.
func runHeadless(opts config.Options, fc frame.Config, src []byte, log *zap.Logger) error {
	rec := render.NewRecorder()
	sched := frame.New(rec, fc)
	// keep only the last frame's calls
	sched.BindUpdate(func(float64) error {
		rec.Reset()
		return nil
	})
	host := script.NewHost(sched, script.Config{Logger: log.Named("script")})
	if err := host.Load(opts.Script, src); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := sched.Run(ctx, opts.Frames)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if path, ok := sched.TakeScreenshot(); ok {
		log.Warn("screenshots need a window", zap.String("path", path))
	}
	stats := sched.Stats()
	log.Info("headless run finished",
		zap.Uint64("frames", stats.Frame),
		zap.Int("last_frame_draws", rec.Count("texture")+rec.Count("rectangle")),
		zap.Int("textures", stats.Textures),
	)
	return err
}
