package config

import (
	"flag"
	"io"
	"path/filepath"
)

// Options are the command line settings.
type Options struct {
	Script     string
	ConfigPath string
	Debug      bool
	Watch      bool
	Headless   bool
	Frames     int
	LogLevel   string

	set map[string]bool
}

// ParseArgs parses args (without the program name). Usage and flag errors
// are written to output.
func ParseArgs(args []string, output io.Writer) (Options, error) {
	var o Options
	fs := flag.NewFlagSet("bee2d", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = io.WriteString(output, "usage: bee2d [flags] <script.tengo>\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&o.ConfigPath, "config", "", "yaml config file")
	fs.BoolVar(&o.Debug, "debug", false, "show the debug overlay and log in development format")
	fs.BoolVar(&o.Watch, "watch", false, "reload the script when it changes")
	fs.BoolVar(&o.Headless, "headless", false, "run without a window using the recording renderer")
	fs.IntVar(&o.Frames, "frames", 0, "stop after this many frames (0 runs until closed)")
	fs.StringVar(&o.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Options{}, &Error{Field: "flags", Err: err}
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if fs.NArg() < 1 {
		fs.Usage()
		return Options{}, &Error{Field: "script", Err: ErrMissingScript}
	}
	o.Script = fs.Arg(0)
	if o.Frames < 0 {
		return Options{}, &Error{Field: "frames", Err: ErrInvalidValue}
	}
	return o, nil
}

// Apply overrides cfg with explicitly given flags and resolves the assets
// root against the script directory.
func (o Options) Apply(cfg *Config) error {
	if o.set["debug"] {
		cfg.Debug = o.Debug
	}
	if o.set["watch"] {
		cfg.Watch = o.Watch
	}
	if o.set["log-level"] {
		cfg.LogLevel = o.LogLevel
	}

	dir := filepath.Dir(o.Script)
	switch {
	case cfg.Assets == "":
		cfg.Assets = dir
	case !filepath.IsAbs(cfg.Assets):
		cfg.Assets = filepath.Join(dir, cfg.Assets)
	}
	return cfg.Validate()
}
