package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingScript = errors.New("no script file given")
	ErrInvalidValue  = errors.New("invalid value")
)

// Error reports a missing or invalid setting. Field is the yaml key or flag
// name.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Config struct {
	Window     Window `yaml:"window"`
	Background Color  `yaml:"background"`
	// Assets is the texture root. Relative paths are resolved against the
	// script's directory; empty means the script's directory.
	Assets   string `yaml:"assets"`
	TPS      int    `yaml:"tps"`
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	Watch    bool   `yaml:"watch"`
}

// Default returns an 800x800 black window titled "Bee2D" at 60 ticks per
// second.
func Default() Config {
	return Config{
		Window:     Window{Width: 800, Height: 800, Title: "Bee2D"},
		Background: Color{NRGBA: color.NRGBA{A: 0xff}},
		TPS:        60,
		LogLevel:   "info",
	}
}

// Load reads a yaml file over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Field: "config", Err: err}
	}
	return Parse(data)
}

// Parse decodes yaml over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &Error{Field: "config", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 {
		return &Error{Field: "window.width", Err: errors.Wrapf(ErrInvalidValue, "%d", c.Window.Width)}
	}
	if c.Window.Height <= 0 {
		return &Error{Field: "window.height", Err: errors.Wrapf(ErrInvalidValue, "%d", c.Window.Height)}
	}
	if c.TPS <= 0 {
		return &Error{Field: "tps", Err: errors.Wrapf(ErrInvalidValue, "%d", c.TPS)}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return &Error{Field: "log_level", Err: err}
	}
	return nil
}

// Color is a yaml color: a name from golang.org/x/image/colornames or
// #rrggbb / #rrggbbaa.
type Color struct {
	color.NRGBA
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return &Error{Field: "background", Err: errors.New("color must be a string")}
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return &Error{Field: "background", Err: err}
	}
	c.NRGBA = parsed
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

// ParseColor parses a color name or hex string.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, errors.Errorf("invalid color %q", s)
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, errors.Wrapf(err, "invalid color %q", s)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
