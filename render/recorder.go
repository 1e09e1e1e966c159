package render

import (
	"image"
	"image/color"

	"github.com/milk9111/bee2d/affine"
	"github.com/pkg/errors"
)

// Call is one Renderer invocation captured by a Recorder.
type Call struct {
	Op       string
	Path     string
	Texture  Texture
	Rect     Rect
	Position affine.Vec2
	Rotation float64
	Scale    float64
	Color    color.NRGBA
	Width    int
	Height   int
	Title    string
}

// RecordedTexture is the texture handle a Recorder hands out.
type RecordedTexture struct {
	Path string
	Size image.Point
}

func (t *RecordedTexture) Bounds() image.Rectangle {
	return image.Rectangle{Max: t.Size}
}

// Recorder is a headless Renderer that records every call. Loads succeed
// unless the path is listed in Missing.
type Recorder struct {
	Calls   []Call
	Missing map[string]bool
	Frames  int
}

// NewRecorder creates a Recorder that fails loads for the given paths.
func NewRecorder(missing ...string) *Recorder {
	r := &Recorder{Missing: make(map[string]bool)}
	for _, p := range missing {
		r.Missing[p] = true
	}
	return r
}

func (r *Recorder) LoadTexture(path string) (Texture, error) {
	r.Calls = append(r.Calls, Call{Op: "load", Path: path})
	if r.Missing[path] {
		return nil, errors.Errorf("no such file: %s", path)
	}
	return &RecordedTexture{Path: path, Size: image.Pt(16, 16)}, nil
}

func (r *Recorder) BeginFrame() {
	r.Calls = append(r.Calls, Call{Op: "begin"})
}

func (r *Recorder) Clear(c color.NRGBA) {
	r.Calls = append(r.Calls, Call{Op: "clear", Color: c})
}

func (r *Recorder) DrawTexture(tex Texture, pos affine.Vec2, rotation, scale float64, c color.NRGBA) {
	call := Call{Op: "texture", Texture: tex, Position: pos, Rotation: rotation, Scale: scale, Color: c}
	if rt, ok := tex.(*RecordedTexture); ok {
		call.Path = rt.Path
	}
	r.Calls = append(r.Calls, call)
}

func (r *Recorder) DrawRectangle(rect Rect, c color.NRGBA) {
	r.Calls = append(r.Calls, Call{Op: "rectangle", Rect: rect, Color: c})
}

func (r *Recorder) EndFrame() {
	r.Frames++
	r.Calls = append(r.Calls, Call{Op: "end"})
}

func (r *Recorder) SetWindowSize(width, height int) {
	r.Calls = append(r.Calls, Call{Op: "size", Width: width, Height: height})
}

func (r *Recorder) SetWindowTitle(title string) {
	r.Calls = append(r.Calls, Call{Op: "title", Title: title})
}

// Ops returns the recorded operation names, optionally filtered.
func (r *Recorder) Ops(only ...string) []string {
	keep := make(map[string]bool, len(only))
	for _, o := range only {
		keep[o] = true
	}
	var out []string
	for _, c := range r.Calls {
		if len(keep) == 0 || keep[c.Op] {
			out = append(out, c.Op)
		}
	}
	return out
}

// Count returns how many calls have the given op.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.Calls = nil
}
