package render

import (
	"image/color"

	"github.com/milk9111/bee2d/affine"
)

// Kind tags a Request.
type Kind uint8

const (
	KindRectangle Kind = iota + 1
	KindSprite
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindSprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// White leaves textures untinted.
var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Rect is an axis-aligned rectangle in screen space.
type Rect struct {
	X, Y, Width, Height float64
}

// Request is one queued draw call. Rect is set for rectangles; Texture,
// Position, Rotation (degrees) and Scale for sprites.
type Request struct {
	Kind  Kind
	Color color.NRGBA

	Rect Rect

	Texture  string
	Position affine.Vec2
	Rotation float64
	Scale    float64
}

// Queue collects draw requests for one frame and replays them in the order
// they were pushed.
type Queue struct {
	items []Request
}

// PushRectangle enqueues a filled rectangle.
func (q *Queue) PushRectangle(r Rect, c color.NRGBA) {
	if q == nil {
		return
	}
	q.items = append(q.items, Request{Kind: KindRectangle, Rect: r, Color: c})
}

// PushSprite enqueues a textured sprite. The texture must be cached by the
// time the queue is flushed or the request is skipped.
func (q *Queue) PushSprite(texture string, pos affine.Vec2, rotation, scale float64, c color.NRGBA) {
	if q == nil {
		return
	}
	q.items = append(q.items, Request{
		Kind:     KindSprite,
		Texture:  texture,
		Position: pos,
		Rotation: rotation,
		Scale:    scale,
		Color:    c,
	})
}

// Requests returns the queued requests. The slice is only valid until Reset.
func (q *Queue) Requests() []Request {
	if q == nil {
		return nil
	}
	return q.items
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Reset empties the queue, keeping its capacity.
func (q *Queue) Reset() {
	if q == nil {
		return
	}
	clear(q.items)
	q.items = q.items[:0]
}
