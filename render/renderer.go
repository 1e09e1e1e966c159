package render

import (
	"image"
	"image/color"

	"github.com/milk9111/bee2d/affine"
)

// Texture is a backend texture handle.
type Texture interface {
	Bounds() image.Rectangle
}

// Renderer is the graphics backend the frame pipeline submits to.
type Renderer interface {
	LoadTexture(path string) (Texture, error)

	BeginFrame()
	Clear(c color.NRGBA)
	// DrawTexture draws tex with its top-left corner at pos, rotated by
	// rotation degrees around that corner and uniformly scaled.
	DrawTexture(tex Texture, pos affine.Vec2, rotation, scale float64, c color.NRGBA)
	DrawRectangle(r Rect, c color.NRGBA)
	EndFrame()

	SetWindowSize(width, height int)
	SetWindowTitle(title string)
}

// Flush replays q against r in insertion order. Sprites whose texture is not
// cached are skipped; the number of skipped requests is returned.
func Flush(r Renderer, q *Queue, textures *TextureCache) (skipped int) {
	for _, req := range q.Requests() {
		switch req.Kind {
		case KindRectangle:
			r.DrawRectangle(req.Rect, req.Color)
		case KindSprite:
			tex, ok := textures.Lookup(req.Texture)
			if !ok {
				skipped++
				continue
			}
			r.DrawTexture(tex, req.Position, req.Rotation, req.Scale, req.Color)
		default:
			skipped++
		}
	}
	return skipped
}
