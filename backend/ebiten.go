package backend

import (
	"image"
	"image/color"
	"io/fs"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/bee2d/affine"
	"github.com/milk9111/bee2d/render"
	"go.uber.org/zap"
)

// Ebiten renders onto the screen image ebiten passes to Game.Draw. Textures
// are decoded from assets and uploaded as *ebiten.Image.
type Ebiten struct {
	assets fs.FS
	log    *zap.Logger
	screen *ebiten.Image
}

func NewEbiten(assets fs.FS, log *zap.Logger) *Ebiten {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ebiten{assets: assets, log: log}
}

// SetTarget sets the image the next frame draws onto.
func (e *Ebiten) SetTarget(screen *ebiten.Image) {
	e.screen = screen
}

func (e *Ebiten) LoadTexture(path string) (render.Texture, error) {
	img, err := render.DecodeImage(e.assets, path)
	if err != nil {
		return nil, err
	}
	e.log.Debug("texture uploaded", zap.String("path", path), zap.Stringer("size", img.Bounds().Size()))
	return ebiten.NewImageFromImage(img), nil
}

func (e *Ebiten) BeginFrame() {}

func (e *Ebiten) Clear(c color.NRGBA) {
	if e.screen != nil {
		e.screen.Fill(c)
	}
}

// DrawTexture scales, then rotates by rotation degrees around the top-left
// corner, then translates to pos.
func (e *Ebiten) DrawTexture(tex render.Texture, pos affine.Vec2, rotation, scale float64, c color.NRGBA) {
	img, ok := tex.(*ebiten.Image)
	if !ok || e.screen == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(rotation * math.Pi / 180)
	op.GeoM.Translate(pos.X, pos.Y)
	op.ColorScale.ScaleWithColor(c)
	op.Filter = ebiten.FilterLinear
	e.screen.DrawImage(img, op)
}

func (e *Ebiten) DrawRectangle(r render.Rect, c color.NRGBA) {
	if e.screen == nil {
		return
	}
	vector.FillRect(e.screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), c, false)
}

func (e *Ebiten) EndFrame() {}

func (e *Ebiten) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

func (e *Ebiten) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// Capture copies the current target into an image.RGBA.
func (e *Ebiten) Capture() image.Image {
	if e.screen == nil {
		return nil
	}
	b := e.screen.Bounds()
	img := image.NewRGBA(b)
	e.screen.ReadPixels(img.Pix)
	return img
}
