package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/bee2d/frame"
	"golang.org/x/image/font/basicfont"
)

// DebugUI is the stats overlay shown with -debug.
type DebugUI struct {
	ui    *ebitenui.UI
	lines []*widget.Text
}

// NewDebugUI builds a translucent panel anchored to the top-left corner.
func NewDebugUI() *DebugUI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 160})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	textColor := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(2),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)

	d := &DebugUI{}
	for i := 0; i < 5; i++ {
		line := widget.NewText(widget.TextOpts.Text("", &face, textColor))
		d.lines = append(d.lines, line)
		panel.AddChild(line)
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	d.ui = &ebitenui.UI{Container: root}
	return d
}

// Update refreshes the labels from the last frame's stats.
func (d *DebugUI) Update(s frame.Stats, fps float64) {
	labels := []string{
		fmt.Sprintf("frame %d  fps %.1f", s.Frame, fps),
		fmt.Sprintf("dt %.4fs", s.Delta),
		fmt.Sprintf("draws %d  skipped %d", s.Queued, s.Skipped),
		fmt.Sprintf("textures %d", s.Textures),
		fmt.Sprintf("entities %d", s.Entities),
	}
	for i, l := range labels {
		d.lines[i].Label = l
	}
	d.ui.Update()
}

func (d *DebugUI) Draw(screen *ebiten.Image) {
	d.ui.Draw(screen)
}
