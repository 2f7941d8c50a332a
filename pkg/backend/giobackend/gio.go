// Package giobackend draws render.Backend primitives into a Gio op list.
package giobackend

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/pkg/errors"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// ErrNoFrame is returned by Flush when Begin was not called.
var ErrNoFrame = errors.New("giobackend: no frame in progress")

// Backend records into the layout context passed to Begin. Coordinates are
// device pixels, which is what Gio ops use.
type Backend struct {
	theme  *material.Theme
	gtx    layout.Context
	active bool
}

// New creates a backend. A nil theme uses the Go fonts.
func New(theme *material.Theme) *Backend {
	if theme == nil {
		theme = material.NewTheme()
		theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	}
	return &Backend{theme: theme}
}

// Begin starts a frame. Primitives go to gtx.Ops until Flush.
func (b *Backend) Begin(gtx layout.Context) {
	b.gtx = gtx
	b.active = true
}

func (b *Backend) Clear(c color.NRGBA) {
	if !b.active {
		return
	}
	paint.FillShape(b.gtx.Ops, c, clip.Rect{Max: b.gtx.Constraints.Max}.Op())
}

func (b *Backend) Line(p0, p1 geom.Vec, width float64, c color.NRGBA) {
	if !b.active {
		return
	}
	var path clip.Path
	path.Begin(b.gtx.Ops)
	path.MoveTo(pt(p0))
	path.LineTo(pt(p1))

	paint.FillShape(b.gtx.Ops, c, clip.Stroke{
		Path:  path.End(),
		Width: float32(width),
	}.Op())
}

func (b *Backend) FillPolygon(pts []geom.Vec, c color.NRGBA) {
	if !b.active || len(pts) < 3 {
		return
	}
	var path clip.Path
	path.Begin(b.gtx.Ops)
	path.MoveTo(pt(pts[0]))
	for _, p := range pts[1:] {
		path.LineTo(pt(p))
	}
	path.Close()
	paint.FillShape(b.gtx.Ops, c, clip.Outline{Path: path.End()}.Op())
}

// Text lays out a material label with its baseline at at.
func (b *Backend) Text(at geom.Vec, size float64, s string, c color.NRGBA) {
	if !b.active || s == "" {
		return
	}
	sp := size
	if b.gtx.Metric.PxPerSp > 0 {
		sp = size / float64(b.gtx.Metric.PxPerSp)
	}
	off := image.Pt(int(math.Round(at.X)), int(math.Round(at.Y-size)))
	stack := op.Offset(off).Push(b.gtx.Ops)
	defer stack.Pop()

	gtx := b.gtx
	gtx.Constraints = layout.Constraints{Max: image.Pt(math.MaxInt32/2, int(math.Ceil(size*2)))}
	lbl := material.Label(b.theme, unit.Sp(float32(sp)), s)
	lbl.Color = c
	lbl.MaxLines = 1
	lbl.Alignment = text.Start
	lbl.Layout(gtx)
}

// Flush ends the frame.
func (b *Backend) Flush() error {
	if !b.active {
		return ErrNoFrame
	}
	b.active = false
	b.gtx = layout.Context{}
	return nil
}

func pt(v geom.Vec) f32.Point {
	return f32.Pt(float32(v.X), float32(v.Y))
}
