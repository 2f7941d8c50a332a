// Package raster is a software render.Backend drawing into an image.RGBA.
// It backs PNG export and headless tests.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// Backend rasterizes primitives with anti-aliasing. Text uses a fixed 7x13
// bitmap face regardless of the requested size.
type Backend struct {
	img  *image.RGBA
	rast *vector.Rasterizer
}

// New creates a width x height canvas.
func New(width, height int) *Backend {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Backend{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		rast: vector.NewRasterizer(width, height),
	}
}

// Image returns the canvas.
func (b *Backend) Image() *image.RGBA { return b.img }

func (b *Backend) Clear(c color.NRGBA) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Line strokes a segment as a quad with butt ends. Widths below one pixel
// are drawn one pixel wide.
func (b *Backend) Line(p0, p1 geom.Vec, width float64, c color.NRGBA) {
	d := p1.Sub(p0)
	n := math.Hypot(d.X, d.Y)
	if n == 0 {
		return
	}
	if width < 1 {
		width = 1
	}
	off := geom.V(-d.Y/n, d.X/n).Mul(width / 2)
	b.FillPolygon([]geom.Vec{p0.Add(off), p1.Add(off), p1.Sub(off), p0.Sub(off)}, c)
}

func (b *Backend) FillPolygon(pts []geom.Vec, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	b.rast.Reset(b.img.Bounds().Dx(), b.img.Bounds().Dy())
	b.rast.DrawOp = draw.Over
	b.rast.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		b.rast.LineTo(float32(p.X), float32(p.Y))
	}
	b.rast.ClosePath()
	b.rast.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (b *Backend) Text(at geom.Vec, size float64, s string, c color.NRGBA) {
	d := font.Drawer{
		Dst:  b.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(at.X)), int(math.Round(at.Y))),
	}
	d.DrawString(s)
}

func (b *Backend) Flush() error {
	return nil
}

// WritePNG encodes the canvas.
func (b *Backend) WritePNG(w io.Writer) error {
	return errors.Wrap(png.Encode(w, b.img), "encode png")
}
