// Package pdf renders frames to a single page vector PDF. One device pixel
// maps to one point.
package pdf

import (
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// Backend is a render.Backend writing PDF drawing operators.
type Backend struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
}

// New creates a document with one width x height page.
func New(width, height float64) *Backend {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("zuse", true)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	// core fonts are cp1252 encoded
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return &Backend{pdf: pdf, tr: tr, width: width, height: height}
}

// Document exposes the underlying gofpdf document.
func (b *Backend) Document() *gofpdf.Fpdf { return b.pdf }

func (b *Backend) alpha(c color.NRGBA) {
	b.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (b *Backend) Clear(c color.NRGBA) {
	b.alpha(c)
	b.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	b.pdf.Rect(0, 0, b.width, b.height, "F")
}

func (b *Backend) Line(p0, p1 geom.Vec, width float64, c color.NRGBA) {
	b.alpha(c)
	b.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	b.pdf.SetLineWidth(width)
	b.pdf.Line(p0.X, p0.Y, p1.X, p1.Y)
}

func (b *Backend) FillPolygon(pts []geom.Vec, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	poly := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		poly[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	b.alpha(c)
	b.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	b.pdf.Polygon(poly, "F")
}

func (b *Backend) Text(at geom.Vec, size float64, s string, c color.NRGBA) {
	b.alpha(c)
	b.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	b.pdf.SetFont("Helvetica", "", size)
	b.pdf.Text(at.X, at.Y, b.tr(s))
}

// Flush reports the first error gofpdf recorded.
func (b *Backend) Flush() error {
	return b.pdf.Error()
}

// Write outputs the document. The backend cannot be drawn on afterwards.
func (b *Backend) Write(w io.Writer) error {
	return errors.Wrap(b.pdf.Output(w), "write pdf")
}
