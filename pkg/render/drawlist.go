package render

import (
	"image/color"
	"math"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// Backend draws primitives in device pixels. Implementations are
// synchronous; Flush ends a frame.
type Backend interface {
	Clear(c color.NRGBA)
	Line(a, b geom.Vec, width float64, c color.NRGBA)
	FillPolygon(pts []geom.Vec, c color.NRGBA)
	Text(at geom.Vec, size float64, s string, c color.NRGBA)
	Flush() error
}

// CmdKind identifies a draw command.
type CmdKind int

const (
	CmdClear CmdKind = iota
	CmdLine
	CmdPolygon
	CmdText
)

func (k CmdKind) String() string {
	switch k {
	case CmdClear:
		return "clear"
	case CmdLine:
		return "line"
	case CmdPolygon:
		return "polygon"
	case CmdText:
		return "text"
	}
	return "unknown"
}

// Cmd is one recorded primitive. Lines use Points[0] and Points[1]; text is
// anchored at Points[0] (baseline left).
type Cmd struct {
	Kind   CmdKind
	Points []geom.Vec
	Width  float64
	Size   float64
	Text   string
	Color  color.NRGBA
}

// DrawList records primitives back to front.
type DrawList struct {
	Cmds []Cmd
}

// Len returns the number of commands.
func (l *DrawList) Len() int {
	return len(l.Cmds)
}

func (l *DrawList) Clear(c color.NRGBA) {
	l.Cmds = append(l.Cmds, Cmd{Kind: CmdClear, Color: c})
}

func (l *DrawList) Line(a, b geom.Vec, width float64, c color.NRGBA) {
	l.Cmds = append(l.Cmds, Cmd{Kind: CmdLine, Points: []geom.Vec{a, b}, Width: width, Color: c})
}

func (l *DrawList) Polygon(pts []geom.Vec, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	l.Cmds = append(l.Cmds, Cmd{Kind: CmdPolygon, Points: pts, Color: c})
}

func (l *DrawList) Text(at geom.Vec, size float64, s string, c color.NRGBA) {
	l.Cmds = append(l.Cmds, Cmd{Kind: CmdText, Points: []geom.Vec{at}, Size: size, Text: s, Color: c})
}

// Square adds an axis aligned filled square centered on p.
func (l *DrawList) Square(p geom.Vec, size float64, c color.NRGBA) {
	h := size / 2
	l.Polygon([]geom.Vec{
		geom.V(p.X-h, p.Y-h),
		geom.V(p.X+h, p.Y-h),
		geom.V(p.X+h, p.Y+h),
		geom.V(p.X-h, p.Y+h),
	}, c)
}

// Disc adds a filled circle.
func (l *DrawList) Disc(center geom.Vec, r float64, c color.NRGBA) {
	l.Polygon(circlePoints(center, r), c)
}

// Ring adds a circle outline.
func (l *DrawList) Ring(center geom.Vec, r, width float64, c color.NRGBA) {
	pts := circlePoints(center, r)
	for i := range pts {
		l.Line(pts[i], pts[(i+1)%len(pts)], width, c)
	}
}

// Rect adds a rectangle outline.
func (l *DrawList) Rect(a, b geom.Vec, width float64, c color.NRGBA) {
	p1, p2 := geom.V(b.X, a.Y), geom.V(a.X, b.Y)
	l.Line(a, p1, width, c)
	l.Line(p1, b, width, c)
	l.Line(b, p2, width, c)
	l.Line(p2, a, width, c)
}

// circlePoints tessellates a circle with more segments for larger radii.
func circlePoints(center geom.Vec, r float64) []geom.Vec {
	n := int(math.Ceil(r * 1.5))
	if n < 8 {
		n = 8
	}
	if n > 64 {
		n = 64
	}
	pts := make([]geom.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.V(center.X+r*math.Cos(a), center.Y+r*math.Sin(a))
	}
	return pts
}

// Replay sends every command to b, then flushes.
func (l *DrawList) Replay(b Backend) error {
	for _, c := range l.Cmds {
		switch c.Kind {
		case CmdClear:
			b.Clear(c.Color)
		case CmdLine:
			b.Line(c.Points[0], c.Points[1], c.Width, c.Color)
		case CmdPolygon:
			b.FillPolygon(c.Points, c.Color)
		case CmdText:
			b.Text(c.Points[0], c.Size, c.Text, c.Color)
		}
	}
	return b.Flush()
}

// FillPolygon and Flush make a DrawList usable as a recording Backend.
func (l *DrawList) FillPolygon(pts []geom.Vec, c color.NRGBA) {
	l.Polygon(append([]geom.Vec(nil), pts...), c)
}

func (l *DrawList) Flush() error {
	return nil
}
