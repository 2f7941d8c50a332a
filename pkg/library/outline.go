package library

import (
	"math"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// StrokeKind selects how a Stroke is drawn.
type StrokeKind int

const (
	StrokeLine   StrokeKind = iota // segment A-B
	StrokeCircle                   // circle outline around A
	StrokeDisc                     // filled circle around A
)

// Stroke widths in grid units.
const (
	WidthNormal = 0.12
	WidthThin   = 0.05
)

// Stroke is one primitive of a symbol outline, in grid units relative to the
// symbol origin.
type Stroke struct {
	Kind   StrokeKind
	A      geom.Vec
	B      geom.Vec
	Radius float64
	Width  float64
}

// Place maps the stroke through an orientation and translates it to pos.
func (s Stroke) Place(o geom.Orientation, pos geom.Point) Stroke {
	offset := geom.V(float64(pos.X), float64(pos.Y))
	s.A = o.ApplyVec(s.A).Add(offset)
	s.B = o.ApplyVec(s.B).Add(offset)
	return s
}

func line(ax, ay, bx, by float64) Stroke {
	return Stroke{Kind: StrokeLine, A: geom.V(ax, ay), B: geom.V(bx, by), Width: WidthNormal}
}

func thin(ax, ay, bx, by float64) Stroke {
	s := line(ax, ay, bx, by)
	s.Width = WidthThin
	return s
}

func circle(x, y, r float64) Stroke {
	return Stroke{Kind: StrokeCircle, A: geom.V(x, y), Radius: r, Width: WidthNormal}
}

func disc(x, y, r float64) Stroke {
	return Stroke{Kind: StrokeDisc, A: geom.V(x, y), Radius: r}
}

// Outline returns the symbol of a component. The drawing depends on the
// latched state: a closed switch or a pulled armature draws its blade to the
// bridged contact, and an energized coil draws a filled core. Wires have no
// outline; they are drawn by the renderer.
func Outline(k Kind, p Params, latched, energized bool) []Stroke {
	mustValid(k)
	switch k {
	case PowerSource:
		h := 1 / math.Sqrt(3)
		return []Stroke{
			line(0, -2, 0, 0),
			line(0, -2, -h, -1),
			line(0, -2, h, -1),
		}
	case Switch:
		out := []Stroke{
			line(0, -1, 0, -0.6),
			line(0, 0.6, 0, 1),
			circle(0, -0.5, 0.1),
			circle(0, 0.5, 0.1),
		}
		if latched {
			out = append(out, line(0, -0.4, 0, 0.4))
		} else {
			out = append(out, line(0, -0.4, -0.5, 0.3))
		}
		return out
	case Wire:
		return nil
	}

	out := []Stroke{
		line(0, 0, 0, 0.75),
		circle(0, 1.25, 0.5),
		line(0, 1.75, 0, 2.5),
		// ground
		line(-0.5, 2.5, 0.5, 2.5),
		line(-0.3, 2.75, 0.3, 2.75),
		line(-0.1, 3, 0.1, 3),
	}
	if energized {
		out = append(out, disc(0, 1.25, 0.25))
	}
	poles := p.Normalize(k).Poles
	for n := 1; n <= poles; n++ {
		x := float64(poleX(n))
		out = append(out,
			line(x, 0, x, 0.6),
			circle(x, 0.7, 0.1),
			line(x-1, 2, x-1, 1.4),
			circle(x-1, 1.3, 0.1),
			line(x+1, 2, x+1, 1.4),
			circle(x+1, 1.3, 0.1),
		)
		if latched {
			out = append(out, line(x, 0.8, x-0.9, 1.2))
		} else {
			out = append(out, line(x, 0.8, x+0.9, 1.2))
		}
	}
	// mechanical link from the coil to the blades
	last := float64(poleX(poles))
	out = append(out, thin(0.5, 1.25, last, 1.0))
	return out
}
