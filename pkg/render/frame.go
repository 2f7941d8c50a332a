// Package render projects a schematic, its simulation state and the editing
// overlays onto an ordered list of device pixel primitives. It holds no
// state between frames; Backend implementations turn the list into pixels.
package render

import (
	"image/color"
	"math"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
	"github.com/OpenTraceLab/zuse/pkg/sim"
)

// CoarseScale is the zoom below which the grid shows every tenth cell and
// labels are hidden.
const CoarseScale = 0.3

// Scene is everything a frame is drawn from.
type Scene struct {
	Doc    *schematic.Document
	View   *geom.Transform
	Colors *Colors

	// Sim colors wires and symbols while running; nil or stopped draws the
	// neutral schematic.
	Sim *sim.Engine

	ShowGrid   bool
	ShowLabels bool

	// Editing overlays, all optional
	Ghost  *schematic.Component
	Route  [][2]geom.Point
	Cursor *geom.Point
}

type painter struct {
	s     Scene
	l     *DrawList
	scale float64 // device pixels per grid unit
	live  bool
}

// Frame draws a scene back to front: grid, wires, symbols with labels,
// junctions, selection, overlays.
func Frame(s Scene) *DrawList {
	if s.Colors == nil {
		s.Colors = GetColors(ThemeLight)
	}
	p := &painter{
		s:     s,
		l:     &DrawList{},
		scale: geom.GridSize * s.View.Scale * s.View.ScreenToDevice(geom.V(1, 0)).X,
		live:  s.Sim != nil && s.Sim.Running(),
	}

	p.l.Clear(s.Colors.Background)
	if s.ShowGrid {
		p.grid()
	}
	energized := p.wires()
	p.symbols()
	p.junctions(energized)
	p.selection()
	p.overlays()
	return p.l
}

// dev maps grid units to device pixels.
func (p *painter) dev(v geom.Vec) geom.Vec {
	return p.s.View.WorldToDevice(v.Mul(geom.GridSize))
}

func (p *painter) devPoint(pt geom.Point) geom.Vec {
	return p.dev(geom.V(float64(pt.X), float64(pt.Y)))
}

// width converts a grid unit width to device pixels, at least one pixel.
func (p *painter) width(w float64) float64 {
	return math.Max(1, w*p.scale)
}

func (p *painter) grid() {
	vb := p.s.View.VisibleBounds()
	step := 1
	if p.s.View.Scale < CoarseScale {
		step = 10
	}
	dot := p.s.View.ScreenToDevice(geom.V(2, 0)).X
	start := func(v int) int {
		// first multiple of step not below v
		return int(math.Ceil(float64(v)/float64(step))) * step
	}
	for y := start(vb.Min.Y); y <= vb.Max.Y; y += step {
		for x := start(vb.Min.X); x <= vb.Max.X; x += step {
			c, size := p.s.Colors.Grid, dot
			if x%(10*step) == 0 || y%(10*step) == 0 {
				c, size = p.s.Colors.GridBold, dot*1.5
			}
			p.l.Square(p.devPoint(geom.Pt(x, y)), size, c)
		}
	}
}

// wires draws wire components and returns the energized wire end points.
func (p *painter) wires() map[geom.Point]bool {
	energized := make(map[geom.Point]bool)
	w := p.width(library.WidthNormal)
	for _, c := range p.s.Doc.Components() {
		if c.Kind != library.Wire {
			continue
		}
		col := p.s.Colors.Wire
		if p.live && p.s.Sim.PinEnergized(c.Ref(library.PinA)) {
			col = p.s.Colors.WireEnergized
			energized[c.Position] = true
			energized[c.End()] = true
		}
		p.l.Line(p.devPoint(c.Position), p.devPoint(c.End()), w, col)
	}
	return energized
}

func (p *painter) symbols() {
	for _, c := range p.s.Doc.Components() {
		if c.Kind == library.Wire {
			continue
		}
		latched, energized := false, false
		if p.live {
			latched = p.s.Sim.Latched(c.ID)
			energized = p.s.Sim.CoilEnergized(c.ID)
		}
		col := p.s.Colors.Symbol
		if latched || energized {
			col = p.s.Colors.SymbolActive
		}
		p.outline(c, latched, energized, col)
		if p.s.ShowLabels && p.s.View.Scale >= CoarseScale {
			p.label(c)
		}
	}
}

func (p *painter) outline(c schematic.Component, latched, energized bool, col color.NRGBA) {
	for _, st := range library.Outline(c.Kind, c.Params, latched, energized) {
		st = st.Place(c.Orientation, c.Position)
		switch st.Kind {
		case library.StrokeLine:
			p.l.Line(p.dev(st.A), p.dev(st.B), p.width(st.Width), col)
		case library.StrokeCircle:
			p.l.Ring(p.dev(st.A), st.Radius*p.scale, p.width(st.Width), col)
		case library.StrokeDisc:
			p.l.Disc(p.dev(st.A), st.Radius*p.scale, col)
		}
	}
}

// label puts the identifier right of the footprint's top edge.
func (p *painter) label(c schematic.Component) {
	r := c.Footprint()
	at := p.dev(geom.V(float64(r.Max.X)+0.2, float64(r.Min.Y)+0.4))
	p.l.Text(at, 0.4*p.scale, c.ID, p.s.Colors.Label)
}

func (p *painter) junctions(energized map[geom.Point]bool) {
	for _, j := range p.s.Doc.Netlist().Junctions() {
		at := p.devPoint(j.At)
		if j.Dangling {
			p.l.Ring(at, 0.12*p.scale, p.width(library.WidthThin), p.s.Colors.Dangling)
			continue
		}
		col := p.s.Colors.Junction
		if energized[j.At] {
			col = p.s.Colors.WireEnergized
		}
		p.l.Disc(at, 0.2*p.scale, col)
	}
}

func (p *painter) selection() {
	col := p.s.Colors.Selection
	for _, id := range p.s.Doc.Selection() {
		c, ok := p.s.Doc.Get(id)
		if !ok {
			continue
		}
		if c.Kind == library.Wire {
			p.l.Line(p.devPoint(c.Position), p.devPoint(c.End()), p.width(3*library.WidthNormal), col)
			continue
		}
		r := c.Footprint()
		a := p.dev(geom.V(float64(r.Min.X)-0.3, float64(r.Min.Y)-0.3))
		b := p.dev(geom.V(float64(r.Max.X)+0.3, float64(r.Max.Y)+0.3))
		p.l.Rect(a, b, p.width(library.WidthThin), col)
	}
}

func (p *painter) overlays() {
	if g := p.s.Ghost; g != nil {
		p.outline(*g, false, false, p.s.Colors.Ghost)
	}
	w := p.width(library.WidthNormal)
	for _, leg := range p.s.Route {
		if leg[0] != leg[1] {
			p.l.Line(p.devPoint(leg[0]), p.devPoint(leg[1]), w, p.s.Colors.Preview)
		}
	}
	if c := p.s.Cursor; c != nil {
		at := p.devPoint(*c)
		half := p.s.View.ScreenToDevice(geom.V(35, 0)).X
		thick := p.s.View.ScreenToDevice(geom.V(1, 0)).X
		p.l.Line(geom.V(at.X-half, at.Y), geom.V(at.X+half, at.Y), thick, p.s.Colors.Cursor)
		p.l.Line(geom.V(at.X, at.Y-half), geom.V(at.X, at.Y+half), thick, p.s.Colors.Cursor)
	}
}
