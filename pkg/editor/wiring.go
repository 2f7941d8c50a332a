package editor

import "github.com/OpenTraceLab/zuse/pkg/geom"

// Leg is one axis-aligned stretch of a route.
type Leg struct {
	From, To geom.Point
}

// Horizontal reports whether the leg runs along the x axis. Zero length legs
// count as vertical.
func (l Leg) Horizontal() bool {
	return l.From.Y == l.To.Y && l.From.X != l.To.X
}

// Empty reports whether the leg has zero length.
func (l Leg) Empty() bool {
	return l.From == l.To
}

// Route is a wire path being drawn. Every click adds one leg that moves the
// pen along a single axis, alternating direction; the first leg follows the
// dominant axis towards the cursor. Clicking twice on the same point thus
// completes an L to that point.
type Route struct {
	legs       []Leg
	last       geom.Point
	horizontal bool
}

func newRoute(start geom.Point) *Route {
	return &Route{last: start}
}

// Start returns the first point of the route.
func (r *Route) Start() geom.Point {
	if len(r.legs) == 0 {
		return r.last
	}
	return r.legs[0].From
}

// Pen returns the current end of the route.
func (r *Route) Pen() geom.Point {
	return r.last
}

// Legs returns the committed legs.
func (r *Route) Legs() []Leg {
	return r.legs
}

func (r *Route) nextHorizontal(cursor geom.Point) bool {
	if len(r.legs) == 0 {
		return abs(cursor.X-r.last.X) > abs(cursor.Y-r.last.Y)
	}
	return !r.horizontal
}

// Add appends the next leg towards cursor.
func (r *Route) Add(cursor geom.Point) {
	h := r.nextHorizontal(cursor)
	var to geom.Point
	if h {
		to = geom.Pt(cursor.X, r.last.Y)
	} else {
		to = geom.Pt(r.last.X, cursor.Y)
	}
	r.legs = append(r.legs, Leg{From: r.last, To: to})
	r.last = to
	r.horizontal = h
}

// Preview returns the two legs an L from the pen to cursor would take.
func (r *Route) Preview(cursor geom.Point) [2]Leg {
	if r.nextHorizontal(cursor) {
		corner := geom.Pt(cursor.X, r.last.Y)
		return [2]Leg{{From: r.last, To: corner}, {From: corner, To: cursor}}
	}
	corner := geom.Pt(r.last.X, cursor.Y)
	return [2]Leg{{From: r.last, To: corner}, {From: corner, To: cursor}}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
