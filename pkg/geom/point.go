package geom

import (
	"fmt"
	"math"
)

// GridSize is the width of one grid cell in world units.
const GridSize = 50

// Point is a grid coordinate. Y grows downwards.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Vec is a point in world units or screen pixels.
type Vec struct {
	X float64
	Y float64
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v+w.
func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v-w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul scales v by s.
func (v Vec) Mul(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// GridToWorld returns the world position of a grid point.
func GridToWorld(p Point) Vec {
	return Vec{X: float64(p.X * GridSize), Y: float64(p.Y * GridSize)}
}

// Snap quantizes a world position to the nearest grid point.
func Snap(world Vec) Point {
	return Point{
		X: int(math.Round(world.X / GridSize)),
		Y: int(math.Round(world.Y / GridSize)),
	}
}

// OnSegment reports whether p lies strictly between the end points of the
// segment ab. End points themselves are excluded; a zero length segment
// contains nothing.
func OnSegment(p, a, b Point) bool {
	if a == b || p == a || p == b {
		return false
	}
	d := b.Sub(a)
	r := p.Sub(a)
	// collinear
	if d.X*r.Y-d.Y*r.X != 0 {
		return false
	}
	dot := d.X*r.X + d.Y*r.Y
	return dot > 0 && dot < d.X*d.X+d.Y*d.Y
}
