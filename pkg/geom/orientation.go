package geom

import "fmt"

// Orientation is one of the eight placements of a symbol: a horizontal flip
// applied first, followed by Rot clockwise quarter turns.
type Orientation struct {
	Rot  int // quarter turns, 0..3
	Flip bool
}

// Identity is the unrotated, unflipped orientation.
var Identity = Orientation{}

// AllOrientations lists the eight orientations in a fixed order.
func AllOrientations() []Orientation {
	out := make([]Orientation, 0, 8)
	for _, flip := range []bool{false, true} {
		for rot := 0; rot < 4; rot++ {
			out = append(out, Orientation{Rot: rot, Flip: flip})
		}
	}
	return out
}

func (o Orientation) norm() Orientation {
	o.Rot = ((o.Rot % 4) + 4) % 4
	return o
}

// Apply maps a symbol-relative offset through the orientation.
func (o Orientation) Apply(p Point) Point {
	o = o.norm()
	if o.Flip {
		p.X = -p.X
	}
	for i := 0; i < o.Rot; i++ {
		p = Point{X: -p.Y, Y: p.X}
	}
	return p
}

// ApplyVec is Apply for fractional offsets, used by symbol outlines.
func (o Orientation) ApplyVec(v Vec) Vec {
	o = o.norm()
	if o.Flip {
		v.X = -v.X
	}
	for i := 0; i < o.Rot; i++ {
		v = Vec{X: -v.Y, Y: v.X}
	}
	return v
}

// Rotate returns o turned a further quarter turn clockwise.
func (o Orientation) Rotate() Orientation {
	o = o.norm()
	o.Rot = (o.Rot + 1) % 4
	return o
}

// Mirror returns o flipped horizontally in world space.
func (o Orientation) Mirror() Orientation {
	o = o.norm()
	return Orientation{Rot: (4 - o.Rot) % 4, Flip: !o.Flip}
}

// String renders the orientation as r0..r3 with an f suffix when flipped.
func (o Orientation) String() string {
	o = o.norm()
	if o.Flip {
		return fmt.Sprintf("r%df", o.Rot)
	}
	return fmt.Sprintf("r%d", o.Rot)
}

// ParseOrientation is the inverse of Orientation.String.
func ParseOrientation(s string) (Orientation, error) {
	switch len(s) {
	case 2, 3:
	default:
		return Orientation{}, fmt.Errorf("invalid orientation %q", s)
	}
	if s[0] != 'r' || s[1] < '0' || s[1] > '3' {
		return Orientation{}, fmt.Errorf("invalid orientation %q", s)
	}
	o := Orientation{Rot: int(s[1] - '0')}
	if len(s) == 3 {
		if s[2] != 'f' {
			return Orientation{}, fmt.Errorf("invalid orientation %q", s)
		}
		o.Flip = true
	}
	return o, nil
}
