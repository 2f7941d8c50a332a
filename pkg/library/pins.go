package library

import (
	"fmt"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// Pin is a named connection point relative to the symbol origin.
type Pin struct {
	Name   string
	Offset geom.Point
}

// PlacedPin is a pin at its absolute grid position.
type PlacedPin struct {
	Name string
	At   geom.Point
}

// Pin names.
const (
	PinPower = "V+"
	PinA     = "A"
	PinB     = "B"
	PinCoil  = "IN"
)

// PoleCommon, PoleNO and PoleNC name the armature contacts of relay pole n
// (1 based).
func PoleCommon(n int) string { return fmt.Sprintf("C%d", n) }
func PoleNO(n int) string     { return fmt.Sprintf("NO%d", n) }
func PoleNC(n int) string     { return fmt.Sprintf("NC%d", n) }

// poleX is the column of relay pole n.
func poleX(n int) int {
	return 3*n - 1
}

// PinLayout returns the pins of a component in symbol coordinates, in a fixed
// order per kind.
func PinLayout(k Kind, p Params) []Pin {
	mustValid(k)
	switch k {
	case PowerSource:
		return []Pin{{PinPower, geom.Pt(0, 0)}}
	case Switch:
		return []Pin{{PinA, geom.Pt(0, -1)}, {PinB, geom.Pt(0, 1)}}
	case Wire:
		return []Pin{{PinA, geom.Pt(0, 0)}, {PinB, p.To}}
	}

	// RelayCoil
	poles := p.Normalize(k).Poles
	pins := make([]Pin, 0, 1+3*poles)
	pins = append(pins, Pin{PinCoil, geom.Pt(0, 0)})
	for n := 1; n <= poles; n++ {
		x := poleX(n)
		pins = append(pins,
			Pin{PoleCommon(n), geom.Pt(x, 0)},
			Pin{PoleNO(n), geom.Pt(x-1, 2)},
			Pin{PoleNC(n), geom.Pt(x+1, 2)},
		)
	}
	return pins
}

// Pins returns the absolute pins of a placed component.
func Pins(k Kind, p Params, o geom.Orientation, pos geom.Point) []PlacedPin {
	layout := PinLayout(k, p)
	out := make([]PlacedPin, len(layout))
	for i, pin := range layout {
		out[i] = PlacedPin{Name: pin.Name, At: o.Apply(pin.Offset).Add(pos)}
	}
	return out
}

// Footprint is the hit box of a component in symbol coordinates.
func Footprint(k Kind, p Params) geom.Rect {
	mustValid(k)
	switch k {
	case PowerSource:
		return geom.R(geom.Pt(-1, -2), geom.Pt(1, 0))
	case Switch:
		return geom.R(geom.Pt(-1, -1), geom.Pt(1, 1))
	case Wire:
		return geom.R(geom.Pt(0, 0), p.To)
	}
	poles := p.Normalize(k).Poles
	return geom.R(geom.Pt(-1, 0), geom.Pt(poleX(poles)+1, 3))
}

// PlacedFootprint is Footprint at the component's absolute position.
func PlacedFootprint(k Kind, p Params, o geom.Orientation, pos geom.Point) geom.Rect {
	return Footprint(k, p).Transform(o, pos)
}

// Hit reports whether grid point at touches the placed component. Wires are
// hit along their segment only.
func Hit(k Kind, p Params, o geom.Orientation, pos, at geom.Point) bool {
	if k == Wire {
		end := o.Apply(p.To).Add(pos)
		return at == pos || at == end || geom.OnSegment(at, pos, end)
	}
	return PlacedFootprint(k, p, o, pos).Contains(at)
}
