// Package schematic holds the editable document: an ordered collection of
// placed components keyed by identifier, the current selection, and the
// memoized netlist derived from them.
package schematic

import (
	"fmt"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/netlist"
)

// Component is a placed circuit element.
type Component struct {
	ID          string
	Kind        library.Kind
	Position    geom.Point
	Orientation geom.Orientation
	Params      library.Params
}

// New returns a component of kind k at pos with default parameters and no
// identifier; the document assigns one on Add.
func New(k library.Kind, pos geom.Point) Component {
	return Component{Kind: k, Position: pos, Params: library.DefaultParams(k)}
}

// NewWire returns a wire between two grid points.
func NewWire(from, to geom.Point) Component {
	return Component{
		Kind:     library.Wire,
		Position: from,
		Params:   library.Params{To: to.Sub(from)},
	}
}

func (c Component) String() string {
	return fmt.Sprintf("%s %s at %v %s", c.Kind, c.ID, c.Position, c.Orientation)
}

// Pins returns the component's pins at their absolute positions.
func (c Component) Pins() []library.PlacedPin {
	return library.Pins(c.Kind, c.Params, c.Orientation, c.Position)
}

// Pin looks up one pin by name.
func (c Component) Pin(name string) (library.PlacedPin, bool) {
	for _, p := range c.Pins() {
		if p.Name == name {
			return p, true
		}
	}
	return library.PlacedPin{}, false
}

// End returns the far end of a wire.
func (c Component) End() geom.Point {
	return c.Orientation.Apply(c.Params.To).Add(c.Position)
}

// Footprint returns the absolute hit box.
func (c Component) Footprint() geom.Rect {
	return library.PlacedFootprint(c.Kind, c.Params, c.Orientation, c.Position)
}

// Hit reports whether the grid point p touches the component.
func (c Component) Hit(p geom.Point) bool {
	return library.Hit(c.Kind, c.Params, c.Orientation, c.Position, p)
}

// Terminals returns the component's pins in netlist form.
func (c Component) Terminals() []netlist.Terminal {
	pins := c.Pins()
	out := make([]netlist.Terminal, len(pins))
	for i, p := range pins {
		out[i] = netlist.Terminal{
			Ref: netlist.PinRef{Component: c.ID, Pin: p.Name},
			At:  p.At,
		}
	}
	return out
}

// Ref names one of the component's pins.
func (c Component) Ref(pin string) netlist.PinRef {
	return netlist.PinRef{Component: c.ID, Pin: pin}
}
