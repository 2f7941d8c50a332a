package library

import (
	"fmt"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// MaxPoles is the largest supported relay pole count.
const MaxPoles = 4

// Params holds the kind specific settings of a component. Fields that do not
// apply to a kind are ignored and cleared by Normalize.
type Params struct {
	// Switch: state at simulation start
	Closed bool

	// RelayCoil: number of armature poles
	Poles int

	// Wire: end point relative to the start point
	To geom.Point
}

// DefaultParams returns the parameters a freshly placed component gets.
func DefaultParams(k Kind) Params {
	mustValid(k)
	switch k {
	case RelayCoil:
		return Params{Poles: 1}
	case Wire:
		return Params{To: geom.Pt(1, 0)}
	}
	return Params{}
}

// Normalize clears the fields that do not apply to k and fills defaults, so
// equal components compare equal.
func (p Params) Normalize(k Kind) Params {
	mustValid(k)
	switch k {
	case Switch:
		return Params{Closed: p.Closed}
	case RelayCoil:
		if p.Poles == 0 {
			p.Poles = 1
		}
		return Params{Poles: p.Poles}
	case Wire:
		return Params{To: p.To}
	}
	return Params{}
}

// Validate checks the parameters for kind k.
func (p Params) Validate(k Kind) error {
	mustValid(k)
	switch k {
	case RelayCoil:
		if p.Poles < 1 || p.Poles > MaxPoles {
			return fmt.Errorf("relay pole count %d out of range 1..%d", p.Poles, MaxPoles)
		}
	case Wire:
		if p.To.IsZero() {
			return fmt.Errorf("wire has zero length")
		}
	}
	return nil
}
