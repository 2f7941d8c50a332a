package library

// Bridge joins two pins of the same component for one simulation step.
type Bridge struct {
	A string
	B string
}

// Conduction is what a component contributes to one simulation step.
type Conduction struct {
	// Pins asserting power
	Sources []string
	// Pin pairs conducting this step
	Bridges []Bridge
}

// HasLatch reports whether components of kind k carry state across steps:
// a switch's contact position or a relay's armature position.
func HasLatch(k Kind) bool {
	mustValid(k)
	return k == Switch || k == RelayCoil
}

// InitialLatch is the latched state of a component when simulation starts.
func InitialLatch(k Kind, p Params) bool {
	mustValid(k)
	if k == Switch {
		return p.Closed
	}
	return false
}

// Conduct is the per-variant step rule. For a switch, latched means closed.
// For a relay coil it is the armature position decided at the previous step:
// pulled bridges every common contact with its normally open contact,
// released bridges it with the normally closed one.
func Conduct(k Kind, p Params, latched bool) Conduction {
	mustValid(k)
	switch k {
	case PowerSource:
		return Conduction{Sources: []string{PinPower}}
	case Wire:
		return Conduction{Bridges: []Bridge{{PinA, PinB}}}
	case Switch:
		if latched {
			return Conduction{Bridges: []Bridge{{PinA, PinB}}}
		}
		return Conduction{}
	}

	poles := p.Normalize(k).Poles
	c := Conduction{Bridges: make([]Bridge, 0, poles)}
	for n := 1; n <= poles; n++ {
		if latched {
			c.Bridges = append(c.Bridges, Bridge{PoleCommon(n), PoleNO(n)})
		} else {
			c.Bridges = append(c.Bridges, Bridge{PoleCommon(n), PoleNC(n)})
		}
	}
	return c
}

// NextLatch computes the latched state for the following step from the
// energized state of the component's own pins at this step. A relay's
// armature follows its coil one step late; a switch only changes when the
// user toggles it.
func NextLatch(k Kind, latched bool, energized func(pin string) bool) bool {
	mustValid(k)
	if k == RelayCoil {
		return energized(PinCoil)
	}
	return latched
}
