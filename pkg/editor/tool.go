package editor

import "github.com/OpenTraceLab/zuse/pkg/library"

// Tool is the active editing mode.
type Tool int

const (
	// Select picks, toggles and renames components
	Select Tool = iota
	// Wire waits for the first point of a route
	Wire
	// Wiring has a route in progress
	Wiring
	PlaceRelayCoil
	PlaceSwitch
	PlacePowerSource
)

func (t Tool) String() string {
	switch t {
	case Select:
		return "select"
	case Wire:
		return "wire"
	case Wiring:
		return "wiring"
	case PlaceRelayCoil:
		return "place coil"
	case PlaceSwitch:
		return "place switch"
	case PlacePowerSource:
		return "place power"
	default:
		return "unknown"
	}
}

// PlaceKind returns the component kind placed by a place tool.
func (t Tool) PlaceKind() (library.Kind, bool) {
	switch t {
	case PlaceRelayCoil:
		return library.RelayCoil, true
	case PlaceSwitch:
		return library.Switch, true
	case PlacePowerSource:
		return library.PowerSource, true
	}
	return 0, false
}

// PlaceTool returns the tool placing components of kind k.
func PlaceTool(k library.Kind) (Tool, bool) {
	switch k {
	case library.RelayCoil:
		return PlaceRelayCoil, true
	case library.Switch:
		return PlaceSwitch, true
	case library.PowerSource:
		return PlacePowerSource, true
	}
	return Select, false
}
