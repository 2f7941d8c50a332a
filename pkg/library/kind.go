// Package library is the catalog of placeable circuit elements. Each Kind
// defines its pin layout, footprint, symbol outline and the rule it follows
// during one simulation step.
package library

import (
	"fmt"
	"strings"
)

// Kind identifies a component variant. The set is closed.
type Kind int

const (
	Wire Kind = iota
	RelayCoil
	Switch
	PowerSource
)

var kindNames = [...]string{
	Wire:        "wire",
	RelayCoil:   "coil",
	Switch:      "switch",
	PowerSource: "power",
}

var kindPrefixes = [...]string{
	Wire:        "W",
	RelayCoil:   "K",
	Switch:      "S",
	PowerSource: "V",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{Wire, RelayCoil, Switch, PowerSource}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= Wire && k <= PowerSource
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Prefix is the letter used for auto-generated identifiers.
func (k Kind) Prefix() string {
	mustValid(k)
	return kindPrefixes[k]
}

// ParseKind resolves a kind from its String form, ignoring case.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(s)
	for _, k := range Kinds() {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component kind %q", s)
}

// Unknown kinds are programming errors, never user input: user input goes
// through ParseKind.
func mustValid(k Kind) {
	if !k.Valid() {
		panic(fmt.Sprintf("library: unknown kind %d", int(k)))
	}
}
