// Package netlist derives electrical connectivity from pin coordinates and
// wire segments using a union-find structure.
package netlist

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

// PinRef identifies a pin by component identifier and pin name.
type PinRef struct {
	Component string `json:"component"`
	Pin       string `json:"pin"`
}

func (r PinRef) String() string {
	return r.Component + "." + r.Pin
}

// Terminal is a pin at its absolute grid position.
type Terminal struct {
	Ref PinRef
	At  geom.Point
}

// Segment is a wire: a conductor between its two end pins. Points strictly
// inside the segment connect to it as well.
type Segment struct {
	A PinRef
	B PinRef
}

// Net represents a connected set of pins that share the same electrical net.
type Net struct {
	ID   int      `json:"id"`
	Pins []PinRef `json:"pins"`
}

// Junction is a grid point where connections meet.
type Junction struct {
	At geom.Point
	// Number of pins at the point plus two per wire passing through it
	Degree int
	// A lone wire end connected to nothing
	Dangling bool
}

// Netlist manages the connectivity between pins using a union-find data
// structure for efficient connection tracking.
type Netlist struct {
	// Union-find data structures
	parent map[PinRef]PinRef
	rank   map[PinRef]int

	// Final nets after calling Finalize()
	Nets []*Net

	// All pins in input order
	allPins []Terminal
	netOf   map[PinRef]int

	junctions []Junction
}

// NewNetlist creates a new netlist from a list of terminals.
// Initially, each pin is in its own isolated net. Duplicate references keep
// their first position.
func NewNetlist(terminals []Terminal) *Netlist {
	nl := &Netlist{
		parent:  make(map[PinRef]PinRef, len(terminals)),
		rank:    make(map[PinRef]int, len(terminals)),
		allPins: make([]Terminal, 0, len(terminals)),
	}

	for _, t := range terminals {
		if _, dup := nl.parent[t.Ref]; dup {
			continue
		}
		nl.parent[t.Ref] = t.Ref
		nl.rank[t.Ref] = 0
		nl.allPins = append(nl.allPins, t)
	}

	return nl
}

// Build computes the static nets of a schematic. Pins are unioned when they
// share a grid coordinate, when they are the two ends of a wire segment, or
// when a pin lies strictly inside a wire segment. Net identifiers follow the
// order of each net's first pin in terminals, so identical inputs always give
// identical netlists.
func Build(terminals []Terminal, segments []Segment) *Netlist {
	nl := NewNetlist(terminals)

	// Coincident pins
	firstAt := make(map[geom.Point]PinRef, len(nl.allPins))
	degree := make(map[geom.Point]int, len(nl.allPins))
	var points []geom.Point
	for _, t := range nl.allPins {
		if first, ok := firstAt[t.At]; ok {
			nl.Connect(first, t.Ref)
		} else {
			firstAt[t.At] = t.Ref
			points = append(points, t.At)
		}
		degree[t.At]++
	}

	pos := make(map[PinRef]geom.Point, len(nl.allPins))
	for _, t := range nl.allPins {
		pos[t.Ref] = t.At
	}

	// Wire segments and T junctions
	wireEnd := make(map[geom.Point]bool)
	for _, s := range segments {
		a, okA := pos[s.A]
		b, okB := pos[s.B]
		if !okA || !okB {
			continue
		}
		nl.Connect(s.A, s.B)
		wireEnd[a] = true
		wireEnd[b] = true
		for _, p := range points {
			if geom.OnSegment(p, a, b) {
				nl.Connect(s.A, firstAt[p])
				degree[p] += 2
			}
		}
	}

	for _, p := range points {
		d := degree[p]
		if d < 3 && !(d == 1 && wireEnd[p]) {
			continue
		}
		nl.junctions = append(nl.junctions, Junction{At: p, Degree: d, Dangling: d == 1})
	}

	nl.Finalize()
	return nl
}

// Connect marks two pins as electrically connected.
// This merges their nets using the union-find algorithm.
func (nl *Netlist) Connect(a, b PinRef) {
	if _, ok := nl.parent[a]; !ok {
		return
	}
	if _, ok := nl.parent[b]; !ok {
		return
	}
	rootA := nl.Find(a)
	rootB := nl.Find(b)

	if rootA == rootB {
		return // Already in the same net
	}

	// Union by rank
	if nl.rank[rootA] < nl.rank[rootB] {
		nl.parent[rootA] = rootB
	} else if nl.rank[rootA] > nl.rank[rootB] {
		nl.parent[rootB] = rootA
	} else {
		nl.parent[rootB] = rootA
		nl.rank[rootA]++
	}
}

// Find returns the representative pin for the net containing the given pin.
// Uses path compression for O(α(n)) amortized time complexity.
func (nl *Netlist) Find(pin PinRef) PinRef {
	root := pin
	for nl.parent[root] != root {
		next, ok := nl.parent[root]
		if !ok {
			return pin
		}
		root = next
	}

	// Path compression: make all nodes on the path point directly to root
	current := pin
	for current != root {
		next := nl.parent[current]
		nl.parent[current] = root
		current = next
	}

	return root
}

// Finalize builds the final net list from the union-find structure.
// Every pin belongs to exactly one net, single-pin nets included. Nets are
// numbered in order of their first pin.
func (nl *Netlist) Finalize() {
	nl.Nets = nl.Nets[:0]
	nl.netOf = make(map[PinRef]int, len(nl.allPins))
	byRoot := make(map[PinRef]*Net)
	for _, t := range nl.allPins {
		root := nl.Find(t.Ref)
		net, ok := byRoot[root]
		if !ok {
			net = &Net{ID: len(nl.Nets)}
			byRoot[root] = net
			nl.Nets = append(nl.Nets, net)
		}
		net.Pins = append(net.Pins, t.Ref)
		nl.netOf[t.Ref] = net.ID
	}
}

// NetOf returns the net of a pin in O(1).
func (nl *Netlist) NetOf(pin PinRef) (int, bool) {
	id, ok := nl.netOf[pin]
	return id, ok
}

// NetCount returns the number of unique nets.
// Only valid after calling Finalize().
func (nl *Netlist) NetCount() int {
	return len(nl.Nets)
}

// MultiPinNetCount returns the number of nets with more than one pin.
func (nl *Netlist) MultiPinNetCount() int {
	count := 0
	for _, net := range nl.Nets {
		if len(net.Pins) > 1 {
			count++
		}
	}
	return count
}

// Pins returns the terminals in input order.
func (nl *Netlist) Pins() []Terminal {
	out := make([]Terminal, len(nl.allPins))
	copy(out, nl.allPins)
	return out
}

// Junctions returns the points where three or more connections meet and the
// dangling wire ends, in pin order.
func (nl *Netlist) Junctions() []Junction {
	out := make([]Junction, len(nl.junctions))
	copy(out, nl.junctions)
	return out
}

// Partition returns the nets as sorted pin strings, a history independent
// description of the connectivity useful for comparisons.
func (nl *Netlist) Partition() []string {
	out := make([]string, 0, len(nl.Nets))
	for _, net := range nl.Nets {
		names := make([]string, len(net.Pins))
		for i, p := range net.Pins {
			names[i] = p.String()
		}
		sort.Strings(names)
		out = append(out, strings.Join(names, " "))
	}
	sort.Strings(out)
	return out
}

// ExportJSON exports the netlist to JSON format.
func (nl *Netlist) ExportJSON() ([]byte, error) {
	if nl.netOf == nil {
		return nil, fmt.Errorf("netlist: not finalized")
	}

	output := struct {
		Version   string `json:"version"`
		NetCount  int    `json:"net_count"`
		MultiNets int    `json:"multi_pin_nets"`
		Nets      []*Net `json:"nets"`
	}{
		Version:   "1.0",
		NetCount:  nl.NetCount(),
		MultiNets: nl.MultiPinNetCount(),
		Nets:      nl.Nets,
	}

	return json.MarshalIndent(output, "", "  ")
}

// ExportKiCad exports the netlist to KiCad netlist format.
// This is a simplified format for basic connectivity.
func (nl *Netlist) ExportKiCad(source string) (string, error) {
	if nl.netOf == nil {
		return "", fmt.Errorf("netlist: not finalized")
	}

	var b strings.Builder
	b.WriteString("(export (version D)\n")
	b.WriteString("  (design\n")
	fmt.Fprintf(&b, "    (source %q)\n", source)
	b.WriteString("  )\n")
	b.WriteString("  (components\n")

	seen := make(map[string]bool)
	for _, t := range nl.allPins {
		if seen[t.Ref.Component] {
			continue
		}
		seen[t.Ref.Component] = true
		fmt.Fprintf(&b, "    (comp (ref %s))\n", t.Ref.Component)
	}
	b.WriteString("  )\n")

	b.WriteString("  (nets\n")
	for _, net := range nl.Nets {
		if len(net.Pins) < 2 {
			continue // Skip single-pin nets
		}
		fmt.Fprintf(&b, "    (net (code %d) (name Net-%d)\n", net.ID+1, net.ID+1)
		for _, pin := range net.Pins {
			fmt.Fprintf(&b, "      (node (ref %s) (pin %s))\n", pin.Component, pin.Pin)
		}
		b.WriteString("    )\n")
	}
	b.WriteString("  )\n")
	b.WriteString(")\n")

	return b.String(), nil
}
