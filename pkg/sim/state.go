package sim

import (
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/netlist"
)

// NetEnergized returns the value of a net after the last step. defined is
// false while stopped, before the first step, and for unknown nets.
func (e *Engine) NetEnergized(net int) (value, defined bool) {
	if e.state != Running || net < 0 || net >= len(e.energized) {
		return false, false
	}
	return e.energized[net], true
}

// PinEnergized reports whether the net of a pin carried power at the last
// step. Undefined nets read as de-energized.
func (e *Engine) PinEnergized(ref netlist.PinRef) bool {
	if e.netlist == nil {
		return false
	}
	n, ok := e.netlist.NetOf(ref)
	if !ok {
		return false
	}
	v, _ := e.NetEnergized(n)
	return v
}

// CoilEnergized reports whether a relay coil's input carried power at the
// last step.
func (e *Engine) CoilEnergized(id string) bool {
	return e.coil[id]
}

// Armature reports whether a relay's armature is pulled, that is whether its
// normally open contacts conduct at the next step.
func (e *Engine) Armature(id string) bool {
	c, ok := e.doc.Get(id)
	if !ok || c.Kind != library.RelayCoil {
		return false
	}
	return e.latch[id]
}

// SwitchClosed reports the latched state of a switch while running.
func (e *Engine) SwitchClosed(id string) bool {
	c, ok := e.doc.Get(id)
	if !ok || c.Kind != library.Switch {
		return false
	}
	return e.latch[id]
}

// Latched returns the latched state of any component: closed for a switch,
// pulled for a relay. Components without state report false.
func (e *Engine) Latched(id string) bool {
	return e.latch[id]
}

// Bridged reports whether two pins of one component were electrically joined
// during the last step, by static connectivity or by a bridge.
func (e *Engine) Bridged(id, a, b string) bool {
	if e.netlist == nil {
		return false
	}
	na, okA := e.netlist.NetOf(netlist.PinRef{Component: id, Pin: a})
	nb, okB := e.netlist.NetOf(netlist.PinRef{Component: id, Pin: b})
	if !okA || !okB {
		return false
	}
	return e.group[na] == e.group[nb]
}

// Snapshot is an immutable copy of the simulation state after a step.
type Snapshot struct {
	Step      uint64
	Energized []bool
	Latched   map[string]bool
	Coils     map[string]bool
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Step:      e.steps,
		Energized: append([]bool(nil), e.energized...),
		Latched:   make(map[string]bool, len(e.latch)),
		Coils:     make(map[string]bool, len(e.coil)),
	}
	for k, v := range e.latch {
		s.Latched[k] = v
	}
	for k, v := range e.coil {
		s.Coils[k] = v
	}
	return s
}

// Netlist returns the netlist used by the last step, or nil.
func (e *Engine) Netlist() *netlist.Netlist {
	return e.netlist
}

// unionFind over net indices, rebuilt every step.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		uf.parent[x], x = root, uf.parent[x]
	}
	return root
}

// union keeps the smaller index as root on ties so group numbering is stable.
func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		if rb < ra {
			ra, rb = rb, ra
		}
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
