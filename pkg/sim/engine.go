// Package sim propagates power through a schematic one discrete step at a
// time.
//
// Static nets come from the document's netlist. Each step additionally
// bridges closed switches and relay armature contacts, then marks every
// group reachable from a power source as energized. A relay's armature
// follows its coil with exactly one step of delay: the coil state seen at
// step k decides which contacts conduct at step k+1. Results depend on the
// step count only, never on wall-clock time.
package sim

import (
	"github.com/pkg/errors"

	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/netlist"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
)

var (
	// ErrNotRunning is returned by operations that need a running simulation.
	ErrNotRunning = errors.New("sim: simulation not running")

	// ErrNotSwitch is returned when toggling a component that is not a switch.
	ErrNotSwitch = errors.New("sim: component is not a switch")
)

// State is the engine's run state.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics makes the engine report to m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine simulates a document. It stops by itself when the document changes
// structurally.
type Engine struct {
	doc     *schematic.Document
	state   State
	metrics *Metrics

	steps   uint64
	netlist *netlist.Netlist

	// per net, indexed by net ID
	energized []bool
	group     []int

	// per component identifier
	latch map[string]bool
	coil  map[string]bool
}

// New creates a stopped engine bound to doc.
func New(doc *schematic.Document, opts ...Option) *Engine {
	e := &Engine{doc: doc}
	for _, opt := range opts {
		opt(e)
	}
	doc.OnInvalidate(e.invalidated)
	return e
}

func (e *Engine) invalidated() {
	e.Interrupt()
}

// Interrupt stops a running simulation ahead of a structural edit. It is
// called by editors before they touch the document, and by the document's
// invalidation hook for edits made elsewhere.
func (e *Engine) Interrupt() {
	if e.state != Running {
		return
	}
	e.Stop()
	if e.metrics != nil {
		e.metrics.ForcedStops.Inc()
	}
}

// State returns the current run state.
func (e *Engine) State() State {
	return e.state
}

// Running reports whether the simulation is running.
func (e *Engine) Running() bool {
	return e.state == Running
}

// StepCount returns the number of steps since the last start.
func (e *Engine) StepCount() uint64 {
	return e.steps
}

// Start enters Running with fresh state: switches take their configured
// default, armatures are released and every net is undefined. Starting a
// running simulation is a no-op.
func (e *Engine) Start() {
	if e.state == Running {
		return
	}
	e.reset()
	e.latch = make(map[string]bool)
	e.coil = make(map[string]bool)
	for _, c := range e.doc.Components() {
		if library.HasLatch(c.Kind) {
			e.latch[c.ID] = library.InitialLatch(c.Kind, c.Params)
		}
	}
	e.state = Running
	if e.metrics != nil {
		e.metrics.Starts.Inc()
	}
}

// Stop discards the simulation state. Stopping a stopped simulation is a
// no-op.
func (e *Engine) Stop() {
	if e.state == Stopped {
		return
	}
	e.reset()
	e.state = Stopped
}

func (e *Engine) reset() {
	e.steps = 0
	e.netlist = nil
	e.energized = nil
	e.group = nil
	e.latch = nil
	e.coil = nil
}

// Step advances the simulation by one step. It does nothing when stopped.
func (e *Engine) Step() {
	if e.state != Running {
		return
	}

	if e.doc.Dirty() && e.metrics != nil {
		e.metrics.Rebuilds.Inc()
	}
	nl := e.doc.Netlist()
	comps := e.doc.Components()

	uf := newUnionFind(nl.NetCount())
	source := make([]bool, nl.NetCount())
	netOf := func(id, pin string) (int, bool) {
		return nl.NetOf(netlist.PinRef{Component: id, Pin: pin})
	}

	for _, c := range comps {
		cond := library.Conduct(c.Kind, c.Params, e.latch[c.ID])
		for _, b := range cond.Bridges {
			a, okA := netOf(c.ID, b.A)
			z, okB := netOf(c.ID, b.B)
			if okA && okB {
				uf.union(a, z)
			}
		}
		for _, pin := range cond.Sources {
			if n, ok := netOf(c.ID, pin); ok {
				source[n] = true
			}
		}
	}

	powered := make([]bool, nl.NetCount())
	for n, s := range source {
		if s {
			powered[uf.find(n)] = true
		}
	}

	energized := make([]bool, nl.NetCount())
	group := make([]int, nl.NetCount())
	count := 0
	for n := range energized {
		group[n] = uf.find(n)
		energized[n] = powered[group[n]]
		if energized[n] {
			count++
		}
	}

	latch := make(map[string]bool, len(e.latch))
	coil := make(map[string]bool)
	for _, c := range comps {
		pinOn := func(pin string) bool {
			n, ok := netOf(c.ID, pin)
			return ok && energized[n]
		}
		if c.Kind == library.RelayCoil {
			coil[c.ID] = pinOn(library.PinCoil)
		}
		if library.HasLatch(c.Kind) {
			latch[c.ID] = library.NextLatch(c.Kind, e.latch[c.ID], pinOn)
		}
	}

	e.netlist = nl
	e.energized = energized
	e.group = group
	e.latch = latch
	e.coil = coil
	e.steps++

	if e.metrics != nil {
		e.metrics.Steps.Inc()
		e.metrics.EnergizedNets.Set(float64(count))
	}
}

// Toggle flips the latched state of a switch. It is not a structural edit.
func (e *Engine) Toggle(id string) error {
	if e.state != Running {
		return ErrNotRunning
	}
	c, ok := e.doc.Get(id)
	if !ok {
		return errors.Wrapf(schematic.ErrNotFound, "toggle %s", id)
	}
	if c.Kind != library.Switch {
		return errors.Wrapf(ErrNotSwitch, "toggle %s", id)
	}
	e.latch[id] = !e.latch[id]
	if e.metrics != nil {
		e.metrics.Toggles.Inc()
	}
	return nil
}
