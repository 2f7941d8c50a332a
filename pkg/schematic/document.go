package schematic

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/netlist"
)

// Document is the mutable schematic. Components keep insertion order, which
// is also the order used for serialization and net numbering.
//
// Structural operations (anything that changes components) are
// all-or-nothing: on error the document is untouched. On success they bump
// the revision, mark the netlist dirty and notify invalidation listeners.
// Selection changes are not structural.
type Document struct {
	components []Component
	index      map[string]int

	selection map[string]bool

	revision  uint64
	dirty     bool
	netlist   *netlist.Netlist
	listeners []func()
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		index:     make(map[string]int),
		selection: make(map[string]bool),
		dirty:     true,
	}
}

// OnInvalidate registers fn to run after every structural change.
func (d *Document) OnInvalidate(fn func()) {
	d.listeners = append(d.listeners, fn)
}

// Revision increases with every structural change.
func (d *Document) Revision() uint64 {
	return d.revision
}

// Dirty reports whether the netlist must be rebuilt before use.
func (d *Document) Dirty() bool {
	return d.dirty
}

func (d *Document) invalidate() {
	d.revision++
	d.dirty = true
	d.netlist = nil
	for _, fn := range d.listeners {
		fn()
	}
}

// Len returns the number of components.
func (d *Document) Len() int {
	return len(d.components)
}

// Components returns a copy of the components in document order.
func (d *Document) Components() []Component {
	out := make([]Component, len(d.components))
	copy(out, d.components)
	return out
}

// Get returns the component with the given identifier.
func (d *Document) Get(id string) (Component, bool) {
	i, ok := d.index[id]
	if !ok {
		return Component{}, false
	}
	return d.components[i], true
}

// NextID returns the auto identifier the next component of kind k would get:
// the kind prefix followed by the smallest unused positive number.
func (d *Document) NextID(k library.Kind) string {
	prefix := k.Prefix()
	for n := 1; ; n++ {
		id := prefix + strconv.Itoa(n)
		if _, taken := d.index[id]; !taken {
			return id
		}
	}
}

func (d *Document) check(c Component) (Component, error) {
	if !c.Kind.Valid() {
		return c, errors.Wrapf(ErrInvalid, "kind %d", int(c.Kind))
	}
	c.Params = c.Params.Normalize(c.Kind)
	if err := c.Params.Validate(c.Kind); err != nil {
		return c, errors.Wrapf(ErrInvalid, "%s %s: %v", c.Kind, c.ID, err)
	}
	c.Orientation = geom.Orientation{Rot: ((c.Orientation.Rot % 4) + 4) % 4, Flip: c.Orientation.Flip}
	return c, nil
}

// Add inserts a component at the end of the document and returns its
// identifier. An empty ID is replaced by an auto identifier; a caller
// supplied ID that already exists fails with ErrDuplicateIdentifier.
func (d *Document) Add(c Component) (string, error) {
	c, err := d.check(c)
	if err != nil {
		return "", err
	}
	if c.ID == "" {
		c.ID = d.NextID(c.Kind)
	} else if !ValidID(c.ID) {
		return "", errors.Wrapf(ErrInvalid, "identifier %q", c.ID)
	} else if _, taken := d.index[c.ID]; taken {
		return "", errors.Wrapf(ErrDuplicateIdentifier, "add %s", c.ID)
	}

	d.index[c.ID] = len(d.components)
	d.components = append(d.components, c)
	d.invalidate()
	return c.ID, nil
}

// Remove deletes a component and drops it from the selection.
func (d *Document) Remove(id string) error {
	i, ok := d.index[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "remove %s", id)
	}
	d.components = append(d.components[:i], d.components[i+1:]...)
	d.reindex()
	delete(d.selection, id)
	d.invalidate()
	return nil
}

// RemoveAll deletes several components at once. Either all identifiers
// exist and all are removed, or nothing changes.
func (d *Document) RemoveAll(ids ...string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := d.index[id]; !ok {
			return errors.Wrapf(ErrNotFound, "remove %s", id)
		}
		drop[id] = true
	}
	if len(drop) == 0 {
		return nil
	}
	kept := d.components[:0]
	for _, c := range d.components {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	d.components = kept
	d.reindex()
	for id := range drop {
		delete(d.selection, id)
	}
	d.invalidate()
	return nil
}

func (d *Document) update(id, op string, fn func(*Component)) error {
	i, ok := d.index[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "%s %s", op, id)
	}
	c := d.components[i]
	fn(&c)
	c, err := d.check(c)
	if err != nil {
		return err
	}
	d.components[i] = c
	d.invalidate()
	return nil
}

// Move places a component at a new grid position.
func (d *Document) Move(id string, pos geom.Point) error {
	return d.update(id, "move", func(c *Component) { c.Position = pos })
}

// SetOrientation replaces a component's orientation.
func (d *Document) SetOrientation(id string, o geom.Orientation) error {
	return d.update(id, "orient", func(c *Component) { c.Orientation = o })
}

// Rotate turns a component a quarter turn clockwise about its origin.
func (d *Document) Rotate(id string) error {
	return d.update(id, "rotate", func(c *Component) { c.Orientation = c.Orientation.Rotate() })
}

// Flip mirrors a component horizontally about its origin.
func (d *Document) Flip(id string) error {
	return d.update(id, "flip", func(c *Component) { c.Orientation = c.Orientation.Mirror() })
}

// SetParams replaces the kind specific parameters of a component.
func (d *Document) SetParams(id string, p library.Params) error {
	return d.update(id, "set params of", func(c *Component) { c.Params = p })
}

// Rename changes a component's identifier. Renaming to the current
// identifier is a no-op.
func (d *Document) Rename(oldID, newID string) error {
	i, ok := d.index[oldID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "rename %s", oldID)
	}
	if oldID == newID {
		return nil
	}
	if !ValidID(newID) {
		return errors.Wrapf(ErrInvalid, "identifier %q", newID)
	}
	if _, taken := d.index[newID]; taken {
		return errors.Wrapf(ErrDuplicateIdentifier, "rename %s to %s", oldID, newID)
	}

	d.components[i].ID = newID
	delete(d.index, oldID)
	d.index[newID] = i
	if d.selection[oldID] {
		delete(d.selection, oldID)
		d.selection[newID] = true
	}
	d.invalidate()
	return nil
}

// Clear removes every component and empties the selection.
func (d *Document) Clear() {
	d.components = nil
	d.index = make(map[string]int)
	d.selection = make(map[string]bool)
	d.invalidate()
}

// Replace swaps the whole component collection, as done by a load or an
// undo. Components are validated first; if any is rejected the document is
// unchanged. Components without an identifier get auto identifiers.
func (d *Document) Replace(components []Component) error {
	next := NewDocument()
	for _, c := range components {
		if _, err := next.Add(c); err != nil {
			return err
		}
	}
	d.components = next.components
	d.index = next.index
	d.selection = make(map[string]bool)
	d.invalidate()
	return nil
}

func (d *Document) reindex() {
	d.index = make(map[string]int, len(d.components))
	for i, c := range d.components {
		d.index[c.ID] = i
	}
}

// HitTest returns the topmost component touching grid point p. Symbols are
// drawn above wires and later components above earlier ones, so symbols win
// over wires and the last match wins among each group.
func (d *Document) HitTest(p geom.Point) (Component, bool) {
	var wire *Component
	for i := len(d.components) - 1; i >= 0; i-- {
		c := &d.components[i]
		if !c.Hit(p) {
			continue
		}
		if c.Kind != library.Wire {
			return *c, true
		}
		if wire == nil {
			wire = c
		}
	}
	if wire != nil {
		return *wire, true
	}
	return Component{}, false
}

// Bounds returns the box covering every component. The second result is
// false for an empty document.
func (d *Document) Bounds() (geom.Rect, bool) {
	if len(d.components) == 0 {
		return geom.Rect{}, false
	}
	r := d.components[0].Footprint()
	for _, c := range d.components[1:] {
		r = r.Union(c.Footprint())
	}
	return r, true
}

// Netlist returns the static connectivity of the document, rebuilding it if
// a structural change happened since the last call.
func (d *Document) Netlist() *netlist.Netlist {
	if !d.dirty && d.netlist != nil {
		return d.netlist
	}
	var terminals []netlist.Terminal
	var segments []netlist.Segment
	for _, c := range d.components {
		terminals = append(terminals, c.Terminals()...)
		if c.Kind == library.Wire {
			segments = append(segments, netlist.Segment{A: c.Ref(library.PinA), B: c.Ref(library.PinB)})
		}
	}
	d.netlist = netlist.Build(terminals, segments)
	d.dirty = false
	return d.netlist
}
