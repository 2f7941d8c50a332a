// Package editor is the interactive state machine of the schematic editor.
// Hosts collect input in an Io and call Frame once per frame; the editor
// pans and zooms the view, tracks the grid cursor and applies tool actions
// to the document.
package editor

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
	"github.com/OpenTraceLab/zuse/pkg/sim"
	"github.com/OpenTraceLab/zuse/pkg/zse"
)

// DefaultPinchSensitivity converts pinch deltas to zoom factors.
const DefaultPinchSensitivity = 0.02

// Editor owns the editing session of one document.
type Editor struct {
	doc     *schematic.Document
	engine  *sim.Engine
	view    *geom.Transform
	history *History

	tool   Tool
	cursor geom.Point
	ghost  geom.Orientation
	route  *Route

	// component waiting for the host to ask the user for a new name
	rename string

	pinchSensitivity float64
}

// Option configures an Editor.
type Option func(*Editor)

// WithHistoryDepth bounds the number of undo steps.
func WithHistoryDepth(n int) Option {
	return func(e *Editor) {
		e.history = NewHistory(n)
	}
}

// WithPinchSensitivity sets the zoom speed of pinch gestures.
func WithPinchSensitivity(s float64) Option {
	return func(e *Editor) {
		if s > 0 {
			e.pinchSensitivity = s
		}
	}
}

// WithScaleLimits sets the zoom limits of the view.
func WithScaleLimits(lo, hi float64) Option {
	return func(e *Editor) {
		if lo > 0 && hi >= lo {
			e.view.MinScale = lo
			e.view.MaxScale = hi
		}
	}
}

// New creates an editor for doc in Select mode. engine may be nil when no
// simulation is attached.
func New(doc *schematic.Document, engine *sim.Engine, opts ...Option) *Editor {
	e := &Editor{
		doc:              doc,
		engine:           engine,
		view:             geom.NewTransform(1, 1),
		history:          NewHistory(DefaultHistoryDepth),
		pinchSensitivity: DefaultPinchSensitivity,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) Document() *schematic.Document { return e.doc }
func (e *Editor) Engine() *sim.Engine           { return e.engine }
func (e *Editor) View() *geom.Transform         { return e.view }
func (e *Editor) History() *History             { return e.history }
func (e *Editor) Tool() Tool                    { return e.tool }
func (e *Editor) Cursor() geom.Point            { return e.cursor }

// Route returns the wire route in progress, or nil.
func (e *Editor) Route() *Route {
	return e.route
}

// Ghost returns the component a click would place, positioned at the cursor.
func (e *Editor) Ghost() (schematic.Component, bool) {
	k, ok := e.tool.PlaceKind()
	if !ok {
		return schematic.Component{}, false
	}
	c := schematic.New(k, e.cursor)
	c.ID = e.doc.NextID(k)
	c.Orientation = e.ghost
	return c, true
}

func (e *Editor) simulating() bool {
	return e.engine != nil && e.engine.Running()
}

// Frame consumes one frame of input and resets io. Every queued event is
// processed; the first error is returned.
func (e *Editor) Frame(io *Io) error {
	defer io.Reset()

	if w, h, ok := io.ScreenSize(); ok {
		e.view.UpdateScreenSize(w, h, io.PixelRatio())
	}
	e.view.Pan(io.Wheel().Mul(-1))
	if p := io.Pinch(); p != 0 {
		e.view.ZoomAt(io.Mouse(), 1-p*e.pinchSensitivity)
	}
	e.cursor = geom.Snap(e.view.ScreenToWorld(io.Mouse()))

	var first error
	for _, ev := range io.Events() {
		if err := e.handle(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (e *Editor) handle(ev Event) error {
	switch ev.Kind {
	case EventKey:
		return e.key(normalizeKey(ev.Key))
	case EventClick:
		if ev.Button == ButtonPrimary {
			return e.click()
		}
	case EventDoubleClick:
		if ev.Button == ButtonPrimary {
			return e.doubleClick()
		}
	}
	return nil
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	switch k {
	case "esc":
		return "escape"
	case "del":
		return "delete"
	}
	return k
}

func (e *Editor) key(k string) error {
	switch k {
	case "escape":
		e.Cancel()
	case "z":
		return e.Undo()
	case "x":
		return e.Redo()
	case "w":
		switch e.tool {
		case Wire:
			e.startRoute()
		case Wiring:
			e.route.Add(e.cursor)
		default:
			e.SetTool(Wire)
		}
	case "c":
		e.SetTool(PlaceRelayCoil)
	case "s":
		e.SetTool(PlaceSwitch)
	case "p":
		e.SetTool(PlacePowerSource)
	case "r":
		if _, placing := e.tool.PlaceKind(); placing {
			e.ghost = e.ghost.Rotate()
		} else if e.tool == Select {
			return e.RotateTargets()
		}
	case "y":
		if _, placing := e.tool.PlaceKind(); placing {
			e.ghost = e.ghost.Mirror()
		} else if e.tool == Select {
			return e.FlipTargets()
		}
	case "d", "delete":
		if e.tool == Select {
			return e.DeleteTargets()
		}
	}
	return nil
}

func (e *Editor) click() error {
	switch e.tool {
	case Select:
		c, ok := e.doc.HitTest(e.cursor)
		if !ok {
			e.doc.ClearSelection()
			return nil
		}
		if c.Kind == library.Switch && e.simulating() {
			return e.engine.Toggle(c.ID)
		}
		return e.doc.SetSelection(c.ID)
	case Wire:
		e.startRoute()
	case Wiring:
		e.route.Add(e.cursor)
	default:
		k, _ := e.tool.PlaceKind()
		return e.Place(k, e.cursor)
	}
	return nil
}

func (e *Editor) doubleClick() error {
	switch e.tool {
	case Select:
		if e.simulating() {
			return nil
		}
		if c, ok := e.doc.HitTest(e.cursor); ok {
			e.rename = c.ID
		}
	case Wiring:
		return e.CommitRoute()
	}
	return nil
}

// SetTool switches the active tool, dropping any route in progress.
func (e *Editor) SetTool(t Tool) {
	if t == Wiring {
		t = Wire
	}
	if _, placing := t.PlaceKind(); placing && t != e.tool {
		e.ghost = geom.Identity
	}
	e.route = nil
	e.tool = t
}

// Cancel returns to Select mode. In Select mode it clears the selection.
func (e *Editor) Cancel() {
	if e.tool == Select {
		e.doc.ClearSelection()
	}
	e.SetTool(Select)
}

func (e *Editor) startRoute() {
	e.route = newRoute(e.cursor)
	e.tool = Wiring
}

// edit applies a structural change. The simulation is stopped first and the
// prior state is recorded for undo if the document changed.
func (e *Editor) edit(fn func() error) error {
	before := zse.Save(e.doc)
	rev := e.doc.Revision()
	if e.engine != nil {
		e.engine.Interrupt()
	}
	err := fn()
	if e.doc.Revision() != rev {
		e.history.Record(string(before))
	}
	return err
}

// Place adds a component of kind k at grid point at using the ghost
// orientation, selects it and returns to Select mode.
func (e *Editor) Place(k library.Kind, at geom.Point) error {
	c := schematic.New(k, at)
	c.Orientation = e.ghost
	var id string
	err := e.edit(func() (err error) {
		id, err = e.doc.Add(c)
		return err
	})
	if err != nil {
		return err
	}
	e.SetTool(Select)
	return e.doc.SetSelection(id)
}

// CommitRoute turns the route into wire components, skipping zero length
// legs, and waits for the next route.
func (e *Editor) CommitRoute() error {
	if e.route == nil {
		return nil
	}
	legs := e.route.Legs()
	e.route = nil
	e.tool = Wire

	var wires []schematic.Component
	for _, l := range legs {
		if !l.Empty() {
			wires = append(wires, schematic.NewWire(l.From, l.To))
		}
	}
	if len(wires) == 0 {
		return nil
	}
	return e.edit(func() error {
		for _, w := range wires {
			if _, err := e.doc.Add(w); err != nil {
				return err
			}
		}
		return nil
	})
}

// targets are the selection, or the component under the cursor when
// nothing is selected.
func (e *Editor) targets() []string {
	if sel := e.doc.Selection(); len(sel) > 0 {
		return sel
	}
	if c, ok := e.doc.HitTest(e.cursor); ok {
		return []string{c.ID}
	}
	return nil
}

func (e *Editor) each(fn func(id string) error) error {
	ids := e.targets()
	if len(ids) == 0 {
		return nil
	}
	return e.edit(func() error {
		for _, id := range ids {
			if err := fn(id); err != nil {
				return err
			}
		}
		return nil
	})
}

// RotateTargets turns the targets by 90 degrees.
func (e *Editor) RotateTargets() error {
	return e.each(e.doc.Rotate)
}

// FlipTargets mirrors the targets horizontally.
func (e *Editor) FlipTargets() error {
	return e.each(e.doc.Flip)
}

// DeleteTargets removes the targets.
func (e *Editor) DeleteTargets() error {
	ids := e.targets()
	if len(ids) == 0 {
		return nil
	}
	return e.edit(func() error {
		return e.doc.RemoveAll(ids...)
	})
}

// PendingRename returns the component the user asked to rename.
func (e *Editor) PendingRename() (string, bool) {
	return e.rename, e.rename != ""
}

// CancelRename drops a pending rename request.
func (e *Editor) CancelRename() {
	e.rename = ""
}

// Rename answers a rename request. On error the request stays pending.
func (e *Editor) Rename(oldID, newID string) error {
	err := e.edit(func() error {
		return e.doc.Rename(oldID, newID)
	})
	if err != nil {
		return err
	}
	if e.rename == oldID {
		e.rename = ""
	}
	return nil
}

// Undo restores the state before the last structural edit.
func (e *Editor) Undo() error {
	return e.restore(e.history.Undo, "undo")
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() error {
	return e.restore(e.history.Redo, "redo")
}

func (e *Editor) restore(step func(string) (string, bool), op string) error {
	current := string(zse.Save(e.doc))
	state, ok := step(current)
	if !ok {
		return nil
	}
	if e.engine != nil {
		e.engine.Interrupt()
	}
	e.route = nil
	if e.tool == Wiring {
		e.tool = Wire
	}
	if err := zse.Load(e.doc, []byte(state)); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// FitView zooms the view onto the document.
func (e *Editor) FitView() {
	if r, ok := e.doc.Bounds(); ok {
		e.view.Fit(r)
	}
}

// Reset forgets the editing session after the document was replaced from
// outside: tool, route, pending rename and history.
func (e *Editor) Reset() {
	e.SetTool(Select)
	e.rename = ""
	e.history.Clear()
}
