package editor

import "github.com/OpenTraceLab/zuse/pkg/geom"

// Mouse buttons as reported by hosts.
const (
	ButtonPrimary   = 0
	ButtonMiddle    = 1
	ButtonSecondary = 2
)

// EventKind tells queued input events apart.
type EventKind int

const (
	EventClick EventKind = iota
	EventDoubleClick
	EventKey
)

// Event is one queued discrete input.
type Event struct {
	Kind   EventKind
	Button int
	Key    string
}

// Io accumulates host input between two frames. Hosts write to it from
// their input handlers; Editor.Frame drains it once per frame. Continuous
// deltas add up until drained, discrete events keep their order.
type Io struct {
	mouse  geom.Vec
	wheel  geom.Vec
	pinch  float64
	events []Event

	width, height int
	ratio         float64
	screenSet     bool
}

// NewIo returns an empty inbox.
func NewIo() *Io {
	return &Io{ratio: 1}
}

// SetMouse records the cursor position in canvas-local device independent
// pixels.
func (io *Io) SetMouse(x, y float64) {
	io.mouse = geom.V(x, y)
}

// AddWheel accumulates a scroll delta in pixels.
func (io *Io) AddWheel(dx, dy float64) {
	io.wheel = io.wheel.Add(geom.V(dx, dy))
}

// AddPinch accumulates a zoom gesture delta. Positive values zoom out.
func (io *Io) AddPinch(d float64) {
	io.pinch += d
}

// PushClick queues a click of button.
func (io *Io) PushClick(button int) {
	io.events = append(io.events, Event{Kind: EventClick, Button: button})
}

// PushDoubleClick queues a double click of button.
func (io *Io) PushDoubleClick(button int) {
	io.events = append(io.events, Event{Kind: EventDoubleClick, Button: button})
}

// PushKey queues a key press. Keys are single characters or names such as
// "Escape" and "Delete".
func (io *Io) PushKey(name string) {
	io.events = append(io.events, Event{Kind: EventKey, Key: name})
}

// SetScreen records the canvas size and pixel ratio.
func (io *Io) SetScreen(width, height int, pixelRatio float64) {
	io.width, io.height = width, height
	if pixelRatio > 0 {
		io.ratio = pixelRatio
	} else {
		io.ratio = 1
	}
	io.screenSet = true
}

// Snapshot accessors.
func (io *Io) Mouse() geom.Vec     { return io.mouse }
func (io *Io) Wheel() geom.Vec     { return io.wheel }
func (io *Io) Pinch() float64      { return io.pinch }
func (io *Io) Events() []Event     { return io.events }
func (io *Io) PixelRatio() float64 { return io.ratio }

// ScreenSize returns the canvas size. ok is false until SetScreen is called.
func (io *Io) ScreenSize() (width, height int, ok bool) {
	return io.width, io.height, io.screenSet
}

// Reset clears the deltas and the event queue. Mouse position and screen
// size persist.
func (io *Io) Reset() {
	io.wheel = geom.Vec{}
	io.pinch = 0
	io.events = io.events[:0]
}
