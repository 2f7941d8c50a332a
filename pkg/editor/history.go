package editor

// DefaultHistoryDepth is the number of undo steps kept when none is
// configured.
const DefaultHistoryDepth = 50

// History keeps bounded undo and redo stacks of serialized documents. A
// snapshot is recorded before every structural edit; when the undo stack
// is full the oldest snapshot is dropped.
type History struct {
	undo []string
	redo []string
	max  int
}

// NewHistory creates a history holding up to max undo steps.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistoryDepth
	}
	return &History{
		undo: make([]string, 0, max),
		max:  max,
	}
}

// Record saves the state preceding an edit and forgets any redo steps.
func (h *History) Record(state string) {
	h.undo = append(h.undo, state)
	if len(h.undo) > h.max {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Undo returns the state to restore; current is pushed for redo.
func (h *History) Undo(current string) (string, bool) {
	if !h.CanUndo() {
		return "", false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

// Redo returns the state to restore; current is pushed for undo.
func (h *History) Redo(current string) (string, bool) {
	if !h.CanRedo() {
		return "", false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	if len(h.undo) > h.max {
		h.undo = h.undo[1:]
	}
	return next, true
}

// Clear forgets everything, as after loading a file.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// Len returns the number of undo steps available.
func (h *History) Len() int {
	return len(h.undo)
}
