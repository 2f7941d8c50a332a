package ui

import (
	"strings"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/key"

	"github.com/OpenTraceLab/zuse/pkg/editor"
)

// pinchPerScroll converts ctrl+scroll distance to pinch units.
const pinchPerScroll = 0.25

// keyName maps a Gio key to the editor key vocabulary.
func keyName(n key.Name) string {
	switch n {
	case key.NameEscape:
		return "Escape"
	case key.NameDeleteForward, key.NameDeleteBackward:
		return "Delete"
	}
	return strings.ToLower(string(n))
}

// scroll feeds a scroll event into io. Ctrl+scroll is how touchpads report
// pinch gestures, so it zooms instead of panning.
func scroll(io *editor.Io, delta f32.Point, mods key.Modifiers) {
	if mods.Contain(key.ModCtrl) {
		io.AddPinch(float64(delta.Y) * pinchPerScroll)
		return
	}
	io.AddWheel(float64(delta.X), float64(delta.Y))
}

// click feeds a click gesture into io. The second click of a double click
// is delivered both as a click and as a double click.
func click(io *editor.Io, ev gesture.ClickEvent) {
	if ev.Kind != gesture.KindClick {
		return
	}
	io.PushClick(editor.ButtonPrimary)
	if ev.NumClicks >= 2 {
		io.PushDoubleClick(editor.ButtonPrimary)
	}
}
