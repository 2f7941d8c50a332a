package zse

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
)

// identifiers that would lex as anything but a single Atom
var needsQuote = regexp.MustCompile(`^-?[0-9]|^-$|[\s()";]`)

// Marshal renders components in the given order.
func Marshal(components []schematic.Component) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(zuse %d\n", Version)
	for _, c := range components {
		buf.WriteString("  ")
		writeComponent(&buf, c)
		buf.WriteByte('\n')
	}
	buf.WriteString(")\n")
	return buf.Bytes()
}

// Save renders the whole document.
func Save(doc *schematic.Document) []byte {
	return Marshal(doc.Components())
}

func writeComponent(buf *bytes.Buffer, c schematic.Component) {
	fmt.Fprintf(buf, "(%s %s (at %d %d)", c.Kind, quote(c.ID), c.Position.X, c.Position.Y)
	if c.Kind != library.Wire || c.Orientation != geom.Identity {
		fmt.Fprintf(buf, " (rot %s)", c.Orientation)
	}
	switch c.Kind {
	case library.Wire:
		fmt.Fprintf(buf, " (to %d %d)", c.Params.To.X, c.Params.To.Y)
	case library.RelayCoil:
		fmt.Fprintf(buf, " (poles %d)", c.Params.Normalize(c.Kind).Poles)
	case library.Switch:
		if c.Params.Closed {
			buf.WriteString(" (closed)")
		}
	}
	buf.WriteByte(')')
}

func quote(id string) string {
	if id == "" || needsQuote.MatchString(id) {
		return `"` + id + `"`
	}
	return id
}
