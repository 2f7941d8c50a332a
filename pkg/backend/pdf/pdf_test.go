package pdf

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/render"
)

func TestWrite(t *testing.T) {
	var l render.DrawList
	l.Clear(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	l.Line(geom.V(10, 10), geom.V(90, 10), 2, color.NRGBA{A: 255})
	l.Disc(geom.V(50, 50), 4, color.NRGBA{R: 200, A: 128})
	l.Text(geom.V(20, 80), 12, "K1", color.NRGBA{A: 255})

	b := New(100, 100)
	b.Document().SetCompression(false)
	if err := l.Replay(b); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("expected a PDF header, got %q", out[:min(len(out), 8)])
	}
	if !strings.Contains(out, "(K1) Tj") {
		t.Errorf("expected the label in the content stream")
	}
}

func TestTextUsesCoreFontEncoding(t *testing.T) {
	b := New(100, 100)
	b.Document().SetCompression(false)
	b.Text(geom.V(10, 50), 12, "Ré1", color.NRGBA{A: 255})

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "(R\xe91) Tj") {
		t.Errorf("expected the label encoded as cp1252")
	}
}

func TestShortPolygonIgnored(t *testing.T) {
	b := New(10, 10)
	b.FillPolygon([]geom.Vec{geom.V(0, 0), geom.V(1, 1)}, color.NRGBA{A: 255})
	if err := b.Flush(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
