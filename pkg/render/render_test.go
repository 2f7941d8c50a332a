package render

import (
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
	"github.com/OpenTraceLab/zuse/pkg/sim"
)

func testDoc(t *testing.T) *schematic.Document {
	t.Helper()
	doc := schematic.NewDocument()
	for _, c := range []schematic.Component{
		schematic.New(library.PowerSource, geom.Pt(2, 2)),
		schematic.NewWire(geom.Pt(2, 2), geom.Pt(3, 2)),
		schematic.New(library.RelayCoil, geom.Pt(3, 2)),
	} {
		if _, err := doc.Add(c); err != nil {
			t.Fatal(err)
		}
	}
	return doc
}

func firstIndex(l *DrawList, c color.NRGBA) int {
	for i, cmd := range l.Cmds {
		if cmd.Color == c {
			return i
		}
	}
	return -1
}

func lastIndex(l *DrawList, c color.NRGBA) int {
	for i := len(l.Cmds) - 1; i >= 0; i-- {
		if l.Cmds[i].Color == c {
			return i
		}
	}
	return -1
}

func count(l *DrawList, k CmdKind) int {
	n := 0
	for _, c := range l.Cmds {
		if c.Kind == k {
			n++
		}
	}
	return n
}

func TestFrameOrder(t *testing.T) {
	doc := testDoc(t)
	if err := doc.SetSelection("K1"); err != nil {
		t.Fatal(err)
	}
	ghost := schematic.New(library.Switch, geom.Pt(8, 8))
	cursor := geom.Pt(8, 8)
	colors := GetColors(ThemeLight)

	l := Frame(Scene{
		Doc:        doc,
		View:       geom.NewTransform(800, 600),
		Colors:     colors,
		ShowGrid:   true,
		ShowLabels: true,
		Ghost:      &ghost,
		Route:      [][2]geom.Point{{geom.Pt(0, 0), geom.Pt(0, 4)}},
		Cursor:     &cursor,
	})

	if l.Cmds[0].Kind != CmdClear || l.Cmds[0].Color != colors.Background {
		t.Fatalf("frame should start with a clear, got %v", l.Cmds[0])
	}

	order := []struct {
		name  string
		first int
		last  int
	}{
		{"grid", firstIndex(l, colors.Grid), lastIndex(l, colors.GridBold)},
		{"wires", firstIndex(l, colors.Wire), firstIndex(l, colors.Wire)},
		{"symbols", firstIndex(l, colors.Symbol), lastIndex(l, colors.Symbol)},
		{"selection", firstIndex(l, colors.Selection), lastIndex(l, colors.Selection)},
		{"ghost", firstIndex(l, colors.Ghost), lastIndex(l, colors.Ghost)},
		{"route", firstIndex(l, colors.Preview), lastIndex(l, colors.Preview)},
		{"cursor", firstIndex(l, colors.Cursor), lastIndex(l, colors.Cursor)},
	}
	for i, o := range order {
		if o.first < 0 {
			t.Fatalf("no %s commands", o.name)
		}
		if i > 0 && order[i-1].last >= o.first {
			t.Errorf("%s drawn before %s ends", o.name, order[i-1].name)
		}
	}

	if count(l, CmdText) != 2 {
		t.Errorf("expected a label per symbol, got %d", count(l, CmdText))
	}
}

func TestFrameDoesNotEditDocument(t *testing.T) {
	doc := testDoc(t)
	before := doc.Components()
	rev := doc.Revision()
	Frame(Scene{Doc: doc, View: geom.NewTransform(640, 480), ShowGrid: true})
	if doc.Revision() != rev || !reflect.DeepEqual(before, doc.Components()) {
		t.Errorf("Frame changed the document")
	}
}

func TestEnergizedWires(t *testing.T) {
	doc := testDoc(t)
	eng := sim.New(doc)
	colors := GetColors(ThemeDark)
	scene := Scene{Doc: doc, View: geom.NewTransform(640, 480), Colors: colors, Sim: eng}

	if firstIndex(Frame(scene), colors.WireEnergized) >= 0 {
		t.Errorf("stopped simulation must draw neutral wires")
	}

	eng.Start()
	eng.Step()
	eng.Step()
	l := Frame(scene)
	if firstIndex(l, colors.WireEnergized) < 0 {
		t.Errorf("energized wire should use the energized color")
	}
	if firstIndex(l, colors.SymbolActive) < 0 {
		t.Errorf("energized coil should use the active symbol color")
	}
}

func TestPixelRatio(t *testing.T) {
	doc := schematic.NewDocument()
	if _, err := doc.Add(schematic.NewWire(geom.Pt(1, 1), geom.Pt(2, 1))); err != nil {
		t.Fatal(err)
	}
	view := geom.NewTransform(400, 400)
	view.UpdateScreenSize(400, 400, 2)
	l := Frame(Scene{Doc: doc, View: view})

	for _, c := range l.Cmds {
		if c.Kind == CmdLine {
			want := []geom.Vec{geom.V(100, 100), geom.V(200, 100)}
			if !reflect.DeepEqual(c.Points, want) {
				t.Errorf("expected device points %v, got %v", want, c.Points)
			}
			if math.Abs(c.Width-2*library.WidthNormal*geom.GridSize) > 1e-9 {
				t.Errorf("unexpected width %v", c.Width)
			}
			return
		}
	}
	t.Fatal("no wire drawn")
}

func TestCoarseGrid(t *testing.T) {
	doc := testDoc(t)
	view := geom.NewTransform(800, 600)
	fine := count(Frame(Scene{Doc: doc, View: view, ShowGrid: true}), CmdPolygon)

	view.ZoomAt(geom.V(0, 0), 0.2)
	l := Frame(Scene{Doc: doc, View: view, ShowGrid: true, ShowLabels: true})
	if coarse := count(l, CmdPolygon); coarse >= fine {
		t.Errorf("zoomed out grid should be sparser: %d >= %d", coarse, fine)
	}
	if count(l, CmdText) != 0 {
		t.Errorf("labels should be hidden when zoomed out")
	}
}

func TestJunctionDots(t *testing.T) {
	doc := schematic.NewDocument()
	for _, w := range []schematic.Component{
		schematic.NewWire(geom.Pt(0, 0), geom.Pt(2, 0)),
		schematic.NewWire(geom.Pt(2, 0), geom.Pt(4, 0)),
		schematic.NewWire(geom.Pt(2, 0), geom.Pt(2, 2)),
	} {
		if _, err := doc.Add(w); err != nil {
			t.Fatal(err)
		}
	}
	colors := GetColors(ThemeLight)
	l := Frame(Scene{Doc: doc, View: geom.NewTransform(400, 400), Colors: colors})

	polys := 0
	for _, c := range l.Cmds {
		if c.Kind == CmdPolygon && c.Color == colors.Junction {
			polys++
		}
	}
	if polys != 1 {
		t.Errorf("expected one junction dot, got %d", polys)
	}
	if firstIndex(l, colors.Dangling) < 0 {
		t.Errorf("dangling ends should be marked")
	}
}

func TestReplay(t *testing.T) {
	l := Frame(Scene{Doc: testDoc(t), View: geom.NewTransform(320, 240), ShowGrid: true, ShowLabels: true})
	var rec DrawList
	if err := l.Replay(&rec); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if !reflect.DeepEqual(rec.Cmds, l.Cmds) {
		t.Errorf("replayed commands differ")
	}
}

func TestCirclePoints(t *testing.T) {
	tests := []struct {
		r    float64
		want int
	}{
		{1, 8},
		{20, 30},
		{1000, 64},
	}
	for _, tt := range tests {
		pts := circlePoints(geom.V(5, 5), tt.r)
		if len(pts) != tt.want {
			t.Errorf("radius %v: expected %d points, got %d", tt.r, tt.want, len(pts))
		}
		for _, p := range pts {
			if d := math.Hypot(p.X-5, p.Y-5); math.Abs(d-tt.r) > 1e-9 {
				t.Errorf("point %v off the circle", p)
			}
		}
	}
}

func TestTheme(t *testing.T) {
	for _, th := range []Theme{ThemeLight, ThemeDark} {
		got, err := ParseTheme(th.String())
		if err != nil || got != th {
			t.Errorf("ParseTheme(%q) = %v, %v", th.String(), got, err)
		}
	}
	if _, err := ParseTheme("neon"); err == nil {
		t.Errorf("expected error for unknown theme")
	}
	if GetColors(ThemeDark).Background == GetColors(ThemeLight).Background {
		t.Errorf("themes should differ")
	}
}
