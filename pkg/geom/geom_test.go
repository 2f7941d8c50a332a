package geom

import (
	"math"
	"testing"
)

func TestOrientationRotateComposes(t *testing.T) {
	pts := []Point{Pt(1, 0), Pt(0, -2), Pt(3, 2), Pt(-1, 1)}
	for _, o := range AllOrientations() {
		for _, p := range pts {
			got := o.Rotate().Apply(p)
			q := o.Apply(p)
			want := Point{X: -q.Y, Y: q.X}
			if got != want {
				t.Errorf("%s.Rotate().Apply(%v) = %v, want %v", o, p, got, want)
			}
		}
	}
}

func TestOrientationMirrorFlipsWorldX(t *testing.T) {
	pts := []Point{Pt(1, 0), Pt(0, -2), Pt(3, 2), Pt(-1, 1)}
	for _, o := range AllOrientations() {
		for _, p := range pts {
			got := o.Mirror().Apply(p)
			q := o.Apply(p)
			want := Point{X: -q.X, Y: q.Y}
			if got != want {
				t.Errorf("%s.Mirror().Apply(%v) = %v, want %v", o, p, got, want)
			}
		}
	}
}

func TestOrientationCycles(t *testing.T) {
	for _, o := range AllOrientations() {
		r := o
		for i := 0; i < 4; i++ {
			r = r.Rotate()
		}
		if r != o {
			t.Errorf("four rotations of %s gave %s", o, r)
		}
		if m := o.Mirror().Mirror(); m != o {
			t.Errorf("double mirror of %s gave %s", o, m)
		}
	}
}

func TestAllOrientationsDistinct(t *testing.T) {
	seen := make(map[[2]Point]Orientation)
	for _, o := range AllOrientations() {
		key := [2]Point{o.Apply(Pt(1, 0)), o.Apply(Pt(0, 1))}
		if prev, ok := seen[key]; ok {
			t.Errorf("%s and %s map the basis identically", prev, o)
		}
		seen[key] = o
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct orientations, got %d", len(seen))
	}
}

func TestParseOrientation(t *testing.T) {
	for _, o := range AllOrientations() {
		got, err := ParseOrientation(o.String())
		if err != nil {
			t.Fatalf("ParseOrientation(%q): %v", o.String(), err)
		}
		if got != o {
			t.Errorf("ParseOrientation(%q) = %v, want %v", o.String(), got, o)
		}
	}
	for _, bad := range []string{"", "r", "r4", "x0", "r0g", "r12"} {
		if _, err := ParseOrientation(bad); err == nil {
			t.Errorf("ParseOrientation(%q) expected error", bad)
		}
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		in   Vec
		want Point
	}{
		{V(0, 0), Pt(0, 0)},
		{V(24, 26), Pt(0, 1)},
		{V(-26, 74), Pt(-1, 1)},
		{V(100, -100), Pt(2, -2)},
	}
	for _, tt := range tests {
		if got := Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOnSegment(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    bool
	}{
		{"interior horizontal", Pt(2, 0), Pt(0, 0), Pt(4, 0), true},
		{"interior vertical", Pt(0, -1), Pt(0, 2), Pt(0, -3), true},
		{"end point", Pt(4, 0), Pt(0, 0), Pt(4, 0), false},
		{"beyond end", Pt(5, 0), Pt(0, 0), Pt(4, 0), false},
		{"off line", Pt(2, 1), Pt(0, 0), Pt(4, 0), false},
		{"diagonal", Pt(1, 1), Pt(0, 0), Pt(2, 2), true},
		{"zero length", Pt(0, 0), Pt(0, 0), Pt(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OnSegment(tt.p, tt.a, tt.b); got != tt.want {
				t.Errorf("OnSegment(%v, %v, %v) = %v, want %v", tt.p, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRectTransform(t *testing.T) {
	r := R(Pt(-1, -2), Pt(1, 0))
	got := r.Transform(Orientation{Rot: 1}, Pt(10, 10))
	want := Rect{Min: Pt(10, 9), Max: Pt(12, 11)}
	if got != want {
		t.Errorf("Transform = %v, want %v", got, want)
	}
	if !got.Contains(Pt(11, 10)) || got.Contains(Pt(13, 10)) {
		t.Errorf("Contains gave wrong answer for %v", got)
	}
}

func TestTransformZoomKeepsOrigin(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.Pan(V(30, -12))
	origin := V(200, 150)
	before := tr.ScreenToWorld(origin)
	tr.ZoomAt(origin, 1.5)
	after := tr.ScreenToWorld(origin)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Errorf("world point under origin moved from %v to %v", before, after)
	}
	if tr.Scale != 1.5 {
		t.Errorf("expected scale 1.5, got %v", tr.Scale)
	}
}

func TestTransformZoomClamps(t *testing.T) {
	tr := NewTransform(800, 600)
	tr.ZoomAt(V(0, 0), 1000)
	if tr.Scale != DefaultMaxScale {
		t.Errorf("expected scale clamped to %v, got %v", DefaultMaxScale, tr.Scale)
	}
	tr.ZoomAt(V(0, 0), 1e-6)
	if tr.Scale != DefaultMinScale {
		t.Errorf("expected scale clamped to %v, got %v", DefaultMinScale, tr.Scale)
	}
	tr.ZoomAt(V(0, 0), math.NaN())
	if tr.Scale != DefaultMinScale {
		t.Errorf("NaN factor changed scale to %v", tr.Scale)
	}

	tr = NewTransform(800, 600)
	origin := V(120, 80)
	before := tr.ScreenToWorld(origin)
	tr.ZoomAt(origin, -5)
	if tr.Scale != DefaultMinScale {
		t.Errorf("expected non-positive factor to clamp to %v, got %v", DefaultMinScale, tr.Scale)
	}
	after := tr.ScreenToWorld(origin)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Errorf("world point under origin moved from %v to %v", before, after)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := NewTransform(640, 480)
	tr.Pan(V(-40, 25))
	tr.ZoomAt(V(100, 100), 2)
	w := V(123.5, -77)
	got := tr.ScreenToWorld(tr.WorldToScreen(w))
	if math.Abs(got.X-w.X) > 1e-9 || math.Abs(got.Y-w.Y) > 1e-9 {
		t.Errorf("round trip gave %v, want %v", got, w)
	}
}
