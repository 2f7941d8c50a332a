package netlist

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/OpenTraceLab/zuse/pkg/geom"
)

func ref(c, p string) PinRef {
	return PinRef{Component: c, Pin: p}
}

func term(c, p string, x, y int) Terminal {
	return Terminal{Ref: ref(c, p), At: geom.Pt(x, y)}
}

func TestNewNetlist(t *testing.T) {
	terms := []Terminal{
		term("S1", "A", 0, 0),
		term("S1", "B", 0, 2),
		term("V1", "V+", 5, 5),
	}

	nl := NewNetlist(terms)

	if len(nl.allPins) != 3 {
		t.Errorf("expected 3 pins, got %d", len(nl.allPins))
	}

	// Initially, each pin should be its own root
	for _, tm := range terms {
		if root := nl.Find(tm.Ref); root != tm.Ref {
			t.Errorf("pin %s should be its own root initially", tm.Ref)
		}
	}
}

func TestConnect(t *testing.T) {
	terms := []Terminal{
		term("K1", "C1", 0, 0),
		term("K1", "NO1", 1, 1),
		term("K1", "NC1", 2, 2),
	}
	nl := NewNetlist(terms)

	nl.Connect(terms[0].Ref, terms[1].Ref)
	if nl.Find(terms[0].Ref) != nl.Find(terms[1].Ref) {
		t.Errorf("C1 and NO1 should have same root after Connect")
	}
	if nl.Find(terms[2].Ref) == nl.Find(terms[0].Ref) {
		t.Errorf("NC1 should have different root from C1/NO1")
	}

	// Unknown pins are ignored
	nl.Connect(terms[0].Ref, ref("X9", "A"))
	nl.Finalize()
	if nl.NetCount() != 2 {
		t.Errorf("expected 2 nets, got %d", nl.NetCount())
	}
}

func TestBuildCoincidence(t *testing.T) {
	nl := Build([]Terminal{
		term("V1", "V+", 0, 0),
		term("S1", "A", 0, 0),
		term("S1", "B", 0, 2),
		term("S2", "A", 0, 2),
		term("S2", "B", 0, 4),
	}, nil)

	if nl.NetCount() != 3 {
		t.Fatalf("expected 3 nets, got %d", nl.NetCount())
	}
	a, _ := nl.NetOf(ref("V1", "V+"))
	b, _ := nl.NetOf(ref("S1", "A"))
	if a != b {
		t.Errorf("coincident pins should share a net")
	}
	c, _ := nl.NetOf(ref("S1", "B"))
	if c == a {
		t.Errorf("switch terminals must not be unioned statically")
	}
	if _, ok := nl.NetOf(ref("nope", "A")); ok {
		t.Errorf("unknown pin should have no net")
	}
}

func TestBuildWireChainAndTJunction(t *testing.T) {
	terms := []Terminal{
		term("V1", "V+", 0, 0),
		term("W1", "A", 0, 0),
		term("W1", "B", 4, 0),
		term("W2", "A", 4, 0),
		term("W2", "B", 4, 3),
		// tee onto the middle of W1
		term("W3", "A", 2, 0),
		term("W3", "B", 2, 5),
		term("S1", "A", 2, 5),
		// crosses W2 without touching a pin: no connection
		term("W4", "A", 3, 1),
		term("W4", "B", 6, 1),
	}
	segs := []Segment{
		{ref("W1", "A"), ref("W1", "B")},
		{ref("W2", "A"), ref("W2", "B")},
		{ref("W3", "A"), ref("W3", "B")},
		{ref("W4", "A"), ref("W4", "B")},
	}
	nl := Build(terms, segs)

	power, _ := nl.NetOf(ref("V1", "V+"))
	for _, r := range []PinRef{ref("W2", "B"), ref("W3", "B"), ref("S1", "A")} {
		if n, _ := nl.NetOf(r); n != power {
			t.Errorf("%s should be on the power net", r)
		}
	}
	if n, _ := nl.NetOf(ref("W4", "A")); n == power {
		t.Errorf("crossing wire without a shared pin must stay isolated")
	}

	var tee, dangling bool
	for _, j := range nl.Junctions() {
		if j.At == geom.Pt(2, 0) && j.Degree == 3 {
			tee = true
		}
		if j.At == geom.Pt(4, 3) && j.Dangling {
			dangling = true
		}
	}
	if !tee {
		t.Errorf("expected a junction at the tee, got %+v", nl.Junctions())
	}
	if !dangling {
		t.Errorf("expected a dangling end at (4,3), got %+v", nl.Junctions())
	}
}

func TestNetIDsFollowPinOrder(t *testing.T) {
	terms := []Terminal{
		term("A", "x", 9, 9),
		term("B", "x", 1, 1),
		term("C", "x", 9, 9),
	}
	nl := Build(terms, nil)
	if id, _ := nl.NetOf(ref("A", "x")); id != 0 {
		t.Errorf("first pin's net should be 0, got %d", id)
	}
	if id, _ := nl.NetOf(ref("B", "x")); id != 1 {
		t.Errorf("second net should be 1, got %d", id)
	}
	if got := nl.Nets[0].Pins; !reflect.DeepEqual(got, []PinRef{ref("A", "x"), ref("C", "x")}) {
		t.Errorf("unexpected pins in net 0: %v", got)
	}
}

func TestBuildIsReproducible(t *testing.T) {
	terms := []Terminal{
		term("W1", "A", 0, 0), term("W1", "B", 3, 0),
		term("S1", "A", 3, 0), term("S1", "B", 3, 2),
		term("V1", "V+", 0, 0),
	}
	segs := []Segment{{ref("W1", "A"), ref("W1", "B")}}
	first := Build(terms, segs)
	second := Build(terms, segs)
	if !reflect.DeepEqual(first.Nets, second.Nets) {
		t.Errorf("repeated builds differ: %v vs %v", first.Nets, second.Nets)
	}

	// The partition does not depend on input order
	reversed := make([]Terminal, len(terms))
	for i := range terms {
		reversed[len(terms)-1-i] = terms[i]
	}
	third := Build(reversed, segs)
	if !reflect.DeepEqual(first.Partition(), third.Partition()) {
		t.Errorf("partition depends on order: %v vs %v", first.Partition(), third.Partition())
	}
}

func TestExportJSON(t *testing.T) {
	nl := Build([]Terminal{term("V1", "V+", 0, 0), term("S1", "A", 0, 0)}, nil)
	data, err := nl.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var out struct {
		NetCount int `json:"net_count"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.NetCount != 1 {
		t.Errorf("expected 1 net, got %d", out.NetCount)
	}
}

func TestExportKiCad(t *testing.T) {
	nl := Build([]Terminal{term("V1", "V+", 0, 0), term("S1", "A", 0, 0), term("S1", "B", 0, 2)}, nil)
	out, err := nl.ExportKiCad("test.zse")
	if err != nil {
		t.Fatalf("ExportKiCad failed: %v", err)
	}
	for _, want := range []string{"(comp (ref V1))", "(comp (ref S1))", "(node (ref S1) (pin A))"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "(pin B)") {
		t.Errorf("single-pin nets should be skipped")
	}

	if _, err := NewNetlist(nil).ExportKiCad(""); err == nil {
		t.Errorf("expected error for unfinalized netlist")
	}
}
