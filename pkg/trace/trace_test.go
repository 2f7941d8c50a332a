package trace

import (
	"bytes"
	"math"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/library"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
	"github.com/OpenTraceLab/zuse/pkg/sim"
)

// buzzer feeds a relay coil through its own normally closed contact, so the
// coil flips every step.
func buzzer(t *testing.T) *schematic.Document {
	t.Helper()
	doc := schematic.NewDocument()
	for _, c := range []schematic.Component{
		schematic.New(library.RelayCoil, geom.Pt(0, 0)),
		schematic.New(library.PowerSource, geom.Pt(2, 0)),
		schematic.NewWire(geom.Pt(3, 2), geom.Pt(3, 4)),
		schematic.NewWire(geom.Pt(3, 4), geom.Pt(0, 4)),
		schematic.NewWire(geom.Pt(0, 4), geom.Pt(0, 0)),
	} {
		if _, err := doc.Add(c); err != nil {
			t.Fatal(err)
		}
	}
	return doc
}

func run(t *testing.T, steps, limit int) *Recorder {
	t.Helper()
	eng := sim.New(buzzer(t))
	eng.Start()
	rec := NewRecorder(limit)
	for i := 0; i < steps; i++ {
		eng.Step()
		rec.Record(eng.Snapshot())
	}
	return rec
}

func TestSummary(t *testing.T) {
	rec := run(t, 6, 0)
	sum := rec.Summary()
	if sum.Steps != 6 {
		t.Fatalf("expected 6 steps, got %d", sum.Steps)
	}
	if len(sum.Channels) != 2 {
		t.Fatalf("expected latch and coil channels, got %v", sum.Channels)
	}
	for _, cs := range sum.Channels {
		if math.Abs(cs.Duty-0.5) > 1e-9 {
			t.Errorf("%s: expected duty 0.5, got %v", cs.Channel, cs.Duty)
		}
		if cs.Transitions != 5 {
			t.Errorf("%s: expected 5 transitions, got %d", cs.Channel, cs.Transitions)
		}
	}
	if sum.Channels[0].Channel.Coil || !sum.Channels[1].Channel.Coil {
		t.Errorf("latched channels should come before coils")
	}
	if sum.MaxEnergized < sum.MeanEnergized || sum.MeanEnergized <= 0 {
		t.Errorf("unexpected energized stats %v / %v", sum.MeanEnergized, sum.MaxEnergized)
	}
}

func TestEmptySummary(t *testing.T) {
	sum := NewRecorder(0).Summary()
	if sum.Steps != 0 || sum.Channels != nil {
		t.Errorf("expected empty summary, got %+v", sum)
	}
}

func TestRecorderLimit(t *testing.T) {
	rec := run(t, 10, 4)
	if rec.Len() != 4 {
		t.Fatalf("expected 4 snapshots, got %d", rec.Len())
	}
	if first := rec.Snapshots()[0].Step; first != 7 {
		t.Errorf("expected oldest kept step 7, got %d", first)
	}
	rec.Reset()
	if rec.Len() != 0 {
		t.Errorf("Reset should drop snapshots")
	}
}

func TestXLSX(t *testing.T) {
	rec := run(t, 3, 0)
	data, err := rec.XLSX()
	if err != nil {
		t.Fatalf("XLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue(summarySheet, "B3"); v != "3" {
		t.Errorf("expected 3 steps, got %q", v)
	}
	if v, _ := f.GetCellValue(summarySheet, "A8"); v != "K1" {
		t.Errorf("expected first channel K1, got %q", v)
	}
	if v, _ := f.GetCellValue(stepsSheet, "D1"); v != "K1 coil" {
		t.Errorf("expected coil column header, got %q", v)
	}
	// coil on at step 1, off at step 2
	if v, _ := f.GetCellValue(stepsSheet, "D2"); v != "1" {
		t.Errorf("expected coil on at step 1, got %q", v)
	}
	if v, _ := f.GetCellValue(stepsSheet, "D3"); v != "0" {
		t.Errorf("expected coil off at step 2, got %q", v)
	}
}
