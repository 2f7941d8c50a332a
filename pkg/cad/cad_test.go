package cad

import (
	"bytes"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/OpenTraceLab/zuse/pkg/config"
	"github.com/OpenTraceLab/zuse/pkg/editor"
	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/render"
	"github.com/OpenTraceLab/zuse/pkg/sim"
	"github.com/OpenTraceLab/zuse/pkg/trace"
	"github.com/OpenTraceLab/zuse/pkg/zse"
)

const relayCircuit = `(zuse 1
  (power V1 (at 0 0) (rot r0))
  (wire W1 (at 0 0) (to 1 0))
  (coil K1 (at 1 0) (rot r0) (poles 1))
)
`

func newCad(t *testing.T, opts ...Option) (*Cad, *render.DrawList, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	backend := &render.DrawList{}
	opts = append([]Option{WithLogger(log.New(&logs, "", 0))}, opts...)
	c := New(backend, config.Default(), opts...)
	c.SetFrameSize(800, 600, 1)
	return c, backend, &logs
}

func TestNotInitialized(t *testing.T) {
	c := New(nil, config.Default(), WithLogger(log.New(&bytes.Buffer{}, "", 0)))

	if _, err := c.SaveSchematic(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("save before the first frame: expected ErrNotInitialized, got %v", err)
	}
	if err := c.LoadSchematic(relayCircuit); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("load before the first frame: expected ErrNotInitialized, got %v", err)
	}
	if err := c.StartSimulation(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("start before the first frame: expected ErrNotInitialized, got %v", err)
	}

	io := editor.NewIo()
	io.PushKey("w")
	if err := c.NewFrame(io); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("frame without size: expected ErrNotInitialized, got %v", err)
	}
	if len(io.Events()) != 0 {
		t.Errorf("rejected frame should still drain input")
	}

	io.SetScreen(640, 480, 1)
	if err := c.NewFrame(io); err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	if _, err := c.SaveSchematic(); err != nil {
		t.Errorf("save after the first frame failed: %v", err)
	}
	if err := c.Draw(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("draw without backend: expected ErrNotInitialized, got %v", err)
	}
}

func TestRelayScenario(t *testing.T) {
	c, _, logs := newCad(t)
	if err := c.LoadSchematic(relayCircuit); err != nil {
		t.Fatalf("LoadSchematic failed: %v", err)
	}
	if err := c.StartSimulation(); err != nil {
		t.Fatal(err)
	}

	io := editor.NewIo()
	for i := 0; i < 2; i++ {
		if err := c.NewFrame(io); err != nil {
			t.Fatalf("NewFrame failed: %v", err)
		}
	}
	eng := c.Engine()
	if !eng.CoilEnergized("K1") {
		t.Errorf("coil should be energized")
	}
	if !eng.Bridged("K1", "C1", "NO1") {
		t.Errorf("armature contacts should be bridged after 2 steps")
	}

	if err := c.StopSimulation(); err != nil {
		t.Fatal(err)
	}
	if err := c.StopSimulation(); err != nil {
		t.Fatal(err)
	}
	if eng.Running() {
		t.Errorf("simulation should be stopped")
	}
	if got := strings.Count(logs.String(), "simulation stopped"); got != 1 {
		t.Errorf("expected one stop message, got %d:\n%s", got, logs)
	}
}

func TestLoadRejected(t *testing.T) {
	c, _, _ := newCad(t)
	if err := c.LoadSchematic(relayCircuit); err != nil {
		t.Fatal(err)
	}
	err := c.LoadSchematic("(zuse 1 (coil K1 (at 0 0) (poles 0 0)))")
	if !errors.Is(err, zse.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	text, _ := c.SaveSchematic()
	if text != relayCircuit {
		t.Errorf("failed load changed the document:\n%s", text)
	}
}

func TestStepsPerFrameAndRecorder(t *testing.T) {
	rec := trace.NewRecorder(0)
	cfg := config.Default()
	cfg.StepsPerFrame = 3
	c := New(&render.DrawList{}, cfg, WithRecorder(rec), WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	c.SetFrameSize(100, 100, 1)
	if err := c.LoadSchematic(relayCircuit); err != nil {
		t.Fatal(err)
	}

	io := editor.NewIo()
	if err := c.NewFrame(io); err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 0 {
		t.Errorf("stopped simulation must not record")
	}

	if err := c.StartSimulation(); err != nil {
		t.Fatal(err)
	}
	if err := c.NewFrame(io); err != nil {
		t.Fatal(err)
	}
	if c.Engine().StepCount() != 3 || rec.Len() != 3 {
		t.Errorf("expected 3 steps recorded, got %d/%d", c.Engine().StepCount(), rec.Len())
	}
}

func TestDrawOverlays(t *testing.T) {
	c, backend, _ := newCad(t)
	if err := c.LoadSchematic(relayCircuit); err != nil {
		t.Fatal(err)
	}
	if err := c.Draw(); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if backend.Len() == 0 || backend.Cmds[0].Kind != render.CmdClear {
		t.Fatalf("expected a frame starting with clear")
	}
	if s := c.Scene(); s.Cursor != nil || s.Ghost != nil {
		t.Errorf("select mode draws no cursor or ghost")
	}

	io := editor.NewIo()
	io.PushKey("w")
	io.PushClick(editor.ButtonPrimary)
	io.SetMouse(200, 50)
	if err := c.NewFrame(io); err != nil {
		t.Fatal(err)
	}
	s := c.Scene()
	if s.Cursor == nil {
		t.Errorf("wiring should draw the cursor")
	}
	if len(s.Route) != 2 {
		t.Errorf("expected the two preview legs, got %v", s.Route)
	}

	io.PushKey("Escape")
	io.PushKey("s")
	if err := c.NewFrame(io); err != nil {
		t.Fatal(err)
	}
	if c.Scene().Ghost == nil {
		t.Errorf("place mode should draw a ghost")
	}
}

func TestInvalidConfigFallsBack(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Default()
	cfg.UndoDepth = 0
	c := New(nil, cfg, WithLogger(log.New(&logs, "", 0)))
	if c.Config() != config.Default() {
		t.Errorf("expected default config")
	}
	if !strings.Contains(logs.String(), "using defaults") {
		t.Errorf("fallback should be logged")
	}
}

// session is one frame of input: keys and clicks at a grid point, with
// start marking the frame after which the simulation is started.
type session struct {
	keys   []string
	x, y   int
	clicks int
	commit bool
	start  bool
}

// switchCircuit builds P1 -> S1 -> K1 through two wires, then flips S1
// closed and open again while running.
var switchCircuit = []session{
	{keys: []string{"p"}, x: 0, y: 0, clicks: 1},
	{keys: []string{"s"}, x: 3, y: 1, clicks: 1},
	{keys: []string{"c"}, x: 6, y: 2, clicks: 1},
	{keys: []string{"w"}, x: 0, y: 0, clicks: 1},
	{x: 3, y: 0, clicks: 1},
	{x: 3, y: 0, clicks: 1, commit: true},
	{x: 3, y: 2, clicks: 1},
	{x: 6, y: 2, clicks: 1},
	{x: 6, y: 2, clicks: 1, commit: true},
	{keys: []string{"Escape"}, start: true},
	{},
	{},
	{x: 3, y: 1, clicks: 1},
	{},
	{},
	{},
	{x: 3, y: 1, clicks: 1},
	{},
	{},
}

func replay(t *testing.T, frames []session) (*Cad, []sim.Snapshot) {
	t.Helper()
	rec := trace.NewRecorder(0)
	c, _, _ := newCad(t, WithRecorder(rec))
	io := editor.NewIo()
	for i, f := range frames {
		for _, k := range f.keys {
			io.PushKey(k)
		}
		io.SetMouse(float64(f.x*geom.GridSize), float64(f.y*geom.GridSize))
		for n := 0; n < f.clicks; n++ {
			io.PushClick(editor.ButtonPrimary)
		}
		if f.commit {
			io.PushDoubleClick(editor.ButtonPrimary)
		}
		if err := c.NewFrame(io); err != nil {
			t.Fatalf("frame %d failed: %v", i, err)
		}
		if f.start {
			if err := c.StartSimulation(); err != nil {
				t.Fatalf("frame %d: %v", i, err)
			}
		}
	}
	return c, rec.Snapshots()
}

func TestReplayIsDeterministic(t *testing.T) {
	c, first := replay(t, switchCircuit)
	if n := c.Document().Len(); n != 5 {
		text, _ := c.SaveSchematic()
		t.Fatalf("expected 5 components, got %d:\n%s", n, text)
	}
	if len(first) != 9 {
		t.Fatalf("expected 9 snapshots, got %d", len(first))
	}

	// S1 closed on the third running frame and opened on the seventh
	coil := make([]bool, len(first))
	for i, s := range first {
		coil[i] = s.Coils["K1"]
	}
	want := []bool{false, false, true, true, true, true, false, false, false}
	if !reflect.DeepEqual(coil, want) {
		t.Errorf("expected coil states %v, got %v", want, coil)
	}

	_, second := replay(t, switchCircuit)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("replaying the same input gave different snapshots:\n%v\n%v", first, second)
	}
}
