// Package cad is the host facing API of the editor core. A host creates a
// Cad with a rendering backend, feeds it one Io per frame through NewFrame
// and asks it to Draw. Everything runs on the caller's goroutine.
package cad

import (
	"log"

	"github.com/pkg/errors"

	"github.com/OpenTraceLab/zuse/pkg/config"
	"github.com/OpenTraceLab/zuse/pkg/editor"
	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/render"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
	"github.com/OpenTraceLab/zuse/pkg/sim"
	"github.com/OpenTraceLab/zuse/pkg/trace"
	"github.com/OpenTraceLab/zuse/pkg/zse"
)

// ErrNotInitialized is returned by control operations used before the
// first frame size is known, and by Draw without a backend.
var ErrNotInitialized = errors.New("cad: not initialized")

// Cad ties the document, simulation, editor and renderer together.
type Cad struct {
	backend render.Backend
	cfg     config.Config
	colors  *render.Colors
	logger  *log.Logger

	doc      *schematic.Document
	engine   *sim.Engine
	editor   *editor.Editor
	metrics  *sim.Metrics
	recorder *trace.Recorder

	ready bool
}

// Option configures a Cad.
type Option func(*Cad)

// WithLogger sets the logger for user visible events.
func WithLogger(l *log.Logger) Option {
	return func(c *Cad) {
		c.logger = l
	}
}

// WithMetrics reports simulation metrics to m.
func WithMetrics(m *sim.Metrics) Option {
	return func(c *Cad) {
		c.metrics = m
	}
}

// WithRecorder records a snapshot after every simulation step.
func WithRecorder(r *trace.Recorder) Option {
	return func(c *Cad) {
		c.recorder = r
	}
}

// New creates a Cad drawing to backend. An invalid cfg falls back to the
// defaults.
func New(backend render.Backend, cfg config.Config, opts ...Option) *Cad {
	c := &Cad{
		backend: backend,
		cfg:     cfg,
		logger:  log.Default(),
		doc:     schematic.NewDocument(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		c.logger.Printf("cad: %v, using defaults", err)
		c.cfg = config.Default()
	}
	c.colors = render.GetColors(c.cfg.ThemeValue())

	var simOpts []sim.Option
	if c.metrics != nil {
		simOpts = append(simOpts, sim.WithMetrics(c.metrics))
	}
	c.engine = sim.New(c.doc, simOpts...)
	c.editor = editor.New(c.doc, c.engine,
		editor.WithHistoryDepth(c.cfg.UndoDepth),
		editor.WithPinchSensitivity(c.cfg.PinchSensitivity),
		editor.WithScaleLimits(c.cfg.MinScale, c.cfg.MaxScale),
	)
	return c
}

func (c *Cad) Document() *schematic.Document { return c.doc }
func (c *Cad) Engine() *sim.Engine           { return c.engine }
func (c *Cad) Editor() *editor.Editor        { return c.editor }
func (c *Cad) Config() config.Config         { return c.cfg }

// SetColors switches the color scheme.
func (c *Cad) SetColors(colors *render.Colors) {
	if colors != nil {
		c.colors = colors
	}
}

// SetFrameSize sets the canvas size in device independent pixels.
func (c *Cad) SetFrameSize(width, height int, pixelRatio float64) {
	c.editor.View().UpdateScreenSize(width, height, pixelRatio)
	c.ready = true
}

// NewFrame consumes one frame of input, then advances a running simulation
// by the configured number of steps. io must carry a screen size unless
// SetFrameSize was called.
func (c *Cad) NewFrame(io *editor.Io) error {
	if _, _, ok := io.ScreenSize(); ok {
		c.ready = true
	}
	if !c.ready {
		io.Reset()
		return ErrNotInitialized
	}
	err := c.editor.Frame(io)
	if c.engine.Running() {
		for i := 0; i < c.cfg.StepsPerFrame; i++ {
			c.step()
		}
	}
	return err
}

func (c *Cad) step() {
	c.engine.Step()
	if c.recorder != nil {
		c.recorder.Record(c.engine.Snapshot())
	}
}

// Scene returns what Draw would render.
func (c *Cad) Scene() render.Scene {
	s := render.Scene{
		Doc:        c.doc,
		View:       c.editor.View(),
		Colors:     c.colors,
		Sim:        c.engine,
		ShowGrid:   c.cfg.ShowGrid,
		ShowLabels: c.cfg.ShowLabels,
	}
	if g, ok := c.editor.Ghost(); ok {
		s.Ghost = &g
	}
	if r := c.editor.Route(); r != nil {
		for _, l := range r.Legs() {
			s.Route = append(s.Route, [2]geom.Point{l.From, l.To})
		}
		for _, l := range r.Preview(c.editor.Cursor()) {
			s.Route = append(s.Route, [2]geom.Point{l.From, l.To})
		}
	}
	if t := c.editor.Tool(); t != editor.Select {
		cursor := c.editor.Cursor()
		s.Cursor = &cursor
	}
	return s
}

// Draw renders the current frame on the backend.
func (c *Cad) Draw() error {
	if c.backend == nil || !c.ready {
		return ErrNotInitialized
	}
	return render.Frame(c.Scene()).Replay(c.backend)
}

// StartSimulation starts the simulation. Starting twice is a no-op.
func (c *Cad) StartSimulation() error {
	if !c.ready {
		return ErrNotInitialized
	}
	if !c.engine.Running() {
		c.engine.Start()
		c.logger.Printf("simulation started (%d components)", c.doc.Len())
	}
	return nil
}

// StopSimulation stops the simulation. Stopping twice is a no-op.
func (c *Cad) StopSimulation() error {
	if !c.ready {
		return ErrNotInitialized
	}
	if c.engine.Running() {
		steps := c.engine.StepCount()
		c.engine.Stop()
		c.logger.Printf("simulation stopped after %d steps", steps)
	}
	return nil
}

// SaveSchematic serializes the document.
func (c *Cad) SaveSchematic() (string, error) {
	if !c.ready {
		return "", ErrNotInitialized
	}
	return string(zse.Save(c.doc)), nil
}

// LoadSchematic replaces the document with text. On a parse error the
// document is unchanged. A successful load stops the simulation, resets the
// editing session and fits the view.
func (c *Cad) LoadSchematic(text string) error {
	if !c.ready {
		return ErrNotInitialized
	}
	if err := zse.Load(c.doc, []byte(text)); err != nil {
		c.logger.Printf("load rejected: %v", err)
		return err
	}
	c.editor.Reset()
	c.editor.FitView()
	c.logger.Printf("loaded %d components", c.doc.Len())
	return nil
}

// FitView zooms onto the whole schematic.
func (c *Cad) FitView() {
	c.editor.FitView()
}
