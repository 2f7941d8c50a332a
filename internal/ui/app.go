package ui

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"gioui.org/app"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/zuse/pkg/backend/giobackend"
	"github.com/OpenTraceLab/zuse/pkg/cad"
	"github.com/OpenTraceLab/zuse/pkg/config"
	"github.com/OpenTraceLab/zuse/pkg/editor"
	"github.com/OpenTraceLab/zuse/pkg/render"
)

type toolOption struct {
	tool  editor.Tool
	label string
}

var toolOptions = []toolOption{
	{editor.Select, "Select (Esc)"},
	{editor.Wire, "Wire (W)"},
	{editor.PlaceRelayCoil, "Relay coil (C)"},
	{editor.PlaceSwitch, "Switch (S)"},
	{editor.PlacePowerSource, "Power (P)"},
}

// fileResult carries the outcome of a file dialog back to the UI goroutine.
type fileResult struct {
	path string
	text string
	err  error
}

// App is the editor window.
type App struct {
	window   *app.Window
	ops      op.Ops
	gvTheme  *theme.Theme
	explorer *explorer.Explorer

	cfg     config.Config
	cfgPath string
	dark    bool

	cad     *cad.Cad
	backend *giobackend.Backend
	io      *editor.Io

	path   string
	status string
	loaded chan fileResult

	openIcon, saveIcon, runIcon, stopIcon, fitIcon, themeIcon *widget.Icon
	openBtn, saveBtn, runBtn, fitBtn, themeBtn                 widget.Clickable

	toolMenu    *menu.DropdownMenu
	toolMenuBtn widget.Clickable

	canvasClick gesture.Click

	renaming     string
	renameEditor widget.Editor
	renameOK     widget.Clickable
	renameCancel widget.Clickable
}

// New builds the window state. A startup file that fails to load is logged
// and the editor starts empty.
func New(w *app.Window, opts Options) *App {
	a := &App{
		window:   w,
		gvTheme:  theme.NewTheme("", nil, true),
		explorer: explorer.NewExplorer(w),
		cfg:      opts.Config,
		cfgPath:  opts.ConfigPath,
		io:       editor.NewIo(),
		loaded:   make(chan fileResult, 1),
	}
	a.dark = a.cfg.ThemeValue() == render.ThemeDark
	a.applyPalette()
	a.backend = giobackend.New(a.gvTheme.Theme)
	a.cad = cad.New(a.backend, a.cfg)
	a.renameEditor.SingleLine = true
	a.renameEditor.Submit = true
	a.initIcons()
	a.toolMenu = a.buildToolMenu()

	if opts.File != "" {
		go func() {
			a.loaded <- readFile(opts.File)
		}()
	}
	return a
}

// Run processes window events until the window is closed.
func (a *App) Run() error {
	for {
		switch e := a.window.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, e)
			a.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (a *App) initIcons() {
	makeIcon := func(data []byte, name string) *widget.Icon {
		icon, err := widget.NewIcon(data)
		if err != nil {
			log.Printf("ui: failed to load %s icon: %v", name, err)
			return nil
		}
		return icon
	}
	a.openIcon = makeIcon(icons.FileFolderOpen, "open")
	a.saveIcon = makeIcon(icons.ContentSave, "save")
	a.runIcon = makeIcon(icons.AVPlayArrow, "run")
	a.stopIcon = makeIcon(icons.AVStop, "stop")
	a.fitIcon = makeIcon(icons.NavigationFullscreen, "fit")
	a.themeIcon = makeIcon(icons.ActionInvertColors, "theme")
}

func (a *App) buildToolMenu() *menu.DropdownMenu {
	opts := make([]menu.MenuOption, 0, len(toolOptions))
	for _, o := range toolOptions {
		opt := o
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				a.cad.Editor().SetTool(opt.tool)
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				lbl := material.Body1(th.Theme, opt.label)
				if a.currentTool() == opt.tool {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(200)
	return drop
}

// currentTool folds the route-in-progress state into Wire for display.
func (a *App) currentTool() editor.Tool {
	t := a.cad.Editor().Tool()
	if t == editor.Wiring {
		return editor.Wire
	}
	return t
}

func (a *App) applyPalette() {
	if a.dark {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 255},
			Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
			ContrastBg: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
			Bg2:        color.NRGBA{R: 34, G: 40, B: 50, A: 255},
		})
	} else {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
			Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
			ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
		})
	}
}

func (a *App) Logf(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	log.Print(a.status)
	a.window.Invalidate()
}

func (a *App) handleShortcuts(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "O", Required: key.ModShortcut},
			key.Filter{Name: "S", Required: key.ModShortcut},
		)
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		switch ke.Name {
		case "O":
			a.openFile()
		case "S":
			a.saveFile()
		}
	}

	if a.openBtn.Clicked(gtx) {
		a.openFile()
	}
	if a.saveBtn.Clicked(gtx) {
		a.saveFile()
	}
	if a.runBtn.Clicked(gtx) {
		a.toggleSimulation()
	}
	if a.fitBtn.Clicked(gtx) {
		a.cad.FitView()
	}
	if a.themeBtn.Clicked(gtx) {
		a.toggleTheme()
	}

	select {
	case res := <-a.loaded:
		a.finishLoad(res)
	default:
	}
}

func (a *App) toggleSimulation() {
	var err error
	if a.cad.Engine().Running() {
		err = a.cad.StopSimulation()
	} else {
		err = a.cad.StartSimulation()
	}
	if err != nil {
		a.Logf("simulation: %v", err)
	}
}

func (a *App) toggleTheme() {
	a.dark = !a.dark
	t := render.ThemeLight
	if a.dark {
		t = render.ThemeDark
	}
	a.applyPalette()
	a.cad.SetColors(render.GetColors(t))
	a.cfg.Theme = t.String()
	if a.cfgPath != "" {
		if err := config.Save(a.cfgPath, a.cfg); err != nil {
			log.Printf("ui: save config: %v", err)
		}
	}
}

func readFile(path string) fileResult {
	data, err := os.ReadFile(path)
	return fileResult{path: path, text: string(data), err: err}
}

func (a *App) openFile() {
	go func() {
		file, err := a.explorer.ChooseFile("zse")
		if err != nil {
			if err != explorer.ErrUserDecline {
				log.Printf("ui: file picker: %v", err)
			}
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		res := fileResult{text: string(data), err: err}
		if f, ok := file.(*os.File); ok {
			res.path = f.Name()
		}
		a.loaded <- res
		a.window.Invalidate()
	}()
}

func (a *App) finishLoad(res fileResult) {
	if res.err != nil {
		a.Logf("open %s: %v", res.path, res.err)
		return
	}
	if err := a.cad.LoadSchematic(res.text); err != nil {
		a.Logf("open %s: %v", res.path, err)
		return
	}
	a.path = res.path
	if a.path != "" {
		a.window.Option(app.Title("zuse - " + filepath.Base(a.path)))
	}
	a.Logf("loaded %s (%d components)", a.path, a.cad.Document().Len())
}

func (a *App) saveFile() {
	text, err := a.cad.SaveSchematic()
	if err != nil {
		a.Logf("save: %v", err)
		return
	}
	if a.path != "" {
		if err := os.WriteFile(a.path, []byte(text), 0o644); err != nil {
			a.Logf("save %s: %v", a.path, err)
			return
		}
		a.Logf("saved %s", a.path)
		return
	}
	go func() {
		file, err := a.explorer.CreateFile("schematic.zse")
		if err != nil {
			if err != explorer.ErrUserDecline {
				log.Printf("ui: file picker: %v", err)
			}
			return
		}
		defer file.Close()
		if _, err := io.WriteString(file, text); err != nil {
			log.Printf("ui: save: %v", err)
			return
		}
		log.Printf("ui: schematic saved")
	}()
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.handleShortcuts(gtx)
	paint.Fill(gtx.Ops, a.gvTheme.Palette.Bg)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Stack{}.Layout(gtx,
				layout.Expanded(a.layoutCanvas),
				layout.Stacked(a.layoutRename),
			)
		}),
		layout.Rigid(a.layoutStatus),
	)
}

func (a *App) iconButton(gtx layout.Context, btn *widget.Clickable, icon *widget.Icon, desc string) layout.Dimensions {
	if icon == nil {
		return material.Button(a.gvTheme.Theme, btn, desc).Layout(gtx)
	}
	b := material.IconButton(a.gvTheme.Theme, btn, icon, desc)
	b.Size = unit.Dp(20)
	b.Inset = layout.UniformInset(unit.Dp(6))
	return b.Layout(gtx)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	spacer := layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout)
	runIcon, runDesc := a.runIcon, "Start simulation"
	if a.cad.Engine().Running() {
		runIcon, runDesc = a.stopIcon, "Stop simulation"
	}
	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.iconButton(gtx, &a.openBtn, a.openIcon, "Open (Ctrl+O)")
			}),
			spacer,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.iconButton(gtx, &a.saveBtn, a.saveIcon, "Save (Ctrl+S)")
			}),
			spacer,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.iconButton(gtx, &a.runBtn, runIcon, runDesc)
			}),
			spacer,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.iconButton(gtx, &a.fitBtn, a.fitIcon, "Fit view")
			}),
			spacer,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.iconButton(gtx, &a.themeBtn, a.themeIcon, "Toggle theme")
			}),
			spacer,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.toolMenuBtn.Clicked(gtx) {
					a.toolMenu.ToggleVisibility(gtx)
				}
				dims := material.Button(a.gvTheme.Theme, &a.toolMenuBtn, "Tool: "+a.currentTool().String()).Layout(gtx)
				a.toolMenu.Layout(gtx, a.gvTheme)
				return dims
			}),
		)
	})
}

func (a *App) layoutStatus(gtx layout.Context) layout.Dimensions {
	ed := a.cad.Editor()
	line := fmt.Sprintf("%s | %d components | sim %s | zoom %.2f",
		ed.Tool(), a.cad.Document().Len(), a.cad.Engine().State(), ed.View().Scale)
	if a.status != "" {
		line += " | " + a.status
	}
	return layout.UniformInset(unit.Dp(4)).Layout(gtx, material.Caption(a.gvTheme.Theme, line).Layout)
}

// layoutCanvas routes input into the editor, advances one frame and draws.
func (a *App) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	ratio := float64(gtx.Metric.PxPerDp)
	if ratio <= 0 {
		ratio = 1
	}
	a.io.SetScreen(int(float64(size.X)/ratio), int(float64(size.Y)/ratio), ratio)

	if a.renaming == "" {
		a.canvasInput(gtx, ratio)
	}
	if err := a.cad.NewFrame(a.io); err != nil {
		a.Logf("%v", err)
	}
	if id, ok := a.cad.Editor().PendingRename(); ok && a.renaming == "" {
		a.renaming = id
		a.renameEditor.SetText(id)
		gtx.Execute(key.FocusCmd{Tag: &a.renameEditor})
	}

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, a)
	a.canvasClick.Add(gtx.Ops)
	pointer.CursorCrosshair.Add(gtx.Ops)
	a.backend.Begin(gtx)
	if err := a.cad.Draw(); err != nil {
		log.Printf("ui: draw: %v", err)
	}
	area.Pop()

	if a.cad.Engine().Running() {
		gtx.Execute(op.InvalidateCmd{})
	}
	return layout.Dimensions{Size: size}
}

func (a *App) canvasInput(gtx layout.Context, ratio float64) {
	for {
		ev, ok := gtx.Event(
			key.FocusFilter{Target: a},
			pointer.Filter{
				Target:  a,
				Kinds:   pointer.Move | pointer.Drag | pointer.Press | pointer.Scroll,
				ScrollX: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
				ScrollY: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
			},
		)
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		a.io.SetMouse(float64(pe.Position.X)/ratio, float64(pe.Position.Y)/ratio)
		switch pe.Kind {
		case pointer.Press:
			gtx.Execute(key.FocusCmd{Tag: a})
		case pointer.Scroll:
			scroll(a.io, pe.Scroll, pe.Modifiers)
		}
	}

	for {
		ev, ok := a.canvasClick.Update(gtx.Source)
		if !ok {
			break
		}
		click(a.io, ev)
	}

	for {
		ev, ok := gtx.Event(key.Filter{Focus: a})
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press || ke.Modifiers.Contain(key.ModShortcut) {
			continue
		}
		a.io.PushKey(keyName(ke.Name))
	}
}

func (a *App) layoutRename(gtx layout.Context) layout.Dimensions {
	if a.renaming == "" {
		return layout.Dimensions{}
	}
	for {
		ev, ok := a.renameEditor.Update(gtx)
		if !ok {
			break
		}
		if _, ok := ev.(widget.SubmitEvent); ok {
			a.finishRename(true)
		}
	}
	if a.renameOK.Clicked(gtx) {
		a.finishRename(true)
	}
	if a.renameCancel.Clicked(gtx) {
		a.finishRename(false)
	}
	if a.renaming == "" {
		return layout.Dimensions{}
	}

	th := a.gvTheme.Theme
	gtx.Constraints.Min = image.Point{}
	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return layout.Dimensions{Size: gtx.Constraints.Min}
			},
			func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Rigid(material.Body1(th, "Rename "+a.renaming).Layout),
						layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							gtx.Constraints.Min.X = gtx.Dp(unit.Dp(200))
							return material.Editor(th, &a.renameEditor, "identifier").Layout(gtx)
						}),
						layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return layout.Flex{}.Layout(gtx,
								layout.Rigid(material.Button(th, &a.renameOK, "Rename").Layout),
								layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
								layout.Rigid(material.Button(th, &a.renameCancel, "Cancel").Layout),
							)
						}),
					)
				})
			},
		)
	})
}

func (a *App) finishRename(accept bool) {
	ed := a.cad.Editor()
	old := a.renaming
	if accept {
		if err := ed.Rename(old, a.renameEditor.Text()); err != nil {
			a.Logf("rename %s: %v", old, err)
			return
		}
	} else {
		ed.CancelRename()
	}
	a.renaming = ""
	a.window.Invalidate()
}
