package ui

import (
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/OpenTraceLab/zuse/pkg/config"
)

// Options configure the editor window.
type Options struct {
	Config     config.Config
	ConfigPath string
	// File is loaded at startup when set.
	File string
}

// Run opens the editor window and blocks until it closes.
func Run(opts Options) error {
	go func() {
		w := new(app.Window)
		w.Option(app.Title("zuse"), app.Size(unit.Dp(float32(opts.Config.Window.Width)), unit.Dp(float32(opts.Config.Window.Height))))
		ui := New(w, opts)
		if err := ui.Run(); err != nil {
			log.Printf("ui: %v", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
