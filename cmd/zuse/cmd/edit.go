package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/zuse/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit [schematic.zse]",
	Short: "Open the graphical editor",
	Long: `Open the editor window, optionally loading a schematic.

Keys: W wire, C relay coil, S switch, P power source, R rotate, Y flip,
D or Delete delete, Z undo, X redo, Esc cancel. Ctrl+O opens, Ctrl+S saves.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		opts := ui.Options{Config: cfg, ConfigPath: path}
		if len(args) == 1 {
			opts.File = args[0]
		}
		return ui.Run(opts)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
