package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/zuse/pkg/config"
	"github.com/OpenTraceLab/zuse/pkg/schematic"
	"github.com/OpenTraceLab/zuse/pkg/zse"
)

var (
	// Global flags
	verbose bool
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "zuse",
	Short: "zuse - relay logic schematic editor and simulator",
	Long: `zuse edits and simulates relay logic schematics stored as .zse files.

Examples:
  zuse edit circuit.zse                  # Open the graphical editor
  zuse info circuit.zse --json           # Print the netlist as JSON
  zuse sim circuit.zse --steps 20        # Simulate headless
  zuse export circuit.zse --png out.png  # Render to an image
  zuse fmt -w circuit.zse                # Rewrite in canonical form`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the user config dir)")
}

// loadConfig reads --config, or the default location when the flag is unset.
func loadConfig() (config.Config, string, error) {
	path := cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default(), "", nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, path, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, path, nil
}

// loadSchematic parses a .zse file into a new document.
func loadSchematic(path string) (*schematic.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading schematic: %w", err)
	}
	doc := schematic.NewDocument()
	if err := zse.Load(doc, data); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	log.Printf("loaded %s: %d components", path, doc.Len())
	return doc, nil
}
