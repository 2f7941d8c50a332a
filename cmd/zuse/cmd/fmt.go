package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/zuse/pkg/zse"
)

var (
	fmtWrite bool
	fmtCheck bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <schematic.zse>...",
	Short: "Rewrite schematics in canonical form",
	Long: `Parse each file and print it in canonical form. Comments are not kept.

With -w the files are rewritten in place; with --check nothing is written and
the command fails if any file is not canonical.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to the source file")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "report files that are not canonical")
}

func runFmt(cmd *cobra.Command, args []string) error {
	var unformatted []string
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading schematic: %w", err)
		}
		comps, err := zse.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", path, err)
		}
		out := zse.Marshal(comps)

		switch {
		case fmtCheck:
			if !bytes.Equal(out, data) {
				unformatted = append(unformatted, path)
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
		case fmtWrite:
			if bytes.Equal(out, data) {
				continue
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", path, err)
			}
		default:
			cmd.OutOrStdout().Write(out)
		}
	}
	if len(unformatted) > 0 {
		return fmt.Errorf("%d file(s) not in canonical form", len(unformatted))
	}
	return nil
}
