package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/zuse/pkg/schematic"
)

var (
	infoJSON  bool
	infoKiCad bool
)

var infoCmd = &cobra.Command{
	Use:   "info <schematic.zse>",
	Short: "Show schematic and netlist information",
	Long: `Display a summary of a schematic and its static connectivity.

With --json or --kicad the netlist is printed in that format instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print the netlist as JSON")
	infoCmd.Flags().BoolVar(&infoKiCad, "kicad", false, "print the netlist in KiCad netlist format")
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := loadSchematic(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	nl := doc.Netlist()

	switch {
	case infoJSON:
		data, err := nl.ExportJSON()
		if err != nil {
			return fmt.Errorf("error exporting netlist: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	case infoKiCad:
		text, err := nl.ExportKiCad(args[0])
		if err != nil {
			return fmt.Errorf("error exporting netlist: %w", err)
		}
		fmt.Fprint(out, text)
		return nil
	}

	printSummary(out, args[0], doc)
	return nil
}

func printSummary(out io.Writer, name string, doc *schematic.Document) {
	nl := doc.Netlist()
	fmt.Fprintf(out, "Schematic: %s\n", name)
	fmt.Fprintln(out)

	byKind := make(map[string][]string)
	for _, c := range doc.Components() {
		k := c.Kind.String()
		byKind[k] = append(byKind[k], c.ID)
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Fprintln(out, "Statistics:")
	fmt.Fprintf(out, "  Components: %d\n", doc.Len())
	fmt.Fprintf(out, "  Nets: %d\n", nl.NetCount())
	fmt.Fprintf(out, "  Connected nets: %d\n", nl.MultiPinNetCount())
	fmt.Fprintf(out, "  Junctions: %d\n", len(nl.Junctions()))
	fmt.Fprintln(out)

	if len(kinds) > 0 {
		fmt.Fprintln(out, "Components:")
		for _, k := range kinds {
			ids := byKind[k]
			sort.Strings(ids)
			fmt.Fprintf(out, "  %s: %s\n", k, strings.Join(ids, ", "))
		}
	}
}
