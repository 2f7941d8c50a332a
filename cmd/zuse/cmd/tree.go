package cmd

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Dump the raw s-expression structure of a file",
	Long: `Parse a file as plain s-expressions without checking the schematic
grammar. Useful to locate unbalanced parentheses in hand edited files.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	sexps, err := sexp.ParseString(string(data))
	if err != nil {
		return fmt.Errorf("error parsing s-expression: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s (%d bytes)\n", args[0], len(data))
	fmt.Fprintf(out, "Top level expressions: %d\n", len(sexps))
	for i, s := range sexps {
		if s.IsLeaf() {
			fmt.Fprintf(out, "  #%d leaf %v\n", i+1, s)
			continue
		}
		fmt.Fprintf(out, "  #%d list (%d leaves)\n", i+1, s.LeafCount())
		if verbose {
			fmt.Fprintf(out, "    %v\n", s)
		}
	}
	return nil
}
