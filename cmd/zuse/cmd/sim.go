package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/zuse/pkg/sim"
	"github.com/OpenTraceLab/zuse/pkg/trace"
)

var (
	simSteps   int
	simToggles []string
	simXLSX    string
	simMetrics bool
	simQuiet   bool
)

var simCmd = &cobra.Command{
	Use:   "sim <schematic.zse>",
	Short: "Run the simulation headless",
	Long: `Run a schematic for a number of steps and print the relay states.

Switches can be toggled at given steps with --toggle ID:STEP, which flips the
switch just before that step runs (steps count from 1).

Examples:
  zuse sim circuit.zse --steps 20
  zuse sim circuit.zse --toggle S1:5 --toggle S1:10 --xlsx trace.xlsx
  zuse sim circuit.zse --metrics`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().IntVarP(&simSteps, "steps", "n", 10, "number of steps")
	simCmd.Flags().StringArrayVar(&simToggles, "toggle", nil, "toggle switch ID before step STEP (ID:STEP)")
	simCmd.Flags().StringVar(&simXLSX, "xlsx", "", "write the trace to an XLSX workbook")
	simCmd.Flags().BoolVar(&simMetrics, "metrics", false, "print simulation metrics in Prometheus text format")
	simCmd.Flags().BoolVarP(&simQuiet, "quiet", "q", false, "only print the summary")
}

// parseToggles maps step number to the switches flipped before it.
func parseToggles(specs []string) (map[int][]string, error) {
	out := make(map[int][]string)
	for _, s := range specs {
		i := strings.LastIndex(s, ":")
		if i <= 0 {
			return nil, fmt.Errorf("invalid toggle %q: expected ID:STEP", s)
		}
		step, err := strconv.Atoi(s[i+1:])
		if err != nil || step < 1 {
			return nil, fmt.Errorf("invalid toggle %q: bad step", s)
		}
		out[step] = append(out[step], s[:i])
	}
	return out, nil
}

func runSim(cmd *cobra.Command, args []string) error {
	if simSteps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}
	toggles, err := parseToggles(simToggles)
	if err != nil {
		return err
	}
	doc, err := loadSchematic(args[0])
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	eng := sim.New(doc, sim.WithMetrics(sim.NewMetrics(reg)))
	rec := trace.NewRecorder(0)
	out := cmd.OutOrStdout()

	eng.Start()
	for step := 1; step <= simSteps; step++ {
		for _, id := range toggles[step] {
			if err := eng.Toggle(id); err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}
		}
		eng.Step()
		snap := eng.Snapshot()
		rec.Record(snap)
		if !simQuiet {
			printStep(out, snap)
		}
	}
	eng.Stop()

	printTraceSummary(out, rec.Summary())

	if simXLSX != "" {
		data, err := rec.XLSX()
		if err != nil {
			return fmt.Errorf("error building workbook: %w", err)
		}
		if err := os.WriteFile(simXLSX, data, 0o644); err != nil {
			return fmt.Errorf("error writing workbook: %w", err)
		}
		fmt.Fprintf(out, "Trace written to %s\n", simXLSX)
	}

	if simMetrics {
		mfs, err := reg.Gather()
		if err != nil {
			return fmt.Errorf("error gathering metrics: %w", err)
		}
		for _, mf := range mfs {
			if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
				return fmt.Errorf("error writing metrics: %w", err)
			}
		}
	}
	return nil
}

func onIDs(m map[string]bool) []string {
	var ids []string
	for id, on := range m {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func printStep(out io.Writer, s sim.Snapshot) {
	energized := 0
	for _, e := range s.Energized {
		if e {
			energized++
		}
	}
	fmt.Fprintf(out, "step %3d  nets %2d  coils [%s]  latched [%s]\n",
		s.Step, energized, strings.Join(onIDs(s.Coils), " "), strings.Join(onIDs(s.Latched), " "))
}

func printTraceSummary(out io.Writer, sum trace.Summary) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Steps: %d\n", sum.Steps)
	fmt.Fprintf(out, "Energized nets: mean %.2f, max %.0f\n", sum.MeanEnergized, sum.MaxEnergized)
	if len(sum.Channels) == 0 {
		return
	}
	fmt.Fprintln(out, "Channels:")
	for _, c := range sum.Channels {
		fmt.Fprintf(out, "  %-12s duty %5.1f%%  transitions %d\n", c.Channel, c.Duty*100, c.Transitions)
	}
}
