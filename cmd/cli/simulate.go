package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"ix-simulation/internal/config"
	"ix-simulation/internal/model"
	"ix-simulation/internal/simulation"

	"github.com/spf13/cobra"
)

var (
	casePath    string
	profileOut  string
	metricsOut  string
	simNoTransp bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one simulation case",
	Example: `  ixsim simulate --case examples/case.yaml --out results/profile.csv
  ixsim simulate --case examples/case.yaml --engine remote --engine-url http://simhost:9000`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&casePath, "case", "", "path to YAML case file (required)")
	simulateCmd.Flags().StringVar(&profileOut, "out", "", "optional path for the breakthrough profile CSV")
	simulateCmd.Flags().StringVar(&metricsOut, "metrics", "", "optional path for the metrics CSV")
	simulateCmd.Flags().BoolVar(&simNoTransp, "no-transport", false, "skip the front tracker (use_transport=false)")
	_ = simulateCmd.MarkFlagRequired("case")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(casePath)
	if err != nil {
		return err
	}
	log := newLogger()
	d, err := newDispatcher(log)
	if err != nil {
		return err
	}

	in := cfg.Input()
	if simNoTransp {
		in.Options[model.OptUseTransport] = false
	}
	out := d.SimulateDirect(context.Background(), in)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "status=%s engine=%s runtime=%.3fs id=%s\n", out.Status, out.Engine, out.ActualRuntimeSeconds, out.ID)
	if out.Message != "" {
		fmt.Fprintf(w, "message: %s\n", out.Message)
	}
	printMetrics(w, "performance", out.Performance)
	printMetrics(w, "water quality", out.WaterQuality)

	if profileOut != "" && len(out.Profile) > 0 {
		if err := writeWith(profileOut, func(p string) error { return simulation.WriteProfileCSV(p, out.Profile) }); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %d profile rows to %s\n", len(out.Profile), profileOut)
	}
	if metricsOut != "" {
		if err := writeWith(metricsOut, func(p string) error { return simulation.WriteMetricsCSV(p, out) }); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote metrics to %s\n", metricsOut)
	}
	if out.Status.IsError() {
		return &exitError{code: 1}
	}
	return nil
}

func printMetrics(w io.Writer, title string, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-30s %12.4f\n", k, m[k])
	}
}

// writeWith ensures the output directory exists before writing.
func writeWith(path string, write func(string) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return write(path)
}
