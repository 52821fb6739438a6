package main

import (
	"context"
	"fmt"

	"ix-simulation/internal/analysis"
	"ix-simulation/internal/config"
	"ix-simulation/internal/data"
	"ix-simulation/internal/model"

	"github.com/spf13/cobra"
)

var (
	rankWater    string
	rankResinDir string
	rankParallel int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank resin presets by bed volumes to breakthrough for one water",
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankWater, "water", "", "water analysis file (JSON or YAML) or a sample water name")
	rankCmd.Flags().StringVar(&rankResinDir, "resins", envOr("RESIN_DIR", "examples/resins"), "resin preset directory")
	rankCmd.Flags().IntVar(&rankParallel, "parallel", analysis.DefaultParallelism, "concurrent simulations")
	_ = rankCmd.MarkFlagRequired("water")
}

func runRank(cmd *cobra.Command, _ []string) error {
	water, err := resolveWater(rankWater)
	if err != nil {
		return err
	}
	presets, err := config.LoadResinDir(rankResinDir)
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		return fmt.Errorf("no resin presets in %s", rankResinDir)
	}

	d, err := newDispatcher(newLogger())
	if err != nil {
		return err
	}
	ranked, err := analysis.RankResins(context.Background(), d, water, presets, nil, rankParallel)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "water: %s\n", water.Name)
	fmt.Fprintf(w, "%-4s %-24s %-26s %-12s %-12s %-10s\n", "rank", "file", "resin", "service_bv", "bt_bv", "hours")
	for _, r := range ranked {
		if r.Status != string(model.StatusSuccess) {
			fmt.Fprintf(w, "%-4d %-24s %-26s error: %s\n", r.Rank, r.File, r.Resin, r.Message)
			continue
		}
		fmt.Fprintf(w, "%-4d %-24s %-26s %-12.1f %-12.1f %-10.1f\n",
			r.Rank, r.File, r.Resin, r.ServiceBV, r.BreakthroughBV, r.ServiceTimeH)
	}
	return nil
}

// resolveWater accepts a file path or the name of a built-in sample water.
func resolveWater(ref string) (model.WaterAnalysis, error) {
	if w, ok := data.DefaultCatalog().Find(ref); ok {
		return w, nil
	}
	w, err := data.LoadWaterAnalysis(ref)
	if err != nil {
		return model.WaterAnalysis{}, err
	}
	return *w, nil
}
