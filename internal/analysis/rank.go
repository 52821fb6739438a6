// Package analysis compares resin presets against one feed water.
package analysis

import (
	"context"
	"math"
	"sort"

	"ix-simulation/internal/config"
	"ix-simulation/internal/model"
	"ix-simulation/internal/simulation"

	"golang.org/x/sync/errgroup"
)

// RankedResin is one preset's result for the water being ranked.
type RankedResin struct {
	Rank           int     `json:"rank"`
	File           string  `json:"file"`
	Resin          string  `json:"resin"`
	Status         string  `json:"status"`
	Message        string  `json:"message,omitempty"`
	ServiceBV      float64 `json:"service_bv"`
	BreakthroughBV float64 `json:"breakthrough_bv,omitempty"`
	ServiceTimeH   float64 `json:"service_time_h,omitempty"`
	SimulationID   string  `json:"simulation_id"`
}

// DefaultParallelism bounds concurrent simulations when callers pass 0.
const DefaultParallelism = 4

// RankResins simulates every preset with the same water and options and
// sorts the results descending by breakthrough BV (service BV when transport
// is off). Failed runs sort last and keep their message.
func RankResins(ctx context.Context, d *simulation.Dispatcher, water model.WaterAnalysis, presets []config.ResinPreset, opts model.Options, parallelism int) ([]RankedResin, error) {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	out := make([]RankedResin, len(presets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, p := range presets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := d.SimulateDirect(ctx, model.SimulationInput{
				Water:         water,
				Configuration: p.Resin,
				Options:       opts,
			})
			out[i] = summarize(p, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func summarize(p config.ResinPreset, res *model.SimulationOutput) RankedResin {
	r := RankedResin{
		File:         p.File,
		Resin:        p.Resin.Name,
		Status:       string(res.Status),
		Message:      res.Message,
		SimulationID: res.ID,
	}
	r.ServiceBV = res.Performance["service_bv"]
	r.BreakthroughBV = res.Performance["breakthrough_bv"]
	r.ServiceTimeH = res.Performance["service_time_h"]
	return r
}

func score(r RankedResin) float64 {
	if r.Status != string(model.StatusSuccess) {
		return math.Inf(-1)
	}
	if r.BreakthroughBV > 0 {
		return r.BreakthroughBV
	}
	return r.ServiceBV
}
