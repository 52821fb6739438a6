package analysis

import (
	"context"
	"testing"

	"ix-simulation/internal/config"
	"ix-simulation/internal/engine"
	"ix-simulation/internal/model"
	"ix-simulation/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preset(file string, capacity float64) config.ResinPreset {
	return config.ResinPreset{File: file, Resin: model.ResinBed{
		Name: file, ResinType: model.ResinSAC, BedVolumeL: 1000, Porosity: 0.4, Cells: 5, CapacityEqL: capacity, DeratingFactor: 0.8,
	}}
}

func TestRankResins(t *testing.T) {
	d := simulation.NewDispatcher(engine.NewScreening(), nil)
	water := model.WaterAnalysis{FlowM3H: 10, Ions: map[string]float64{model.IonCalcium: 80.06, model.IonMagnesium: 24.29}}
	broken := preset("broken.yaml", 2.0)
	broken.Resin.Porosity = 2

	presets := []config.ResinPreset{preset("low.yaml", 1.2), broken, preset("high.yaml", 2.2), preset("mid.yaml", 1.8)}
	ranked, err := RankResins(context.Background(), d, water, presets, model.Options{model.OptUseTransport: false}, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	assert.Equal(t, []string{"high.yaml", "mid.yaml", "low.yaml", "broken.yaml"},
		[]string{ranked[0].File, ranked[1].File, ranked[2].File, ranked[3].File})
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 4, ranked[3].Rank)
	assert.Equal(t, "error", ranked[3].Status)
	assert.NotEmpty(t, ranked[3].Message)
	assert.Greater(t, ranked[0].ServiceTimeH, 0.0)
	assert.NotEmpty(t, ranked[0].SimulationID)
}

func TestRankResinsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := simulation.NewDispatcher(engine.NewScreening(), nil)
	_, err := RankResins(ctx, d, model.WaterAnalysis{}, []config.ResinPreset{preset("a.yaml", 2)}, nil, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
