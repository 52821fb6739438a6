package simulation

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ix-simulation/internal/engine"
	"ix-simulation/internal/logging"
	"ix-simulation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput(opts model.Options) model.SimulationInput {
	return model.SimulationInput{
		Water: model.WaterAnalysis{
			Name:    "well 3",
			FlowM3H: 50,
			Ions:    map[string]float64{model.IonCalcium: 80.06, model.IonMagnesium: 24.29},
		},
		Configuration: model.ResinBed{ResinType: model.ResinSAC, BedVolumeL: 6250, Porosity: 0.4, Cells: 10, CapacityEqL: 2.0},
		Options:       opts,
	}
}

func TestSimulateDirectFillsDefaults(t *testing.T) {
	tests := []struct {
		name      string
		opts      model.Options
		transport any
		derating  any
	}{
		{"nil options", nil, true, true},
		{"empty options", model.Options{}, true, true},
		{"explicit false kept", model.Options{model.OptUseTransport: false, model.OptApplyDerating: false}, false, false},
		{"one flag set", model.Options{model.OptApplyDerating: false}, true, false},
		{"non-bool value kept", model.Options{model.OptUseTransport: "no"}, "no", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen model.Options
			d := NewDispatcher(engine.Func(func(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
				seen = in.Options
				return &model.SimulationOutput{}, nil
			}), nil)

			before := tt.opts.Clone()
			out := d.SimulateDirect(context.Background(), sampleInput(tt.opts))
			require.NotNil(t, out)
			assert.Equal(t, tt.transport, seen[model.OptUseTransport])
			assert.Equal(t, tt.derating, seen[model.OptApplyDerating])
			if tt.opts != nil {
				assert.Equal(t, before, tt.opts)
			}
		})
	}
}

func TestSimulateDirectDoesNotMutateOptions(t *testing.T) {
	opts := model.Options{"extra": 1}
	d := NewDispatcher(engine.NewScreening(), nil)
	d.SimulateDirect(context.Background(), sampleInput(opts))
	assert.Equal(t, model.Options{"extra": 1}, opts)
}

func TestSimulateDirectRecordsRuntime(t *testing.T) {
	d := NewDispatcher(engine.Func(func(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
		time.Sleep(50 * time.Millisecond)
		return &model.SimulationOutput{Performance: map[string]float64{"service_bv": 1}}, nil
	}), nil)

	start := time.Now()
	out := d.SimulateDirect(context.Background(), sampleInput(nil))
	wall := time.Since(start).Seconds()

	assert.Equal(t, model.StatusSuccess, out.Status)
	assert.NotEmpty(t, out.ID)
	assert.GreaterOrEqual(t, out.ActualRuntimeSeconds, 0.05)
	assert.LessOrEqual(t, out.ActualRuntimeSeconds, wall)
	assert.InDelta(t, wall, out.ActualRuntimeSeconds, 0.05)
}

func TestSimulateDirectEngineError(t *testing.T) {
	var logs bytes.Buffer
	log := logging.NewWithWriter(logging.Config{Level: "debug", Format: "json"}, &logs)
	d := NewDispatcher(engine.Func(func(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, errors.New("solver failed to converge")
	}), log)

	in := sampleInput(model.Options{"extra": true})
	out := d.SimulateDirect(context.Background(), in)

	assert.Equal(t, model.StatusError, out.Status)
	assert.Equal(t, "solver failed to converge", out.Message)
	assert.Empty(t, out.Performance)
	assert.Empty(t, out.WaterQuality)
	assert.Nil(t, out.Profile)
	assert.Equal(t, in.Water, out.TreatedWater)
	assert.Equal(t, in.Configuration, out.Configuration)
	assert.GreaterOrEqual(t, out.ActualRuntimeSeconds, 0.01)
	assert.EqualError(t, out.Err(), "simulation failed: solver failed to converge")
	assert.Contains(t, logs.String(), "solver failed to converge")
}

func TestSimulateDirectRecoversPanic(t *testing.T) {
	d := NewDispatcher(engine.Func(func(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
		panic("index out of range")
	}), nil)

	out := d.SimulateDirect(context.Background(), sampleInput(nil))
	assert.Equal(t, model.StatusError, out.Status)
	assert.Contains(t, out.Message, "index out of range")
	assert.Empty(t, out.Performance)
}

func TestSimulateDirectNilOutputAndEngine(t *testing.T) {
	d := NewDispatcher(engine.Func(func(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
		return nil, nil
	}), nil)
	assert.Equal(t, model.StatusError, d.SimulateDirect(context.Background(), sampleInput(nil)).Status)

	d = NewDispatcher(nil, nil)
	out := d.SimulateDirect(context.Background(), sampleInput(nil))
	assert.Equal(t, model.StatusError, out.Status)
	assert.Contains(t, out.Message, "no simulation engine")
}

func TestSimulateDirectScreening(t *testing.T) {
	d := NewDispatcher(engine.NewScreening(), nil)
	out := d.SimulateDirect(context.Background(), sampleInput(nil))
	require.NoError(t, out.Err())
	assert.Equal(t, engine.NameScreening, out.Engine)
	// transport and derating are on by default
	assert.Contains(t, out.Performance, "breakthrough_bv")
	assert.InDelta(t, 1.6, out.Performance["effective_capacity_eq_l"], 1e-12)
	assert.NotEmpty(t, out.Profile)

	bad := sampleInput(nil)
	bad.Water.Ions = map[string]float64{model.IonSodium: 20}
	out = d.SimulateDirect(context.Background(), bad)
	assert.Equal(t, model.StatusError, out.Status)
	assert.Contains(t, out.Message, "hardness")
}

func TestCSVExports(t *testing.T) {
	out := NewDispatcher(engine.NewScreening(), nil).SimulateDirect(context.Background(), sampleInput(nil))
	require.NoError(t, out.Err())

	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.csv")
	metricsPath := filepath.Join(dir, "metrics.csv")
	require.NoError(t, WriteProfileCSV(profilePath, out.Profile))
	require.NoError(t, WriteMetricsCSV(metricsPath, out))

	raw, err := os.ReadFile(profilePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "bed_volumes,effluent_hardness_meq_l,c_over_c0,saturated_cells", lines[0])
	assert.Len(t, lines, len(out.Profile)+1)

	raw, err = os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "run,status,success")
	assert.Contains(t, string(raw), "performance,service_bv,")
	assert.Contains(t, string(raw), "water_quality,mass_balance_error,")
}
