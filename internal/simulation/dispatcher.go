// Package simulation fronts the engines: it normalizes request options,
// times the engine call and turns every failure into an error-status output.
package simulation

import (
	"context"
	"fmt"
	"time"

	"ix-simulation/internal/engine"
	"ix-simulation/internal/logging"
	"ix-simulation/internal/model"

	"github.com/google/uuid"
)

type Dispatcher struct {
	engine engine.Engine
	log    *logging.Logger
	now    func() time.Time
}

func NewDispatcher(e engine.Engine, log *logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{engine: e, log: log.WithComponent("dispatcher"), now: time.Now}
}

// Engine returns the delegate name.
func (d *Dispatcher) Engine() string {
	if d.engine == nil {
		return ""
	}
	return d.engine.Name()
}

// SimulateDirect runs one simulation. It always returns an output; engine
// errors and panics come back as an error-status output.
func (d *Dispatcher) SimulateDirect(ctx context.Context, in model.SimulationInput) *model.SimulationOutput {
	opts := in.Options.Clone()
	opts.SetDefault(model.OptUseTransport, true)
	opts.SetDefault(model.OptApplyDerating, true)
	req := in
	req.Options = opts

	start := d.now()
	out, err := d.call(ctx, req)
	elapsed := d.now().Sub(start).Seconds()

	if err == nil && out == nil {
		err = fmt.Errorf("engine %s returned no output", d.Engine())
	}
	if err != nil {
		d.log.Error("simulation failed", err, map[string]any{
			"engine":          d.Engine(),
			"runtime_seconds": elapsed,
		})
		failed := model.ErrorOutput(in, err.Error(), elapsed)
		failed.ID = uuid.NewString()
		failed.Engine = d.Engine()
		return failed
	}

	out.ActualRuntimeSeconds = elapsed
	if out.Status == "" {
		out.Status = model.StatusSuccess
	}
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Performance == nil {
		out.Performance = map[string]float64{}
	}
	if out.WaterQuality == nil {
		out.WaterQuality = map[string]float64{}
	}
	d.log.Info("simulation finished", map[string]any{
		logging.FieldSimID: out.ID,
		"engine":           out.Engine,
		"status":           string(out.Status),
		"runtime_seconds":  elapsed,
	})
	return out
}

func (d *Dispatcher) call(ctx context.Context, in model.SimulationInput) (out *model.SimulationOutput, err error) {
	if d.engine == nil {
		return nil, fmt.Errorf("no simulation engine configured")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("engine %s panicked: %v", d.engine.Name(), r)
		}
	}()
	return d.engine.Simulate(ctx, in)
}
