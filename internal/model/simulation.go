package model

import "fmt"

// Option keys understood by the engines.
const (
	OptUseTransport         = "use_transport"
	OptApplyDerating        = "apply_derating"
	OptBreakthroughFraction = "breakthrough_fraction"
	OptMaxCurvePoints       = "max_curve_points"
)

// Options is the free-form option mapping carried by a simulation request.
type Options map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty, non-nil map.
func (o Options) Clone() Options {
	out := make(Options, len(o)+2)
	for k, v := range o {
		out[k] = v
	}
	return out
}

// SetDefault sets key to v only when key is absent.
func (o Options) SetDefault(key string, v any) {
	if _, ok := o[key]; !ok {
		o[key] = v
	}
}

// Bool reads a boolean option. Non-bool values fall back to def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok && v != nil {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Float reads a numeric option (JSON numbers decode as float64, YAML ints as int).
func (o Options) Float(key string, def float64) float64 {
	if v, ok := o[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case float32:
			return float64(x)
		case int:
			return float64(x)
		case int64:
			return float64(x)
		}
	}
	return def
}

// Int reads an integer option.
func (o Options) Int(key string, def int) int {
	return int(o.Float(key, float64(def)))
}

// SimulationInput is one request to an engine.
type SimulationInput struct {
	Water         WaterAnalysis `json:"water" yaml:"water"`
	Configuration ResinBed      `json:"configuration" yaml:"configuration"`
	Options       Options       `json:"options,omitempty" yaml:"options"`
}

// Validate checks water and configuration.
func (in SimulationInput) Validate() error {
	if err := structErr("water", validate.Struct(in.Water)); err != nil {
		return err
	}
	return in.Configuration.Validate()
}

// ProfilePoint is one row of the breakthrough profile.
// This is the primary artifact for "what happened" along the run.
type ProfilePoint struct {
	BedVolumes     float64 `json:"bed_volumes"`
	EffluentMeqL   float64 `json:"effluent_hardness_meq_l"`
	FractionOfFeed float64 `json:"c_over_c0"`
	SaturatedCells int     `json:"saturated_cells"`
}

// SimulationOutput is what an engine (or the dispatcher) hands back.
type SimulationOutput struct {
	ID      string `json:"id,omitempty"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Engine  string `json:"engine,omitempty"`

	TreatedWater  WaterAnalysis `json:"treated_water"`
	Configuration ResinBed      `json:"configuration"`

	Performance  map[string]float64 `json:"performance"`
	WaterQuality map[string]float64 `json:"water_quality"`
	Profile      []ProfilePoint     `json:"profile,omitempty"`

	ActualRuntimeSeconds float64 `json:"actual_runtime_seconds"`
}

// Err returns the error carried by an error-status output, nil otherwise.
func (o *SimulationOutput) Err() error {
	if o == nil || !o.Status.IsError() {
		return nil
	}
	return fmt.Errorf("simulation failed: %s", o.Message)
}

// ErrorOutput builds an error-status output echoing the request's water and
// configuration with empty performance fields.
func ErrorOutput(in SimulationInput, msg string, runtimeSeconds float64) *SimulationOutput {
	return &SimulationOutput{
		Status:               StatusError,
		Message:              msg,
		TreatedWater:         in.Water,
		Configuration:        in.Configuration,
		Performance:          map[string]float64{},
		WaterQuality:         map[string]float64{},
		ActualRuntimeSeconds: runtimeSeconds,
	}
}
