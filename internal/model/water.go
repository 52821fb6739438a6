package model

import "sort"

// Ion symbols used as keys in WaterAnalysis.Ions.
const (
	IonCalcium     = "Ca"
	IonMagnesium   = "Mg"
	IonSodium      = "Na"
	IonPotassium   = "K"
	IonStrontium   = "Sr"
	IonBarium      = "Ba"
	IonBicarbonate = "HCO3"
	IonChloride    = "Cl"
	IonSulfate     = "SO4"
	IonNitrate     = "NO3"
)

// WaterAnalysis is a feed (or treated) water composition.
//
// Example (JSON):
//
//	{
//	  "flow_m3_hr": 100,
//	  "temperature_celsius": 25,
//	  "ph": 7.8,
//	  "ions_mg_l": {"Ca": 80.06, "Mg": 24.29, "Na": 50, "Cl": 120}
//	}
type WaterAnalysis struct {
	Name string `json:"name,omitempty" yaml:"name"`

	FlowM3H      float64 `json:"flow_m3_hr" yaml:"flow_m3_hr" validate:"gte=0"`
	TemperatureC float64 `json:"temperature_celsius" yaml:"temperature_celsius" validate:"gte=0,lte=100"`
	PH           float64 `json:"ph" yaml:"ph" validate:"gte=0,lte=14"`

	// Ions are concentrations in mg/L keyed by ion symbol.
	Ions map[string]float64 `json:"ions_mg_l" yaml:"ions_mg_l" validate:"required,dive,gte=0"`
}

// Ion returns the concentration of an ion in mg/L, 0 when absent.
func (w WaterAnalysis) Ion(symbol string) float64 {
	return w.Ions[symbol]
}

// Clone returns a deep copy; the ion map is not shared.
func (w WaterAnalysis) Clone() WaterAnalysis {
	out := w
	out.Ions = make(map[string]float64, len(w.Ions))
	for k, v := range w.Ions {
		out.Ions[k] = v
	}
	return out
}

// IonSymbols returns the ion keys in sorted order (stable CSV/report output).
func (w WaterAnalysis) IonSymbols() []string {
	keys := make([]string, 0, len(w.Ions))
	for k := range w.Ions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
