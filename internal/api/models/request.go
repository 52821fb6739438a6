package models

import "ix-simulation/internal/model"

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	Water     model.WaterAnalysis `json:"water"`
	ResinFile string              `json:"resin_file,omitempty"` // preset in the resin directory, e.g. "sac-standard.yaml"
	Resin     model.ResinBed      `json:"resin,omitempty"`      // overrides on top of resin_file
	Options   model.Options       `json:"options,omitempty"`
}

// CompareRequest represents a request to compare variations of one case
type CompareRequest struct {
	Base       SimulateRequest `json:"base"`
	Variations []Variation     `json:"variations" binding:"required,min=1,dive"`
}

// Variation overrides parts of the base case. Resin fields overlay the base
// resin; options overlay the base options key by key.
type Variation struct {
	Name      string               `json:"name" binding:"required"`
	Water     *model.WaterAnalysis `json:"water,omitempty"`
	ResinFile string               `json:"resin_file,omitempty"`
	Resin     model.ResinBed       `json:"resin,omitempty"`
	Options   model.Options        `json:"options,omitempty"`
}

// RankRequest represents a request to rank resin presets for one water
type RankRequest struct {
	Water   *model.WaterAnalysis `json:"water,omitempty"`
	WaterID string               `json:"water_id,omitempty"` // name in the water catalog
	Options model.Options        `json:"options,omitempty"`
	Limit   int                  `json:"limit,omitempty"` // default: all
}

// CheckRequest carries parameter overrides for a verification check
type CheckRequest struct {
	Params map[string]float64 `json:"params,omitempty"`
}
