package models

import (
	"ix-simulation/internal/analysis"
	"ix-simulation/internal/model"
)

// SimulationSummary is the compact view of one run used by compare
type SimulationSummary struct {
	ID                   string             `json:"id"`
	Status               string             `json:"status"`
	Message              string             `json:"message,omitempty"`
	Engine               string             `json:"engine,omitempty"`
	Resin                string             `json:"resin,omitempty"`
	Performance          map[string]float64 `json:"performance"`
	WaterQuality         map[string]float64 `json:"water_quality"`
	ActualRuntimeSeconds float64            `json:"actual_runtime_seconds"`
}

// Summarize strips the profile and treated water from an output.
func Summarize(out *model.SimulationOutput) SimulationSummary {
	return SimulationSummary{
		ID:                   out.ID,
		Status:               string(out.Status),
		Message:              out.Message,
		Engine:               out.Engine,
		Resin:                out.Configuration.Name,
		Performance:          out.Performance,
		WaterQuality:         out.WaterQuality,
		ActualRuntimeSeconds: out.ActualRuntimeSeconds,
	}
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string            `json:"name"`
	Summary SimulationSummary `json:"summary"`
}

// RankResponse represents the response from ranking resins
type RankResponse struct {
	Water    string                 `json:"water"`
	Rankings []analysis.RankedResin `json:"rankings"`
}

// ResinInfo represents information about a resin preset
type ResinInfo struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	File  string         `json:"file"`
	Specs model.ResinBed `json:"specs"`
}

// CheckInfo describes a verification check
type CheckInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a check parameter
type ParameterInfo struct {
	Name    string  `json:"name"`
	Unit    string  `json:"unit,omitempty"`
	Default float64 `json:"default"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewError builds an error envelope.
func NewError(code, msg string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: msg}}
}
