package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"ix-simulation/internal/model"
)

// WaterCatalog is a named collection of sample feed waters.
type WaterCatalog struct {
	UpdatedAt string                `json:"updated_at,omitempty"` // ISO 8601 timestamp
	Waters    []model.WaterAnalysis `json:"waters"`
}

// Find returns the water with the given name.
func (c *WaterCatalog) Find(name string) (model.WaterAnalysis, bool) {
	if c == nil {
		return model.WaterAnalysis{}, false
	}
	for _, w := range c.Waters {
		if w.Name == name {
			return w.Clone(), true
		}
	}
	return model.WaterAnalysis{}, false
}

// DefaultCatalog holds the built-in sample waters, used when no catalog file
// is configured.
func DefaultCatalog() *WaterCatalog {
	return &WaterCatalog{Waters: []model.WaterAnalysis{
		{
			Name:         "reference-hard",
			FlowM3H:      100,
			TemperatureC: 25,
			PH:           7.8,
			Ions: map[string]float64{
				model.IonCalcium:     80.06,
				model.IonMagnesium:   24.29,
				model.IonSodium:      46,
				model.IonBicarbonate: 244,
				model.IonChloride:    71,
				model.IonSulfate:     48,
			},
		},
		{
			Name:         "moderate-groundwater",
			FlowM3H:      40,
			TemperatureC: 15,
			PH:           7.4,
			Ions: map[string]float64{
				model.IonCalcium:     48,
				model.IonMagnesium:   12,
				model.IonSodium:      23,
				model.IonPotassium:   4,
				model.IonBicarbonate: 183,
				model.IonChloride:    35,
				model.IonNitrate:     12,
			},
		},
		{
			Name:         "brackish-well",
			FlowM3H:      25,
			TemperatureC: 28,
			PH:           7.1,
			Ions: map[string]float64{
				model.IonCalcium:     160,
				model.IonMagnesium:   73,
				model.IonSodium:      460,
				model.IonStrontium:   4,
				model.IonBicarbonate: 305,
				model.IonChloride:    710,
				model.IonSulfate:     384,
			},
		},
	}}
}

// LoadCatalog loads a catalog from a JSON file. Waters are sorted by name.
func LoadCatalog(filePath string) (*WaterCatalog, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read water catalog: %w", err)
	}

	var c WaterCatalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse water catalog: %w", err)
	}
	for i, w := range c.Waters {
		if w.Name == "" {
			return nil, fmt.Errorf("water catalog entry %d has no name", i)
		}
	}
	sort.Slice(c.Waters, func(i, j int) bool { return c.Waters[i].Name < c.Waters[j].Name })
	return &c, nil
}

// SaveCatalog saves a catalog to a JSON file
func SaveCatalog(c *WaterCatalog, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal water catalog: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write water catalog: %w", err)
	}

	return nil
}
