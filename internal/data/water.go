package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ix-simulation/internal/model"

	"gopkg.in/yaml.v3"
)

// LoadWaterAnalysis reads one water analysis from a JSON or YAML file
// (chosen by extension, JSON otherwise). A YAML file may wrap it in a
// top-level "water" key, the same shape a case file uses.
func LoadWaterAnalysis(path string) (*model.WaterAnalysis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w model.WaterAnalysis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var wrapped struct {
			Water *model.WaterAnalysis `yaml:"water"`
		}
		if err := yaml.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if wrapped.Water != nil {
			w = *wrapped.Water
		} else if err := yaml.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if len(w.Ions) == 0 {
		return nil, fmt.Errorf("%s: water analysis has no ions_mg_l", path)
	}
	if w.Name == "" {
		w.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &w, nil
}
