package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ix-simulation/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk case file shape (YAML): one water, one resin bed,
// and the simulation options.
type Config struct {
	// Optional: load resin parameters from a separate YAML (e.g. examples/resins/*.yaml).
	// If both ResinFile and Resin are provided, Resin overrides ResinFile.
	ResinFile string              `yaml:"resin_file"`
	Resin     model.ResinBed      `yaml:"resin"`
	Water     model.WaterAnalysis `yaml:"water"`
	Options   model.Options       `yaml:"options"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.Resin = c.Resin.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// If resin_file is set, load it and merge in any explicit overrides from c.Resin.
	if c.ResinFile != "" {
		resinPath := c.ResinFile
		if !filepath.IsAbs(resinPath) {
			// Relative paths are tried against the case file directory first,
			// then the working directory.
			cand := filepath.Join(filepath.Dir(path), resinPath)
			if _, err := os.Stat(cand); err == nil {
				resinPath = cand
			}
		}
		loaded, err := LoadResinFile(resinPath)
		if err != nil {
			return nil, err
		}
		c.Resin = MergeResin(loaded, c.Resin)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Input().Validate(); err != nil {
		return fmt.Errorf("case invalid: %w", err)
	}
	return nil
}

// Input converts the case into a simulation request.
func (c *Config) Input() model.SimulationInput {
	return model.SimulationInput{
		Water:         c.Water,
		Configuration: c.Resin,
		Options:       c.Options.Clone(),
	}
}

type resinFileWrapper struct {
	Resin model.ResinBed `yaml:"resin"`
}

// LoadResinFile reads a resin preset. The preset name defaults to the file
// name without extension.
func LoadResinFile(path string) (model.ResinBed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ResinBed{}, err
	}
	var w resinFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return model.ResinBed{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if w.Resin.Name == "" {
		w.Resin.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return w.Resin, nil
}

// ResinPreset is a resin file found in a preset directory.
type ResinPreset struct {
	File  string         `json:"file"`
	Resin model.ResinBed `json:"resin"`
}

// LoadResinDir loads every *.yaml / *.yml preset in dir, sorted by file name.
func LoadResinDir(dir string) ([]ResinPreset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read resin directory: %w", err)
	}
	var out []ResinPreset
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		resin, err := LoadResinFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, ResinPreset{File: e.Name(), Resin: resin.WithDefaults()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out, nil
}

// MergeResin overlays non-zero fields from override onto base.
// This is used when loading a resin file and then applying overrides from the request.
func MergeResin(base, override model.ResinBed) model.ResinBed {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.ResinType != "" {
		out.ResinType = override.ResinType
	}
	if override.BedVolumeL != 0 {
		out.BedVolumeL = override.BedVolumeL
	}
	if override.Porosity != 0 {
		out.Porosity = override.Porosity
	}
	if override.Cells != 0 {
		out.Cells = override.Cells
	}
	if override.CapacityEqL != 0 {
		out.CapacityEqL = override.CapacityEqL
	}
	if override.DeratingFactor != 0 {
		out.DeratingFactor = override.DeratingFactor
	}
	return out
}
