package verify

import (
	"errors"

	"ix-simulation/internal/chem"
	"ix-simulation/internal/model"
)

const (
	CheckCapacity      = "capacity"
	CheckTheoreticalBV = "theoretical-bv"
)

func init() {
	register(Check{
		Name:        CheckCapacity,
		Description: "Exchange capacity per kg of pore water for a mixing-cell bed.",
		Params: []Param{
			{Name: "bed_volume_l", Unit: "L", Default: 6250},
			{Name: "porosity", Default: 0.4},
			{Name: "cells", Default: 10},
			{Name: "capacity_eq_l", Unit: "eq/L", Default: 2.0},
		},
		run: capacity,
	})
	register(Check{
		Name:        CheckTheoreticalBV,
		Description: "Theoretical bed volumes from Ca/Mg hardness and resin capacity.",
		Params: []Param{
			{Name: "ca_mg_l", Unit: "mg/L", Default: 80.06},
			{Name: "mg_mg_l", Unit: "mg/L", Default: 24.29},
			{Name: "capacity_eq_l", Unit: "eq/L", Default: 2.0},
		},
		run: theoreticalBV,
	})
}

func capacity(p map[string]float64) (*Result, error) {
	cells := int(p["cells"])
	if float64(cells) != p["cells"] {
		return nil, errors.New("cells must be a whole number")
	}
	bc, err := chem.NewBedCapacity(p["bed_volume_l"], p["porosity"], cells, p["capacity_eq_l"])
	if err != nil {
		return nil, err
	}
	return &Result{
		Steps: []Step{
			{Label: "pore volume", Formula: "bed volume x porosity", Value: bc.PoreVolumeL, Unit: "L"},
			{Label: "water per cell", Formula: "pore volume / cells", Value: bc.WaterPerCellKg, Unit: "kg"},
			{Label: "total capacity", Formula: "capacity x bed volume / 1000", Value: bc.TotalCapacity, Unit: "keq"},
			{Label: "capacity per cell", Formula: "total / cells", Value: bc.CapacityPerCell, Unit: "keq"},
			{Label: "exchange per kg water", Formula: "capacity per cell / water per cell", Value: bc.ExchangePerKgWater, Unit: "mol/kg"},
		},
		Value: bc.ExchangePerKgWater,
		// cells and bed volume cancel out of the chain
		Expected:  p["capacity_eq_l"] / (p["porosity"] * 1000),
		Tolerance: 1e-12,
		Unit:      "mol/kg",
	}, nil
}

func theoreticalBV(p map[string]float64) (*Result, error) {
	w := model.WaterAnalysis{Ions: map[string]float64{
		model.IonCalcium:   p["ca_mg_l"],
		model.IonMagnesium: p["mg_mg_l"],
	}}
	ca := chem.MeqL(model.IonCalcium, w.Ion(model.IonCalcium))
	mg := chem.MeqL(model.IonMagnesium, w.Ion(model.IonMagnesium))
	hardness := chem.HardnessMeqL(w)
	bv, err := chem.TheoreticalBV(p["capacity_eq_l"], hardness)
	if err != nil {
		return nil, err
	}
	return &Result{
		Steps: []Step{
			{Label: "Ca", Formula: "Ca / 20.04", Value: ca, Unit: "meq/L"},
			{Label: "Mg", Formula: "Mg / 12.15", Value: mg, Unit: "meq/L"},
			{Label: "hardness", Formula: "Ca + Mg", Value: hardness, Unit: "meq/L"},
			{Label: "theoretical BV", Formula: "capacity / hardness x 1000", Value: bv, Unit: "BV"},
		},
		Value:    bv,
		Expected: p["capacity_eq_l"] / (p["ca_mg_l"]/20.04 + p["mg_mg_l"]/12.15) * 1000,
		Decimals: 1,
		Unit:     "BV",
	}, nil
}
