package chem

import (
	"errors"
	"math"
)

// ErrNoHardness is returned when a bed-volume figure would divide by zero.
var ErrNoHardness = errors.New("feed hardness is zero")

// TheoreticalBV is the bed volumes treated before the full resin capacity
// (eq/L) is consumed by a feed of the given hardness (meq/L).
func TheoreticalBV(capacityEqL, hardnessMeqL float64) (float64, error) {
	if hardnessMeqL <= 0 {
		return 0, ErrNoHardness
	}
	return capacityEqL / hardnessMeqL * 1000, nil
}

// EffectiveCapacity applies a derating factor when derate is set.
func EffectiveCapacity(capacityEqL, deratingFactor float64, derate bool) float64 {
	if !derate {
		return capacityEqL
	}
	return capacityEqL * deratingFactor
}

// BedCapacity is the per-cell breakdown of a resin bed used by the mixing-cell
// transport model. Capacities carry the /1000 scaling of the hand check, so
// TotalCapacity and CapacityPerCell are in keq and ExchangePerKgWater is
// keq per kg of pore water (reported as mol/kg by the capacity check).
type BedCapacity struct {
	BedVolumeL         float64
	Porosity           float64
	PoreVolumeL        float64 // bed volume x porosity
	WaterPerCellKg     float64 // pore water per cell (1 L ~ 1 kg)
	TotalCapacity      float64 // capacity x bed volume / 1000
	CapacityPerCell    float64 // total / cells
	ExchangePerKgWater float64 // per-cell capacity / water per cell
}

// NewBedCapacity performs the substitution chain for one bed.
func NewBedCapacity(bedVolumeL, porosity float64, cells int, capacityEqL float64) (BedCapacity, error) {
	if bedVolumeL <= 0 || porosity <= 0 || porosity >= 1 || cells < 1 {
		return BedCapacity{}, errors.New("bed volume, porosity and cell count must be positive (porosity < 1)")
	}
	n := float64(cells)
	pore := bedVolumeL * porosity
	waterPerCell := pore / n
	total := capacityEqL * bedVolumeL / 1000
	perCell := total / n
	return BedCapacity{
		BedVolumeL:         bedVolumeL,
		Porosity:           porosity,
		PoreVolumeL:        pore,
		WaterPerCellKg:     waterPerCell,
		TotalCapacity:      total,
		CapacityPerCell:    perCell,
		ExchangePerKgWater: perCell / waterPerCell,
	}, nil
}

// ServiceHours converts bed volumes treated into run time at a flow in m3/h.
// Returns NaN when flow is not positive.
func ServiceHours(bedVolumes, bedVolumeL, flowM3H float64) float64 {
	if flowM3H <= 0 {
		return math.NaN()
	}
	return bedVolumes * bedVolumeL / 1000 / flowM3H
}
