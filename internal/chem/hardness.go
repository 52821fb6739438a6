// Package chem holds the water-chemistry arithmetic shared by the engines
// and the verification checks.
package chem

import (
	"math"

	"ix-simulation/internal/model"

	"gonum.org/v1/gonum/floats"
)

// EquivalentWeights in mg/meq (molar mass / |charge|).
var EquivalentWeights = map[string]float64{
	model.IonCalcium:     20.04,
	model.IonMagnesium:   12.15,
	model.IonSodium:      22.99,
	model.IonPotassium:   39.10,
	model.IonStrontium:   43.81,
	model.IonBarium:      68.67,
	model.IonBicarbonate: 61.02,
	model.IonChloride:    35.45,
	model.IonSulfate:     48.03,
	model.IonNitrate:     62.00,
}

// HardnessIons are the divalent cations removed by softening.
var HardnessIons = []string{model.IonCalcium, model.IonMagnesium, model.IonStrontium, model.IonBarium}

var cations = map[string]bool{
	model.IonCalcium:   true,
	model.IonMagnesium: true,
	model.IonSodium:    true,
	model.IonPotassium: true,
	model.IonStrontium: true,
	model.IonBarium:    true,
}

// CaCO3EquivalentWeight converts meq/L to mg/L as CaCO3.
const CaCO3EquivalentWeight = 50.04

// MeqL converts mg/L of an ion to meq/L. Unknown ions contribute 0.
func MeqL(symbol string, mgL float64) float64 {
	ew, ok := EquivalentWeights[symbol]
	if !ok || ew == 0 {
		return 0
	}
	return mgL / ew
}

// HardnessMeqL sums the hardness ions of a water in meq/L.
func HardnessMeqL(w model.WaterAnalysis) float64 {
	parts := make([]float64, 0, len(HardnessIons))
	for _, ion := range HardnessIons {
		parts = append(parts, MeqL(ion, w.Ion(ion)))
	}
	return floats.Sum(parts)
}

// HardnessAsCaCO3 converts meq/L to mg/L as CaCO3.
func HardnessAsCaCO3(meqL float64) float64 {
	return meqL * CaCO3EquivalentWeight
}

// ChargeBalance returns cation and anion sums in meq/L and the relative
// imbalance |cat-an|/(cat+an). An empty water has zero imbalance.
func ChargeBalance(w model.WaterAnalysis) (cationMeqL, anionMeqL, imbalance float64) {
	for _, ion := range w.IonSymbols() {
		meq := MeqL(ion, w.Ion(ion))
		if cations[ion] {
			cationMeqL += meq
		} else {
			anionMeqL += meq
		}
	}
	total := cationMeqL + anionMeqL
	if total == 0 {
		return 0, 0, 0
	}
	return cationMeqL, anionMeqL, math.Abs(cationMeqL-anionMeqL) / total
}
