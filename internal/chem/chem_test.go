package chem

import (
	"math"
	"strconv"
	"testing"

	"ix-simulation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHardnessMeqL(t *testing.T) {
	w := model.WaterAnalysis{Ions: map[string]float64{
		model.IonCalcium:   80.06,
		model.IonMagnesium: 24.29,
		model.IonSodium:    100, // not hardness
	}}
	assert.InDelta(t, 80.06/20.04+24.29/12.15, HardnessMeqL(w), 1e-12)
	assert.InDelta(t, (80.06/20.04+24.29/12.15)*50.04, HardnessAsCaCO3(HardnessMeqL(w)), 1e-9)
}

func TestTheoreticalBV(t *testing.T) {
	hardness := 80.06/20.04 + 24.29/12.15
	bv, err := TheoreticalBV(2.0, hardness)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/hardness*1000, bv, 1e-9)
	assert.Equal(t, "333.7", formatOneDecimal(bv))

	_, err = TheoreticalBV(2.0, 0)
	assert.ErrorIs(t, err, ErrNoHardness)
}

func TestNewBedCapacity(t *testing.T) {
	bc, err := NewBedCapacity(6250, 0.4, 10, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 2500, bc.PoreVolumeL, 1e-9)
	assert.InDelta(t, 250, bc.WaterPerCellKg, 1e-9)
	assert.InDelta(t, 12.5, bc.TotalCapacity, 1e-9)
	assert.InDelta(t, 1.25, bc.CapacityPerCell, 1e-9)
	assert.InDelta(t, 0.005, bc.ExchangePerKgWater, 1e-12)

	_, err = NewBedCapacity(6250, 1.0, 10, 2.0)
	assert.Error(t, err)
	_, err = NewBedCapacity(6250, 0.4, 0, 2.0)
	assert.Error(t, err)
}

func TestEffectiveCapacity(t *testing.T) {
	assert.Equal(t, 2.0, EffectiveCapacity(2.0, 0.8, false))
	assert.InDelta(t, 1.6, EffectiveCapacity(2.0, 0.8, true), 1e-12)
}

func TestServiceHours(t *testing.T) {
	// 300 BV of a 6250 L bed at 100 m3/h
	assert.InDelta(t, 18.75, ServiceHours(300, 6250, 100), 1e-9)
	assert.True(t, math.IsNaN(ServiceHours(300, 6250, 0)))
}

func TestChargeBalance(t *testing.T) {
	w := model.WaterAnalysis{Ions: map[string]float64{
		model.IonSodium:   22.99,
		model.IonChloride: 35.45,
	}}
	cat, an, imb := ChargeBalance(w)
	assert.InDelta(t, 1.0, cat, 1e-12)
	assert.InDelta(t, 1.0, an, 1e-12)
	assert.InDelta(t, 0, imb, 1e-12)

	_, _, imb = ChargeBalance(model.WaterAnalysis{})
	assert.Zero(t, imb)
}

func formatOneDecimal(x float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64)
}
