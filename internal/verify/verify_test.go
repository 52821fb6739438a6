package verify

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityCheckDefaults(t *testing.T) {
	c, ok := Lookup(CheckCapacity)
	require.True(t, ok)

	r, err := c.Run(nil)
	require.NoError(t, err)
	assert.True(t, r.Passed)
	assert.InDelta(t, 1.25/250, r.Value, 1e-15)
	assert.InDelta(t, 0.005, r.Expected, 1e-15)
	assert.Equal(t, "mol/kg", r.Unit)

	steps := map[string]float64{}
	for _, s := range r.Steps {
		steps[s.Label] = s.Value
	}
	assert.InDelta(t, 2500, steps["pore volume"], 1e-9)
	assert.InDelta(t, 250, steps["water per cell"], 1e-9)
	assert.InDelta(t, 12.5, steps["total capacity"], 1e-9)
	assert.InDelta(t, 1.25, steps["capacity per cell"], 1e-9)
}

func TestCapacityCheckOverrides(t *testing.T) {
	c, _ := Lookup(CheckCapacity)
	r, err := c.Run(map[string]float64{"porosity": 0.35, "cells": 25})
	require.NoError(t, err)
	assert.True(t, r.Passed)
	assert.InDelta(t, 2.0/350, r.Value, 1e-12)

	_, err = c.Run(map[string]float64{"cells": 2.5})
	assert.ErrorContains(t, err, "whole number")

	_, err = c.Run(map[string]float64{"porosity": 1.2})
	assert.Error(t, err)

	_, err = c.Run(map[string]float64{"voids": 0.3})
	assert.ErrorContains(t, err, "unknown parameter")
}

func TestTheoreticalBVCheck(t *testing.T) {
	c, ok := Lookup(CheckTheoreticalBV)
	require.True(t, ok)

	r, err := c.Run(nil)
	require.NoError(t, err)
	assert.True(t, r.Passed)

	hardness := 80.06/20.04 + 24.29/12.15
	want := 2.0 / hardness * 1000
	assert.Equal(t, strconv.FormatFloat(want, 'f', 1, 64), strconv.FormatFloat(r.Value, 'f', 1, 64))
	assert.Equal(t, "333.7", strconv.FormatFloat(r.Value, 'f', 1, 64))

	_, err = c.Run(map[string]float64{"ca_mg_l": 0, "mg_mg_l": 0})
	assert.Error(t, err)
}

func TestCompareRounding(t *testing.T) {
	assert.True(t, compare(&Result{Value: 333.66, Expected: 333.7, Decimals: 1}))
	assert.False(t, compare(&Result{Value: 333.74, Expected: 333.76, Decimals: 1}))
	assert.True(t, compare(&Result{Value: 0.0050000001, Expected: 0.005, Tolerance: 1e-6}))
	assert.False(t, compare(&Result{Value: 0.0051, Expected: 0.005, Tolerance: 1e-6}))
}

func TestRunAllAndReport(t *testing.T) {
	results, err := RunAll()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, CheckCapacity, results[0].Check)
	assert.Equal(t, CheckTheoreticalBV, results[1].Check)

	var buf bytes.Buffer
	for _, r := range results {
		Report(&buf, r)
	}
	out := buf.String()
	assert.Contains(t, out, "== capacity ==")
	assert.Contains(t, out, "exchange per kg water")
	assert.Contains(t, out, "0.005 mol/kg")
	assert.Contains(t, out, "result 333.7 BV, expected 333.7 BV: PASS")
	assert.NotContains(t, out, "FAIL")
}
