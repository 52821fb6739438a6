package engine

import (
	"context"
	"fmt"
	"math"

	"ix-simulation/internal/chem"
	"ix-simulation/internal/model"
)

// maxFrontSteps bounds the tracker loop. Softer feeds need more pore volumes
// to exhaust the bed; past this many the tracker advances several pore
// volumes per step.
const maxFrontSteps = 50000

type frontParams struct {
	breakthrough float64 // C/C0 that marks breakthrough
	maxPoints    int
	serviceBV    float64
}

type frontResult struct {
	breakthroughBV   float64
	averageLeak      float64 // mean C/C0 of effluent collected before breakthrough
	massBalanceError float64 // |fed - (held + eluted)| / fed
	profile          []model.ProfilePoint
	steps            int
	porePerStep      int // cell pore volumes advanced per step
}

// trackFront pushes feed through the bed one cell pore volume at a time, or
// several when the horizon would exceed maxFrontSteps. Each cell takes up a
// share of the incoming hardness proportional to its remaining capacity, so
// the front spreads over the leading cells instead of moving as a step. The
// first effluent parcel leaves after one pore volume.
func trackFront(ctx context.Context, bc chem.BedCapacity, feedMeqL float64, cells int, p frontParams) (*frontResult, error) {
	if p.breakthrough <= 0 || p.breakthrough >= 1 {
		p.breakthrough = defaultBreakthroughFraction
	}
	if p.maxPoints < 2 {
		p.maxPoints = defaultMaxCurvePoints
	}

	stepL := bc.WaterPerCellKg
	// bed volumes per cell pore volume = porosity / cells
	bvPerPore := stepL / bc.BedVolumeL
	cellEq := bc.CapacityPerCell * 1000 // keq -> eq

	horizon := math.Ceil(3*p.serviceBV/bvPerPore) + float64(cells)
	if !isFinite(horizon) || !isFinite(cellEq) || horizon < 1 || horizon > maxFrontSteps*(1<<40) || cellEq <= 0 {
		return nil, fmt.Errorf("%w: bed cannot be tracked (service %g BV, %g eq per cell)", model.ErrInvalidInput, p.serviceBV, cellEq)
	}
	porePerStep := int(math.Ceil(horizon / maxFrontSteps))
	maxSteps := int(math.Ceil(horizon / float64(porePerStep)))
	feedEq := feedMeqL * stepL * float64(porePerStep) / 1000

	remaining := make([]float64, cells)
	for i := range remaining {
		remaining[i] = cellEq
	}

	res := &frontResult{breakthroughBV: math.NaN(), porePerStep: porePerStep}
	var (
		// every stride-th step, thinned whenever it doubles maxPoints
		kept      []model.ProfilePoint
		stride    = 1
		last      model.ProfilePoint
		fedEq     float64
		heldEq    float64
		elutedEq  float64
		leakSum   float64
		leakSteps int
	)

	for step := 0; step < maxSteps; step++ {
		if step%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		res.steps++
		load := feedEq
		fedEq += feedEq
		saturated := 0
		for i := range remaining {
			share := remaining[i] / cellEq
			take := math.Min(remaining[i], load*share)
			remaining[i] -= take
			load -= take
			heldEq += take
			if remaining[i] <= 1e-6*cellEq {
				saturated++
			}
		}
		elutedEq += load

		frac := load / feedEq
		// the parcel's last pore volume leaves one bed pore volume after it entered
		bv := float64((step+1)*porePerStep+cells-1) * bvPerPore
		last = model.ProfilePoint{
			BedVolumes:     bv,
			EffluentMeqL:   frac * feedMeqL,
			FractionOfFeed: frac,
			SaturatedCells: saturated,
		}
		if step%stride == 0 {
			kept = append(kept, last)
			if len(kept) >= 2*p.maxPoints {
				kept = thin(kept)
				stride *= 2
			}
		}

		if math.IsNaN(res.breakthroughBV) {
			if frac >= p.breakthrough {
				res.breakthroughBV = bv
			} else {
				leakSum += frac
				leakSteps++
			}
		}
		if frac >= exhaustedFraction {
			break
		}
	}
	if kept[len(kept)-1] != last {
		kept = append(kept, last)
	}

	if math.IsNaN(res.breakthroughBV) {
		// never broke through inside the horizon; report the horizon
		res.breakthroughBV = last.BedVolumes
	}
	if leakSteps > 0 {
		res.averageLeak = leakSum / float64(leakSteps)
	}
	if fedEq > 0 {
		res.massBalanceError = math.Abs(fedEq-(heldEq+elutedEq)) / fedEq
	}
	res.profile = downsample(kept, p.maxPoints)
	return res, nil
}

// thin drops every other point.
func thin(points []model.ProfilePoint) []model.ProfilePoint {
	out := points[:0]
	for i := 0; i < len(points); i += 2 {
		out = append(out, points[i])
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// downsample keeps at most n points, always including the last one.
func downsample(points []model.ProfilePoint, n int) []model.ProfilePoint {
	if len(points) <= n {
		return points
	}
	stride := int(math.Ceil(float64(len(points)) / float64(n-1)))
	out := make([]model.ProfilePoint, 0, n)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	if out[len(out)-1] != points[len(points)-1] {
		out = append(out, points[len(points)-1])
	}
	return out
}
