package engine

import (
	"context"
	"fmt"
	"math"

	"ix-simulation/internal/chem"
	"ix-simulation/internal/model"
)

const (
	defaultBreakthroughFraction = 0.05
	defaultMaxCurvePoints       = 200
	// stop tracking once effluent is this close to the feed
	exhaustedFraction = 0.99
)

// Screening is the in-process engine: capacity arithmetic plus an optional
// mixing-cell front tracker. It does not solve exchange equilibria.
type Screening struct{}

func NewScreening() *Screening { return &Screening{} }

func (s *Screening) Name() string { return NameScreening }

func (s *Screening) Simulate(ctx context.Context, in model.SimulationInput) (*model.SimulationOutput, error) {
	bed := in.Configuration.WithDefaults()
	in.Configuration = bed
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hardness := chem.HardnessMeqL(in.Water)
	theoretical, err := chem.TheoreticalBV(bed.CapacityEqL, hardness)
	if err != nil {
		return nil, fmt.Errorf("screening: %w", err)
	}
	effective := chem.EffectiveCapacity(bed.CapacityEqL, bed.DeratingFactor, in.Options.Bool(model.OptApplyDerating, true))
	serviceBV, err := chem.TheoreticalBV(effective, hardness)
	if err != nil {
		return nil, fmt.Errorf("screening: %w", err)
	}
	if !isFinite(theoretical) || !isFinite(serviceBV) {
		return nil, fmt.Errorf("%w: service volume out of range (capacity %g eq/L, hardness %g meq/L)", model.ErrInvalidInput, bed.CapacityEqL, hardness)
	}
	bc, err := chem.NewBedCapacity(bed.BedVolumeL, bed.Porosity, bed.Cells, effective)
	if err != nil {
		return nil, fmt.Errorf("screening: %w", err)
	}

	perf := map[string]float64{
		"hardness_meq_l":          hardness,
		"theoretical_bv":          theoretical,
		"effective_capacity_eq_l": effective,
		"service_bv":              serviceBV,
		"exchange_per_kg_water":   bc.ExchangePerKgWater,
		"capacity_per_cell_keq":   bc.CapacityPerCell,
	}
	quality := map[string]float64{
		"feed_hardness_mg_l_caco3": chem.HardnessAsCaCO3(hardness),
	}

	endBV := serviceBV
	leakFraction := 0.0
	var profile []model.ProfilePoint
	if in.Options.Bool(model.OptUseTransport, true) {
		tr, err := trackFront(ctx, bc, hardness, bed.Cells, frontParams{
			breakthrough: in.Options.Float(model.OptBreakthroughFraction, defaultBreakthroughFraction),
			maxPoints:    in.Options.Int(model.OptMaxCurvePoints, defaultMaxCurvePoints),
			serviceBV:    serviceBV,
		})
		if err != nil {
			return nil, err
		}
		endBV = tr.breakthroughBV
		leakFraction = tr.averageLeak
		profile = tr.profile
		perf["breakthrough_bv"] = tr.breakthroughBV
		quality["mass_balance_error"] = tr.massBalanceError
	}
	perf["capacity_utilization"] = endBV / theoretical
	if h := chem.ServiceHours(endBV, bed.BedVolumeL, in.Water.FlowM3H); !math.IsNaN(h) {
		perf["service_time_h"] = h
	}

	treated := soften(in.Water, bed.ResinType, leakFraction)
	_, _, feedImbalance := chem.ChargeBalance(in.Water)
	_, _, treatedImbalance := chem.ChargeBalance(treated)
	quality["effluent_hardness_mg_l_caco3"] = chem.HardnessAsCaCO3(chem.HardnessMeqL(treated))
	quality["sodium_increase_mg_l"] = treated.Ion(model.IonSodium) - in.Water.Ion(model.IonSodium)
	quality["feed_charge_imbalance"] = feedImbalance
	quality["treated_charge_imbalance"] = treatedImbalance

	return &model.SimulationOutput{
		Status:        model.StatusSuccess,
		Engine:        s.Name(),
		TreatedWater:  treated,
		Configuration: bed,
		Performance:   perf,
		WaterQuality:  quality,
		Profile:       profile,
	}, nil
}

// soften removes hardness ions (leaving leak x feed) and balances the removed
// equivalents: sodium-form resins release Na, hydrogen-form resins consume
// alkalinity.
func soften(feed model.WaterAnalysis, resin model.ResinType, leak float64) model.WaterAnalysis {
	out := feed.Clone()
	removedMeq := 0.0
	for _, ion := range chem.HardnessIons {
		mg := feed.Ion(ion)
		if mg == 0 {
			continue
		}
		out.Ions[ion] = mg * leak
		removedMeq += chem.MeqL(ion, mg*(1-leak))
	}
	if removedMeq == 0 {
		return out
	}
	if resin.ReleasesSodium() {
		out.Ions[model.IonSodium] += removedMeq * chem.EquivalentWeights[model.IonSodium]
		return out
	}
	hco3 := out.Ion(model.IonBicarbonate) - removedMeq*chem.EquivalentWeights[model.IonBicarbonate]
	out.Ions[model.IonBicarbonate] = math.Max(0, hco3)
	return out
}
