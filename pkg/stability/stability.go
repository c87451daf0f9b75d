package stability

import (
	"math"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/stope"
	"github.com/ChicagoDave/stopeplanner/pkg/validation"
)

// Empirical constants for Indian Shield conditions.
const (
	StressGradient   = 0.028 // MPa/m, IBE vertical stress gradient
	ShallowDepth     = 300.0 // m, below this K is fixed at ShallowKRatio
	ShallowKRatio    = 1.5
	MinKRatio        = 0.5
	MaxKRatio        = 2.0
	CIMFRFactor      = 0.85 // CIMFR rock mass reduction applied to mb and s
	IntactMi         = 10.0 // Hoek-Brown mi for the host rock
	ThicknessBonus   = 0.02 // strength gain per metre of ore thickness
	MarginalCeiling  = 2.0
	StableCeiling    = 2.5
	minStressedDepth = 0.1
)

// Assess computes in-situ stress, rock mass strength and the resulting
// safety factor for a stope, and classifies it against the DGMS minimum.
func Assess(in *design.Input, d stope.Dimensions) (*Result, *validation.Report) {
	report := validation.NewReport()

	stress := InSituStress(in.MiningDepth)
	strength := RockMassStrength(in.RQD, in.UCS, in.OreThickness)

	sf := round2(strength.RockMass / stress.Vertical)
	target := in.SafetyFactor
	if target <= 0 {
		target = design.DGMSSafetyFactorMin
	}

	res := &Result{
		RMR:             d.RMR,
		QValue:          d.QValue,
		StabilityNumber: d.StabilityNumber,
		Stress: Stress{
			Vertical:   round2(stress.Vertical),
			Horizontal: round2(stress.Horizontal),
			KRatio:     round2(stress.KRatio),
		},
		Strength:      strength,
		SafetyFactor:  sf,
		TargetFactor:  target,
		Class:         Classify(sf),
		DGMSCompliant: sf >= design.DGMSSafetyFactorMin,
		MeetsTarget:   sf >= target,
	}
	res.Strength.RockMass = round2(strength.RockMass)

	validateStability(res, report)

	return res, report
}

// InSituStress returns the vertical and horizontal stress at depth.
func InSituStress(depth float64) Stress {
	depth = math.Max(minStressedDepth, depth)
	sv := depth * StressGradient

	k := ShallowKRatio
	if depth >= ShallowDepth {
		k = 0.5 + 1.5/(depth/100)
	}
	k = math.Min(MaxKRatio, math.Max(MinKRatio, k))

	return Stress{Vertical: sv, Horizontal: sv * k, KRatio: k}
}

// RockMassStrength applies the Hoek-Brown reduction to the intact strength.
// A zero ucs is estimated from RQD.
func RockMassStrength(rqd, ucs, thickness float64) Strength {
	rqd = math.Max(0, math.Min(100, rqd))
	thickness = math.Max(0.1, thickness)

	estimated := ucs <= 0
	if estimated {
		ucs = 20 + rqd*0.8
	}
	gsi := rqd * 0.8
	mb := IntactMi * math.Exp((gsi-100)/28) * CIMFRFactor
	s := math.Exp((gsi-100)/9) * CIMFRFactor

	rock := ucs * math.Sqrt(mb*s) * (1 + ThicknessBonus*thickness)

	return Strength{
		UCS:          ucs,
		UCSEstimated: estimated,
		GSI:          gsi,
		Mb:           mb,
		S:            s,
		RockMass:     rock,
	}
}

// Classify maps a safety factor to its DGMS stability class.
func Classify(sf float64) Class {
	switch {
	case sf < design.DGMSSafetyFactorMin:
		return ClassUnstable
	case sf < MarginalCeiling:
		return ClassMarginallyStable
	case sf < StableCeiling:
		return ClassStable
	default:
		return ClassHighlyStable
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
