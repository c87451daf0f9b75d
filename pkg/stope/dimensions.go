package stope

import (
	"math"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
)

// RMR estimates the rock mass rating from RQD.
func RMR(rqd float64) float64 {
	return 0.77*clamp(rqd, 0, 100) + 12 + CMRIRMRAdjustment
}

// QValue is the Barton Q-system rating for the fixed joint parameters.
func QValue(rqd float64) float64 {
	return (clamp(rqd, 0, 100) / 100) * (JointRoughness / JointAlteration) * (JointWater / StressReduction)
}

// StabilityNumber is the Mathews modified stability number N' = Q'·A·B·C.
func StabilityNumber(q, dip, depth float64) float64 {
	a := 1.0
	if depth > DeepThreshold {
		a = DeepStressFactor
	}
	b := clamp(0.3+(dip-20)/70, 0.2, 1.0)
	c := 8 - 7*math.Cos(dip*math.Pi/180)
	return q * a * b * c
}

// Calculate derives the recommended stope geometry for a validated input.
// Each method clamps its raw dimensions to its typical envelope before the
// DGMS width scaling is applied; all outputs are rounded to centimetres.
func Calculate(in *design.Input) Dimensions {
	t := SelectType(in)
	rmr := RMR(in.RQD)
	q := QValue(in.RQD)
	thickness := math.Max(0.1, in.OreThickness)
	depth := in.MiningDepth

	var width, length, height float64
	switch t {
	case SublevelStoping:
		width = clamp(12+rmr/10, 15, 25)
		length = clamp(width*2.5+thickness*2, 40, 80)
		height = clamp(width*1.8+depth/100, 20, 60)
	case RoomAndPillar:
		width = clamp(8+rmr/15, 6, 12)
		length = clamp(width*3+thickness, 20, 50)
		height = clamp(thickness*1.5+2, 3, 8)
	case CutAndFill:
		width = clamp(10+rmr/12, 8, 15)
		length = clamp(width*2.8, 30, 60)
		height = clamp(3+thickness, 4, 12)
	case ShrinkageStoping:
		width = clamp(5+rmr/20, 4, 8)
		length = clamp(width*4, 20, 40)
		height = clamp(width*3, 15, 50)
	case VerticalCraterRetreat:
		width = clamp(25+rmr/8, 20, 35)
		length = clamp(width*2.2, 50, 100)
		height = clamp(width*1.6, 30, 80)
	}

	width = round2(width * design.DGMSSafetyFactorMin * WidthDerating)
	length = round2(length)
	height = round2(height)

	return Dimensions{
		Type:            t,
		Length:          length,
		Width:           width,
		Height:          height,
		Volume:          round2(length * width * height),
		HydraulicRadius: round2(HydraulicRadius(width, height)),
		StabilityNumber: round2(StabilityNumber(q, in.DipAngle, depth)),
		RMR:             round2(rmr),
		QValue:          round2(q),
	}
}

// HydraulicRadius is the area-to-perimeter ratio of a w×h face.
func HydraulicRadius(w, h float64) float64 {
	if w+h == 0 {
		return 0
	}
	return (w * h) / (2 * (w + h))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
