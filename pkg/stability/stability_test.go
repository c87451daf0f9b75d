package stability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/stope"
)

func input(thickness, dip, rqd, depth, target float64) *design.Input {
	return &design.Input{
		OreThickness: thickness,
		DipAngle:     dip,
		RQD:          rqd,
		MiningDepth:  depth,
		SafetyFactor: target,
		OreType:      design.OreGeneric,
	}
}

func assess(in *design.Input) *Result {
	res, _ := Assess(in, stope.Calculate(in))
	return res
}

func TestAssessDocumentedExample(t *testing.T) {
	in := input(4.5, 50, 80, 350, 1.8)
	res, report := Assess(in, stope.Calculate(in))

	assert.InDelta(t, 9.8, res.Stress.Vertical, 1e-9)
	assert.InDelta(t, 9.1, res.Stress.Horizontal, 1e-9)
	assert.InDelta(t, 0.93, res.Stress.KRatio, 1e-9)
	assert.InDelta(t, 17.51, res.Strength.RockMass, 1e-9)
	assert.True(t, res.Strength.UCSEstimated)
	assert.InDelta(t, 84.0, res.Strength.UCS, 1e-9)
	assert.InDelta(t, 64.0, res.Strength.GSI, 1e-9)

	assert.Equal(t, 1.79, res.SafetyFactor)
	assert.Equal(t, ClassMarginallyStable, res.Class)
	assert.True(t, res.DGMSCompliant)
	assert.False(t, res.MeetsTarget)
	assert.Equal(t, 78.6, res.RMR)
	assert.Equal(t, 1.63, res.StabilityNumber)

	require.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "below the design target 1.80")
}

func TestAssessSafetyFactors(t *testing.T) {
	tests := []struct {
		name      string
		in        *design.Input
		wantSF    float64
		wantClass Class
	}{
		{"room and pillar", input(3, 20, 60, 200, 1.5), 0.76, ClassUnstable},
		{"cut and fill", input(2, 40, 70, 400, 1.5), 0.75, ClassUnstable},
		{"vertical crater retreat", input(10, 65, 90, 500, 1.5), 2.71, ClassHighlyStable},
		{"shallow sublevel", input(4.5, 50, 80, 150, 1.5), 4.17, ClassHighlyStable},
		{"shrinkage", input(1, 10, 40, 100, 1.5), 0.35, ClassUnstable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := assess(tt.in)
			assert.Equal(t, tt.wantSF, res.SafetyFactor)
			assert.Equal(t, tt.wantClass, res.Class)
			assert.Equal(t, tt.wantSF >= design.DGMSSafetyFactorMin, res.DGMSCompliant)
		})
	}
}

func TestAssessMeasuredUCS(t *testing.T) {
	in := input(4.5, 50, 80, 350, 1.8)
	in.UCS = 120

	res := assess(in)
	assert.False(t, res.Strength.UCSEstimated)
	assert.Equal(t, 120.0, res.Strength.UCS)
	assert.Equal(t, 2.55, res.SafetyFactor)
	assert.Equal(t, ClassStable, res.Class)
	assert.True(t, res.MeetsTarget)
}

func TestAssessNonCompliantWarns(t *testing.T) {
	in := input(3, 20, 60, 200, 2.0)
	res, report := Assess(in, stope.Calculate(in))

	assert.False(t, res.DGMSCompliant)
	assert.False(t, res.MeetsTarget)
	assert.True(t, report.Valid, "stability warnings must not invalidate the design")

	// Below DGMS implies below target; only the regulatory warning is raised.
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "DGMS Tech. Circular No. 3 of 2019", report.Warnings[0].Reference)
	assert.NotEmpty(t, report.Warnings[0].Suggestions)

	// Shallow stope: K = 1.5 is reported.
	require.Len(t, report.Info, 1)
	assert.Contains(t, report.Info[0].Message, "K = 1.50")
}

func TestAssessDefaultsTarget(t *testing.T) {
	res := assess(input(10, 65, 90, 500, 0))
	assert.Equal(t, design.DGMSSafetyFactorMin, res.TargetFactor)
	assert.True(t, res.MeetsTarget)
}

func TestInSituStress(t *testing.T) {
	tests := []struct {
		depth float64
		wantK float64
	}{
		{10, 1.5},
		{299, 1.5},
		{300, 1.0},
		{500, 0.8},
		{2000, 0.575},
	}
	for _, tt := range tests {
		s := InSituStress(tt.depth)
		assert.InDelta(t, tt.wantK, s.KRatio, 1e-9, "depth %v", tt.depth)
		assert.InDelta(t, tt.depth*StressGradient, s.Vertical, 1e-9, "depth %v", tt.depth)
		assert.InDelta(t, s.Vertical*s.KRatio, s.Horizontal, 1e-9, "depth %v", tt.depth)
	}
}

func TestInSituStressFloorsDepth(t *testing.T) {
	s := InSituStress(0)
	assert.InDelta(t, 0.1*StressGradient, s.Vertical, 1e-12)
	assert.False(t, math.IsInf(17/s.Vertical, 0))
}

func TestRockMassStrengthMonotonic(t *testing.T) {
	prev := 0.0
	for rqd := 25.0; rqd <= 100; rqd += 5 {
		got := RockMassStrength(rqd, 0, 5).RockMass
		assert.Greater(t, got, prev, "rqd %v", rqd)
		prev = got
	}
}

func TestRockMassStrengthThickness(t *testing.T) {
	thin := RockMassStrength(80, 100, 1).RockMass
	thick := RockMassStrength(80, 100, 11).RockMass
	assert.InDelta(t, thin*1.22/1.02, thick, 1e-9)
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		sf   float64
		want Class
	}{
		{0, ClassUnstable},
		{1.49, ClassUnstable},
		{1.5, ClassMarginallyStable},
		{1.99, ClassMarginallyStable},
		{2.0, ClassStable},
		{2.49, ClassStable},
		{2.5, ClassHighlyStable},
		{9, ClassHighlyStable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.sf), "sf %v", tt.sf)
	}
}
