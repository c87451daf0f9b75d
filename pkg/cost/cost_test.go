package cost

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/stope"
)

func TestEstimateDocumentedExample(t *testing.T) {
	in := &design.Input{OreThickness: 4.5, DipAngle: 50, RQD: 80, MiningDepth: 350, OreType: design.OreGold}
	d := stope.Dimensions{Volume: 54856.96}

	report := Estimate(in, d)

	want := Breakdown{
		Development: 24137062.4,
		Production:  3401131.52,
		Support:     10664193.02,
		Ventilation: 4114272,
		Total:       42316658.94,
	}
	if diff := cmp.Diff(want, report.Breakdown, cmpopts.EquateApprox(0, 0.006)); diff != "" {
		t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
	}

	if report.Currency != "INR" {
		t.Errorf("currency = %q, want INR", report.Currency)
	}
	if math.Abs(report.Summary.TonnageT-148113.79) > 0.006 {
		t.Errorf("tonnage = %v, want 148113.79", report.Summary.TonnageT)
	}
	if math.Abs(report.Summary.CostPerM3-771.4) > 0.006 {
		t.Errorf("cost per m3 = %v, want 771.40", report.Summary.CostPerM3)
	}
	if math.Abs(report.Summary.CostPerTonne-285.7) > 0.006 {
		t.Errorf("cost per tonne = %v, want 285.70", report.Summary.CostPerTonne)
	}
	if math.Abs(report.Summary.LabourHours-21942.78) > 0.006 {
		t.Errorf("labour hours = %v, want 21942.78", report.Summary.LabourHours)
	}
	if math.Abs(report.Summary.SupportFactor-1.62) > 1e-9 {
		t.Errorf("support factor = %v, want 1.62", report.Summary.SupportFactor)
	}
}

func TestEstimateDenseOre(t *testing.T) {
	in := &design.Input{OreThickness: 10, DipAngle: 65, RQD: 90, MiningDepth: 500, OreType: design.OreIron}
	report := Estimate(in, stope.Calculate(in))

	if math.Abs(report.Breakdown.Total-140355600) > 0.01 {
		t.Errorf("total = %v, want 140355600", report.Breakdown.Total)
	}
	if report.Summary.CostPerM3 != 775 {
		t.Errorf("cost per m3 = %v, want 775", report.Summary.CostPerM3)
	}
	if math.Abs(report.Summary.CostPerTonne-172.22) > 0.006 {
		t.Errorf("cost per tonne = %v, want 172.22", report.Summary.CostPerTonne)
	}
}

func TestEstimateTotalIsSum(t *testing.T) {
	for _, in := range []*design.Input{
		{OreThickness: 3, DipAngle: 20, RQD: 60, MiningDepth: 200},
		{OreThickness: 2, DipAngle: 40, RQD: 70, MiningDepth: 400},
		{OreThickness: 1, DipAngle: 10, RQD: 40, MiningDepth: 100},
	} {
		b := Estimate(in, stope.Calculate(in)).Breakdown
		sum := b.Development + b.Production + b.Support + b.Ventilation
		if math.Abs(sum-b.Total) > 0.02 {
			t.Errorf("%+v: total %v != sum %v", in, b.Total, sum)
		}
	}
}

func TestEstimateSupportRisesWithPoorRockAndDepth(t *testing.T) {
	d := stope.Dimensions{Volume: 1000}
	base := Estimate(&design.Input{RQD: 90, MiningDepth: 100}, d).Breakdown.Support
	poor := Estimate(&design.Input{RQD: 30, MiningDepth: 100}, d).Breakdown.Support
	deep := Estimate(&design.Input{RQD: 90, MiningDepth: 1500}, d).Breakdown.Support

	if poor <= base {
		t.Errorf("poor rock support %v should exceed %v", poor, base)
	}
	if deep <= base {
		t.Errorf("deep support %v should exceed %v", deep, base)
	}
}

func TestEstimateZeroVolume(t *testing.T) {
	report := Estimate(&design.Input{RQD: 80, MiningDepth: 100}, stope.Dimensions{})
	if report.Breakdown.Total != 0 {
		t.Errorf("total = %v, want 0", report.Breakdown.Total)
	}
	if report.Summary.CostPerM3 != 0 || report.Summary.CostPerTonne != 0 {
		t.Errorf("unit costs should be 0 for an empty stope, got %+v", report.Summary)
	}
}
