package cost

import (
	"math"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/stope"
)

// Breakdown itemizes costs by category.
type Breakdown struct {
	Development float64 `json:"development"`
	Production  float64 `json:"production"`
	Support     float64 `json:"support"`
	Ventilation float64 `json:"ventilation"`
	Total       float64 `json:"total"`
}

// Report is the complete cost output.
type Report struct {
	Currency  string    `json:"currency"`
	Breakdown Breakdown `json:"breakdown"`

	Summary struct {
		VolumeM3      float64 `json:"volume_m3"`
		Density       float64 `json:"density_t_per_m3"`
		TonnageT      float64 `json:"tonnage_t"`
		CostPerM3     float64 `json:"cost_per_m3"`
		CostPerTonne  float64 `json:"cost_per_tonne"`
		LabourHours   float64 `json:"labour_hours"`
		SupportFactor float64 `json:"support_factor"`
	} `json:"summary"`
}

// Estimate computes the linear cost model for one stope. Support cost
// rises as rock quality falls and as the stope deepens.
func Estimate(in *design.Input, d stope.Dimensions) *Report {
	report := &Report{Currency: Currency}

	volume := math.Max(0, d.Volume)
	hours := volume / DrillBlastRateM3PerHour
	supportFactor := (2 - in.RQD/100) * (1 + in.MiningDepth/SupportDepthScale)

	report.Breakdown = makeBreakdown(
		hours*CrewCostPerHour,
		volume*EquipmentCostPerM3,
		volume*SupportBaseCostPerM3*supportFactor,
		volume*VentilationCostPerM3,
	)

	density := in.OreType.Density()
	tonnage := volume * density

	report.Summary.VolumeM3 = volume
	report.Summary.Density = density
	report.Summary.TonnageT = round2(tonnage)
	report.Summary.LabourHours = round2(hours)
	report.Summary.SupportFactor = round2(supportFactor)
	if volume > 0 {
		report.Summary.CostPerM3 = round2(report.Breakdown.Total / volume)
	}
	if tonnage > 0 {
		report.Summary.CostPerTonne = round2(report.Breakdown.Total / tonnage)
	}

	return report
}

func makeBreakdown(development, production, support, ventilation float64) Breakdown {
	return Breakdown{
		Development: round2(development),
		Production:  round2(production),
		Support:     round2(support),
		Ventilation: round2(ventilation),
		Total:       round2(development + production + support + ventilation),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
