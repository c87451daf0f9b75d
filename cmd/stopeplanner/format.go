package main

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ChicagoDave/stopeplanner/pkg/cost"
	"github.com/ChicagoDave/stopeplanner/pkg/planner"
	"github.com/ChicagoDave/stopeplanner/pkg/risk"
	"github.com/ChicagoDave/stopeplanner/pkg/stope"
	"github.com/ChicagoDave/stopeplanner/pkg/validation"
)

var title = cases.Title(language.English)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.Field != "" && e.ActualValue != nil {
				fmt.Fprintf(w, "    -> %s = %v\n", e.Field, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", wr.Level, wr.Message)
			if wr.Reference != "" {
				fmt.Fprintf(w, "    ref: %s\n", wr.Reference)
			}
			if wr.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", wr.Expected)
			}
			for _, s := range wr.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printDesign(w io.Writer, d *planner.Design) {
	in := d.Input
	dim := d.Dimensions
	s := d.Stability

	fmt.Fprintf(w, "Stope Design %s\n", d.ID)
	fmt.Fprintln(w, "=============================================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Ore type:          %s (%.1f t/m³)\n", title.String(string(in.OreType)), in.OreType.Density())
	fmt.Fprintf(w, "  Thickness / dip:   %.2f m / %.1f°\n", in.OreThickness, in.DipAngle)
	fmt.Fprintf(w, "  RQD / depth:       %.1f%% / %.0f m\n", in.RQD, in.MiningDepth)
	if in.Notes != "" {
		fmt.Fprintf(w, "  Notes:             %s\n", in.Notes)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Method: %s\n", d.StopeType)
	if d.Characteristics.Description != "" {
		fmt.Fprintf(w, "  %s\n", d.Characteristics.Description)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Dimensions")
	fmt.Fprintln(w, "----------")
	fmt.Fprintf(w, "  Length x width x height:  %.2f x %.2f x %.2f m\n", dim.Length, dim.Width, dim.Height)
	fmt.Fprintf(w, "  Volume:                   %.2f m³\n", dim.Volume)
	fmt.Fprintf(w, "  Hydraulic radius:         %.2f m\n", dim.HydraulicRadius)
	fmt.Fprintf(w, "  Stability number N':      %.2f\n", dim.StabilityNumber)
	fmt.Fprintf(w, "  RMR / Q:                  %.1f / %.2f\n", dim.RMR, dim.QValue)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Stability")
	fmt.Fprintln(w, "---------")
	fmt.Fprintf(w, "  Vertical / horizontal stress:  %.2f / %.2f MPa (K = %.2f)\n",
		s.Stress.Vertical, s.Stress.Horizontal, s.Stress.KRatio)
	ucsNote := "measured"
	if s.Strength.UCSEstimated {
		ucsNote = "estimated from RQD"
	}
	fmt.Fprintf(w, "  UCS:                           %.1f MPa (%s)\n", s.Strength.UCS, ucsNote)
	fmt.Fprintf(w, "  Rock mass strength:            %.2f MPa\n", s.Strength.RockMass)
	fmt.Fprintf(w, "  Safety factor:                 %.2f (target %.2f)\n", s.SafetyFactor, s.TargetFactor)
	fmt.Fprintf(w, "  Class:                         %s\n", s.Class)
	fmt.Fprintf(w, "  DGMS compliant:                %s\n", yesNo(s.DGMSCompliant))
	if s.FailureProbability != nil {
		fmt.Fprintf(w, "  Failure probability:           %.1f%%\n", *s.FailureProbability*100)
	}

	if len(d.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Warnings (%d)\n", len(d.Warnings))
		for _, msg := range d.Warnings {
			fmt.Fprintf(w, "  ! %s\n", msg)
		}
	}
}

func printCostReport(w io.Writer, r *cost.Report) {
	if r == nil {
		fmt.Fprintln(w, "No cost estimate available.")
		return
	}

	fmt.Fprintf(w, "Cost Estimate (%s)\n", r.Currency)
	fmt.Fprintln(w, "===================")
	fmt.Fprintln(w)

	b := r.Breakdown
	rows := []struct {
		label string
		val   float64
	}{
		{"Development", b.Development},
		{"Production", b.Production},
		{"Support", b.Support},
		{"Ventilation", b.Ventilation},
		{"TOTAL", b.Total},
	}
	fmt.Fprintf(w, "%-14s %14s %8s\n", "Category", "Amount", "Share")
	fmt.Fprintf(w, "%-14s %14s %8s\n", "--------------", "--------------", "--------")
	for _, row := range rows {
		share := 0.0
		if b.Total > 0 {
			share = row.val / b.Total * 100
		}
		fmt.Fprintf(w, "%-14s %14s %7.1f%%\n", row.label, formatMoney(row.val), share)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Volume:           %.2f m³\n", r.Summary.VolumeM3)
	fmt.Fprintf(w, "  Tonnage:          %.2f t\n", r.Summary.TonnageT)
	fmt.Fprintf(w, "  Labour hours:     %.0f h\n", r.Summary.LabourHours)
	fmt.Fprintf(w, "  Cost per m³:      %s %.2f\n", r.Currency, r.Summary.CostPerM3)
	fmt.Fprintf(w, "  Cost per tonne:   %s %.2f\n", r.Currency, r.Summary.CostPerTonne)
}

func printStopeTypes(w io.Writer) {
	fmt.Fprintf(w, "%-24s %-12s %-12s %-12s %-10s %s\n", "Method", "Width (m)", "Length (m)", "Height (m)", "Dip (°)", "Min RQD")
	for _, t := range stope.Types {
		c, _ := stope.CharacteristicsOf(t)
		fmt.Fprintf(w, "%-24s %-12s %-12s %-12s %-10s %.0f%%\n",
			t, formatRange(c.TypicalWidth), formatRange(c.TypicalLength), formatRange(c.TypicalHeight),
			formatDip(c), c.MinRQD)
		fmt.Fprintf(w, "  %s\n", c.Description)
	}
}

func printMetrics(w io.Writer, res *risk.TrainResult) {
	m := res.Metrics
	fmt.Fprintf(w, "Trained %d trees on %d rows, evaluated on %d rows\n", len(res.Forest.Trees), res.Train, m.Samples)
	fmt.Fprintf(w, "Model accuracy: %.3f\n\n", m.Accuracy)
	fmt.Fprintf(w, "%-12s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support")
	for i, label := range []string{"no failure", "failure"} {
		c := m.Classes[i]
		fmt.Fprintf(w, "%-12s %10.2f %10.2f %10.2f %10d\n", title.String(label), c.Precision, c.Recall, c.F1, c.Support)
	}
}

func printDescribe(w io.Writer, cols []risk.ColumnSummary) {
	fmt.Fprintf(w, "%-18s %8s %12s %12s %12s %12s\n", "Column", "Count", "Mean", "Std", "Min", "Max")
	for _, c := range cols {
		fmt.Fprintf(w, "%-18s %8d %12.3f %12.3f %12.3f %12.3f\n", c.Name, c.Count, c.Mean, c.Std, c.Min, c.Max)
	}
}

func formatRange(r stope.Range) string {
	return fmt.Sprintf("%.0f-%.0f", r.Min, r.Max)
}

func formatDip(c stope.Characteristics) string {
	switch {
	case c.MinDip > 0 && c.MaxDip > 0:
		return fmt.Sprintf("%.0f-%.0f", c.MinDip, c.MaxDip)
	case c.MinDip > 0:
		return fmt.Sprintf(">= %.0f", c.MinDip)
	case c.MaxDip > 0:
		return fmt.Sprintf("<= %.0f", c.MaxDip)
	}
	return "any"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
