package stope

import (
	"fmt"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/validation"
)

// Check compares the input and the derived geometry with the typical
// envelope of the selected method. Inputs outside the method's dip or RQD
// envelope are warnings; dimensions outside the typical ranges are info.
func Check(in *design.Input, d Dimensions) *validation.Report {
	r := validation.NewReport()

	c, ok := CharacteristicsOf(d.Type)
	if !ok {
		return r
	}

	if c.MinDip > 0 && in.DipAngle < c.MinDip {
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     fmt.Sprintf("%s typically requires a dip of at least %.0f° (got %.1f°)", d.Type, c.MinDip, in.DipAngle),
			Field:       "dip_angle",
			ActualValue: in.DipAngle,
			Expected:    fmt.Sprintf(">= %.0f", c.MinDip),
			Suggestions: []string{"Confirm ore flow by gravity or plan mechanised mucking"},
		})
	}
	if c.MaxDip > 0 && in.DipAngle > c.MaxDip {
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     fmt.Sprintf("%s typically requires a dip of at most %.0f° (got %.1f°)", d.Type, c.MaxDip, in.DipAngle),
			Field:       "dip_angle",
			ActualValue: in.DipAngle,
			Expected:    fmt.Sprintf("<= %.0f", c.MaxDip),
		})
	}
	if in.RQD < c.MinRQD {
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     fmt.Sprintf("%s typically requires RQD of at least %.0f%% (got %.1f%%)", d.Type, c.MinRQD, in.RQD),
			Field:       "rqd",
			ActualValue: in.RQD,
			Expected:    fmt.Sprintf(">= %.0f", c.MinRQD),
			Suggestions: []string{"Increase ground support density", "Reduce the stope span"},
		})
	}

	dims := []struct {
		name  string
		value float64
		typ   Range
	}{
		{"width", d.Width, c.TypicalWidth},
		{"length", d.Length, c.TypicalLength},
		{"height", d.Height, c.TypicalHeight},
	}
	for _, dim := range dims {
		if !dim.typ.Contains(dim.value) {
			r.AddInfo(validation.Result{
				Level:       validation.LevelAnalytical,
				Message:     fmt.Sprintf("%s %s %.2fm is outside the typical range %.0f-%.0fm", d.Type, dim.name, dim.value, dim.typ.Min, dim.typ.Max),
				ActualValue: dim.value,
				Expected:    fmt.Sprintf("%.0f-%.0f", dim.typ.Min, dim.typ.Max),
			})
		}
	}

	return r
}
