package stability

import (
	"fmt"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
	"github.com/ChicagoDave/stopeplanner/pkg/validation"
)

// validateStability reports DGMS non-compliance and unmet design targets.
// Neither invalidates the design: the numbers are still shown to the user.
func validateStability(res *Result, report *validation.Report) {
	validateCompliance(res, report)
	validateTarget(res, report)
	validateStressRatio(res, report)
}

func validateCompliance(res *Result, report *validation.Report) {
	if res.DGMSCompliant {
		return
	}
	report.AddWarning(validation.Result{
		Level:       validation.LevelRegulatory,
		Message:     fmt.Sprintf("safety factor %.2f is below the DGMS minimum of %.1f", res.SafetyFactor, design.DGMSSafetyFactorMin),
		Field:       "safety_factor",
		ActualValue: res.SafetyFactor,
		Expected:    fmt.Sprintf(">= %.1f", design.DGMSSafetyFactorMin),
		Reference:   "DGMS Tech. Circular No. 3 of 2019",
		Suggestions: []string{
			"Reduce the stope span or leave rib pillars",
			"Install systematic cable bolting before production blasting",
		},
	})
}

func validateTarget(res *Result, report *validation.Report) {
	if res.MeetsTarget || !res.DGMSCompliant {
		return
	}
	report.AddWarning(validation.Result{
		Level:       validation.LevelAnalytical,
		Message:     fmt.Sprintf("safety factor %.2f is DGMS compliant but below the design target %.2f", res.SafetyFactor, res.TargetFactor),
		Field:       "safety_factor",
		ActualValue: res.SafetyFactor,
		Expected:    fmt.Sprintf(">= %.2f", res.TargetFactor),
	})
}

func validateStressRatio(res *Result, report *validation.Report) {
	if res.Stress.KRatio <= 1 {
		return
	}
	report.AddInfo(validation.Result{
		Level:       validation.LevelAnalytical,
		Message:     fmt.Sprintf("horizontal stress exceeds vertical (K = %.2f); expect crown and sidewall spalling", res.Stress.KRatio),
		ActualValue: res.Stress.KRatio,
	})
}
