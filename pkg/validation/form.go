package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
)

// Field names as they appear in a design file.
const (
	FieldOreThickness = "ore_thickness"
	FieldDipAngle     = "dip_angle"
	FieldRQD          = "rqd"
	FieldMiningDepth  = "mining_depth"
	FieldSafetyFactor = "safety_factor"
	FieldUCS          = "ucs"
	FieldOreType      = "ore_type"
	FieldNotes        = "notes"
)

// MaxNotesLength is the number of characters kept from free-text notes.
const MaxNotesLength = 1000

// fieldLimit is the accepted closed range for one numeric field.
type fieldLimit struct {
	field       string
	description string
	min, max    float64
	reference   string
	optional    bool
}

// FieldLimits lists every numeric field in validation order.
var FieldLimits = []fieldLimit{
	{FieldOreThickness, "Ore Body Thickness (m)", 0.3, 100, "IBM economic standards", false},
	{FieldDipAngle, "Dip Angle (degrees)", 0, design.MMRMaxDip, "MMR for most methods", false},
	{FieldRQD, "Rock Quality Designation (%)", design.DGMSMinRQD, 100, "DGMS minimum requirements", false},
	{FieldMiningDepth, "Mining Depth (m)", 5, design.IBMMaxDepth, "Practical limits for Indian underground mines", false},
	{FieldSafetyFactor, "Safety Factor", design.DGMSSafetyFactorMin, design.MaxSafetyFactor, "DGMS Tech. Circular No. 3 of 2019", true},
	{FieldUCS, "Unconfined Compressive Strength (MPa)", 10, 300, "Typical rock strength range", true},
}

// ValidateForm checks a raw design submission against the fixed field ranges
// and the DGMS cross-field rules. The returned input is nil unless the report
// is valid.
func ValidateForm(f *design.Form) (*design.Input, *Report) {
	r := NewReport()

	raw := map[string]string{
		FieldOreThickness: f.OreThickness,
		FieldDipAngle:     f.DipAngle,
		FieldRQD:          f.RQD,
		FieldMiningDepth:  f.MiningDepth,
		FieldSafetyFactor: f.SafetyFactor,
		FieldUCS:          f.UCS,
	}

	values := make(map[string]float64, len(FieldLimits))
	for _, lim := range FieldLimits {
		if v, ok := validateNumber(lim, raw[lim.field], r); ok {
			values[lim.field] = v
		}
	}

	oreType := validateOreType(f.OreType, r)
	validateCrossRules(values, r)

	if !r.Valid {
		return nil, r
	}

	sf, ok := values[FieldSafetyFactor]
	if !ok {
		sf = design.DGMSSafetyFactorMin
	}

	return &design.Input{
		OreThickness: values[FieldOreThickness],
		DipAngle:     values[FieldDipAngle],
		RQD:          values[FieldRQD],
		MiningDepth:  values[FieldMiningDepth],
		SafetyFactor: sf,
		UCS:          values[FieldUCS],
		OreType:      oreType,
		Notes:        SanitizeNotes(f.Notes),
	}, r
}

func validateNumber(lim fieldLimit, raw string, r *Report) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if !lim.optional {
			r.AddError(Result{
				Level:    LevelRange,
				Message:  fmt.Sprintf("%s is required.", lim.description),
				Field:    lim.field,
				Expected: fmt.Sprintf("%g-%g", lim.min, lim.max),
			})
		}
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		r.AddError(Result{
			Level:       LevelRange,
			Message:     fmt.Sprintf("%s must be a valid number.", lim.description),
			Field:       lim.field,
			ActualValue: raw,
			Expected:    "number",
		})
		return 0, false
	}

	switch {
	case v < lim.min:
		r.AddError(Result{
			Level:       LevelRange,
			Message:     fmt.Sprintf("%s must be at least %g (%s).", lim.description, lim.min, lim.reference),
			Field:       lim.field,
			ActualValue: v,
			Expected:    fmt.Sprintf(">= %g", lim.min),
			Reference:   lim.reference,
		})
		return 0, false
	case v > lim.max:
		r.AddError(Result{
			Level:       LevelRange,
			Message:     fmt.Sprintf("%s exceeds maximum allowed value %g (%s).", lim.description, lim.max, lim.reference),
			Field:       lim.field,
			ActualValue: v,
			Expected:    fmt.Sprintf("<= %g", lim.max),
			Reference:   lim.reference,
		})
		return 0, false
	}
	return v, true
}

func validateOreType(raw string, r *Report) design.OreType {
	ot, ok := design.ParseOreType(raw)
	if ok {
		return ot
	}

	names := make([]string, len(design.OreTypes))
	for i, t := range design.OreTypes {
		names[i] = string(t)
	}
	given := strings.ToLower(strings.TrimSpace(raw))
	r.AddWarning(Result{
		Level:       LevelRange,
		Message:     fmt.Sprintf("Ore type '%s' not recognized. Using 'generic' instead. Valid types: %s", given, strings.Join(names, ", ")),
		Field:       FieldOreType,
		ActualValue: given,
		Expected:    strings.Join(names, ", "),
	})
	return design.OreGeneric
}

// validateCrossRules adds DGMS alerts for risky combinations. Only fields that
// passed their own range checks take part.
func validateCrossRules(v map[string]float64, r *Report) {
	dip, hasDip := v[FieldDipAngle]
	rqd, hasRQD := v[FieldRQD]
	depth := v[FieldMiningDepth]

	if hasDip && hasRQD {
		if dip > 60 && rqd < 70 {
			r.AddWarning(Result{
				Level:     LevelRegulatory,
				Message:   "DGMS Safety Alert: High dip angle (>60°) with moderate RQD (<70%) requires additional ground support and monitoring.",
				Field:     FieldDipAngle,
				Reference: "MMR 2011 Regulation 111",
			})
		}
		if dip < 20 && depth > 500 {
			r.AddWarning(Result{
				Level:     LevelRegulatory,
				Message:   "DGMS Compliance Note: Shallow dip (<20°) at significant depth (>500m) may require specialized support systems per MMR guidelines.",
				Field:     FieldMiningDepth,
				Reference: "MMR 2011 Regulation 111",
			})
		}
		if rqd < 50 && depth > 300 {
			r.AddWarning(Result{
				Level:     LevelRegulatory,
				Message:   "DGMS Warning: Poor rock quality (RQD<50%) at depth >300m requires enhanced support design per DGMS circular.",
				Field:     FieldRQD,
				Reference: "DGMS Circular No. 3 of 2017",
			})
		}
	}

	thickness, hasThickness := v[FieldOreThickness]
	if hasThickness && hasDip && thickness < 1.0 && dip > 45 {
		r.AddWarning(Result{
			Level:   LevelRegulatory,
			Message: "DGMS Note: Thin ore bodies (<1m) with steep dip (>45°) may require specialized mining methods.",
			Field:   FieldOreThickness,
		})
	}
}

// SanitizeNotes strips markup-significant characters and truncates free text.
func SanitizeNotes(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'', '&':
			return -1
		}
		return r
	}, s)
	if utf8.RuneCountInString(s) > MaxNotesLength {
		s = string([]rune(s)[:MaxNotesLength])
	}
	return strings.TrimSpace(s)
}
