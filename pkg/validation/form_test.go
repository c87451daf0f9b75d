package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/stopeplanner/pkg/design"
)

func validForm() *design.Form {
	return &design.Form{
		OreThickness: "4.5",
		DipAngle:     "50",
		RQD:          "80",
		MiningDepth:  "350",
		SafetyFactor: "1.8",
		OreType:      "gold",
		Notes:        "hanging wall jointed",
	}
}

func TestValidateFormValid(t *testing.T) {
	in, r := ValidateForm(validForm())
	if !r.Valid {
		t.Fatalf("expected valid report, got %d errors: %v", len(r.Errors), r.Errors)
	}
	require.NotNil(t, in)
	assert.Equal(t, 4.5, in.OreThickness)
	assert.Equal(t, 50.0, in.DipAngle)
	assert.Equal(t, 80.0, in.RQD)
	assert.Equal(t, 350.0, in.MiningDepth)
	assert.Equal(t, 1.8, in.SafetyFactor)
	assert.Equal(t, 0.0, in.UCS)
	assert.Equal(t, design.OreGold, in.OreType)
	assert.Equal(t, "hanging wall jointed", in.Notes)
	assert.Empty(t, r.Warnings)
}

func TestValidateFormDefaultsSafetyFactor(t *testing.T) {
	f := validForm()
	f.SafetyFactor = "  "
	in, r := ValidateForm(f)
	require.True(t, r.Valid)
	assert.Equal(t, design.DGMSSafetyFactorMin, in.SafetyFactor)
}

func TestValidateFormRequiredFields(t *testing.T) {
	fields := map[string]func(*design.Form){
		FieldOreThickness: func(f *design.Form) { f.OreThickness = "" },
		FieldDipAngle:     func(f *design.Form) { f.DipAngle = "" },
		FieldRQD:          func(f *design.Form) { f.RQD = "" },
		FieldMiningDepth:  func(f *design.Form) { f.MiningDepth = "" },
	}
	for field, clear := range fields {
		t.Run(field, func(t *testing.T) {
			f := validForm()
			clear(f)
			in, r := ValidateForm(f)
			if r.Valid {
				t.Fatal("expected invalid report for missing field")
			}
			if in != nil {
				t.Error("input must be nil when the report is invalid")
			}
			e := assertHasError(t, r, field)
			if !strings.HasSuffix(e.Message, "is required.") {
				t.Errorf("message = %q, want a required-field message", e.Message)
			}
		})
	}
}

func TestValidateFormNonNumeric(t *testing.T) {
	tests := []struct {
		field string
		set   func(*design.Form)
	}{
		{FieldOreThickness, func(f *design.Form) { f.OreThickness = "thick" }},
		{FieldDipAngle, func(f *design.Form) { f.DipAngle = "45deg" }},
		{FieldRQD, func(f *design.Form) { f.RQD = "NaN" }},
		{FieldMiningDepth, func(f *design.Form) { f.MiningDepth = "+Inf" }},
		{FieldSafetyFactor, func(f *design.Form) { f.SafetyFactor = "high" }},
		{FieldUCS, func(f *design.Form) { f.UCS = "1,5" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := validForm()
			tt.set(f)
			_, r := ValidateForm(f)
			e := assertHasError(t, r, tt.field)
			if !strings.HasSuffix(e.Message, "must be a valid number.") {
				t.Errorf("message = %q, want a non-numeric message", e.Message)
			}
		})
	}
}

func TestValidateFormRanges(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		set    func(*design.Form)
		prefix string
	}{
		{"thickness below", FieldOreThickness, func(f *design.Form) { f.OreThickness = "0.29" }, "Ore Body Thickness (m) must be at least 0.3"},
		{"thickness above", FieldOreThickness, func(f *design.Form) { f.OreThickness = "100.5" }, "Ore Body Thickness (m) exceeds maximum allowed value 100"},
		{"dip negative", FieldDipAngle, func(f *design.Form) { f.DipAngle = "-1" }, "Dip Angle (degrees) must be at least 0"},
		{"dip above MMR", FieldDipAngle, func(f *design.Form) { f.DipAngle = "70.1" }, "Dip Angle (degrees) exceeds maximum allowed value 70"},
		{"rqd below DGMS", FieldRQD, func(f *design.Form) { f.RQD = "24.9" }, "Rock Quality Designation (%) must be at least 25"},
		{"rqd above 100", FieldRQD, func(f *design.Form) { f.RQD = "101" }, "Rock Quality Designation (%) exceeds maximum allowed value 100"},
		{"depth shallow", FieldMiningDepth, func(f *design.Form) { f.MiningDepth = "4" }, "Mining Depth (m) must be at least 5"},
		{"depth deep", FieldMiningDepth, func(f *design.Form) { f.MiningDepth = "2001" }, "Mining Depth (m) exceeds maximum allowed value 2000"},
		{"sf below DGMS", FieldSafetyFactor, func(f *design.Form) { f.SafetyFactor = "1.4" }, "Safety Factor must be at least 1.5"},
		{"sf above", FieldSafetyFactor, func(f *design.Form) { f.SafetyFactor = "11" }, "Safety Factor exceeds maximum allowed value 10"},
		{"ucs low", FieldUCS, func(f *design.Form) { f.UCS = "9" }, "Unconfined Compressive Strength (MPa) must be at least 10"},
		{"ucs high", FieldUCS, func(f *design.Form) { f.UCS = "301" }, "Unconfined Compressive Strength (MPa) exceeds maximum allowed value 300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.set(f)
			_, r := ValidateForm(f)
			if r.Valid {
				t.Fatal("expected invalid report")
			}
			e := assertHasError(t, r, tt.field)
			if !strings.HasPrefix(e.Message, tt.prefix) {
				t.Errorf("message = %q, want prefix %q", e.Message, tt.prefix)
			}
		})
	}
}

func TestValidateFormBoundariesInclusive(t *testing.T) {
	f := &design.Form{
		OreThickness: "0.3",
		DipAngle:     "70",
		RQD:          "25",
		MiningDepth:  "2000",
		SafetyFactor: "10",
		UCS:          "300",
	}
	in, r := ValidateForm(f)
	require.True(t, r.Valid, "errors: %v", r.Errors)
	assert.Equal(t, 0.3, in.OreThickness)
	assert.Equal(t, 300.0, in.UCS)
}

func TestValidateFormCollectsEveryError(t *testing.T) {
	f := &design.Form{OreThickness: "x", DipAngle: "90", RQD: "10"}
	_, r := ValidateForm(f)
	assert.Len(t, r.Errors, 4)
	assert.Len(t, strings.Split(r.Message(), "\n"), 4)
}

func TestValidateFormUnknownOreType(t *testing.T) {
	f := validForm()
	f.OreType = " Unobtainium "
	in, r := ValidateForm(f)
	require.True(t, r.Valid)
	assert.Equal(t, design.OreGeneric, in.OreType)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0].Message, "Ore type 'unobtainium' not recognized")
	assert.Contains(t, r.Warnings[0].Message, "limestone")
}

func TestValidateFormCrossRules(t *testing.T) {
	tests := []struct {
		name     string
		form     design.Form
		contains string
	}{
		{"steep and moderate rqd", design.Form{OreThickness: "5", DipAngle: "65", RQD: "60", MiningDepth: "100"}, "High dip angle"},
		{"shallow dip at depth", design.Form{OreThickness: "5", DipAngle: "10", RQD: "80", MiningDepth: "600"}, "Shallow dip"},
		{"poor rock at depth", design.Form{OreThickness: "5", DipAngle: "40", RQD: "40", MiningDepth: "400"}, "Poor rock quality"},
		{"thin and steep", design.Form{OreThickness: "0.5", DipAngle: "50", RQD: "80", MiningDepth: "100"}, "Thin ore bodies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := ValidateForm(&tt.form)
			require.True(t, r.Valid, "cross rules must never invalidate: %v", r.Errors)
			require.Len(t, r.Warnings, 1)
			assert.Equal(t, LevelRegulatory, r.Warnings[0].Level)
			assert.Contains(t, r.Warnings[0].Message, tt.contains)
		})
	}
}

func TestValidateFormCrossRulesSkipInvalidFields(t *testing.T) {
	f := &design.Form{OreThickness: "5", DipAngle: "80", RQD: "30", MiningDepth: "100"}
	_, r := ValidateForm(f)
	assert.False(t, r.Valid)
	assert.Empty(t, r.Warnings, "an out-of-range dip must not trigger the steep-dip alert")
}

func TestSanitizeNotes(t *testing.T) {
	assert.Equal(t, "scriptalert(x)/script", SanitizeNotes(`  <script>alert("x")</script> `))
	assert.Equal(t, "R  D", SanitizeNotes("R & D"))

	long := strings.Repeat("é", MaxNotesLength+50)
	assert.Equal(t, MaxNotesLength, len([]rune(SanitizeNotes(long))))
}

func assertHasError(t *testing.T, r *Report, field string) Result {
	t.Helper()
	e, ok := r.ErrorFor(field)
	if !ok {
		t.Fatalf("expected error for field %q, got errors: %v", field, r.Errors)
	}
	return e
}
