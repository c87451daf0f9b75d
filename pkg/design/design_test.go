package design

import (
	"strings"
	"testing"
)

func TestLoadProject(t *testing.T) {
	f, err := LoadProject("testdata")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if f.OreThickness != "4.5" {
		t.Errorf("ore_thickness = %q, want %q", f.OreThickness, "4.5")
	}
	if f.DipAngle != "50" {
		t.Errorf("dip_angle = %q, want %q", f.DipAngle, "50")
	}
	if f.RQD != "80" {
		t.Errorf("rqd = %q, want %q", f.RQD, "80")
	}
	if f.MiningDepth != "350" {
		t.Errorf("mining_depth = %q, want %q", f.MiningDepth, "350")
	}
	if f.SafetyFactor != "1.8" {
		t.Errorf("safety_factor = %q, want %q", f.SafetyFactor, "1.8")
	}
	if f.UCS != "" {
		t.Errorf("ucs = %q, want empty", f.UCS)
	}
	if f.OreType != "Gold" {
		t.Errorf("ore_type = %q, want %q", f.OreType, "Gold")
	}
	if !strings.Contains(f.Notes, "350 m level") {
		t.Errorf("notes = %q, want the hanging wall note", f.Notes)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load("testdata/broken.yaml")
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "parsing design YAML") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseOreType(t *testing.T) {
	tests := []struct {
		in   string
		want OreType
		ok   bool
	}{
		{"gold", OreGold, true},
		{"  Copper ", OreCopper, true},
		{"COAL", OreCoal, true},
		{"", OreGeneric, true},
		{"unobtainium", OreGeneric, false},
	}
	for _, tt := range tests {
		got, ok := ParseOreType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseOreType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOreDensity(t *testing.T) {
	for _, ot := range OreTypes {
		if ot.Density() <= 0 {
			t.Errorf("%s density = %v, want > 0", ot, ot.Density())
		}
	}
	if OreType("mystery").Density() != OreGeneric.Density() {
		t.Error("unknown ore type should fall back to the generic density")
	}
	if OreIron.Density() <= OreCoal.Density() {
		t.Error("iron ore should be denser than coal")
	}
}
