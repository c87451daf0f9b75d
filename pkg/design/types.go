package design

import "strings"

// Regulatory limits applied to every design.
const (
	DGMSSafetyFactorMin = 1.5    // minimum safety factor, DGMS Tech. Circular No. 3 of 2019
	DGMSMinRQD          = 25.0   // minimum RQD (%) for any underground operation
	DGMSMinPillarWidth  = 3.0    // m
	MMRMaxDip           = 70.0   // degrees, MMR limit for most methods
	IBMMaxDepth         = 2000.0 // m, practical limit for Indian underground mines
	MaxSafetyFactor     = 10.0
)

// Form is a design submission exactly as the user entered it. Every value is
// kept as text so that validation can report non-numeric entries per field.
type Form struct {
	OreThickness string `yaml:"ore_thickness" json:"ore_thickness"`
	DipAngle     string `yaml:"dip_angle" json:"dip_angle"`
	RQD          string `yaml:"rqd" json:"rqd"`
	MiningDepth  string `yaml:"mining_depth" json:"mining_depth"`
	SafetyFactor string `yaml:"safety_factor" json:"safety_factor"`
	UCS          string `yaml:"ucs" json:"ucs"`
	OreType      string `yaml:"ore_type" json:"ore_type"`
	Notes        string `yaml:"notes" json:"notes"`
}

// Input is a validated design submission.
type Input struct {
	OreThickness float64 `json:"ore_thickness_m"`
	DipAngle     float64 `json:"dip_angle_deg"`
	RQD          float64 `json:"rqd_pct"`
	MiningDepth  float64 `json:"mining_depth_m"`
	SafetyFactor float64 `json:"target_safety_factor"`
	UCS          float64 `json:"ucs_mpa,omitempty"` // 0 when not measured
	OreType      OreType `json:"ore_type"`
	Notes        string  `json:"notes,omitempty"`
}

// OreType is an Indian mineral classification.
type OreType string

const (
	OreGeneric   OreType = "generic"
	OreGold      OreType = "gold"
	OreCopper    OreType = "copper"
	OreIron      OreType = "iron"
	OreZinc      OreType = "zinc"
	OreLead      OreType = "lead"
	OreBauxite   OreType = "bauxite"
	OreChromite  OreType = "chromite"
	OreManganese OreType = "manganese"
	OreLimestone OreType = "limestone"
	OreCoal      OreType = "coal"
)

// OreTypes lists the recognised ore types in display order.
var OreTypes = []OreType{
	OreGeneric, OreGold, OreCopper, OreIron, OreZinc, OreLead,
	OreBauxite, OreChromite, OreManganese, OreLimestone, OreCoal,
}

// Typical in-situ ore densities in t/m³.
var oreDensities = map[OreType]float64{
	OreGeneric:   2.7,
	OreGold:      2.7,
	OreCopper:    2.8,
	OreIron:      4.5,
	OreZinc:      3.3,
	OreLead:      3.4,
	OreBauxite:   2.3,
	OreChromite:  4.0,
	OreManganese: 3.8,
	OreLimestone: 2.6,
	OreCoal:      1.4,
}

// ParseOreType normalises s and reports whether it is a recognised type.
// Unrecognised values map to OreGeneric.
func ParseOreType(s string) (OreType, bool) {
	t := OreType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return OreGeneric, true
	}
	if _, ok := oreDensities[t]; ok {
		return t, true
	}
	return OreGeneric, false
}

// Density returns the in-situ density in t/m³.
func (t OreType) Density() float64 {
	if d, ok := oreDensities[t]; ok {
		return d
	}
	return oreDensities[OreGeneric]
}
