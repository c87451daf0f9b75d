package stope

// Type is a stoping (mining) method.
type Type string

const (
	VerticalCraterRetreat Type = "Vertical Crater Retreat"
	SublevelStoping       Type = "Sublevel Stoping"
	CutAndFill            Type = "Cut-and-Fill"
	RoomAndPillar         Type = "Room-and-Pillar"
	ShrinkageStoping      Type = "Shrinkage Stoping"
)

// Types lists every method in decision-table order.
var Types = []Type{
	VerticalCraterRetreat,
	SublevelStoping,
	CutAndFill,
	RoomAndPillar,
	ShrinkageStoping,
}

// Dimensions holds the recommended excavation geometry and the rock mass
// ratings it was derived from.
type Dimensions struct {
	Type            Type    `json:"stope_type"`
	Length          float64 `json:"length_m"`
	Width           float64 `json:"width_m"`
	Height          float64 `json:"height_m"`
	Volume          float64 `json:"volume_m3"`
	HydraulicRadius float64 `json:"hydraulic_radius_m"`
	StabilityNumber float64 `json:"stability_number"`
	RMR             float64 `json:"rmr"`
	QValue          float64 `json:"q_value"`
}

// Range is a closed interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Characteristics describes the typical envelope of a stoping method.
// Zero MinDip/MaxDip mean no bound.
type Characteristics struct {
	TypicalWidth  Range   `json:"typical_width_m"`
	TypicalLength Range   `json:"typical_length_m"`
	TypicalHeight Range   `json:"typical_height_m"`
	MinDip        float64 `json:"min_dip_deg,omitempty"`
	MaxDip        float64 `json:"max_dip_deg,omitempty"`
	MinRQD        float64 `json:"min_rqd_pct"`
	Description   string  `json:"description"`
}

var characteristics = map[Type]Characteristics{
	SublevelStoping: {
		TypicalWidth: Range{15, 25}, TypicalLength: Range{40, 80}, TypicalHeight: Range{20, 60},
		MinDip: 45, MinRQD: 75,
		Description: "Large-scale method with sublevel development",
	},
	RoomAndPillar: {
		TypicalWidth: Range{6, 12}, TypicalLength: Range{20, 50}, TypicalHeight: Range{3, 8},
		MaxDip: 30, MinRQD: 50,
		Description: "Systematic extraction with support pillars",
	},
	CutAndFill: {
		TypicalWidth: Range{8, 15}, TypicalLength: Range{30, 60}, TypicalHeight: Range{4, 12},
		MinDip: 30, MinRQD: 60,
		Description: "Sequential cutting and backfilling",
	},
	ShrinkageStoping: {
		TypicalWidth: Range{4, 8}, TypicalLength: Range{20, 40}, TypicalHeight: Range{15, 50},
		MinDip: 50, MinRQD: 40,
		Description: "Ore storage method for steep deposits",
	},
	VerticalCraterRetreat: {
		TypicalWidth: Range{20, 35}, TypicalLength: Range{50, 100}, TypicalHeight: Range{30, 80},
		MinDip: 60, MinRQD: 80,
		Description: "Large-hole blasting method",
	},
}

// CharacteristicsOf returns the typical envelope for t.
func CharacteristicsOf(t Type) (Characteristics, bool) {
	c, ok := characteristics[t]
	return c, ok
}
