package stability

// Class is the DGMS stability classification of a computed safety factor.
type Class string

const (
	ClassUnstable         Class = "Unstable (Below DGMS Minimum)"
	ClassMarginallyStable Class = "Marginally Stable"
	ClassStable           Class = "Stable"
	ClassHighlyStable     Class = "Highly Stable"
)

// Stress holds the in-situ stress state at stope depth, in MPa.
type Stress struct {
	Vertical   float64 `json:"vertical_mpa"`
	Horizontal float64 `json:"horizontal_mpa"`
	KRatio     float64 `json:"k_ratio"`
}

// Strength holds the Hoek-Brown rock mass strength estimate.
type Strength struct {
	UCS          float64 `json:"ucs_mpa"`
	UCSEstimated bool    `json:"ucs_estimated"`
	GSI          float64 `json:"gsi"`
	Mb           float64 `json:"mb"`
	S            float64 `json:"s"`
	RockMass     float64 `json:"rock_mass_mpa"` // thickness-adjusted
}

// Result is the stability assessment of one stope design.
type Result struct {
	RMR             float64  `json:"rmr"`
	QValue          float64  `json:"q_value"`
	StabilityNumber float64  `json:"stability_number"`
	Stress          Stress   `json:"stress"`
	Strength        Strength `json:"strength"`
	SafetyFactor    float64  `json:"safety_factor"`
	TargetFactor    float64  `json:"target_safety_factor"`
	Class           Class    `json:"stability_class"`
	DGMSCompliant   bool     `json:"dgms_compliant"`
	MeetsTarget     bool     `json:"meets_target"`

	// FailureProbability is set only when a risk predictor was consulted.
	FailureProbability *float64 `json:"failure_probability,omitempty"`
}
