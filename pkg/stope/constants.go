package stope

// Rock mass classification constants.
const (
	CMRIRMRAdjustment = 5.0 // CMRI correction added to the RQD-based RMR

	// Barton Q-system joint parameters for a typical jointed hard-rock mass.
	JointRoughness  = 2.0 // Jr
	JointAlteration = 1.0 // Ja
	JointWater      = 1.0 // Jw
	StressReduction = 2.5 // SRF

	DeepStressFactor = 0.85 // Mathews A factor below DeepThreshold
	DeepThreshold    = 500  // m

	// Width is scaled by the DGMS minimum safety factor times this derating.
	WidthDerating = 0.8
)
