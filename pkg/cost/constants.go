package cost

// Unit rates for Indian underground metal mines, in INR.
// Baseline values from IBM cost norms, 2024 indexation.
const (
	DrillBlastRateM3PerHour = 2.5    // m³ broken per crew hour
	CrewCostPerHour         = 1100.0 // INR/h, drill-and-blast crew
	EquipmentCostPerM3      = 62.0   // INR/m³, LHD and haulage
	SupportBaseCostPerM3    = 120.0  // INR/m³ at RQD 100, surface depth
	VentilationCostPerM3    = 75.0   // INR/m³

	// SupportDepthScale is the depth at which support cost doubles.
	SupportDepthScale = 1000.0

	Currency = "INR"
)
