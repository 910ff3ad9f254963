package greenops

// EPA Formula Constants (2024 Edition)
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
// To calculate an equivalency, divide the carbon value by the factor:
//
//	equivalency = kg_CO2 / factor
const (
	// EPAMilesDrivenFactor is kg CO2 per mile for an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2 per smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2 absorbed per tree seedling over 10 years.
	EPATreeSeedlingFactor = 60.0
)

// Display unit conversion factors, expressed as kilograms per unit.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// Display Threshold Constants control when equivalencies are shown.
const (
	// MinEquivalencyThresholdKg is the minimum kg CO2 for showing equivalencies.
	// A handful of emails is well below a single smartphone charge.
	MinEquivalencyThresholdKg = 0.01

	// TreeSeedlingThresholdKg is where the tree equivalency becomes at least one tree.
	TreeSeedlingThresholdKg = EPATreeSeedlingFactor

	// SmallValueThreshold is below which equivalencies keep one decimal place.
	SmallValueThreshold = 10.0

	// LargeNumberThreshold is the threshold for using abbreviated display.
	// Values at or above this threshold use "~X.X million" format.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold is the threshold for billion-scale display.
	BillionThreshold = 1_000_000_000
)
