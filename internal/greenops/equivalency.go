package greenops

import (
	"fmt"
	"math"
)

// Calculate computes equivalencies for a kg CO2 total.
//
// Totals below MinEquivalencyThresholdKg yield an empty output and no error.
// The tree seedling entry is appended only from TreeSeedlingThresholdKg up.
func Calculate(kg float64) (EquivalencyOutput, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return EquivalencyOutput{IsEmpty: true}, ErrNegativeValue
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor

	milesFormatted := formatEquivalencyValue(miles)
	phonesFormatted := formatEquivalencyValue(phones)

	results := []EquivalencyResult{
		{
			Type:           EquivalencyMilesDriven,
			Value:          miles,
			FormattedValue: milesFormatted,
			Label:          "miles driven",
		},
		{
			Type:           EquivalencySmartphonesCharged,
			Value:          phones,
			FormattedValue: phonesFormatted,
			Label:          "smartphones charged",
		},
	}

	displayText := fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		milesFormatted, phonesFormatted)

	if kg >= TreeSeedlingThresholdKg {
		trees := kg / EPATreeSeedlingFactor
		treesFormatted := formatEquivalencyValue(trees)
		results = append(results, EquivalencyResult{
			Type:           EquivalencyTreeSeedlings,
			Value:          trees,
			FormattedValue: treesFormatted,
			Label:          "tree seedlings grown for 10 years",
		})
		displayText += fmt.Sprintf(", or ~%s tree seedlings grown for 10 years", treesFormatted)
	}

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: displayText,
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", milesFormatted, phonesFormatted),
	}, nil
}

// formatEquivalencyValue keeps one decimal for small values, uses grouped
// integers in the middle range, and abbreviates millions and billions.
func formatEquivalencyValue(v float64) string {
	if v < SmallValueThreshold {
		return FormatFloat(v, 1)
	}
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
