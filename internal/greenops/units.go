package greenops

import (
	"math"
	"strings"
)

// Display units accepted by ConvertFromKg.
const (
	UnitGrams  = "g"
	UnitKg     = "kg"
	UnitTons   = "t"
	UnitPounds = "lb"
)

// unitFactor returns kilograms per unit. Matching is case-insensitive and
// accepts the CO2 suffixed spellings.
func unitFactor(unit string) (float64, string, bool) {
	switch strings.ToLower(unit) {
	case "g", "gco2", "gco2e":
		return GramsToKg, UnitGrams, true
	case "", "kg", "kgco2", "kgco2e":
		return KgToKg, UnitKg, true
	case "t", "tco2", "tco2e":
		return TonsToKg, UnitTons, true
	case "lb", "lbco2", "lbco2e":
		return PoundsToKg, UnitPounds, true
	default:
		return 0, "", false
	}
}

// ConvertFromKg converts kilograms into the given display unit. An empty unit
// means kilograms.
func ConvertFromKg(kg float64, unit string) (float64, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return 0, ErrCalculationOverflow
	}
	if kg < 0 {
		return 0, ErrNegativeValue
	}

	factor, _, ok := unitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := kg / factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// CanonicalUnit returns the short spelling of a recognized unit.
func CanonicalUnit(unit string) (string, error) {
	_, canonical, ok := unitFactor(unit)
	if !ok {
		return "", ErrInvalidUnit
	}
	return canonical, nil
}

// IsRecognizedUnit reports whether unit is accepted by ConvertFromKg.
func IsRecognizedUnit(unit string) bool {
	_, _, ok := unitFactor(unit)
	return ok
}
