// Package greenops turns kg CO2 figures into relatable equivalencies and
// display strings.
//
// Equivalencies use EPA-published conversion factors, e.g. "miles driven" or
// "smartphones charged", so a dashboard total means something at a glance.
package greenops

import "fmt"

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2 to miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2 to smartphone full charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings converts CO2 to tree seedlings grown for 10 years.
	// Only reported once the total reaches TreeSeedlingThresholdKg.
	EquivalencyTreeSeedlings
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// MarshalText encodes the type by name for JSON output.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes a name written by MarshalText.
func (e *EquivalencyType) UnmarshalText(text []byte) error {
	for _, t := range []EquivalencyType{
		EquivalencyMilesDriven,
		EquivalencySmartphonesCharged,
		EquivalencyTreeSeedlings,
	} {
		if string(text) == t.String() {
			*e = t
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownEquivalency, text)
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput contains all equivalency results for display.
type EquivalencyOutput struct {
	// InputKg is the kg CO2 the equivalencies were computed from.
	InputKg float64 `json:"input_kg"`

	// Results contains calculated equivalencies in priority order.
	Results []EquivalencyResult `json:"results,omitempty"`

	// DisplayText is the full prose format for CLI/TUI output.
	// Example: "Equivalent to driving ~3.1 miles or charging ~73 smartphones"
	DisplayText string `json:"display_text,omitempty"`

	// CompactText is the abbreviated format for table cells.
	// Example: "(≈ 3.1 mi, 73 phones)"
	CompactText string `json:"compact_text,omitempty"`

	// IsEmpty is true when the input was below MinEquivalencyThresholdKg.
	IsEmpty bool `json:"is_empty"`
}
