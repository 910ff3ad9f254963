package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertFromKg(t *testing.T) {
	tests := []struct {
		name    string
		kg      float64
		unit    string
		want    float64
		wantErr error
	}{
		{name: "kg identity", kg: 2.5, unit: "kg", want: 2.5},
		{name: "empty unit is kg", kg: 2.5, unit: "", want: 2.5},
		{name: "grams", kg: 0.6, unit: "g", want: 600},
		{name: "tons", kg: 1500, unit: "t", want: 1.5},
		{name: "pounds", kg: 1, unit: "lb", want: 2.20462},
		{name: "case insensitive", kg: 1, unit: "KgCO2e", want: 1},
		{name: "invalid unit", kg: 1, unit: "stone", wantErr: ErrInvalidUnit},
		{name: "negative", kg: -0.1, unit: "kg", wantErr: ErrNegativeValue},
		{name: "nan", kg: math.NaN(), unit: "kg", wantErr: ErrCalculationOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertFromKg(tt.kg, tt.unit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestIsRecognizedUnit(t *testing.T) {
	for _, u := range []string{"g", "kg", "t", "lb", "gCO2e", "TCO2"} {
		assert.True(t, IsRecognizedUnit(u), u)
	}
	for _, u := range []string{"oz", "mg", "kgs"} {
		assert.False(t, IsRecognizedUnit(u), u)
	}
}

func TestCanonicalUnit(t *testing.T) {
	got, err := CanonicalUnit("lbCO2e")
	assert.NoError(t, err)
	assert.Equal(t, UnitPounds, got)

	_, err = CanonicalUnit("oz")
	assert.ErrorIs(t, err, ErrInvalidUnit)
}
