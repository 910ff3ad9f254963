// Package forecast projects a cumulative emission series a fixed number of
// steps ahead with an ordinary least-squares line.
//
// The x axis is the position of each point in the series, not its calendar
// date. Gaps between submissions are not modelled, so the projection is only
// meaningful when users submit roughly once per day. A horizon of 7 therefore
// reads as "seven submissions ahead", which is one week under that assumption.
package forecast

import "math"

// Forecast defaults.
const (
	// DefaultHorizon is the number of steps projected past the series.
	DefaultHorizon = 7

	// MinPoints is the smallest series length that produces a prediction.
	MinPoints = 3

	// DisplayPrecision is the number of decimal places in Prediction.Value.
	DisplayPrecision = 2
)

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Prediction is a projected cumulative value.
type Prediction struct {
	// Value is Raw rounded to DisplayPrecision places.
	Value float64 `json:"value"`
	// Raw is the unrounded projection, kept for chained computation.
	Raw float64 `json:"raw"`
	// Index is the x position the line was evaluated at.
	Index   int  `json:"index"`
	Horizon int  `json:"horizon"`
	Line    Line `json:"line"`
}

// Fit computes the least-squares line through (i, ys[i]) for i = 0..n-1.
// It returns false when fewer than MinPoints values are supplied.
func Fit(ys []float64) (Line, bool) {
	if len(ys) < MinPoints {
		return Line{}, false
	}

	n := float64(len(ys))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	// Distinct integer x values keep the denominator positive for n >= 2.
	denom := n*sumX2 - sumX*sumX
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	return Line{Slope: slope, Intercept: intercept}, true
}

// Forecast fits ys and evaluates the line horizon steps after the end of the
// series, at x = len(ys) + horizon. It returns false when the series is too
// short; callers should show no prediction rather than an error.
func Forecast(ys []float64, horizon int) (Prediction, bool) {
	line, ok := Fit(ys)
	if !ok {
		return Prediction{}, false
	}

	idx := len(ys) + horizon
	raw := line.At(float64(idx))

	return Prediction{
		Value:   Round(raw, DisplayPrecision),
		Raw:     raw,
		Index:   idx,
		Horizon: horizon,
		Line:    line,
	}, true
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	const base = 10
	m := math.Pow(base, float64(places))
	return math.Round(v*m) / m
}
