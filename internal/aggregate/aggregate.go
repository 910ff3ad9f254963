// Package aggregate reduces dated activity records into windowed totals and a
// cumulative emission series.
//
// A WindowedAggregate is never stored. It is recomputed from the current
// records and coefficients on every request so it cannot drift from its inputs.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/Adithya151/DCF---racker/internal/emission"
)

// PercentageMultiplier converts a ratio to a percentage.
const PercentageMultiplier = 100.0

// DefaultDailyGoalKg is the daily CO2e budget used for progress reporting.
const DefaultDailyGoalKg = 1.0

// SeriesPoint is one step of the cumulative series.
type SeriesPoint struct {
	Date         time.Time `json:"date"`
	CumulativeKg float64   `json:"cumulative_kg"`
}

// Series is the cumulative emission series, one point per record.
type Series []SeriesPoint

// Values returns the cumulative values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.CumulativeKg
	}
	return out
}

// WindowedAggregate is the derived view of a user's activity over a window.
type WindowedAggregate struct {
	TotalCO2Kg   float64               `json:"total_co2_kg"`
	TotalEmails  int                   `json:"total_emails"`
	TotalDriveGB float64               `json:"total_drive_gb"`
	TotalCommits int                   `json:"total_commits"`
	Contribution emission.Contribution `json:"contribution"`
	RecordCount  int                   `json:"record_count"`
	Series       Series                `json:"daily_series"`
}

// IsEmpty reports whether no record contributed to the aggregate.
func (a WindowedAggregate) IsEmpty() bool {
	return a.RecordCount == 0
}

// DriveShare returns the fraction of the total attributable to cloud storage.
// It returns 0 when the total is zero.
func (a WindowedAggregate) DriveShare() float64 {
	if a.TotalCO2Kg == 0 {
		return 0
	}
	return a.Contribution.DriveKg / a.TotalCO2Kg
}

// Filter returns the records inside the window ordered by date ascending.
// Records that share a date keep their original relative order. The input
// slice is not modified.
func Filter(records []emission.ActivityRecord, w Window) []emission.ActivityRecord {
	out := make([]emission.ActivityRecord, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return emission.Day(out[i].Date).Before(emission.Day(out[j].Date))
	})
	return out
}

// Aggregate computes totals and the cumulative series for the records inside
// the window. Every record uses the same coefficient set.
//
// The series carries one point per record rather than per calendar day, so two
// submissions on the same date yield two points.
func Aggregate(records []emission.ActivityRecord, w Window, c emission.Coefficients) WindowedAggregate {
	filtered := Filter(records, w)

	agg := WindowedAggregate{
		RecordCount: len(filtered),
		Series:      make(Series, 0, len(filtered)),
	}

	cumulative := 0.0
	for _, r := range filtered {
		b := emission.Breakdown(r, c)
		kg := b.Total()

		agg.TotalCO2Kg += kg
		agg.TotalEmails += r.EmailsSent
		agg.TotalDriveGB += r.DriveStorageGB
		agg.TotalCommits += r.GitHubCommits
		agg.Contribution = agg.Contribution.Add(b)

		cumulative += kg
		agg.Series = append(agg.Series, SeriesPoint{
			Date:         emission.Day(r.Date),
			CumulativeKg: cumulative,
		})
	}

	return agg
}

// Progress is the share of the daily goal already consumed on one day.
type Progress struct {
	Day     time.Time `json:"day"`
	Kg      float64   `json:"kg"`
	GoalKg  float64   `json:"goal_kg"`
	Percent int       `json:"percent"`
}

// Exceeded reports whether the day's emission is above the goal.
func (p Progress) Exceeded() bool {
	return p.GoalKg > 0 && p.Kg > p.GoalKg
}

// DailyProgress sums the emission of records dated on day and expresses it as
// a whole percentage of goalKg, truncated and capped at 100. A non-positive
// goal yields 0 percent.
func DailyProgress(records []emission.ActivityRecord, day time.Time, c emission.Coefficients, goalKg float64) Progress {
	d := emission.Day(day)
	kg := Aggregate(records, OnDay(d), c).TotalCO2Kg

	p := Progress{Day: d, Kg: kg, GoalKg: goalKg}
	if goalKg <= 0 {
		return p
	}

	pct := math.Floor(kg / goalKg * PercentageMultiplier)
	if pct > PercentageMultiplier {
		pct = PercentageMultiplier
	}
	p.Percent = int(pct)
	return p
}
