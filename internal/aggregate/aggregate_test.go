package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya151/DCF---racker/internal/emission"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func rec(id string, d int, emails int, drive float64, commits int) emission.ActivityRecord {
	return emission.ActivityRecord{
		ID:             id,
		UserID:         "alice",
		Date:           day(d),
		EmailsSent:     emails,
		DriveStorageGB: drive,
		GitHubCommits:  commits,
	}
}

// unit coefficients make per-record emission easy to reason about.
var unit = emission.Coefficients{PerEmailKg: 1, PerDriveGBKg: 1, PerCommitKg: 1}

func TestAggregate_ReferenceRecord(t *testing.T) {
	records := []emission.ActivityRecord{rec("a", 1, 100, 2, 50)}

	got := Aggregate(records, AllTime(), emission.DefaultCoefficients())

	assert.InDelta(t, 2.625, got.TotalCO2Kg, 1e-12)
	assert.Equal(t, 100, got.TotalEmails)
	assert.InDelta(t, 2.0, got.TotalDriveGB, 1e-12)
	assert.Equal(t, 50, got.TotalCommits)
	assert.InDelta(t, 2.2, got.Contribution.DriveKg, 1e-12)
	require.Len(t, got.Series, 1)
	assert.InDelta(t, 2.625, got.Series[0].CumulativeKg, 1e-12)
}

func TestAggregate_CumulativeSeries(t *testing.T) {
	records := []emission.ActivityRecord{
		rec("a", 1, 1, 0, 0),
		rec("b", 2, 0, 1.5, 0),
	}

	got := Aggregate(records, AllTime(), unit)

	require.Len(t, got.Series, 2)
	assert.Equal(t, day(1), got.Series[0].Date)
	assert.InDelta(t, 1.0, got.Series[0].CumulativeKg, 1e-12)
	assert.Equal(t, day(2), got.Series[1].Date)
	assert.InDelta(t, 2.5, got.Series[1].CumulativeKg, 1e-12)
}

func TestAggregate_SameDayEmitsOnePointPerRecord(t *testing.T) {
	records := []emission.ActivityRecord{
		rec("a", 5, 1, 0, 0),
		rec("b", 5, 2, 0, 0),
		rec("c", 4, 3, 0, 0),
	}

	got := Aggregate(records, AllTime(), unit)

	require.Len(t, got.Series, 3)
	// day 4 first, then the two day-5 records in submission order.
	assert.Equal(t, []float64{3, 4, 6}, got.Series.Values())
	assert.Equal(t, day(4), got.Series[0].Date)
	assert.Equal(t, day(5), got.Series[1].Date)
	assert.Equal(t, day(5), got.Series[2].Date)
}

func TestAggregate_WindowStartInclusive(t *testing.T) {
	records := []emission.ActivityRecord{
		rec("a", 1, 1, 0, 0),
		rec("b", 3, 2, 0, 0),
		rec("c", 4, 4, 0, 0),
	}

	got := Aggregate(records, Since(day(3)), unit)

	assert.Equal(t, 2, got.RecordCount)
	assert.Equal(t, 6, got.TotalEmails)
	assert.Equal(t, []float64{2, 6}, got.Series.Values())
}

func TestAggregate_WindowEndInclusive(t *testing.T) {
	records := []emission.ActivityRecord{
		rec("a", 1, 1, 0, 0),
		rec("b", 2, 2, 0, 0),
		rec("c", 3, 4, 0, 0),
	}
	start, end := day(1), day(2)

	got := Aggregate(records, Window{Start: &start, End: &end}, unit)

	assert.Equal(t, 3, got.TotalEmails)
}

func TestAggregate_EmptyAfterFilter(t *testing.T) {
	records := []emission.ActivityRecord{rec("a", 1, 10, 1, 1)}

	got := Aggregate(records, Since(day(20)), unit)

	assert.True(t, got.IsEmpty())
	assert.Zero(t, got.TotalCO2Kg)
	assert.Zero(t, got.TotalEmails)
	assert.Zero(t, got.TotalDriveGB)
	assert.Zero(t, got.TotalCommits)
	assert.Empty(t, got.Series)
}

func TestAggregate_NilInput(t *testing.T) {
	got := Aggregate(nil, AllTime(), emission.DefaultCoefficients())

	assert.True(t, got.IsEmpty())
	assert.Empty(t, got.Series)
	assert.Zero(t, got.DriveShare())
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	records := []emission.ActivityRecord{
		rec("late", 9, 1, 0, 0),
		rec("early", 1, 1, 0, 0),
	}

	_ = Aggregate(records, AllTime(), unit)

	assert.Equal(t, "late", records[0].ID)
	assert.Equal(t, "early", records[1].ID)
}

func sampleRecords() []emission.ActivityRecord {
	return []emission.ActivityRecord{
		rec("a", 7, 120, 0.4, 3),
		rec("b", 2, 15, 1.25, 40),
		rec("c", 7, 0, 0, 210),
		rec("d", 3, 7, 3.3, 0),
		rec("e", 1, 44, 0.01, 9),
		rec("f", 2, 3, 0, 1),
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	records := sampleRecords()
	w := Since(day(2))
	c := emission.DefaultCoefficients()

	first := Aggregate(records, w, c)
	for range 10 {
		assert.Equal(t, first, Aggregate(records, w, c))
	}
}

func TestAggregate_Additive(t *testing.T) {
	records := sampleRecords()
	c := emission.DefaultCoefficients()
	w := Since(day(2))

	got := Aggregate(records, w, c)

	want := 0.0
	for _, r := range Filter(records, w) {
		want += emission.Emission(r, c)
	}
	assert.Equal(t, want, got.TotalCO2Kg)
	assert.InDelta(t, got.TotalCO2Kg, got.Contribution.Total(), 1e-9)
}

func TestAggregate_MonotonicSeries(t *testing.T) {
	got := Aggregate(sampleRecords(), AllTime(), emission.DefaultCoefficients())

	values := got.Series.Values()
	require.Len(t, values, 6)
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1])
	}
	assert.InDelta(t, got.TotalCO2Kg, values[len(values)-1], 1e-12)
}

func TestWindowedAggregate_DriveShare(t *testing.T) {
	agg := WindowedAggregate{
		TotalCO2Kg:   10,
		Contribution: emission.Contribution{DriveKg: 7, EmailsKg: 3},
	}
	assert.InDelta(t, 0.7, agg.DriveShare(), 1e-12)
}

func TestDailyProgress(t *testing.T) {
	records := []emission.ActivityRecord{
		rec("a", 10, 0, 0.5, 0), // 0.55 kg
		rec("b", 10, 0, 0, 0),
		rec("c", 9, 0, 10, 0),
	}
	c := emission.DefaultCoefficients()

	tests := []struct {
		name        string
		goal        float64
		wantPercent int
		wantExceed  bool
	}{
		{name: "under goal", goal: 1.0, wantPercent: 55},
		{name: "capped at 100", goal: 0.1, wantPercent: 100, wantExceed: true},
		{name: "zero goal", goal: 0, wantPercent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyProgress(records, day(10).Add(15*time.Hour), c, tt.goal)
			assert.InDelta(t, 0.55, got.Kg, 1e-12)
			assert.Equal(t, tt.wantPercent, got.Percent)
			assert.Equal(t, tt.wantExceed, got.Exceeded())
			assert.Equal(t, day(10), got.Day)
		})
	}
}
