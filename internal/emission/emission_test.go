package emission

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmission(t *testing.T) {
	coeffs := DefaultCoefficients()

	tests := []struct {
		name   string
		record ActivityRecord
		want   float64
	}{
		{
			name:   "reference record",
			record: ActivityRecord{EmailsSent: 100, DriveStorageGB: 2, GitHubCommits: 50},
			want:   2.625, // 0.4 + 2.2 + 0.025
		},
		{
			name:   "zero record",
			record: ActivityRecord{},
			want:   0,
		},
		{
			name:   "emails only",
			record: ActivityRecord{EmailsSent: 250},
			want:   1.0,
		},
		{
			name:   "fractional storage",
			record: ActivityRecord{DriveStorageGB: 0.5},
			want:   0.55,
		},
		{
			name:   "commits only",
			record: ActivityRecord{GitHubCommits: 2000},
			want:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Emission(tt.record, coeffs), 1e-12)
		})
	}
}

func TestEmission_MatchesBreakdownTotal(t *testing.T) {
	coeffs := Coefficients{PerEmailKg: 0.0031, PerDriveGBKg: 0.77, PerCommitKg: 0.0009}
	r := ActivityRecord{EmailsSent: 37, DriveStorageGB: 3.3, GitHubCommits: 11}

	b := Breakdown(r, coeffs)
	assert.Equal(t, b.Total(), Emission(r, coeffs))
	assert.InDelta(t, 37*0.0031, b.EmailsKg, 1e-12)
	assert.InDelta(t, 3.3*0.77, b.DriveKg, 1e-12)
	assert.InDelta(t, 11*0.0009, b.CommitsKg, 1e-12)
}

func TestEmission_UsesSuppliedCoefficients(t *testing.T) {
	r := ActivityRecord{EmailsSent: 10, DriveStorageGB: 1, GitHubCommits: 10}

	assert.InDelta(t, 0.0, Emission(r, Coefficients{}), 1e-12)
	assert.InDelta(t, 21.0, Emission(r, Coefficients{PerEmailKg: 1, PerDriveGBKg: 1, PerCommitKg: 1}), 1e-12)
}

func TestContribution_Add(t *testing.T) {
	a := Contribution{EmailsKg: 1, DriveKg: 2, CommitsKg: 3}
	b := Contribution{EmailsKg: 0.5, DriveKg: 0.25, CommitsKg: 0.125}

	got := a.Add(b)
	assert.Equal(t, Contribution{EmailsKg: 1.5, DriveKg: 2.25, CommitsKg: 3.125}, got)
	assert.InDelta(t, 6.875, got.Total(), 1e-12)
}

func TestCoefficients_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coeffs  Coefficients
		wantErr error
	}{
		{name: "defaults", coeffs: DefaultCoefficients()},
		{name: "all zero", coeffs: Coefficients{}},
		{
			name:    "negative email",
			coeffs:  Coefficients{PerEmailKg: -0.1},
			wantErr: ErrNegativeCoefficient,
		},
		{
			name:    "negative commit",
			coeffs:  Coefficients{PerCommitKg: -1},
			wantErr: ErrNegativeCoefficient,
		},
		{
			name:    "nan drive",
			coeffs:  Coefficients{PerDriveGBKg: math.NaN()},
			wantErr: ErrNonFiniteValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coeffs.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateRecord(t *testing.T) {
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	valid := ActivityRecord{UserID: "alice", Date: day, EmailsSent: 3, DriveStorageGB: 1.5, GitHubCommits: 2}

	tests := []struct {
		name    string
		mutate  func(r *ActivityRecord)
		wantErr error
	}{
		{name: "valid", mutate: func(*ActivityRecord) {}},
		{name: "missing user", mutate: func(r *ActivityRecord) { r.UserID = "" }, wantErr: ErrMissingUser},
		{name: "missing date", mutate: func(r *ActivityRecord) { r.Date = time.Time{} }, wantErr: ErrMissingDate},
		{name: "negative emails", mutate: func(r *ActivityRecord) { r.EmailsSent = -1 }, wantErr: ErrNegativeValue},
		{name: "negative storage", mutate: func(r *ActivityRecord) { r.DriveStorageGB = -0.1 }, wantErr: ErrNegativeValue},
		{name: "infinite storage", mutate: func(r *ActivityRecord) { r.DriveStorageGB = math.Inf(1) }, wantErr: ErrNonFiniteValue},
		{name: "negative commits", mutate: func(r *ActivityRecord) { r.GitHubCommits = -5 }, wantErr: ErrNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := ValidateRecord(r)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2025, 6, 7, 23, 45, 1, 9, loc)

	got := Day(in)
	assert.Equal(t, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), got)
}
