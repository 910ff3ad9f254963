// Package emission converts self-reported digital activity into kilograms of
// CO2-equivalent.
//
// All arithmetic is plain float64 with no intermediate rounding. Rounding for
// display belongs to the presentation layer so that error does not compound
// across many records.
package emission

import (
	"fmt"
	"math"
	"time"
)

// Default per-unit coefficients in kg CO2e.
const (
	// DefaultPerEmailKg is 4 g per email sent.
	DefaultPerEmailKg = 0.004

	// DefaultPerDriveGBKg is 1.1 kg per GB of cloud storage held for a month.
	DefaultPerDriveGBKg = 1.1

	// DefaultPerCommitKg is 0.5 g per code commit.
	DefaultPerCommitKg = 0.0005
)

// Coefficients is the per-unit emission factor set. A single value is used for
// an entire computation; it is passed explicitly rather than read from
// process-wide state.
type Coefficients struct {
	PerEmailKg   float64 `yaml:"per_email_kg"    json:"per_email_kg"`
	PerDriveGBKg float64 `yaml:"per_drive_gb_kg" json:"per_drive_gb_kg"`
	PerCommitKg  float64 `yaml:"per_commit_kg"   json:"per_commit_kg"`
}

// DefaultCoefficients returns the reference coefficient set.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		PerEmailKg:   DefaultPerEmailKg,
		PerDriveGBKg: DefaultPerDriveGBKg,
		PerCommitKg:  DefaultPerCommitKg,
	}
}

// Validate reports an error when any coefficient is negative or not finite.
func (c Coefficients) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"per_email_kg", c.PerEmailKg},
		{"per_drive_gb_kg", c.PerDriveGBKg},
		{"per_commit_kg", c.PerCommitKg},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s: %w", f.name, ErrNonFiniteValue)
		}
		if f.value < 0 {
			return fmt.Errorf("%s: %w: got %g", f.name, ErrNegativeCoefficient, f.value)
		}
	}
	return nil
}

// ActivityRecord is one submission of daily activity for one user.
type ActivityRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Date           time.Time `json:"date"`
	EmailsSent     int       `json:"emails_sent"`
	DriveStorageGB float64   `json:"drive_storage_gb"`
	GitHubCommits  int       `json:"github_commits"`
	CreatedAt      time.Time `json:"created_at"`
}

// Contribution splits a record's emission by activity source.
type Contribution struct {
	EmailsKg  float64 `json:"emails_kg"`
	DriveKg   float64 `json:"drive_kg"`
	CommitsKg float64 `json:"commits_kg"`
}

// Total sums the three sources in a fixed order so that it matches Emission
// bit for bit.
func (c Contribution) Total() float64 {
	return c.EmailsKg + c.DriveKg + c.CommitsKg
}

// Add returns the element-wise sum of two contributions.
func (c Contribution) Add(o Contribution) Contribution {
	return Contribution{
		EmailsKg:  c.EmailsKg + o.EmailsKg,
		DriveKg:   c.DriveKg + o.DriveKg,
		CommitsKg: c.CommitsKg + o.CommitsKg,
	}
}

// Breakdown computes the per-source emission of a record.
// Zero-valued fields contribute nothing.
func Breakdown(r ActivityRecord, c Coefficients) Contribution {
	return Contribution{
		EmailsKg:  float64(r.EmailsSent) * c.PerEmailKg,
		DriveKg:   r.DriveStorageGB * c.PerDriveGBKg,
		CommitsKg: float64(r.GitHubCommits) * c.PerCommitKg,
	}
}

// Emission returns the kg CO2e attributed to a single record.
//
// Inputs are assumed to be validated and non-negative; negative counters yield
// meaningless but finite output rather than a panic.
func Emission(r ActivityRecord, c Coefficients) float64 {
	return Breakdown(r, c).Total()
}

// ValidateRecord checks the ingestion preconditions for a record.
func ValidateRecord(r ActivityRecord) error {
	if r.UserID == "" {
		return ErrMissingUser
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	if r.EmailsSent < 0 {
		return fmt.Errorf("emails_sent: %w: got %d", ErrNegativeValue, r.EmailsSent)
	}
	if math.IsNaN(r.DriveStorageGB) || math.IsInf(r.DriveStorageGB, 0) {
		return fmt.Errorf("drive_storage_gb: %w", ErrNonFiniteValue)
	}
	if r.DriveStorageGB < 0 {
		return fmt.Errorf("drive_storage_gb: %w: got %g", ErrNegativeValue, r.DriveStorageGB)
	}
	if r.GitHubCommits < 0 {
		return fmt.Errorf("github_commits: %w: got %d", ErrNegativeValue, r.GitHubCommits)
	}
	return nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
