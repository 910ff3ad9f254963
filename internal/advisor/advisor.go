// Package advisor turns an aggregate into ordered reduction suggestions.
package advisor

import (
	"fmt"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
)

// Default rule thresholds.
const (
	DefaultDriveShare = 0.6
	DefaultEmails     = 100
	DefaultCommits    = 200
)

// Thresholds are the externally adjustable rule limits. Each rule fires when
// the observed value is strictly greater than its limit.
type Thresholds struct {
	// DriveShare is the fraction of total CO2e attributable to storage.
	DriveShare float64 `yaml:"drive_share" json:"drive_share"`
	Emails     int     `yaml:"emails"      json:"emails"`
	Commits    int     `yaml:"commits"     json:"commits"`
}

// DefaultThresholds returns the 60% / 100 emails / 200 commits rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DriveShare: DefaultDriveShare,
		Emails:     DefaultEmails,
		Commits:    DefaultCommits,
	}
}

// Validate checks that the share is a fraction and the counts are non-negative.
func (t Thresholds) Validate() error {
	if t.DriveShare < 0 || t.DriveShare > 1 {
		return fmt.Errorf("%w: drive_share must be between 0 and 1, got %g", ErrInvalidThreshold, t.DriveShare)
	}
	if t.Emails < 0 {
		return fmt.Errorf("%w: emails must be >= 0, got %d", ErrInvalidThreshold, t.Emails)
	}
	if t.Commits < 0 {
		return fmt.Errorf("%w: commits must be >= 0, got %d", ErrInvalidThreshold, t.Commits)
	}
	return nil
}

// Kind identifies which rule produced a suggestion.
type Kind string

// Suggestion kinds in evaluation order.
const (
	KindStorage  Kind = "storage"
	KindEmail    Kind = "email"
	KindCommits  Kind = "commits"
	KindPositive Kind = "positive"
)

// Suggestion is one piece of advice.
type Suggestion struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Suggestion messages.
const (
	MessageStorage  = "Reduce cloud storage usage, as it contributes most to your CO2 footprint."
	MessageEmail    = "Consider deleting old emails and reducing unnecessary emails."
	MessageCommits  = "Optimize commits or batch updates to reduce emissions from GitHub activity."
	MessagePositive = "Great job! Your digital carbon footprint is under control."
)

// Advise evaluates every rule in a fixed order and returns all that match.
// When none match, a single positive message is returned. The storage rule is
// not evaluated when the total is zero.
func Advise(agg aggregate.WindowedAggregate, t Thresholds) []Suggestion {
	var out []Suggestion

	if agg.TotalCO2Kg > 0 && agg.Contribution.DriveKg > t.DriveShare*agg.TotalCO2Kg {
		out = append(out, Suggestion{Kind: KindStorage, Message: MessageStorage})
	}
	if agg.TotalEmails > t.Emails {
		out = append(out, Suggestion{Kind: KindEmail, Message: MessageEmail})
	}
	if agg.TotalCommits > t.Commits {
		out = append(out, Suggestion{Kind: KindCommits, Message: MessageCommits})
	}

	if len(out) == 0 {
		out = append(out, Suggestion{Kind: KindPositive, Message: MessagePositive})
	}
	return out
}

// Messages extracts the display strings from suggestions.
func Messages(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = sg.Message
	}
	return out
}
