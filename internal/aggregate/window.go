package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adithya151/DCF---racker/internal/emission"
)

// Period names a reporting window.
type Period string

// Recognised periods.
const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// Default look-back lengths in days.
const (
	DefaultWeekDays  = 7
	DefaultMonthDays = 30
)

// ParsePeriod converts a user-supplied period name. An empty string selects
// the week view.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodAll:
		return PeriodAll, nil
	default:
		return "", fmt.Errorf("%w: %q (must be week, month, or all)", ErrUnknownPeriod, s)
	}
}

// WindowConfig holds the look-back length of each bounded period.
type WindowConfig struct {
	WeekDays  int `yaml:"week_days"  json:"week_days"`
	MonthDays int `yaml:"month_days" json:"month_days"`
}

// DefaultWindowConfig returns the 7/30 day windows.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{WeekDays: DefaultWeekDays, MonthDays: DefaultMonthDays}
}

// Validate rejects non-positive look-back lengths.
func (c WindowConfig) Validate() error {
	if c.WeekDays <= 0 {
		return fmt.Errorf("%w: week_days must be > 0, got %d", ErrInvalidWindow, c.WeekDays)
	}
	if c.MonthDays <= 0 {
		return fmt.Errorf("%w: month_days must be > 0, got %d", ErrInvalidWindow, c.MonthDays)
	}
	return nil
}

// Window is a date range. A nil bound is open. Both bounds are inclusive and
// compared at calendar-day granularity.
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// AllTime is the unbounded window.
func AllTime() Window { return Window{} }

// Since returns a window starting at the given day with no end.
func Since(start time.Time) Window {
	s := emission.Day(start)
	return Window{Start: &s}
}

// OnDay returns a window covering exactly one calendar day.
func OnDay(day time.Time) Window {
	d := emission.Day(day)
	return Window{Start: &d, End: &d}
}

// Contains reports whether date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	d := emission.Day(date)
	if w.Start != nil && d.Before(emission.Day(*w.Start)) {
		return false
	}
	if w.End != nil && d.After(emission.Day(*w.End)) {
		return false
	}
	return true
}

// WindowFor computes the window for a period relative to today.
// week and month look back a fixed number of days; all is unbounded.
func WindowFor(p Period, today time.Time, cfg WindowConfig) Window {
	switch p {
	case PeriodWeek:
		return Since(emission.Day(today).AddDate(0, 0, -cfg.WeekDays))
	case PeriodMonth:
		return Since(emission.Day(today).AddDate(0, 0, -cfg.MonthDays))
	default:
		return AllTime()
	}
}
