package config

import (
	"errors"
	"fmt"
	"math"
)

// Exit code bounds.
const (
	MinExitCode = 0   // Minimum valid exit code
	MaxExitCode = 255 // Maximum valid exit code (Unix standard)

	defaultExitCode = 1
)

// Goal validation errors.
var (
	ErrInvalidGoal        = errors.New("daily goal must be a positive finite number")
	ErrExitCodeOutOfRange = errors.New("exit code must be between 0 and 255")
)

// GoalConfig is the per-day CO2 goal and what the CLI does when it is exceeded.
type GoalConfig struct {
	// DailyKg is the per-day goal in kg CO2.
	DailyKg float64 `yaml:"daily_kg" json:"daily_kg"`
	// ExitOnExceeded makes `dcftracker dashboard` exit non-zero when today's
	// emissions are over the goal.
	ExitOnExceeded bool `yaml:"exit_on_exceeded" json:"exit_on_exceeded,omitempty"`
	// ExitCode is used when ExitOnExceeded is set. Zero means warn only.
	ExitCode int `yaml:"exit_code" json:"exit_code,omitempty"`
}

// ShouldExitOnExceeded reports whether exceeding the goal changes the exit code.
func (g GoalConfig) ShouldExitOnExceeded() bool {
	return g.ExitOnExceeded
}

// GetExitCode returns the exit code for an exceeded goal.
//
// With ExitOnExceeded set and ExitCode zero the CLI only warns. Otherwise the
// configured code is returned, defaulting to 1.
func (g GoalConfig) GetExitCode() int {
	if g.ExitOnExceeded && g.ExitCode == 0 {
		return 0
	}
	if g.ExitCode != 0 {
		return g.ExitCode
	}
	return defaultExitCode
}

// Validate checks the goal and exit code.
func (g GoalConfig) Validate() error {
	if g.DailyKg <= 0 || math.IsNaN(g.DailyKg) || math.IsInf(g.DailyKg, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidGoal, g.DailyKg)
	}
	if g.ExitOnExceeded {
		if g.ExitCode < MinExitCode || g.ExitCode > MaxExitCode {
			return fmt.Errorf("%w: got %d", ErrExitCodeOutOfRange, g.ExitCode)
		}
	}
	return nil
}
