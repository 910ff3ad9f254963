package config_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adithya151/DCF---racker/internal/config"
)

func TestGoalConfig_GetExitCode(t *testing.T) {
	tests := []struct {
		name string
		goal config.GoalConfig
		want int
	}{
		{"not enabled defaults to one", config.GoalConfig{DailyKg: 1}, 1},
		{"enabled without code warns only", config.GoalConfig{DailyKg: 1, ExitOnExceeded: true}, 0},
		{"enabled with code", config.GoalConfig{DailyKg: 1, ExitOnExceeded: true, ExitCode: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.goal.GetExitCode())
		})
	}
}

func TestGoalConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		goal    config.GoalConfig
		wantErr error
	}{
		{"valid", config.GoalConfig{DailyKg: 1}, nil},
		{"negative", config.GoalConfig{DailyKg: -1}, config.ErrInvalidGoal},
		{"nan", config.GoalConfig{DailyKg: math.NaN()}, config.ErrInvalidGoal},
		{"inf", config.GoalConfig{DailyKg: math.Inf(1)}, config.ErrInvalidGoal},
		{"exit code ignored when disabled", config.GoalConfig{DailyKg: 1, ExitCode: 999}, nil},
		{"negative exit code", config.GoalConfig{DailyKg: 1, ExitOnExceeded: true, ExitCode: -1}, config.ErrExitCodeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
