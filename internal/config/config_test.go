package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/greenops"
	"github.com/Adithya151/DCF---racker/internal/logging"
)

func TestDefault(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.InDelta(t, 0.004, cfg.Emission.PerEmailKg, 1e-12)
	assert.InDelta(t, 1.1, cfg.Emission.PerDriveGBKg, 1e-12)
	assert.InDelta(t, 0.0005, cfg.Emission.PerCommitKg, 1e-12)
	assert.Equal(t, 7, cfg.Forecast.Horizon)
	assert.Equal(t, 10, cfg.Leaderboard.Size)
	assert.Equal(t, 7, cfg.Windows.WeekDays)
	assert.Equal(t, 30, cfg.Windows.MonthDays)
	assert.InDelta(t, 1.0, cfg.Goal.DailyKg, 1e-12)
	assert.Equal(t, config.StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, config.OutputTable, cfg.Output.DefaultFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr error
	}{
		{"defaults", func(*config.Config) {}, nil},
		{"negative horizon", func(c *config.Config) { c.Forecast.Horizon = -1 }, config.ErrInvalidHorizon},
		{"zero horizon allowed", func(c *config.Config) { c.Forecast.Horizon = 0 }, nil},
		{"zero leaderboard", func(c *config.Config) { c.Leaderboard.Size = 0 }, config.ErrInvalidLeaderboard},
		{"zero concurrency", func(c *config.Config) { c.Leaderboard.RefreshConcurrency = 0 }, config.ErrInvalidConcurrency},
		{"unknown driver", func(c *config.Config) { c.Store.Driver = "sqlite" }, config.ErrUnknownStoreDriver},
		{"postgres without dsn", func(c *config.Config) { c.Store.Driver = config.StoreDriverPostgres }, config.ErrStoreDSNRequired},
		{"unknown output", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, config.ErrUnknownOutputFormat},
		{"precision too high", func(c *config.Config) { c.Output.Precision = 11 }, config.ErrInvalidPrecision},
		{"unknown unit", func(c *config.Config) { c.Output.Unit = "oz" }, config.ErrUnknownOutputUnit},
		{"suffixed unit allowed", func(c *config.Config) { c.Output.Unit = "gCO2e" }, nil},
		{"empty unit allowed", func(c *config.Config) { c.Output.Unit = "" }, nil},
		{"zero goal", func(c *config.Config) { c.Goal.DailyKg = 0 }, config.ErrInvalidGoal},
		{"exit code out of range", func(c *config.Config) {
			c.Goal.ExitOnExceeded = true
			c.Goal.ExitCode = 256
		}, config.ErrExitCodeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DCFTRACKER_HOME", t.TempDir())
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_NestedSections(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())

	cfg := config.Default()
	cfg.Emission.PerEmailKg = -1
	assert.ErrorContains(t, cfg.Validate(), "emission")

	cfg = config.Default()
	cfg.Windows.WeekDays = 0
	assert.ErrorContains(t, cfg.Validate(), "windows")

	cfg = config.Default()
	cfg.Advisor.DriveShare = 2
	assert.ErrorContains(t, cfg.Validate(), "advisor")
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.Default()
	cfg.SetPath(path)
	cfg.Leaderboard.Size = 25
	cfg.Server.ReadTimeout = 3 * time.Second
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.Leaderboard.Size)
	assert.Equal(t, 3*time.Second, loaded.Server.ReadTimeout)
	assert.Equal(t, path, loaded.Path())
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("leaderboard: [unclosed"), 0600))
	_, err = config.Load(bad)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestNew_ReadsConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DCFTRACKER_HOME", home)
	require.NoError(t, os.WriteFile(
		filepath.Join(home, "config.yaml"),
		[]byte("forecast:\n  horizon: 14\n"),
		0600,
	))

	cfg := config.New()
	assert.Equal(t, 14, cfg.Forecast.Horizon)
	// Sections not present keep their defaults.
	assert.Equal(t, 10, cfg.Leaderboard.Size)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.Path())
}

func TestNew_MalformedFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DCFTRACKER_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(":::"), 0600))

	cfg := config.New()
	assert.Equal(t, 7, cfg.Forecast.Horizon)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())
	t.Setenv("DCFTRACKER_LOG_LEVEL", "debug")
	t.Setenv("DCFTRACKER_STORE_DRIVER", "memory")
	t.Setenv("DCFTRACKER_LEADERBOARD_SIZE", "3")
	t.Setenv("DCFTRACKER_DAILY_GOAL_KG", "2.5")
	t.Setenv("DCFTRACKER_FORECAST_HORIZON", "not-a-number")
	t.Setenv("DCFTRACKER_OUTPUT_UNIT", "g")

	cfg := config.New()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Leaderboard.Size)
	assert.InDelta(t, 2.5, cfg.Goal.DailyKg, 1e-12)
	assert.Equal(t, 7, cfg.Forecast.Horizon, "invalid override is ignored")
	assert.Equal(t, greenops.UnitGrams, cfg.Output.Unit)
}

func TestGetSet(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())

	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, c *config.Config)
	}{
		{"int", "advisor.emails", "50", func(t *testing.T, c *config.Config) {
			assert.Equal(t, 50, c.Advisor.Emails)
		}},
		{"float", "emission.per_drive_gb_kg", "0.9", func(t *testing.T, c *config.Config) {
			assert.InDelta(t, 0.9, c.Emission.PerDriveGBKg, 1e-12)
		}},
		{"bool", "goal.exit_on_exceeded", "true", func(t *testing.T, c *config.Config) {
			assert.True(t, c.Goal.ExitOnExceeded)
		}},
		{"string", "output.default_format", "json", func(t *testing.T, c *config.Config) {
			assert.Equal(t, "json", c.Output.DefaultFormat)
		}},
		{"numeric string stays string", "server.address", "8080", func(t *testing.T, c *config.Config) {
			assert.Equal(t, "8080", c.Server.Address)
		}},
		{"empty string field", "store.dsn", "postgres://localhost/dcf", func(t *testing.T, c *config.Config) {
			assert.Equal(t, "postgres://localhost/dcf", c.Store.DSN)
		}},
		{"duration", "server.read_timeout", "30s", func(t *testing.T, c *config.Config) {
			assert.Equal(t, 30*time.Second, c.Server.ReadTimeout)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			require.NoError(t, cfg.Set(tt.key, tt.value))
			tt.check(t, cfg)

			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, config.FormatValue(got))
		})
	}
}

func TestSet_Errors(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())
	cfg := config.Default()

	assert.ErrorIs(t, cfg.Set("nope.value", "1"), config.ErrUnknownKey)
	assert.ErrorIs(t, cfg.Set("advisor.nope", "1"), config.ErrUnknownKey)
	assert.ErrorIs(t, cfg.Set("advisor", "1"), config.ErrUnknownKey)
	require.Error(t, cfg.Set("advisor.emails", "lots"))
	assert.Equal(t, 100, cfg.Advisor.Emails, "failed set leaves config unchanged")

	_, err := cfg.Get("advisor.emails.deeper")
	assert.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestKeys(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())

	keys, err := config.Default().Keys()
	require.NoError(t, err)
	assert.Contains(t, keys, "advisor.drive_share")
	assert.Contains(t, keys, "store.driver")
	assert.Contains(t, keys, "logging.level")
	assert.IsNonDecreasing(t, keys)
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/tmp/dcf.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/dcf.log", got.File)
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	first := config.GetGlobalConfig()
	assert.Same(t, first, config.GetGlobalConfig())
	assert.Equal(t, config.OutputTable, config.GetDefaultOutputFormat())
	assert.Equal(t, greenops.CarbonFormat{Unit: greenops.UnitKg, Precision: 2}, config.GetCarbonFormat())

	replacement := config.Default()
	replacement.Output.Precision = 4
	replacement.Output.Unit = greenops.UnitGrams
	config.SetGlobalConfig(replacement)
	assert.Equal(t, greenops.CarbonFormat{Unit: greenops.UnitGrams, Precision: 4}, config.GetCarbonFormat())
}

func TestGetConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DCFTRACKER_HOME", home)
	dir, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	nested := filepath.Join(home, "sub")
	t.Setenv("DCFTRACKER_HOME", nested)
	require.NoError(t, config.EnsureConfigDir())
	assert.DirExists(t, nested)
}
