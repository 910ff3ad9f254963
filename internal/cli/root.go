// Package cli implements the dcftracker command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal width and height of f.
func termSize(f *os.File) (int, int, error) {
	return term.GetSize(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// baseLogger is logger without the cli component, for long-running subsystems
// that tag their own component.
var baseLogger zerolog.Logger //nolint:gochecknoglobals // Set once per command in setupLogging

// NewRootCmd creates the root Cobra command for the dcftracker CLI.
// It wires up configuration, logging, tracing, and the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// testability. lookupEnv supplies the --user default.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	defaultUser, _ := lookupEnv("DCFTRACKER_USER")
	if defaultUser == "" {
		defaultUser, _ = lookupEnv("USER")
	}

	cmd := &cobra.Command{
		Use:           "dcftracker",
		Short:         "Digital carbon footprint tracker",
		Long:          "dcftracker: estimate, track, forecast, and rank the CO2 cost of everyday digital activity",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "YAML file merged over the user configuration")
	cmd.PersistentFlags().StringP("user", "u", defaultUser, "user ID (defaults to $DCFTRACKER_USER, then $USER)")

	cmd.AddCommand(
		NewLogCmd(), NewImportCmd(), NewDashboardCmd(), NewLeaderboardCmd(),
		NewResetCmd(), NewServeCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Record today's activity
  dcftracker log --emails 40 --drive-gb 12 --commits 5

  # Record activity for a past day
  dcftracker log --date 2026-03-01 --emails 10

  # Bulk-load a history file
  dcftracker import history.ndjson

  # Show this week's dashboard
  dcftracker dashboard

  # Show the monthly dashboard as JSON
  dcftracker dashboard --period month --output json

  # Browse the leaderboard interactively
  dcftracker leaderboard --tui

  # Serve the HTTP API and Prometheus metrics
  dcftracker serve --address :9090

  # Initialize configuration
  dcftracker config init

  # Set configuration values
  dcftracker config set goal.daily_kg 0.5`

// loadConfig rebuilds the global config for this invocation and merges the
// --config overlay, if any.
func loadConfig(cmd *cobra.Command) error {
	cfg := config.New()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.ShallowMergeYAML(cfg, path); err != nil {
			return fmt.Errorf("loading --config: %w", err)
		}
	}

	config.SetGlobalConfig(cfg)
	return nil
}

// currentUser returns the --user flag value or an error when it is empty.
func currentUser(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		return "", fmt.Errorf("no user: pass --user or set DCFTRACKER_USER")
	}
	return user, nil
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
