package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: coefficients and thresholds are
non-negative, the horizon and leaderboard size are in range, the store driver
is known, and the output format is recognised.`,
		Example: `  # Validate current configuration
  dcftracker config validate

  # Validate and show the effective values
  dcftracker config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Printf("Config file:      %s\n", cfg.Path())
	cmd.Printf("Store:            %s\n", cfg.Store.Driver)
	cmd.Printf("Emission factors: email=%g drive=%g commit=%g kg\n",
		cfg.Emission.PerEmailKg, cfg.Emission.PerDriveGBKg, cfg.Emission.PerCommitKg)
	cmd.Printf("Forecast horizon: %d\n", cfg.Forecast.Horizon)
	cmd.Printf("Leaderboard size: %d\n", cfg.Leaderboard.Size)
	cmd.Printf("Daily goal:       %g kg\n", cfg.Goal.DailyKg)
}
