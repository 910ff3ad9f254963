package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/config"
)

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Example: `  # Print the daily goal
  dcftracker config get goal.daily_kg

  # Print a whole section
  dcftracker config get emission`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.FormatValue(v))
			return nil
		},
	}
}

// NewConfigSetCmd creates the config set command. The new value is validated
// before the file is written.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  # Lower the daily goal
  dcftracker config set goal.daily_kg 0.5

  # Store activity in Postgres
  dcftracker config set store.driver postgres
  dcftracker config set store.dsn postgres://localhost/dcf`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	cfg := config.New()

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid configuration: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Debug().Ctx(cmd.Context()).Str("key", key).Str("path", cfg.Path()).Msg("configuration updated")
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every configuration key and its effective value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			keys, err := cfg.Keys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				v, getErr := cfg.Get(k)
				if getErr != nil {
					return getErr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, config.FormatValue(v))
			}
			return nil
		},
	}
}
