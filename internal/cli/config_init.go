package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.dcftracker/config.yaml with default values. DCFTRACKER_HOME
overrides the directory.`,
		Example: `  # Create configuration
  dcftracker config init

  # Create configuration, overwriting existing
  dcftracker config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	cfg := config.Default()
	dir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	cfg.SetPath(filepath.Join(dir, "config.yaml"))

	if !force {
		if _, statErr := os.Stat(cfg.Path()); statErr == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("cannot access config path %s: %w", cfg.Path(), statErr)
		}
	}

	if err = cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.Path())

	return nil
}
