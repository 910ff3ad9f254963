package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/greenops"
	"github.com/Adithya151/DCF---racker/internal/tracker"
	"github.com/Adithya151/DCF---racker/internal/tui"
)

// errTUIRequiresTerminal is returned when --tui is used without a TTY.
var errTUIRequiresTerminal = errors.New("--tui requires an interactive terminal")

// NewLeaderboardCmd creates the leaderboard command.
func NewLeaderboardCmd() *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank users by all-time emissions, lowest first",
		Long: `Recomputes every user's all-time total and lists the lowest emitters.

The number of entries is leaderboard.size in the configuration. Ties are
broken by user ID.`,
		Example: `  # Print the leaderboard
  dcftracker leaderboard

  # Browse it interactively
  dcftracker leaderboard --tui`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLeaderboard(cmd, useTUI)
		},
	}

	cmd.Flags().BoolVar(&useTUI, "tui", false, "open an interactive table")
	addOutputFlag(cmd)

	return cmd
}

func runLeaderboard(cmd *cobra.Command, useTUI bool) error {
	ctx := cmd.Context()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	user, _ := cmd.Flags().GetString("user")

	if useTUI && !(isTerminal(os.Stdout) && isTerminal(os.Stdin)) {
		return errTUIRequiresTerminal
	}

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	lb, err := svc.Leaderboard(ctx)
	if err != nil {
		return fmt.Errorf("building leaderboard: %w", err)
	}

	cf := config.GetCarbonFormat()
	if useTUI {
		return runLeaderboardTUI(lb, user, cf)
	}
	return renderLeaderboard(cmd.OutOrStdout(), format, lb, user, cf)
}

func runLeaderboardTUI(lb *tracker.Leaderboard, user string, cf greenops.CarbonFormat) error {
	model := tui.NewLeaderboardModel(lb, user, cf)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running leaderboard TUI: %w", err)
	}
	return nil
}
