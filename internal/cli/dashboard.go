package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/config"
)

// DashboardFlags holds the flags of the dashboard command.
type DashboardFlags struct {
	Period         string
	ExitOnExceeded bool
	ExitCode       int
}

// GoalExitError carries the exit code for a day whose emissions exceeded the
// daily goal while exit_on_exceeded is enabled.
type GoalExitError struct {
	ExitCode int
	Reason   string
}

func (e *GoalExitError) Error() string {
	return e.Reason
}

// NewDashboardCmd creates the dashboard command.
func NewDashboardCmd() *cobra.Command {
	var flags DashboardFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, forecast, suggestions, and rank for a period",
		Long: `Aggregates the current user's activity over a period and shows the total,
the per-source breakdown, the forecast cumulative emission, reduction
suggestions, today's progress against the daily goal, and the user's rank.

Periods: week (default), month, all.`,
		Example: `  # This week's dashboard
  dcftracker dashboard

  # Fail a CI step when today's goal is exceeded
  dcftracker dashboard --exit-on-exceeded --exit-code 3

  # Everything, as JSON
  dcftracker dashboard --period all --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Period, "period", "p", string(aggregate.PeriodWeek), "period: week, month, or all")
	cmd.Flags().BoolVar(&flags.ExitOnExceeded, "exit-on-exceeded", false,
		"exit non-zero when today's emissions exceed the daily goal")
	cmd.Flags().IntVar(&flags.ExitCode, "exit-code", 1,
		"exit code to use when the daily goal is exceeded (0-255, 0 warns only)")
	addOutputFlag(cmd)

	return cmd
}

func runDashboard(cmd *cobra.Command, flags DashboardFlags) error {
	ctx := cmd.Context()

	user, err := currentUser(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	period, err := aggregate.ParsePeriod(flags.Period)
	if err != nil {
		return err
	}

	goal := config.GetGlobalConfig().Goal
	if cmd.Flags().Changed("exit-on-exceeded") {
		goal.ExitOnExceeded = flags.ExitOnExceeded
	}
	// --exit-on-exceeded alone falls back to the flag's default code rather
	// than the config's warn-only zero.
	if cmd.Flags().Changed("exit-code") || (cmd.Flags().Changed("exit-on-exceeded") && goal.ExitCode == 0) {
		goal.ExitCode = flags.ExitCode
	}
	if err = goal.Validate(); err != nil {
		return fmt.Errorf("invalid goal configuration: %w", err)
	}

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	d, err := svc.Dashboard(ctx, user, period)
	if err != nil {
		return fmt.Errorf("building dashboard: %w", err)
	}

	if err = renderDashboard(cmd.OutOrStdout(), format, d, config.GetCarbonFormat()); err != nil {
		return err
	}

	return checkGoalExit(cmd, goal, d.Today)
}

// checkGoalExit returns a GoalExitError when today's goal was exceeded and the
// goal is configured to fail the command. An exit code of 0 prints a warning
// instead.
func checkGoalExit(cmd *cobra.Command, goal config.GoalConfig, today aggregate.Progress) error {
	if !today.Exceeded() || !goal.ShouldExitOnExceeded() {
		return nil
	}

	cf := config.GetCarbonFormat()
	reason := fmt.Sprintf("daily goal exceeded: %s of %s", cf.Format(today.Kg), cf.Format(today.GoalKg))

	exitCode := goal.GetExitCode()
	if exitCode == 0 {
		cmd.PrintErrf("WARNING: %s\n", reason)
		return nil
	}

	logger.Debug().Ctx(cmd.Context()).Int("exit_code", exitCode).Msg(reason)
	return &GoalExitError{ExitCode: exitCode, Reason: reason}
}
