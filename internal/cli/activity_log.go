package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// dateLayout is the calendar-day format accepted by --date.
const dateLayout = "2006-01-02"

// LogFlags holds the flags of the log command.
type LogFlags struct {
	Emails  int
	DriveGB float64
	Commits int
	Date    string
}

// NewLogCmd creates the log command, which records one day of activity for
// the current user.
func NewLogCmd() *cobra.Command {
	var flags LogFlags

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a day of digital activity",
		Long: `Records emails sent, cloud storage held, and commits pushed for one day.

Each submission is stored separately; several submissions on the same day are
summed. The user's all-time total is recomputed after every submission.`,
		Example: `  # Record today's activity
  dcftracker log --emails 40 --drive-gb 12 --commits 5

  # Record yesterday's activity for another user
  dcftracker log --user alice --date 2026-03-01 --emails 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLog(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.Emails, "emails", 0, "emails sent")
	cmd.Flags().Float64Var(&flags.DriveGB, "drive-gb", 0, "cloud storage held, in GB")
	cmd.Flags().IntVar(&flags.Commits, "commits", 0, "commits pushed")
	cmd.Flags().StringVar(&flags.Date, "date", "", "day of the activity as YYYY-MM-DD (default today)")
	addOutputFlag(cmd)

	return cmd
}

func runLog(cmd *cobra.Command, flags LogFlags) error {
	ctx := cmd.Context()

	user, err := currentUser(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	var date time.Time
	if flags.Date != "" {
		date, err = time.Parse(dateLayout, flags.Date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", flags.Date)
		}
	}

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.LogActivity(ctx, tracker.ActivityInput{
		UserID:         user,
		Date:           date,
		EmailsSent:     flags.Emails,
		DriveStorageGB: flags.DriveGB,
		GitHubCommits:  flags.Commits,
	})
	if err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}

	return renderLogResult(cmd.OutOrStdout(), format, res, config.GetCarbonFormat())
}
