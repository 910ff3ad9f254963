package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var errResetAborted = errors.New("reset aborted")

// NewResetCmd creates the reset command, which deletes every record of the
// current user.
func NewResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all recorded activity for the current user",
		Long: `Deletes every activity record of the current user and sets their all-time
total to zero. Other users are unaffected. Running it twice is harmless.`,
		Example: `  # Reset after confirming
  dcftracker reset

  # Reset without prompting
  dcftracker reset --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReset(cmd, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	addOutputFlag(cmd)

	return cmd
}

func runReset(cmd *cobra.Command, yes bool) error {
	ctx := cmd.Context()

	user, err := currentUser(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	if !yes && isTerminal(os.Stdin) {
		if !confirm(cmd, fmt.Sprintf("Delete all activity for %s?", user)) {
			return errResetAborted
		}
	}

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Reset(ctx, user)
	if err != nil {
		return fmt.Errorf("resetting activity: %w", err)
	}

	return renderReset(cmd.OutOrStdout(), format, res)
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
