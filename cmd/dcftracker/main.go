// Command dcftracker records, forecasts, and ranks the carbon footprint of
// everyday digital activity.
package main

import (
	"errors"
	"os"

	"github.com/Adithya151/DCF---racker/internal/cli"
	"github.com/Adithya151/DCF---racker/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if commit := version.GetCommit(); commit != "" {
		root.Version += " (" + commit + ")"
	}
	return extractGoalExitCode(root.Execute())
}

// extractGoalExitCode maps a command error to a process exit code. A
// GoalExitError anywhere in the chain supplies its own code; any other error
// exits 1.
func extractGoalExitCode(err error) int {
	if err == nil {
		return 0
	}
	var goalErr *cli.GoalExitError
	if errors.As(err, &goalErr) {
		return goalErr.ExitCode
	}
	return 1
}
