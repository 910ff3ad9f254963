package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/greenops"
	"github.com/Adithya151/DCF---racker/internal/tracker"
	"github.com/Adithya151/DCF---racker/internal/tui"
)

const (
	tabPadding = 2
	// plainBoxWidth is the dashboard width when stdout is not a terminal.
	plainBoxWidth = 80
)

// addOutputFlag registers --output on a command.
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output format: table, json, or ndjson (default from config)")
}

// outputFormat resolves --output against the configured default.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	switch strings.ToLower(format) {
	case config.OutputTable:
		return config.OutputTable, nil
	case config.OutputJSON:
		return config.OutputJSON, nil
	case config.OutputNDJSON:
		return config.OutputNDJSON, nil
	default:
		return "", fmt.Errorf("%w: got %q", config.ErrUnknownOutputFormat, format)
	}
}

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderNDJSON(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// renderLogResult prints a stored submission.
func renderLogResult(w io.Writer, format string, res tracker.LogResult, cf greenops.CarbonFormat) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, res)
	case config.OutputNDJSON:
		return renderNDJSON(w, res)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Recorded\t%s for %s on %s\n", res.Record.ID, res.Record.UserID, res.Record.Date.Format(dateLayout))
	fmt.Fprintf(tw, "Emails\t%s\n", cf.Format(res.Contribution.EmailsKg))
	fmt.Fprintf(tw, "Drive\t%s\n", cf.Format(res.Contribution.DriveKg))
	fmt.Fprintf(tw, "Commits\t%s\n", cf.Format(res.Contribution.CommitsKg))
	fmt.Fprintf(tw, "This submission\t%s\n", cf.Format(res.EmissionKg))
	fmt.Fprintf(tw, "All-time total\t%s\n", cf.Format(res.ProfileTotalKg))
	return tw.Flush()
}

// renderDashboard prints a dashboard. Table output is a styled box on a
// terminal and a fixed-width box otherwise.
func renderDashboard(w io.Writer, format string, d *tracker.Dashboard, cf greenops.CarbonFormat) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, d)
	case config.OutputNDJSON:
		return renderNDJSON(w, d)
	}

	width := plainBoxWidth
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		if tw, _, err := termSize(f); err == nil && tw > 0 {
			width = tw
		}
	}
	_, err := fmt.Fprintln(w, tui.RenderDashboard(d, cf, width))
	return err
}

// renderLeaderboard prints the leaderboard. NDJSON emits one line per entry.
func renderLeaderboard(w io.Writer, format string, lb *tracker.Leaderboard, user string, cf greenops.CarbonFormat) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, lb)
	case config.OutputNDJSON:
		for _, e := range lb.Entries {
			if err := renderNDJSON(w, e); err != nil {
				return err
			}
		}
		return nil
	}

	if len(lb.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No users ranked yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Rank\tUser\tTotal CO2")
	fmt.Fprintln(tw, "----\t----\t---------")
	for _, e := range lb.Entries {
		name := e.UserID
		if name == user {
			name += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Rank, name, cf.Format(e.TotalCO2Kg))
	}
	fmt.Fprintf(tw, "\n%d of %d users shown\n", len(lb.Entries), lb.TotalUsers)
	return tw.Flush()
}

// renderImport prints a bulk import summary with the new total of every
// touched user.
func renderImport(w io.Writer, format string, res tracker.ImportResult, cf greenops.CarbonFormat) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, res)
	case config.OutputNDJSON:
		return renderNDJSON(w, res)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Imported\t%d records in %d batches\n", res.Imported, res.Batches)
	fmt.Fprintf(tw, "Emission\t%s\n", cf.Format(res.EmissionKg))

	users := make([]string, 0, len(res.Totals))
	for u := range res.Totals {
		users = append(users, u)
	}
	slices.Sort(users)
	for _, u := range users {
		fmt.Fprintf(tw, "Total for %s\t%s\n", u, cf.Format(res.Totals[u]))
	}
	return tw.Flush()
}

// renderReset prints the outcome of a reset.
func renderReset(w io.Writer, format string, res tracker.ResetResult) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, res)
	case config.OutputNDJSON:
		return renderNDJSON(w, res)
	}
	_, err := fmt.Fprintf(w, "Deleted %d records for %s\n", res.RecordsDeleted, res.UserID)
	return err
}
