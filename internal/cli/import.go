package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya151/DCF---racker/internal/batch"
	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/logging"
	"github.com/Adithya151/DCF---racker/internal/tracker"
)

// importRow is one line of an import file. Date uses the --date layout.
type importRow struct {
	UserID         string  `json:"user_id"`
	Date           string  `json:"date"`
	EmailsSent     int     `json:"emails_sent"`
	DriveStorageGB float64 `json:"drive_storage_gb"`
	GitHubCommits  int     `json:"github_commits"`
}

// NewImportCmd creates the import command, which bulk-loads submissions
// from a JSON array or NDJSON file.
func NewImportCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-load activity from a JSON or NDJSON file",
		Long: `Loads many submissions at once. The file holds either a JSON array of
objects or one object per line, each with the fields user_id, date
(YYYY-MM-DD), emails_sent, drive_storage_gb and github_commits.

Rows without user_id belong to --user. Rows without a date are recorded for
today. Every row is validated before anything is stored. Use "-" to read
from stdin.`,
		Example: `  # Import a history exported from another tool
  dcftracker import history.ndjson

  # Import from stdin in batches of 500
  cat history.json | dcftracker import - --batch-size 500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], batchSize)
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultSize, "records stored per write (1-1000)")
	addOutputFlag(cmd)

	return cmd
}

func runImport(cmd *cobra.Command, path string, batchSize int) error {
	ctx := cmd.Context()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	user, _ := cmd.Flags().GetString("user")

	data, err := readImportSource(cmd, path)
	if err != nil {
		return err
	}
	inputs, err := parseImportRows(data, user)
	if err != nil {
		return err
	}

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	log := logging.FromContext(ctx)
	res, err := svc.Import(ctx, inputs, tracker.ImportOptions{
		BatchSize: batchSize,
		OnProgress: func(p batch.Progress) {
			log.Debug().
				Ctx(ctx).
				Str("component", "cli").
				Int("processed", p.ProcessedItems).
				Int("total", p.TotalItems).
				Float64("percent", p.PercentComplete()).
				Msg("import batch stored")
		},
	})
	if err != nil {
		if res.Imported > 0 {
			cmd.PrintErrf("Stored %d of %d records before the failure\n", res.Imported, len(inputs))
		}
		return fmt.Errorf("importing activity: %w", err)
	}

	return renderImport(cmd.OutOrStdout(), format, res, config.GetCarbonFormat())
}

func readImportSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return data, nil
}

// parseImportRows accepts a JSON array or newline-delimited objects.
func parseImportRows(data []byte, defaultUser string) ([]tracker.ActivityInput, error) {
	var rows []importRow
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		for {
			var row importRow
			err := dec.Decode(&row)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("parsing import row %d: %w", len(rows)+1, err)
			}
			rows = append(rows, row)
		}
	}

	inputs := make([]tracker.ActivityInput, len(rows))
	for i, row := range rows {
		in := tracker.ActivityInput{
			UserID:         row.UserID,
			EmailsSent:     row.EmailsSent,
			DriveStorageGB: row.DriveStorageGB,
			GitHubCommits:  row.GitHubCommits,
		}
		if in.UserID == "" {
			in.UserID = defaultUser
		}
		if row.Date != "" {
			d, err := time.Parse(dateLayout, row.Date)
			if err != nil {
				return nil, fmt.Errorf("import row %d: invalid date %q: expected YYYY-MM-DD", i+1, row.Date)
			}
			in.Date = d
		}
		inputs[i] = in
	}
	return inputs, nil
}
