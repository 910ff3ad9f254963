package tracker

import (
	"context"
	"fmt"
	"slices"

	"github.com/oklog/ulid/v2"

	"github.com/Adithya151/DCF---racker/internal/batch"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/logging"
)

// OpImport is the Observer operation name for bulk imports.
const OpImport = "import"

// ImportOptions tunes Import.
type ImportOptions struct {
	// BatchSize caps how many records reach the store per write.
	// Zero means batch.DefaultSize.
	BatchSize int
	// OnProgress, when set, is called after every stored batch.
	OnProgress batch.ProgressFunc
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Imported   int                `json:"imported"`
	Batches    int                `json:"batches"`
	EmissionKg float64            `json:"emission_kg"`
	Totals     map[string]float64 `json:"profile_totals_kg"`
}

// Import stores many submissions at once. Every input is validated before
// anything is written, so a bad row rejects the whole import. Records are
// then written batch by batch; if a batch fails, earlier batches stay stored
// and the totals of every touched user are still recomputed.
func (s *Service) Import(ctx context.Context, inputs []ActivityInput, opts ImportOptions) (res ImportResult, err error) {
	start := s.now()
	defer func() { s.observer.OperationCompleted(OpImport, s.now().Sub(start), err) }()

	size := opts.BatchSize
	if size == 0 {
		size = batch.DefaultSize
	}
	proc, err := batch.NewProcessor[emission.ActivityRecord](size)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if opts.OnProgress != nil {
		proc.WithProgress(opts.OnProgress)
	}

	now := s.now().UTC()
	records := make([]emission.ActivityRecord, len(inputs))
	for i, in := range inputs {
		date := in.Date
		if date.IsZero() {
			date = now
		}
		records[i] = emission.ActivityRecord{
			ID:             ulid.Make().String(),
			UserID:         in.UserID,
			Date:           emission.Day(date),
			EmailsSent:     in.EmailsSent,
			DriveStorageGB: in.DriveStorageGB,
			GitHubCommits:  in.GitHubCommits,
			CreatedAt:      now,
		}
		if err = emission.ValidateRecord(records[i]); err != nil {
			return ImportResult{}, fmt.Errorf("%w: row %d: %w", ErrInvalidInput, i+1, err)
		}
	}

	users := touchedUsers(records)
	unlock := s.lockAll(users)
	defer unlock()

	progress, procErr := proc.Process(ctx, records, func(ctx context.Context, chunk []emission.ActivityRecord, _ int) error {
		if err := s.store.AddRecords(ctx, chunk); err != nil {
			return err
		}
		for _, r := range chunk {
			kg := emission.Breakdown(r, s.settings.Coefficients).Total()
			res.EmissionKg += kg
			s.observer.ActivityLogged(r.UserID, kg)
		}
		return nil
	})
	res.Imported = progress.ProcessedItems
	res.Batches = progress.ProcessedBatches

	// Stored records must be reflected in totals even if the caller has gone.
	refreshCtx := context.WithoutCancel(ctx)
	res.Totals = make(map[string]float64, len(users))
	for _, u := range users {
		total, refreshErr := s.refreshProfileLocked(refreshCtx, u)
		if refreshErr != nil {
			if procErr == nil {
				procErr = refreshErr
			}
			continue
		}
		res.Totals[u] = total
	}

	if procErr != nil {
		return res, fmt.Errorf("importing activity: %w", procErr)
	}

	logging.FromContext(ctx).Info().
		Ctx(ctx).
		Str("component", "tracker").
		Str("operation", OpImport).
		Int("records", res.Imported).
		Int("batches", res.Batches).
		Int("users", len(users)).
		Float64("emission_kg", res.EmissionKg).
		Msg("activity imported")

	return res, nil
}

func touchedUsers(records []emission.ActivityRecord) []string {
	users := make([]string, 0, len(records))
	for _, r := range records {
		users = append(users, r.UserID)
	}
	slices.Sort(users)
	return slices.Compact(users)
}

// lockAll takes the per-user locks in sorted order so concurrent imports
// cannot deadlock.
func (s *Service) lockAll(sortedUsers []string) func() {
	unlocks := make([]func(), 0, len(sortedUsers))
	for _, u := range sortedUsers {
		unlocks = append(unlocks, s.locks.Lock(u))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}
