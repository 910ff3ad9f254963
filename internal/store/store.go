// Package store defines persistence for activity records and per-user
// profile totals, and opens the configured backend.
package store

import (
	"context"
	"fmt"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/logging"
	"github.com/Adithya151/DCF---racker/internal/rank"
	"github.com/Adithya151/DCF---racker/internal/store/filestore"
	"github.com/Adithya151/DCF---racker/internal/store/memory"
	"github.com/Adithya151/DCF---racker/internal/store/postgres"
)

// Store persists activity records and profile totals.
//
// ListRecords returns records ordered by Date, then CreatedAt, then ID, so
// aggregates built from them are deterministic. ListProfiles and ListUsers
// are ordered by user ID.
type Store interface {
	AddRecord(ctx context.Context, r emission.ActivityRecord) error
	// AddRecords stores a batch. Either every record is stored or none is.
	AddRecords(ctx context.Context, rs []emission.ActivityRecord) error
	ListRecords(ctx context.Context, userID string, w aggregate.Window) ([]emission.ActivityRecord, error)
	// DeleteRecords removes every record for the user and reports how many went.
	DeleteRecords(ctx context.Context, userID string) (int, error)
	ListUsers(ctx context.Context) ([]string, error)
	PutProfile(ctx context.Context, p rank.Profile) error
	ListProfiles(ctx context.Context) ([]rank.Profile, error)
	Close() error
}

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "store").
		Str("driver", cfg.Driver).
		Msg("opening store")

	switch cfg.Driver {
	case config.StoreDriverMemory:
		return memory.New(), nil
	case config.StoreDriverFile:
		s, err := filestore.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return s, nil
	case config.StoreDriverPostgres:
		s, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if err = s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migrating postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: got %q", config.ErrUnknownStoreDriver, cfg.Driver)
	}
}
