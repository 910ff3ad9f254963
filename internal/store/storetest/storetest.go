// Package storetest holds behaviour checks shared by every store backend.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/rank"
)

// Store mirrors store.Store so backends can be checked without an import cycle.
type Store interface {
	AddRecord(ctx context.Context, r emission.ActivityRecord) error
	AddRecords(ctx context.Context, rs []emission.ActivityRecord) error
	ListRecords(ctx context.Context, userID string, w aggregate.Window) ([]emission.ActivityRecord, error)
	DeleteRecords(ctx context.Context, userID string) (int, error)
	ListUsers(ctx context.Context) ([]string, error)
	PutProfile(ctx context.Context, p rank.Profile) error
	ListProfiles(ctx context.Context) ([]rank.Profile, error)
	Close() error
}

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) Store

// Day returns midnight UTC on the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Record builds a record with a deterministic CreatedAt.
func Record(id, user string, date time.Time, emails int, driveGB float64, commits int) emission.ActivityRecord {
	return emission.ActivityRecord{
		ID:             id,
		UserID:         user,
		Date:           date,
		EmailsSent:     emails,
		DriveStorageGB: driveGB,
		GitHubCommits:  commits,
		CreatedAt:      date.Add(12 * time.Hour),
	}
}

// Run exercises the behaviour every backend must share.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("records round trip in canonical order", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		later := Record("01B", "alice", Day(2024, 3, 2), 10, 0.5, 1)
		earlier := Record("01A", "alice", Day(2024, 3, 1), 100, 0, 0)
		sameDay := Record("01C", "alice", Day(2024, 3, 2), 1, 0, 0)
		sameDay.CreatedAt = later.CreatedAt.Add(time.Minute)

		for _, r := range []emission.ActivityRecord{later, sameDay, earlier} {
			require.NoError(t, s.AddRecord(ctx, r))
		}
		require.NoError(t, s.AddRecord(ctx, Record("01Z", "bob", Day(2024, 3, 1), 5, 0, 0)))

		got, err := s.ListRecords(ctx, "alice", aggregate.AllTime())
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"01A", "01B", "01C"}, ids(got))
		assert.Equal(t, 100, got[0].EmailsSent)
		assert.InDelta(t, 0.5, got[1].DriveStorageGB, 1e-12)
		assert.True(t, got[0].Date.Equal(Day(2024, 3, 1)))
	})

	t.Run("window filters by day inclusively", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for i, d := range []int{1, 5, 9} {
			require.NoError(t, s.AddRecord(ctx, Record(string(rune('A'+i)), "alice", Day(2024, 3, d), 1, 0, 0)))
		}

		start := Day(2024, 3, 5)
		end := Day(2024, 3, 9)
		got, err := s.ListRecords(ctx, "alice", aggregate.Window{Start: &start, End: &end})
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C"}, ids(got))

		got, err = s.ListRecords(ctx, "alice", aggregate.Since(Day(2024, 3, 10)))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("batch add stores every record", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		batch := []emission.ActivityRecord{
			Record("02B", "alice", Day(2024, 4, 2), 3, 0, 0),
			Record("02A", "alice", Day(2024, 4, 1), 2, 0, 0),
			Record("02C", "bob", Day(2024, 4, 1), 1, 1.5, 2),
		}
		require.NoError(t, s.AddRecords(ctx, batch))
		require.NoError(t, s.AddRecords(ctx, nil))

		got, err := s.ListRecords(ctx, "alice", aggregate.AllTime())
		require.NoError(t, err)
		assert.Equal(t, []string{"02A", "02B"}, ids(got))

		got, err = s.ListRecords(ctx, "bob", aggregate.AllTime())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].GitHubCommits)
		assert.InDelta(t, 1.5, got[0].DriveStorageGB, 1e-12)
	})

	t.Run("unknown user has no records", func(t *testing.T) {
		s := newStore(t)
		got, err := s.ListRecords(context.Background(), "nobody", aggregate.AllTime())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete removes only that user", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.AddRecord(ctx, Record("1", "alice", Day(2024, 3, 1), 1, 0, 0)))
		require.NoError(t, s.AddRecord(ctx, Record("2", "alice", Day(2024, 3, 2), 1, 0, 0)))
		require.NoError(t, s.AddRecord(ctx, Record("3", "bob", Day(2024, 3, 2), 1, 0, 0)))

		n, err := s.DeleteRecords(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = s.DeleteRecords(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, n)

		got, err := s.ListRecords(ctx, "bob", aggregate.AllTime())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("profiles upsert and list by user", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.PutProfile(ctx, rank.Profile{UserID: "bob", TotalCO2Kg: 2}))
		require.NoError(t, s.PutProfile(ctx, rank.Profile{UserID: "alice", TotalCO2Kg: 1}))
		require.NoError(t, s.PutProfile(ctx, rank.Profile{UserID: "bob", TotalCO2Kg: 0.5}))

		got, err := s.ListProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alice", got[0].UserID)
		assert.Equal(t, "bob", got[1].UserID)
		assert.InDelta(t, 0.5, got[1].TotalCO2Kg, 1e-12)
	})

	t.Run("users include record and profile owners", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.AddRecord(ctx, Record("1", "carol", Day(2024, 3, 1), 1, 0, 0)))
		require.NoError(t, s.PutProfile(ctx, rank.Profile{UserID: "alice"}))
		require.NoError(t, s.AddRecord(ctx, Record("2", "alice", Day(2024, 3, 1), 1, 0, 0)))

		got, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "carol"}, got)
	})
}

func ids(records []emission.ActivityRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
