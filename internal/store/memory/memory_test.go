package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/rank"
	"github.com/Adithya151/DCF---racker/internal/store/memory"
	"github.com/Adithya151/DCF---racker/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Store {
		s := memory.New()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.AddRecord(ctx, storetest.Record("1", "a", storetest.Day(2024, 1, 1), 1, 0, 0)), memory.ErrClosed)
	_, err := s.ListRecords(ctx, "a", aggregate.AllTime())
	assert.ErrorIs(t, err, memory.ErrClosed)
	_, err = s.DeleteRecords(ctx, "a")
	assert.ErrorIs(t, err, memory.ErrClosed)
	_, err = s.ListUsers(ctx)
	assert.ErrorIs(t, err, memory.ErrClosed)
	assert.ErrorIs(t, s.PutProfile(ctx, rank.Profile{UserID: "a"}), memory.ErrClosed)
	_, err = s.ListProfiles(ctx)
	assert.ErrorIs(t, err, memory.ErrClosed)
}

func TestStore_SnapshotReplace(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.AddRecord(ctx, storetest.Record("2", "bob", storetest.Day(2024, 1, 2), 1, 0, 0)))
	require.NoError(t, s.AddRecord(ctx, storetest.Record("1", "alice", storetest.Day(2024, 1, 3), 1, 0, 0)))
	require.NoError(t, s.PutProfile(ctx, rank.Profile{UserID: "bob", TotalCO2Kg: 0.004}))

	records, profiles := s.Snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].UserID)
	require.Len(t, profiles, 1)

	other := memory.New()
	other.Replace(records, profiles)
	got, err := other.ListRecords(ctx, "bob", aggregate.AllTime())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	users, err := other.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
}

func TestListRecords_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.AddRecord(ctx, storetest.Record("1", "alice", storetest.Day(2024, 1, 1), 1, 0, 0)))

	got, err := s.ListRecords(ctx, "alice", aggregate.AllTime())
	require.NoError(t, err)
	got[0].EmailsSent = 999

	again, err := s.ListRecords(ctx, "alice", aggregate.AllTime())
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].EmailsSent)
}
