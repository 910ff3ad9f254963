// Package memory is an in-process Store used by tests and by `serve` when no
// persistent backend is configured.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/rank"
)

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("store is closed")

// Store keeps records and profiles in maps keyed by user ID.
type Store struct {
	mu       sync.RWMutex
	closed   bool
	records  map[string][]emission.ActivityRecord
	profiles map[string]rank.Profile
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		records:  make(map[string][]emission.ActivityRecord),
		profiles: make(map[string]rank.Profile),
	}
}

// AddRecord appends a record.
func (s *Store) AddRecord(_ context.Context, r emission.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.records[r.UserID] = append(s.records[r.UserID], r)
	return nil
}

// AddRecords appends every record under one lock.
func (s *Store) AddRecords(_ context.Context, rs []emission.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	for _, r := range rs {
		s.records[r.UserID] = append(s.records[r.UserID], r)
	}
	return nil
}

// ListRecords returns the user's records inside w in canonical order.
func (s *Store) ListRecords(_ context.Context, userID string, w aggregate.Window) ([]emission.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	out := make([]emission.ActivityRecord, 0, len(s.records[userID]))
	for _, r := range s.records[userID] {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	SortRecords(out)
	return out, nil
}

// DeleteRecords drops every record for the user. The profile is kept so the
// caller can recompute it.
func (s *Store) DeleteRecords(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	n := len(s.records[userID])
	delete(s.records, userID)
	return n, nil
}

// ListUsers returns every user with records or a profile.
func (s *Store) ListUsers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	seen := make(map[string]struct{}, len(s.records)+len(s.profiles))
	for id := range s.records {
		seen[id] = struct{}{}
	}
	for id := range s.profiles {
		seen[id] = struct{}{}
	}

	users := make([]string, 0, len(seen))
	for id := range seen {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

// PutProfile inserts or replaces a profile.
func (s *Store) PutProfile(_ context.Context, p rank.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.profiles[p.UserID] = p
	return nil
}

// ListProfiles returns all profiles ordered by user ID.
func (s *Store) ListProfiles(_ context.Context) ([]rank.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	out := make([]rank.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// Snapshot copies every record and profile, records in canonical order.
func (s *Store) Snapshot() ([]emission.ActivityRecord, []rank.Profile) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []emission.ActivityRecord
	for _, rs := range s.records {
		records = append(records, rs...)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].UserID != records[j].UserID {
			return records[i].UserID < records[j].UserID
		}
		return recordLess(records[i], records[j])
	})

	profiles := make([]rank.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })

	return records, profiles
}

// Replace swaps the store contents for the given records and profiles.
func (s *Store) Replace(records []emission.ActivityRecord, profiles []rank.Profile) {
	byUser := make(map[string][]emission.ActivityRecord)
	for _, r := range records {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	byID := make(map[string]rank.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = byUser
	s.profiles = byID
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SortRecords orders records by Date, then CreatedAt, then ID.
func SortRecords(records []emission.ActivityRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return recordLess(records[i], records[j])
	})
}

func recordLess(a, b emission.ActivityRecord) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
