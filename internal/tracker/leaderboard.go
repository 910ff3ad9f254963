package tracker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya151/DCF---racker/internal/logging"
	"github.com/Adithya151/DCF---racker/internal/rank"
)

// Leaderboard is the top of the ranking plus the population size.
type Leaderboard struct {
	Entries    []rank.Entry `json:"entries"`
	TotalUsers int          `json:"total_users"`
}

// Leaderboard recomputes every user's total, then returns the lowest
// LeaderboardSize entries. Refreshes run concurrently, bounded by
// RefreshConcurrency; the first failure cancels the rest.
func (s *Service) Leaderboard(ctx context.Context) (lb *Leaderboard, err error) {
	start := s.now()
	defer func() { s.observer.OperationCompleted(OpLeaderboard, s.now().Sub(start), err) }()

	log := logging.FromContext(ctx)

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.RefreshConcurrency)

	for _, userID := range users {
		g.Go(func() error {
			_, refreshErr := s.RefreshProfile(gCtx, userID)
			return refreshErr
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("refreshing profiles: %w", err)
	}

	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	s.observer.LeaderboardRefreshed(len(profiles))

	entries := rank.Top(profiles, s.settings.LeaderboardSize)
	if entries == nil {
		entries = []rank.Entry{}
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "tracker").
		Str("operation", OpLeaderboard).
		Int("users_refreshed", len(users)).
		Int("entries", len(entries)).
		Msg("leaderboard computed")

	return &Leaderboard{Entries: entries, TotalUsers: len(profiles)}, nil
}
