// Package rank orders users by cumulative emission. Lower totals rank higher.
//
// Equal totals are ordered by user ID so the leaderboard does not depend on
// the order a store happens to return profiles in.
package rank

import (
	"sort"

	"github.com/Adithya151/DCF---racker/internal/emission"
)

// DefaultLeaderboardSize is the number of entries shown on the leaderboard.
const DefaultLeaderboardSize = 10

// percentageMultiplier converts a ratio to a percentage.
const percentageMultiplier = 100.0

// Profile is a user's all-time emission total.
type Profile struct {
	UserID     string  `json:"user_id"`
	TotalCO2Kg float64 `json:"total_co2_kg"`
}

// Entry is a profile with its 1-based leaderboard position.
type Entry struct {
	Rank int `json:"rank"`
	Profile
}

// Position locates one user within the full ordering.
type Position struct {
	Rank  int `json:"rank"`
	Total int `json:"total"`
	// TopPercent is Rank/Total as a percentage; 10 means "top 10%".
	TopPercent float64 `json:"top_percent"`
}

// less orders by total ascending, then user ID ascending.
func less(a, b Profile) bool {
	if a.TotalCO2Kg != b.TotalCO2Kg {
		return a.TotalCO2Kg < b.TotalCO2Kg
	}
	return a.UserID < b.UserID
}

// Sort returns a sorted copy of profiles.
func Sort(profiles []Profile) []Profile {
	sorted := make([]Profile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Rank returns the position of userID among profiles. The second result is
// false when the user has no profile yet.
func Rank(profiles []Profile, userID string) (Position, bool) {
	sorted := Sort(profiles)
	for i, p := range sorted {
		if p.UserID == userID {
			r := i + 1
			return Position{
				Rank:       r,
				Total:      len(sorted),
				TopPercent: float64(r) / float64(len(sorted)) * percentageMultiplier,
			}, true
		}
	}
	return Position{}, false
}

// Top returns the first n entries of the ordering. n larger than the number
// of profiles returns every profile; n <= 0 returns none.
func Top(profiles []Profile, n int) []Entry {
	if n <= 0 {
		return nil
	}
	sorted := Sort(profiles)
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]Entry, n)
	for i := range n {
		out[i] = Entry{Rank: i + 1, Profile: sorted[i]}
	}
	return out
}

// Total recomputes a user's all-time emission from scratch. Records are summed
// in a canonical order (date, creation time, ID) so the result does not depend
// on the order they were fetched in.
func Total(records []emission.ActivityRecord, c emission.Coefficients) float64 {
	ordered := make([]emission.ActivityRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	total := 0.0
	for _, r := range ordered {
		total += emission.Emission(r, c)
	}
	return total
}
