package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/Adithya151/DCF---racker/internal/advisor"
	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/forecast"
	"github.com/Adithya151/DCF---racker/internal/greenops"
	"github.com/Adithya151/DCF---racker/internal/logging"
	"github.com/Adithya151/DCF---racker/internal/rank"
)

// Dashboard is one user's view over a period. Prediction is nil when the
// period has too few submissions to fit a trend; Rank is nil when the user has
// no stored total yet.
type Dashboard struct {
	UserID      string                      `json:"user_id"`
	Period      aggregate.Period            `json:"period"`
	Window      aggregate.Window            `json:"window"`
	Aggregate   aggregate.WindowedAggregate `json:"aggregate"`
	Prediction  *forecast.Prediction        `json:"prediction,omitempty"`
	Suggestions []advisor.Suggestion        `json:"suggestions"`
	Today       aggregate.Progress          `json:"today"`
	Rank        *rank.Position              `json:"rank,omitempty"`
	Equivalency greenops.EquivalencyOutput  `json:"equivalency"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

// Dashboard aggregates the user's records over period and derives the
// forecast, suggestions, daily progress, and rank from the same coefficients.
func (s *Service) Dashboard(ctx context.Context, userID string, period aggregate.Period) (d *Dashboard, err error) {
	start := s.now()
	defer func() { s.observer.OperationCompleted(OpDashboard, s.now().Sub(start), err) }()

	if userID == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, emission.ErrMissingUser)
	}
	if period, err = aggregate.ParsePeriod(string(period)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	log := logging.FromContext(ctx)
	now := s.now().UTC()
	c := s.settings.Coefficients
	window := aggregate.WindowFor(period, now, s.settings.Windows)

	records, err := s.store.ListRecords(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("listing records for %s: %w", userID, err)
	}
	agg := aggregate.Aggregate(records, window, c)

	todays, err := s.store.ListRecords(ctx, userID, aggregate.OnDay(now))
	if err != nil {
		return nil, fmt.Errorf("listing today's records for %s: %w", userID, err)
	}

	d = &Dashboard{
		UserID:      userID,
		Period:      period,
		Window:      window,
		Aggregate:   agg,
		Suggestions: advisor.Advise(agg, s.settings.Thresholds),
		Today:       aggregate.DailyProgress(todays, now, c, s.settings.DailyGoalKg),
		GeneratedAt: now,
	}

	if p, ok := forecast.Forecast(agg.Series.Values(), s.settings.Horizon); ok {
		d.Prediction = &p
	}

	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	if pos, ok := rank.Rank(profiles, userID); ok {
		d.Rank = &pos
	}

	if eq, eqErr := greenops.Calculate(agg.TotalCO2Kg); eqErr == nil {
		d.Equivalency = eq
	} else {
		log.Warn().
			Ctx(ctx).
			Str("component", "tracker").
			Err(eqErr).
			Msg("equivalency calculation failed")
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "tracker").
		Str("operation", OpDashboard).
		Str("user_id", userID).
		Str("period", string(period)).
		Int("record_count", agg.RecordCount).
		Float64("total_co2_kg", agg.TotalCO2Kg).
		Bool("has_prediction", d.Prediction != nil).
		Msg("dashboard computed")

	return d, nil
}
