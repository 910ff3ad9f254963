// Package tracker runs the emission pipeline against a store: it records
// submissions, keeps per-user totals current, and assembles dashboards and
// the leaderboard.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Adithya151/DCF---racker/internal/advisor"
	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/config"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/logging"
	"github.com/Adithya151/DCF---racker/internal/rank"
	"github.com/Adithya151/DCF---racker/internal/store"
)

// Operation names reported to the Observer.
const (
	OpLogActivity = "log_activity"
	OpDashboard   = "dashboard"
	OpLeaderboard = "leaderboard"
	OpReset       = "reset"
)

// Settings is the fixed parameter set for one Service. A single coefficient
// set is used for every computation the Service performs.
type Settings struct {
	Coefficients       emission.Coefficients
	Thresholds         advisor.Thresholds
	Windows            aggregate.WindowConfig
	Horizon            int
	DailyGoalKg        float64
	LeaderboardSize    int
	RefreshConcurrency int
}

// DefaultSettings mirrors config.Default.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default())
}

// SettingsFromConfig extracts the pipeline parameters from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Coefficients:       cfg.Emission,
		Thresholds:         cfg.Advisor,
		Windows:            cfg.Windows,
		Horizon:            cfg.Forecast.Horizon,
		DailyGoalKg:        cfg.Goal.DailyKg,
		LeaderboardSize:    cfg.Leaderboard.Size,
		RefreshConcurrency: cfg.Leaderboard.RefreshConcurrency,
	}
}

// Validate checks every parameter.
func (s Settings) Validate() error {
	if err := s.Coefficients.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := s.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := s.Windows.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.Horizon < 0 {
		return fmt.Errorf("%w: horizon must be >= 0, got %d", ErrInvalidSettings, s.Horizon)
	}
	if s.DailyGoalKg <= 0 {
		return fmt.Errorf("%w: daily goal must be > 0, got %g", ErrInvalidSettings, s.DailyGoalKg)
	}
	if s.LeaderboardSize < 1 {
		return fmt.Errorf("%w: leaderboard size must be >= 1, got %d", ErrInvalidSettings, s.LeaderboardSize)
	}
	if s.RefreshConcurrency < 1 {
		return fmt.Errorf("%w: refresh concurrency must be >= 1, got %d", ErrInvalidSettings, s.RefreshConcurrency)
	}
	return nil
}

// Observer receives operational events, e.g. for metrics.
type Observer interface {
	ActivityLogged(userID string, kg float64)
	OperationCompleted(op string, d time.Duration, err error)
	LeaderboardRefreshed(users int)
}

type nopObserver struct{}

func (nopObserver) ActivityLogged(string, float64)                  {}
func (nopObserver) OperationCompleted(string, time.Duration, error) {}
func (nopObserver) LeaderboardRefreshed(int)                        {}

// Service is safe for concurrent use.
type Service struct {
	store    store.Store
	settings Settings
	observer Observer
	now      func() time.Time
	locks    *keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock overrides the time source used for "today" and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New validates settings and returns a Service over st.
func New(st store.Store, settings Settings, opts ...Option) (*Service, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		store:    st,
		settings: settings,
		observer: nopObserver{},
		now:      time.Now,
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Settings returns the parameters the Service was built with.
func (s *Service) Settings() Settings {
	return s.settings
}

// ActivityInput is one submission before it is assigned an ID.
type ActivityInput struct {
	UserID string `json:"user_id"`
	// Date defaults to today when zero.
	Date           time.Time `json:"date"`
	EmailsSent     int       `json:"emails_sent"`
	DriveStorageGB float64   `json:"drive_storage_gb"`
	GitHubCommits  int       `json:"github_commits"`
}

// LogResult describes a stored submission.
type LogResult struct {
	Record         emission.ActivityRecord `json:"record"`
	Contribution   emission.Contribution   `json:"contribution"`
	EmissionKg     float64                 `json:"emission_kg"`
	ProfileTotalKg float64                 `json:"profile_total_kg"`
}

// LogActivity validates and stores a submission, then recomputes the user's
// all-time total. Submissions for the same user are serialised.
func (s *Service) LogActivity(ctx context.Context, in ActivityInput) (res LogResult, err error) {
	start := s.now()
	defer func() { s.observer.OperationCompleted(OpLogActivity, s.now().Sub(start), err) }()

	log := logging.FromContext(ctx)

	now := s.now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	record := emission.ActivityRecord{
		ID:             ulid.Make().String(),
		UserID:         in.UserID,
		Date:           emission.Day(date),
		EmailsSent:     in.EmailsSent,
		DriveStorageGB: in.DriveStorageGB,
		GitHubCommits:  in.GitHubCommits,
		CreatedAt:      now,
	}
	if err = emission.ValidateRecord(record); err != nil {
		return LogResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	unlock := s.locks.Lock(record.UserID)
	defer unlock()

	if err = s.store.AddRecord(ctx, record); err != nil {
		return LogResult{}, fmt.Errorf("storing activity: %w", err)
	}

	// The record is stored; finish the recompute even if ctx is cancelled.
	total, err := s.refreshProfileLocked(context.WithoutCancel(ctx), record.UserID)
	if err != nil {
		return LogResult{}, err
	}

	b := emission.Breakdown(record, s.settings.Coefficients)
	s.observer.ActivityLogged(record.UserID, b.Total())

	log.Info().
		Ctx(ctx).
		Str("component", "tracker").
		Str("operation", OpLogActivity).
		Str("user_id", record.UserID).
		Str("record_id", record.ID).
		Float64("emission_kg", b.Total()).
		Float64("profile_total_kg", total).
		Msg("activity logged")

	return LogResult{
		Record:         record,
		Contribution:   b,
		EmissionKg:     b.Total(),
		ProfileTotalKg: total,
	}, nil
}

// RefreshProfile recomputes and stores the user's all-time total.
func (s *Service) RefreshProfile(ctx context.Context, userID string) (float64, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.refreshProfileLocked(ctx, userID)
}

func (s *Service) refreshProfileLocked(ctx context.Context, userID string) (float64, error) {
	records, err := s.store.ListRecords(ctx, userID, aggregate.AllTime())
	if err != nil {
		return 0, fmt.Errorf("listing records for %s: %w", userID, err)
	}

	total := rank.Total(records, s.settings.Coefficients)
	if err = s.store.PutProfile(ctx, rank.Profile{UserID: userID, TotalCO2Kg: total}); err != nil {
		return 0, fmt.Errorf("storing profile for %s: %w", userID, err)
	}
	return total, nil
}

// ResetResult reports what Reset removed.
type ResetResult struct {
	UserID         string `json:"user_id"`
	RecordsDeleted int    `json:"records_deleted"`
}

// Reset deletes every record for the user and zeroes their total.
func (s *Service) Reset(ctx context.Context, userID string) (res ResetResult, err error) {
	start := s.now()
	defer func() { s.observer.OperationCompleted(OpReset, s.now().Sub(start), err) }()

	if userID == "" {
		return ResetResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, emission.ErrMissingUser)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	n, err := s.store.DeleteRecords(ctx, userID)
	if err != nil {
		return ResetResult{}, fmt.Errorf("deleting records for %s: %w", userID, err)
	}
	if _, err = s.refreshProfileLocked(context.WithoutCancel(ctx), userID); err != nil {
		return ResetResult{}, err
	}

	logging.FromContext(ctx).Info().
		Ctx(ctx).
		Str("component", "tracker").
		Str("operation", OpReset).
		Str("user_id", userID).
		Int("records_deleted", n).
		Msg("activity reset")

	return ResetResult{UserID: userID, RecordsDeleted: n}, nil
}
