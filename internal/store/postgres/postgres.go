// Package postgres is a pgx-backed Store for multi-user deployments of
// `dcftracker serve`.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/rank"
)

//go:embed schema.sql
var schema string

const pingTimeout = 5 * time.Second

// Store provides Postgres-backed persistence for activity logs and profiles.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open creates a pool for dsn and verifies connectivity.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return New(pool), nil
}

// Migrate creates tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// AddRecord inserts one activity log.
func (s *Store) AddRecord(ctx context.Context, r emission.ActivityRecord) error {
	const stmt = `INSERT INTO activity_logs (id, user_id, log_date, emails_sent, drive_storage_gb, github_commits, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := s.pool.Exec(ctx, stmt,
		r.ID,
		r.UserID,
		emission.Day(r.Date),
		r.EmailsSent,
		r.DriveStorageGB,
		r.GitHubCommits,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting activity log: %w", err)
	}
	return nil
}

// AddRecords bulk-inserts a batch with COPY. COPY is a single statement, so
// the batch is stored atomically.
func (s *Store) AddRecords(ctx context.Context, rs []emission.ActivityRecord) error {
	if len(rs) == 0 {
		return nil
	}

	columns := []string{"id", "user_id", "log_date", "emails_sent", "drive_storage_gb", "github_commits", "created_at"}
	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{"activity_logs"}, columns,
		pgx.CopyFromSlice(len(rs), func(i int) ([]any, error) {
			r := rs[i]
			return []any{
				r.ID,
				r.UserID,
				emission.Day(r.Date),
				r.EmailsSent,
				r.DriveStorageGB,
				r.GitHubCommits,
				r.CreatedAt,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copying activity logs: %w", err)
	}
	if int(n) != len(rs) {
		return fmt.Errorf("copying activity logs: stored %d of %d", n, len(rs))
	}
	return nil
}

// ListRecords returns the user's logs inside w in canonical order.
func (s *Store) ListRecords(ctx context.Context, userID string, w aggregate.Window) ([]emission.ActivityRecord, error) {
	const query = `SELECT id, user_id, log_date, emails_sent, drive_storage_gb, github_commits, created_at
        FROM activity_logs
        WHERE user_id = $1
          AND ($2::date IS NULL OR log_date >= $2::date)
          AND ($3::date IS NULL OR log_date <= $3::date)
        ORDER BY log_date, created_at, id`

	rows, err := s.pool.Query(ctx, query, userID, dayOrNil(w.Start), dayOrNil(w.End))
	if err != nil {
		return nil, fmt.Errorf("querying activity logs: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (emission.ActivityRecord, error) {
		var r emission.ActivityRecord
		scanErr := row.Scan(&r.ID, &r.UserID, &r.Date, &r.EmailsSent, &r.DriveStorageGB, &r.GitHubCommits, &r.CreatedAt)
		r.Date = emission.Day(r.Date)
		r.CreatedAt = r.CreatedAt.UTC()
		return r, scanErr
	})
	if err != nil {
		return nil, fmt.Errorf("scanning activity logs: %w", err)
	}
	return records, nil
}

// DeleteRecords removes every log for the user.
func (s *Store) DeleteRecords(ctx context.Context, userID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM activity_logs WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting activity logs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListUsers returns every user with logs or a profile.
func (s *Store) ListUsers(ctx context.Context) ([]string, error) {
	const query = `SELECT user_id FROM activity_logs
        UNION
        SELECT user_id FROM user_profiles
        ORDER BY user_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}
	return users, nil
}

// PutProfile upserts a profile total.
func (s *Store) PutProfile(ctx context.Context, p rank.Profile) error {
	const stmt = `INSERT INTO user_profiles (user_id, total_co2_kg, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE SET total_co2_kg = EXCLUDED.total_co2_kg, updated_at = now()`

	if _, err := s.pool.Exec(ctx, stmt, p.UserID, p.TotalCO2Kg); err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// ListProfiles returns all profiles ordered by user ID.
func (s *Store) ListProfiles(ctx context.Context) ([]rank.Profile, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id, total_co2_kg FROM user_profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (rank.Profile, error) {
		var p rank.Profile
		return p, row.Scan(&p.UserID, &p.TotalCO2Kg)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning profiles: %w", err)
	}
	return profiles, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func dayOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := emission.Day(*t)
	return &d
}
