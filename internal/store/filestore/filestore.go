// Package filestore persists activity records and profiles in a single JSON
// file. Every write reloads the file under a cross-process lock, applies the
// change, and replaces the file atomically, so concurrent CLI invocations do
// not lose each other's submissions.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/Adithya151/DCF---racker/internal/aggregate"
	"github.com/Adithya151/DCF---racker/internal/emission"
	"github.com/Adithya151/DCF---racker/internal/rank"
	"github.com/Adithya151/DCF---racker/internal/store/memory"
)

// SchemaVersion is written to every file this package saves.
const SchemaVersion = "1.1.0"

// supportedSchemas is the range of file versions this package can read.
const supportedSchemas = ">= 1.0.0, < 2.0.0"

var (
	// ErrStoreCorrupted indicates the file exists but cannot be decoded.
	// Callers should not overwrite it without user intervention.
	ErrStoreCorrupted = errors.New("activity store file corrupted")

	// ErrUnsupportedSchema indicates a file written by an incompatible version.
	ErrUnsupportedSchema = errors.New("unsupported activity store schema version")

	// ErrPathRequired is returned by Open when no path is given.
	ErrPathRequired = errors.New("file store path is required")
)

// fileData is the on-disk layout.
type fileData struct {
	SchemaVersion string                    `json:"schema_version"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Records       []emission.ActivityRecord `json:"records"`
	Profiles      []rank.Profile            `json:"profiles"`
}

// Store is a JSON-file backed store. Reads are served from memory; writes go
// through the file.
type Store struct {
	mu       sync.Mutex
	filePath string
	mem      *memory.Store
	now      func() time.Time
}

// Open loads path, or starts empty when it does not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	s := &Store{
		filePath: path,
		mem:      memory.New(),
		now:      time.Now,
	}

	unlock, err := s.acquireFileLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	if err = s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.filePath
}

// AddRecord appends a record and saves.
func (s *Store) AddRecord(ctx context.Context, r emission.ActivityRecord) error {
	return s.mutate(func() error {
		return s.mem.AddRecord(ctx, r)
	})
}

// AddRecords stores a batch with a single lock and rewrite of the file.
func (s *Store) AddRecords(ctx context.Context, rs []emission.ActivityRecord) error {
	return s.mutate(func() error {
		return s.mem.AddRecords(ctx, rs)
	})
}

// ListRecords returns the user's records inside w in canonical order.
func (s *Store) ListRecords(ctx context.Context, userID string, w aggregate.Window) ([]emission.ActivityRecord, error) {
	return s.mem.ListRecords(ctx, userID, w)
}

// DeleteRecords removes the user's records and saves.
func (s *Store) DeleteRecords(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.mutate(func() error {
		var delErr error
		n, delErr = s.mem.DeleteRecords(ctx, userID)
		return delErr
	})
	return n, err
}

// ListUsers returns every user with records or a profile.
func (s *Store) ListUsers(ctx context.Context) ([]string, error) {
	return s.mem.ListUsers(ctx)
}

// PutProfile upserts a profile and saves.
func (s *Store) PutProfile(ctx context.Context, p rank.Profile) error {
	return s.mutate(func() error {
		return s.mem.PutProfile(ctx, p)
	})
}

// ListProfiles returns profiles ordered by user ID.
func (s *Store) ListProfiles(ctx context.Context) ([]rank.Profile, error) {
	return s.mem.ListProfiles(ctx)
}

// Close releases the in-memory copy. The file is already up to date.
func (s *Store) Close() error {
	return s.mem.Close()
}

// mutate reloads the file under the lock, applies fn, and saves.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquireFileLock()
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	if err = s.reload(); err != nil {
		return err
	}
	if err = fn(); err != nil {
		return err
	}
	return s.save()
}

// reload replaces the in-memory copy with the file contents. The caller
// holds the file lock.
func (s *Store) reload() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.mem.Replace(nil, nil)
			return nil
		}
		return fmt.Errorf("reading activity store file: %w", err)
	}

	var fd fileData
	if unmarshalErr := json.Unmarshal(data, &fd); unmarshalErr != nil {
		return fmt.Errorf("%w: %w", ErrStoreCorrupted, unmarshalErr)
	}

	if err = checkSchema(fd.SchemaVersion); err != nil {
		return err
	}

	s.mem.Replace(fd.Records, fd.Profiles)
	return nil
}

func checkSchema(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, version, err)
	}
	constraint, err := semver.NewConstraint(supportedSchemas)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedSchema, v, supportedSchemas)
	}
	return nil
}

// save writes the in-memory copy atomically via a temp file.
func (s *Store) save() error {
	records, profiles := s.mem.Snapshot()
	if records == nil {
		records = []emission.ActivityRecord{}
	}

	data, err := json.MarshalIndent(fileData{
		SchemaVersion: SchemaVersion,
		UpdatedAt:     s.now().UTC(),
		Records:       records,
		Profiles:      profiles,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling activity store: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
		return fmt.Errorf("creating activity store directory: %w", mkdirErr)
	}

	tmpPath := s.filePath + ".tmp"
	if writeErr := os.WriteFile(tmpPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing activity store temp file: %w", writeErr)
	}

	if renameErr := os.Rename(tmpPath, s.filePath); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming activity store temp file: %w", renameErr)
	}
	return nil
}

func (s *Store) lockFilePath() string {
	return s.filePath + ".lock"
}

// acquireFileLock takes a cross-process advisory lockfile and returns its release.
func (s *Store) acquireFileLock() (func(), error) {
	lockPath := s.lockFilePath()

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	const maxRetries = 10
	const retryDelay = 100 * time.Millisecond
	const staleLockAge = 30 * time.Second

	for range maxRetries {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}

		if removeStaleLock(lockPath, staleLockAge) {
			continue
		}
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("could not acquire lock on %s after retries", lockPath)
}

// removeStaleLock removes a lock older than staleLockAge whose owner is gone.
// It reports whether the caller should retry immediately.
func removeStaleLock(lockPath string, staleLockAge time.Duration) bool {
	info, statErr := os.Stat(lockPath)
	if statErr != nil || time.Since(info.ModTime()) <= staleLockAge {
		return false
	}
	if isLockHeldByLiveProcess(lockPath) {
		return false
	}
	_ = os.Remove(lockPath)
	return true
}

func isLockHeldByLiveProcess(lockPath string) bool {
	pidData, readErr := os.ReadFile(lockPath)
	if readErr != nil || len(pidData) == 0 {
		return false
	}
	var pid int
	if _, scanErr := fmt.Sscanf(string(pidData), "%d", &pid); scanErr != nil || pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks for existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}
