package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName         = "sqlite"
	maxAttempts        = 5
	defaultBusyTimeout = 2 * time.Second
)

// Store persists generation runs in a local sqlite database.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}
	// busy_timeout + WAL keep watch mode and a concurrent `history` call from colliding.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts or replaces the run with the same ID.
func (s *Store) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id must not be empty")
	}
	run.ProjectKey = normalizeKey(run.ProjectKey)
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = StatusOK
	}

	query := `
INSERT INTO runs (
  id, project_key, ts_utc, duration_ms, status, trigger_name, digest, changed,
  resource_count, leaf_count, unused_count, diagnostic_count, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  duration_ms=excluded.duration_ms,
  status=excluded.status,
  digest=excluded.digest,
  changed=excluded.changed,
  resource_count=excluded.resource_count,
  leaf_count=excluded.leaf_count,
  unused_count=excluded.unused_count,
  diagnostic_count=excluded.diagnostic_count,
  error=excluded.error
`
	return s.withRetry("save run", func() error {
		_, err := s.db.Exec(
			query,
			run.ID,
			run.ProjectKey,
			run.Timestamp.UTC().Format(timeLayout),
			run.Duration.Milliseconds(),
			run.Status,
			run.Trigger,
			run.Digest,
			boolToInt(run.Changed),
			run.Resources,
			run.Leaves,
			run.Unused,
			run.Diagnostics,
			run.Error,
		)
		return err
	})
}

// LoadRuns returns runs newest first. A zero since or limit disables that filter.
func (s *Store) LoadRuns(projectKey string, since time.Time, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT
  id, project_key, ts_utc, duration_ms, status, trigger_name, digest, changed,
  resource_count, leaf_count, unused_count, diagnostic_count, error
FROM runs
WHERE project_key = ?`
	args := []any{normalizeKey(projectKey)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(timeLayout))
	}
	query += " ORDER BY ts_utc DESC, id ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			changed    int
			run        Run
		)
		if err := rows.Scan(
			&run.ID,
			&run.ProjectKey,
			&tsRaw,
			&durationMS,
			&run.Status,
			&run.Trigger,
			&run.Digest,
			&changed,
			&run.Resources,
			&run.Leaves,
			&run.Unused,
			&run.Diagnostics,
			&run.Error,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(timeLayout, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.Changed = changed != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// LastDigest returns the digest of the newest successful run.
func (s *Store) LastDigest(projectKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var digest string
	err := s.withRetry("load last digest", func() error {
		return s.db.QueryRow(`
SELECT digest FROM runs
WHERE project_key = ? AND status = ?
ORDER BY ts_utc DESC LIMIT 1`, normalizeKey(projectKey), StatusOK).Scan(&digest)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return digest, err
}

// Prune deletes all but the newest retain runs of a project.
func (s *Store) Prune(projectKey string, retain int) (int64, error) {
	if retain <= 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	err := s.withRetry("prune runs", func() error {
		res, err := s.db.Exec(`
DELETE FROM runs
WHERE project_key = ?1 AND id NOT IN (
  SELECT id FROM runs WHERE project_key = ?1 ORDER BY ts_utc DESC, id ASC LIMIT ?2
)`, normalizeKey(projectKey), retain)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
