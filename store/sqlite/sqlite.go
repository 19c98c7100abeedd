/*
Package sqlite provides the local, single-device planner repository.

PURPOSE:
  Implements planner.Repository as a key-value table in a SQLite file.
  One key per day record plus one settings key, each holding the JSON
  document the planner works with.

KEYS:
  day:<YYYY-MM-DD>   DayRecord JSON
  settings           HolidaySettings JSON

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection so that
  ":memory:" databases survive across calls.

WAL MODE:
  Opened with WAL journaling: readers don't block the single writer.

USAGE:
  store, err := sqlite.New("./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  days := planner.NewDayStore(store)

SEE ALSO:
  - planner/repository.go: Interface definitions
  - store/document: Per-user remote implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/year-planner/planner"
)

const (
	dayPrefix   = "day:"
	settingsKey = "settings"
)

// Store implements planner.Repository on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DAY RECORDS
// =============================================================================

func (s *Store) GetDayRecord(ctx context.Context, date string) (*planner.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", dayPrefix+date).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day %s: %w", date, err)
	}

	var rec planner.DayRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode day %s: %w", date, err)
	}
	return &rec, nil
}

// SaveDayRecord upserts a day record.
func (s *Store) SaveDayRecord(ctx context.Context, rec planner.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.db, dayPrefix+rec.Date, rec)
}

// SaveDayRecords upserts several day records in one transaction.
func (s *Store) SaveDayRecords(ctx context.Context, recs []planner.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, rec := range recs {
		if err := s.put(ctx, sqlTx, dayPrefix+rec.Date, rec); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

func (s *Store) GetAllDayRecords(ctx context.Context) (map[string]planner.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allDays(ctx)
}

func (s *Store) allDays(ctx context.Context) (map[string]planner.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM kv WHERE key LIKE ? ORDER BY key ASC", dayPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	result := make(map[string]planner.DayRecord)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		var rec planner.DayRecord
		if err := json.Unmarshal([]byte(value), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		result[strings.TrimPrefix(key, dayPrefix)] = rec
	}
	return result, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (*planner.HolidaySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var settings planner.HolidaySettings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings planner.HolidaySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.db, settingsKey, settings)
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchPlans scans every stored day; the data set is one user's calendar.
func (s *Store) SearchPlans(ctx context.Context, query string) ([]planner.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days, err := s.allDays(ctx)
	if err != nil {
		return nil, err
	}
	return planner.SearchDays(days, query), nil
}

// Reset deletes every key.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv")
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) put(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	_, err = db.ExecContext(ctx, query, key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
