// Package history persists completed searches to a local SQLite database so
// past runs can be listed and re-examined from the CLI.
package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/filefind/internal/filelock"
	"github.com/harrison/filefind/internal/search"
)

//go:embed schema.sql
var schemaSQL string

// Record is one completed search.
type Record struct {
	ID           string
	Target       string
	Roots        []string
	MatchCount   int
	DirsExpanded int64
	ListErrors   int64
	Duration     time.Duration
	CreatedAt    time.Time
}

// Store manages the SQLite database of past searches.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if necessary) the history database at dbPath.
// Initialization of the database directory is serialized across processes
// with an advisory lock, so two concurrent first runs cannot race on schema
// creation.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}

		lock := filelock.New(dbPath + ".lock")
		if err := lock.Lock(); err != nil {
			return nil, err
		}

		defer lock.Unlock()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout must come first so later statements wait on locks held
	// by concurrent CLI invocations instead of failing immediately.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()

			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()

		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a SQL statement with backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		lastErr = err

		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}

	return lastErr
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one completed search and returns its generated id.
func (s *Store) Record(target string, roots []string, stats search.Stats) (string, error) {
	id := uuid.New().String()

	rootsJSON, err := json.Marshal(roots)
	if err != nil {
		return "", fmt.Errorf("marshal roots: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO searches (id, target, roots, match_count, dirs_expanded, list_errors, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, target, string(rootsJSON), stats.Matches, stats.DirsExpanded,
		stats.ListErrors, stats.Duration.Milliseconds(), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert search record: %w", err)
	}

	return id, nil
}

// Recent returns the most recent records, newest first. limit <= 0 returns
// everything.
func (s *Store) Recent(limit int) ([]Record, error) {
	query := `
		SELECT id, target, roots, match_count, dirs_expanded, list_errors, duration_ms, created_at
		FROM searches
		ORDER BY created_at DESC, id`

	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"

		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query search records: %w", err)
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		var (
			rec        Record
			rootsJSON  string
			durationMS int64
		)

		if err := rows.Scan(&rec.ID, &rec.Target, &rootsJSON, &rec.MatchCount,
			&rec.DirsExpanded, &rec.ListErrors, &durationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}

		if err := json.Unmarshal([]byte(rootsJSON), &rec.Roots); err != nil {
			return nil, fmt.Errorf("unmarshal roots for %s: %w", rec.ID, err)
		}

		rec.Duration = time.Duration(durationMS) * time.Millisecond

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Prune deletes all but the newest keep records. keep <= 0 is a no-op.
func (s *Store) Prune(keep int) error {
	if keep <= 0 {
		return nil
	}

	_, err := s.db.Exec(`
		DELETE FROM searches
		WHERE id NOT IN (
			SELECT id FROM searches ORDER BY created_at DESC, id LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune search records: %w", err)
	}

	return nil
}

// Clear deletes all records.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM searches"); err != nil {
		return fmt.Errorf("clear search records: %w", err)
	}

	return nil
}
