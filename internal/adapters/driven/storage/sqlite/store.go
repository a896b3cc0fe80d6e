package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/specmap/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FetchCache = (*Store)(nil)

// Store is a SQLite-backed fetch cache and fetch log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the cache database at path.
// If path is empty, defaults to ~/.specmap/cache.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".specmap", "cache.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	// WAL lets a second run read while another writes
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the cached response for url.
func (s *Store) Lookup(ctx context.Context, url string) (*domain.CachedResponse, error) {
	var (
		resp      domain.CachedResponse
		fetchedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT url, etag, last_modified, content_type, body, fetched_at
		FROM fetch_cache WHERE url = ?
	`, url).Scan(&resp.URL, &resp.ETag, &resp.LastModified, &resp.ContentType, &resp.Body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	resp.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetchedAt)
	return &resp, nil
}

// Store saves or replaces the cached response for resp.URL.
func (s *Store) Store(ctx context.Context, resp domain.CachedResponse) error {
	if resp.URL == "" {
		return fmt.Errorf("cache entry without URL: %w", domain.ErrInvalidInput)
	}
	body := resp.Body
	if body == nil {
		body = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fetch_cache (url, etag, last_modified, content_type, body, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			etag = excluded.etag,
			last_modified = excluded.last_modified,
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, resp.URL, resp.ETag, resp.LastModified, resp.ContentType, body,
		resp.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// Record appends entry to the fetch log.
func (s *Store) Record(ctx context.Context, entry domain.FetchLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fetch_log (run_id, url, status_code, attempts, from_cache, duration_ms, err, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.RunID, entry.URL, entry.StatusCode, entry.Attempts, boolToInt(entry.FromCache),
		entry.Duration.Milliseconds(), entry.Err, entry.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording fetch: %w", err)
	}
	return nil
}

// RunLog returns the log entries of one run in insertion order.
func (s *Store) RunLog(ctx context.Context, runID string) ([]domain.FetchLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, url, status_code, attempts, from_cache, duration_ms, err, at
		FROM fetch_log WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying fetch log: %w", err)
	}
	defer rows.Close()

	var entries []domain.FetchLogEntry
	for rows.Next() {
		var (
			e         domain.FetchLogEntry
			fromCache int
			ms        int64
			at        string
		)
		if err := rows.Scan(&e.RunID, &e.URL, &e.StatusCode, &e.Attempts, &fromCache, &ms, &e.Err, &at); err != nil {
			return nil, fmt.Errorf("scanning fetch log: %w", err)
		}
		e.FromCache = fromCache != 0
		e.Duration = time.Duration(ms) * time.Millisecond
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_fetch_cache.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
