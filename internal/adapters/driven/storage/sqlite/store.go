// Package sqlite provides a SQLite-backed history archive of resolved
// exchanges.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. The archive is a
// read-side cache only: the backend keeps the authoritative query history,
// and every exchange recorded here was already confirmed by the server.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.docuquery/data/history.db
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/letscode5108/DocuQuery/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.HistoryStore = (*Store)(nil)

// Store is the SQLite-backed history archive.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new history store at the specified data directory.
// If dataDir is empty, defaults to ~/.docuquery/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docuquery", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
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

// SaveExchange archives a resolved exchange. Saving the same server id
// twice overwrites the earlier row.
func (s *Store) SaveExchange(ctx context.Context, ex domain.Exchange) error {
	if ex.Pending() {
		return fmt.Errorf("refusing to archive pending exchange %d", ex.ID)
	}

	var sourcesJSON any
	if len(ex.Sources) > 0 {
		data, err := json.Marshal(ex.Sources)
		if err != nil {
			return fmt.Errorf("marshalling sources: %w", err)
		}
		sourcesJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (id, question, answer, document_id, created_at, archived_at, sources)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			document_id = excluded.document_id,
			created_at = excluded.created_at,
			archived_at = excluded.archived_at,
			sources = excluded.sources
	`, ex.ID, ex.Question, ex.Answer, nullInt64(ex.DocumentID),
		ex.CreatedAt.UTC(), time.Now().UTC(), sourcesJSON)
	if err != nil {
		return fmt.Errorf("archiving exchange %d: %w", ex.ID, err)
	}
	return nil
}

// ListExchanges returns archived exchanges for a log, oldest first.
func (s *Store) ListExchanges(ctx context.Context, key domain.LogKey, limit int) ([]domain.Exchange, error) {
	query := `
		SELECT id, question, answer, document_id, created_at, sources
		FROM exchanges WHERE document_id IS NULL
		ORDER BY created_at, id`
	args := []any{}
	if !key.Global() {
		query = `
		SELECT id, question, answer, document_id, created_at, sources
		FROM exchanges WHERE document_id = ?
		ORDER BY created_at, id`
		args = append(args, int64(key))
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []domain.Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exchanges: %w", err)
	}
	return exchanges, nil
}

// scanExchange reads one exchange row.
func scanExchange(rows *sql.Rows) (domain.Exchange, error) {
	var (
		ex         domain.Exchange
		documentID sql.NullInt64
		sources    sql.NullString
	)
	if err := rows.Scan(&ex.ID, &ex.Question, &ex.Answer, &documentID, &ex.CreatedAt, &sources); err != nil {
		return domain.Exchange{}, fmt.Errorf("scanning exchange: %w", err)
	}
	if documentID.Valid {
		id := documentID.Int64
		ex.DocumentID = &id
	}
	if sources.Valid && sources.String != "" {
		if err := json.Unmarshal([]byte(sources.String), &ex.Sources); err != nil {
			return domain.Exchange{}, fmt.Errorf("decoding sources for exchange %d: %w", ex.ID, err)
		}
	}
	return ex, nil
}

// nullInt64 converts an optional id for storage.
func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
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
		// Extract version number (e.g., "0001_create_exchanges.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
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
