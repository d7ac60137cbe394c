// Package local implements the document store on the local filesystem:
// wiki pages are markdown files under a data directory and a SQLite
// index tracks records and their version logs.
package local

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
	"unicode"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/storage/local/migrations"
	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a filesystem-backed implementation of driven.DocumentStore.
// Page content lives in markdown files; everything else lives in the
// SQLite index.
type Store struct {
	db      *sql.DB
	dataDir string
	wikiDir string

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// NewStore creates a local store at the specified data directory.
// If dataDir is empty, defaults to ~/.docwiki/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docwiki", "data")
	}

	wikiDir := filepath.Join(dataDir, "wiki")
	if err := os.MkdirAll(wikiDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:      db,
		dataDir: dataDir,
		wikiDir: wikiDir,
		Now:     time.Now,
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

// WikiDir returns the directory holding the markdown pages.
func (s *Store) WikiDir() string {
	return s.wikiDir
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
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

// CreateOrUpdate writes the page to disk and upserts the index row,
// appending one version record. The fallback path is unused: the local
// store's primary write already targets the filesystem.
func (s *Store) CreateOrUpdate(ctx context.Context, req *domain.WriteRequest, _ string) (*domain.WriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := domain.ComputeDocumentID(req.RepoURL, req.Path, req.Title, req.DocType)
	location := s.pageLocation(req)
	now := s.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(location), 0700); err != nil {
		return nil, fmt.Errorf("%w: creating page directory: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.WriteFile(location, []byte(req.Content), 0600); err != nil {
		return nil, fmt.Errorf("%w: writing page: %v", domain.ErrStoreUnavailable, err)
	}

	status := domain.StatusCreated
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE id = ?", id).Scan(&exists)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: checking for existing document: %v", domain.ErrStoreUnavailable, err)
	case exists > 0:
		status = domain.StatusUpdated
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, path, collection, repo_url, repo_name, doc_type, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			path = excluded.path,
			collection = excluded.collection,
			repo_url = excluded.repo_url,
			repo_name = excluded.repo_name,
			doc_type = excluded.doc_type,
			location = excluded.location,
			updated_at = excluded.updated_at
	`, id, req.Title, req.Path, req.Collection, req.RepoURL, req.RepoName,
		req.DocType, location, now, now)
	if err != nil {
		return nil, fmt.Errorf("%w: saving document: %v", domain.ErrStoreUnavailable, err)
	}

	metadataJSON, err := json.Marshal(req.AuthorMetadata)
	if err != nil {
		metadataJSON = []byte("{}")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO versions (document_id, author_type, author_metadata, created_at)
		VALUES (?, ?, ?, ?)
	`, id, string(req.AuthorType), string(metadataJSON), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("%w: saving version: %v", domain.ErrStoreUnavailable, err)
	}

	return &domain.WriteResult{
		ID:     id,
		Status: status,
		Method: domain.MethodFilesystem,
		File:   location,
	}, nil
}

// Get retrieves a document by ID. Index or file trouble reads as
// absence.
func (s *Store) Get(ctx context.Context, id string) (*domain.DocumentRecord, bool) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, path, collection, repo_url, repo_name, doc_type, location, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Debug("reading document %s: %v", id, err)
		}
		return nil, false
	}

	rec.Content = s.readPage(rec.Location)
	return rec, true
}

// GetVersions returns the version log, newest first. Empty on failure.
func (s *Store) GetVersions(ctx context.Context, id string) []domain.DocumentVersion {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author_type, author_metadata, created_at
		FROM versions WHERE document_id = ?
		ORDER BY id DESC
	`, id)
	if err != nil {
		logger.Debug("reading versions for %s: %v", id, err)
		return nil
	}
	defer rows.Close()

	var versions []domain.DocumentVersion
	for rows.Next() {
		var v domain.DocumentVersion
		var authorType, metadataJSON string
		if err := rows.Scan(&authorType, &metadataJSON, &v.CreatedAt); err != nil {
			return nil
		}
		v.AuthorType = domain.AuthorType(authorType)
		if err := json.Unmarshal([]byte(metadataJSON), &v.AuthorMetadata); err != nil {
			v.AuthorMetadata = nil
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil
	}
	return versions
}

// GetAll lists up to limit documents. Empty on failure.
func (s *Store) GetAll(ctx context.Context, limit int) []domain.DocumentRecord {
	return s.list(ctx, `
		SELECT id, title, path, collection, repo_url, repo_name, doc_type, location, created_at, updated_at
		FROM documents ORDER BY updated_at DESC LIMIT ?
	`, limit)
}

// GetByRepository lists up to limit documents for a repository.
// Empty on failure.
func (s *Store) GetByRepository(ctx context.Context, repoURL string, limit int) []domain.DocumentRecord {
	return s.list(ctx, `
		SELECT id, title, path, collection, repo_url, repo_name, doc_type, location, created_at, updated_at
		FROM documents WHERE repo_url = ? ORDER BY updated_at DESC LIMIT ?
	`, repoURL, limit)
}

// list runs a documents query and loads page content for each row.
func (s *Store) list(ctx context.Context, query string, args ...any) []domain.DocumentRecord {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Debug("listing documents: %v", err)
		return nil
	}
	defer rows.Close()

	var records []domain.DocumentRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil
		}
		rec.Content = s.readPage(rec.Location)
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil
	}
	return records
}

// BatchDelete removes pages and index rows best-effort, per ID.
func (s *Store) BatchDelete(ctx context.Context, ids []string) domain.BatchDeleteResult {
	if len(ids) == 0 {
		return domain.BatchDeleteResult{Errors: []string{}}
	}

	result := domain.BatchDeleteResult{Total: len(ids), Errors: []string{}}
	for _, id := range ids {
		if err := s.deleteOne(ctx, id); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		result.Succeeded++
	}
	return result
}

// deleteOne removes one document's page file and index rows.
func (s *Store) deleteOne(ctx context.Context, id string) error {
	var location string
	err := s.db.QueryRowContext(ctx, "SELECT location FROM documents WHERE id = ?", id).Scan(&location)
	if err == sql.ErrNoRows {
		return nil // Absent is not an error.
	}
	if err != nil {
		return fmt.Errorf("looking up document: %w", err)
	}

	if location != "" {
		if err := os.Remove(location); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing page file: %w", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// HealthCheck verifies the index is reachable.
func (s *Store) HealthCheck(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

// pageLocation derives the markdown file path for a write. Every part
// of the identity triple (repo via collection default, path, title)
// lands in the location: documents with distinct IDs must never share
// a file, or one write clobbers another and one delete removes both.
func (s *Store) pageLocation(req *domain.WriteRequest) string {
	collection := slugify(req.Collection)
	if collection == "" {
		collection = slugify(req.RepoName)
	}
	name := slugify(req.Title)
	if name == "" {
		name = slugify(req.DocType)
	}

	parts := []string{s.wikiDir, collection}
	for _, seg := range strings.Split(req.Path, "/") {
		if seg = slugify(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	return filepath.Join(append(parts, name+".md")...)
}

// readPage loads page content; missing or unreadable files read as
// empty content.
func (s *Store) readPage(location string) string {
	if location == "" {
		return ""
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return ""
	}
	return string(data)
}

// scanRecord scans one documents row via the given scan function.
func scanRecord(scan func(...any) error) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	var createdAt, updatedAt sql.NullTime
	if err := scan(&rec.ID, &rec.Title, &rec.Path, &rec.Collection,
		&rec.RepoURL, &rec.RepoName, &rec.DocType, &rec.Location,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time
	}
	return &rec, nil
}

// slugify lowercases and replaces non-alphanumeric runs with hyphens,
// keeping page file names shell- and URL-friendly.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
