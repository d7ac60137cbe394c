// Package memory provides an in-memory document store used by tests
// and dry runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.DocumentRecord
	versions  map[string][]domain.DocumentVersion

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.DocumentRecord),
		versions:  make(map[string][]domain.DocumentVersion),
		Now:       time.Now,
	}
}

// CreateOrUpdate overwrites the document and appends one version record.
func (s *DocumentStore) CreateOrUpdate(_ context.Context, req *domain.WriteRequest, _ string) (*domain.WriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.ComputeDocumentID(req.RepoURL, req.Path, req.Title, req.DocType)
	now := s.Now().UTC()

	status := domain.StatusCreated
	rec, exists := s.documents[id]
	if exists {
		status = domain.StatusUpdated
	} else {
		rec = domain.DocumentRecord{ID: id, CreatedAt: now}
	}

	rec.Title = req.Title
	rec.Path = req.Path
	rec.Collection = req.Collection
	rec.RepoURL = req.RepoURL
	rec.RepoName = req.RepoName
	rec.DocType = req.DocType
	rec.Content = req.Content
	rec.UpdatedAt = now
	s.documents[id] = rec

	version := domain.DocumentVersion{
		AuthorType:     req.AuthorType,
		AuthorMetadata: copyMap(req.AuthorMetadata),
		CreatedAt:      now.Format(time.RFC3339),
	}
	// Newest first.
	s.versions[id] = append([]domain.DocumentVersion{version}, s.versions[id]...)

	return &domain.WriteResult{ID: id, Status: status}, nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.documents[id]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// GetVersions returns the version log, newest first.
func (s *DocumentStore) GetVersions(_ context.Context, id string) []domain.DocumentVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.versions[id]
	out := make([]domain.DocumentVersion, len(versions))
	copy(out, versions)
	return out
}

// GetAll lists up to limit documents.
func (s *DocumentStore) GetAll(_ context.Context, limit int) []domain.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DocumentRecord
	for _, rec := range s.documents {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, rec)
	}
	return out
}

// GetByRepository lists up to limit documents for a repository.
func (s *DocumentStore) GetByRepository(_ context.Context, repoURL string, limit int) []domain.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DocumentRecord
	for _, rec := range s.documents {
		if rec.RepoURL != repoURL {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, rec)
	}
	return out
}

// BatchDelete removes documents. Deleting an absent ID is not an error.
func (s *DocumentStore) BatchDelete(_ context.Context, ids []string) domain.BatchDeleteResult {
	if len(ids) == 0 {
		return domain.BatchDeleteResult{Errors: []string{}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := domain.BatchDeleteResult{Total: len(ids), Errors: []string{}}
	for _, id := range ids {
		delete(s.documents, id)
		delete(s.versions, id)
		result.Succeeded++
	}
	return result
}

// HealthCheck always succeeds for in-memory storage.
func (s *DocumentStore) HealthCheck(_ context.Context) bool {
	return true
}

// SeedVersion prepends a pre-existing version record without going
// through a write, for tests that need aged histories.
func (s *DocumentStore) SeedVersion(id string, version domain.DocumentVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[id] = append([]domain.DocumentVersion{version}, s.versions[id]...)
}

// SeedDocument inserts a record directly, for tests.
func (s *DocumentStore) SeedDocument(rec domain.DocumentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[rec.ID] = rec
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
