package services

import (
	"context"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// defaultListLimit bounds unqualified listings.
const defaultListLimit = 1000

// DocumentService exposes stored documents for inspection.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// ListAll returns up to limit documents across all repositories.
func (s *DocumentService) ListAll(ctx context.Context, limit int) []domain.DocumentRecord {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.GetAll(ctx, limit)
}

// ListByRepository returns up to limit documents for a repository.
func (s *DocumentService) ListByRepository(ctx context.Context, repoURL string, limit int) []domain.DocumentRecord {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.store.GetByRepository(ctx, repoURL, limit)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.DocumentRecord, bool) {
	return s.store.Get(ctx, id)
}

// Versions returns a document's version log, newest first.
func (s *DocumentService) Versions(ctx context.Context, id string) []domain.DocumentVersion {
	return s.store.GetVersions(ctx, id)
}
