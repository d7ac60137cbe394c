package driving

import (
	"context"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

// DocumentService exposes stored documents for inspection.
type DocumentService interface {
	// ListAll returns up to limit documents across all repositories.
	ListAll(ctx context.Context, limit int) []domain.DocumentRecord

	// ListByRepository returns up to limit documents for a repository.
	ListByRepository(ctx context.Context, repoURL string, limit int) []domain.DocumentRecord

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, bool)

	// Versions returns a document's version log, newest first.
	Versions(ctx context.Context, id string) []domain.DocumentVersion
}
