package driven

import (
	"context"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

// DocumentStore persists wiki documents and their version logs.
// Two interchangeable backends exist: a remote HTTP API and the local
// filesystem. Callers must not depend on which one they talk to.
//
// Read operations deliberately do not return errors: absence and
// transient backend failure are both reported as an absent/empty
// result, and callers must not try to distinguish them through these
// calls alone.
type DocumentStore interface {
	// CreateOrUpdate overwrites the document's current content and
	// metadata and appends exactly one new version record. The request
	// is validated before any network or disk operation; a validation
	// failure is returned immediately and never retried. Transient
	// failures are retried with exponential backoff; on exhaustion the
	// content is written to fallbackPath when one is supplied (the
	// result reports the degraded path explicitly), otherwise the
	// failure is propagated.
	CreateOrUpdate(ctx context.Context, req *domain.WriteRequest, fallbackPath string) (*domain.WriteResult, error)

	// Get retrieves a document by ID. ok is false when the document
	// does not exist or the backend could not be reached.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, bool)

	// GetVersions returns the document's version log, newest first.
	// Empty when none exist or on failure.
	GetVersions(ctx context.Context, id string) []domain.DocumentVersion

	// GetAll lists up to limit documents. Empty on failure.
	GetAll(ctx context.Context, limit int) []domain.DocumentRecord

	// GetByRepository lists up to limit documents belonging to a
	// repository. Empty on failure.
	GetByRepository(ctx context.Context, repoURL string, limit int) []domain.DocumentRecord

	// BatchDelete removes documents best-effort, reporting partial
	// failures per call. An empty input returns an all-zero result
	// without touching the backend.
	BatchDelete(ctx context.Context, ids []string) domain.BatchDeleteResult

	// HealthCheck probes the backend with a short timeout.
	HealthCheck(ctx context.Context) bool
}
