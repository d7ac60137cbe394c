package driving

import (
	"context"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

// GenerationService runs one end-to-end regeneration pass for a
// repository: snapshot, per-page decision, writing, reconciliation.
type GenerationService interface {
	// Run processes the planned pages for a repository and returns a
	// full report of what was generated, skipped, failed, and cleaned
	// up. Per-document failures are carried in the report, not as an
	// error; the error is reserved for failures that prevent the run
	// from proceeding at all.
	Run(ctx context.Context, repoURL string, plans []domain.PagePlan) (*RunReport, error)
}

// RunReport describes one completed generation run. Every skipped page
// carries the decision reason: silent decisions are a design defect.
type RunReport struct {
	// RunID is the unique identifier stamped into every version this
	// run produced.
	RunID string

	// RepoURL is the repository processed.
	RepoURL string

	// HeadSHA is the commit the run documented, or "unknown" when the
	// head could not be resolved.
	HeadSHA string

	// Generated lists the documents written this run.
	Generated []PageOutcome

	// Skipped lists pages the priority engine declined to regenerate.
	Skipped []PageOutcome

	// Failed lists pages whose generation or persistence failed.
	Failed []PageOutcome

	// Cleanup is the post-run reconciliation result.
	Cleanup domain.ReconcileResult
}

// PageOutcome is the per-page entry in a run report.
type PageOutcome struct {
	// ID is the document identifier.
	ID string

	// Title is the page title.
	Title string

	// Reason is the decision reason (skips), the failure description
	// (failures), or the write status (generated pages).
	Reason string
}
