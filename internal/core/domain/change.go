package domain

// ChangeClass classifies the magnitude of repository drift since the
// last documented commit.
type ChangeClass string

const (
	// ChangeUnchanged means the repository head equals the recorded commit.
	ChangeUnchanged ChangeClass = "unchanged"

	// ChangeMinor means fewer commits than the significance threshold.
	ChangeMinor ChangeClass = "minor"

	// ChangeSignificant means the threshold was met, or history could
	// not be compared (fail toward freshness).
	ChangeSignificant ChangeClass = "significant"

	// ChangeUnknown means no commit was recorded for the document, so
	// drift cannot be assessed at all.
	ChangeUnknown ChangeClass = "unknown"
)

// RepoChangeStatus is the derived (never stored) result of classifying
// repository drift.
type RepoChangeStatus struct {
	// Class is the drift classification.
	Class ChangeClass

	// Commits is the commit count since the recorded SHA. Only
	// meaningful when CommitsResolved is true.
	Commits int

	// CommitsResolved is false when the recorded SHA exists but could
	// not be located in the current history (rebase, force-push).
	CommitsResolved bool

	// Reason explains the classification in human-readable form.
	Reason string
}

// Changed reports whether the repository drifted from the recorded commit.
func (s RepoChangeStatus) Changed() bool {
	return s.Class != ChangeUnchanged
}

// Decision is the output of the version priority engine for one
// document. The Reason string is a required output for observability,
// not a logging side effect.
type Decision struct {
	Regenerate bool
	Reason     string
}

// Snapshot is a point-in-time capture of the documents belonging to a
// repository, taken once before a generation run and discarded after
// reconciliation.
type Snapshot struct {
	// RepoURL is the repository the snapshot was taken for.
	RepoURL string

	// ByID maps every document ID for the repository to its record.
	ByID map[string]DocumentRecord

	// HumanEdited is the subset of IDs whose version history contains a
	// human-authored version inside the recency window.
	HumanEdited map[string]bool
}

// Count returns the number of documents captured.
func (s *Snapshot) Count() int {
	return len(s.ByID)
}

// Contains reports whether id was present when the snapshot was taken.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.ByID[id]
	return ok
}

// ReconcileResult reports a post-run reconciliation pass.
type ReconcileResult struct {
	// Deleted is the number of orphaned documents removed.
	Deleted int

	// PreservedHuman is the number of orphans kept because of a recent
	// human edit.
	PreservedHuman int

	// PreservedFailed is the number of documents excluded from deletion
	// purely because this run failed to reproduce them.
	PreservedFailed int

	// Errors collects per-document deletion failures. They never abort
	// the run and are never retried automatically.
	Errors []string
}
