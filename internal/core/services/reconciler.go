package services

import (
	"context"
	"time"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// snapshotListLimit bounds the per-repository document listing taken
// before a run.
const snapshotListLimit = 1000

// Reconciler snapshots a repository's documents before a run and
// deletes orphans afterwards, never touching recent human edits or
// documents whose regeneration merely failed this run.
type Reconciler struct {
	store            driven.DocumentStore
	humanRecencyDays int

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// NewReconciler creates a reconciler over a document store.
func NewReconciler(store driven.DocumentStore, humanRecencyDays int) *Reconciler {
	if humanRecencyDays <= 0 {
		humanRecencyDays = DefaultThresholds().HumanRecencyDays
	}
	return &Reconciler{
		store:            store,
		humanRecencyDays: humanRecencyDays,
		Now:              time.Now,
	}
}

// Snapshot captures the full set of document IDs currently belonging to
// repoURL and flags the subset with a human-authored version younger
// than the recency window. A store failure yields an empty snapshot,
// which disables reconciliation for the run entirely: deleting against
// incomplete data is worse than deleting nothing.
func (r *Reconciler) Snapshot(ctx context.Context, repoURL string) *domain.Snapshot {
	snap := &domain.Snapshot{
		RepoURL:     repoURL,
		ByID:        make(map[string]domain.DocumentRecord),
		HumanEdited: make(map[string]bool),
	}

	existing := r.store.GetByRepository(ctx, repoURL, snapshotListLimit)
	if len(existing) == 0 {
		return snap
	}

	cutoff := r.Now().AddDate(0, 0, -r.humanRecencyDays)
	for _, doc := range existing {
		if doc.ID == "" {
			continue
		}
		snap.ByID[doc.ID] = doc

		for _, version := range r.store.GetVersions(ctx, doc.ID) {
			if version.AuthorType != domain.AuthorHuman {
				continue
			}
			created, err := time.Parse(time.RFC3339, version.CreatedAt)
			if err != nil {
				// An unverifiable human edit is not flagged; it only
				// shields a document from deletion when we can prove
				// recency.
				continue
			}
			if created.After(cutoff) {
				snap.HumanEdited[doc.ID] = true
				break
			}
		}
	}

	logger.Info("snapshot: %d existing doc(s) for repo, %d human-edited within %dd",
		snap.Count(), len(snap.HumanEdited), r.humanRecencyDays)
	return snap
}

// Reconcile deletes the documents that are orphaned after a run: in the
// snapshot but neither generated nor failed this run, and not shielded
// by a recent human edit. Deletion is a single best-effort batch call;
// partial failures are reported in the result and never retried.
func (r *Reconciler) Reconcile(ctx context.Context, snap *domain.Snapshot, generated, failed map[string]bool) domain.ReconcileResult {
	var result domain.ReconcileResult

	if snap == nil || snap.Count() == 0 {
		logger.Info("empty snapshot, skipping orphan cleanup")
		return result
	}

	var orphans []string
	for id := range snap.ByID {
		if !generated[id] && !failed[id] {
			orphans = append(orphans, id)
		}
	}

	for id := range failed {
		if snap.Contains(id) {
			result.PreservedFailed++
		}
	}

	if len(orphans) == 0 {
		logger.Info("no orphaned documents found")
		return result
	}

	var toDelete []string
	for _, id := range orphans {
		if snap.HumanEdited[id] {
			result.PreservedHuman++
			logger.Info("preserving human-edited orphan: %s (%s)", snap.ByID[id].Title, id)
			continue
		}
		toDelete = append(toDelete, id)
	}

	if len(toDelete) == 0 {
		logger.Info("%d orphan(s) found, all preserved (human-edited)", len(orphans))
		return result
	}

	logger.Info("deleting %d orphaned doc(s)", len(toDelete))
	deleted := r.store.BatchDelete(ctx, toDelete)
	result.Deleted = deleted.Succeeded
	result.Errors = deleted.Errors

	logger.Info("cleanup done: %d deleted, %d preserved (human), %d preserved (failed)",
		result.Deleted, result.PreservedHuman, result.PreservedFailed)
	return result
}
