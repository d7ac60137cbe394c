package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

const testRepo = "https://github.com/acme/payments"

func newReconcilerFixture() (*Reconciler, *memory.DocumentStore, time.Time) {
	store := memory.NewDocumentStore()
	rec := NewReconciler(store, 7)

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rec.Now = func() time.Time { return now }

	return rec, store, now
}

func seedDoc(store *memory.DocumentStore, id string) {
	store.SeedDocument(domain.DocumentRecord{ID: id, Title: id, RepoURL: testRepo})
}

func seedHumanEdit(store *memory.DocumentStore, id string, at time.Time) {
	store.SeedVersion(id, domain.DocumentVersion{
		AuthorType: domain.AuthorHuman,
		CreatedAt:  at.Format(time.RFC3339),
	})
}

func TestReconciler_SnapshotCapturesRepositoryDocuments(t *testing.T) {
	rec, store, _ := newReconcilerFixture()
	seedDoc(store, "doc-a")
	seedDoc(store, "doc-b")
	store.SeedDocument(domain.DocumentRecord{ID: "doc-other", RepoURL: "https://github.com/acme/billing"})

	snap := rec.Snapshot(context.Background(), testRepo)

	assert.Equal(t, 2, snap.Count())
	assert.True(t, snap.Contains("doc-a"))
	assert.True(t, snap.Contains("doc-b"))
	assert.False(t, snap.Contains("doc-other"))
}

func TestReconciler_SnapshotFlagsRecentHumanEdits(t *testing.T) {
	rec, store, now := newReconcilerFixture()
	seedDoc(store, "doc-recent")
	seedHumanEdit(store, "doc-recent", now.AddDate(0, 0, -2))
	seedDoc(store, "doc-old")
	seedHumanEdit(store, "doc-old", now.AddDate(0, 0, -30))
	seedDoc(store, "doc-ai")
	store.SeedVersion("doc-ai", domain.DocumentVersion{
		AuthorType: domain.AuthorAI,
		CreatedAt:  now.AddDate(0, 0, -1).Format(time.RFC3339),
	})

	snap := rec.Snapshot(context.Background(), testRepo)

	assert.True(t, snap.HumanEdited["doc-recent"])
	assert.False(t, snap.HumanEdited["doc-old"])
	assert.False(t, snap.HumanEdited["doc-ai"])
}

func TestReconciler_SnapshotIgnoresUnparseableHumanTimestamps(t *testing.T) {
	// An unverifiable human edit only shields a document when recency
	// can be proven.
	rec, store, _ := newReconcilerFixture()
	seedDoc(store, "doc-a")
	store.SeedVersion("doc-a", domain.DocumentVersion{
		AuthorType: domain.AuthorHuman,
		CreatedAt:  "garbage",
	})

	snap := rec.Snapshot(context.Background(), testRepo)

	assert.False(t, snap.HumanEdited["doc-a"])
}

func TestReconciler_ReconcileDeletesOrphans(t *testing.T) {
	rec, store, now := newReconcilerFixture()
	for _, id := range []string{"doc-a", "doc-b", "doc-c", "doc-d"} {
		seedDoc(store, id)
	}
	seedHumanEdit(store, "doc-b", now.AddDate(0, 0, -1))

	ctx := context.Background()
	snap := rec.Snapshot(ctx, testRepo)

	generated := map[string]bool{"doc-a": true}
	failed := map[string]bool{"doc-d": true}

	result := rec.Reconcile(ctx, snap, generated, failed)

	// doc-c is the only true orphan; doc-b is shielded by the human
	// edit and doc-d by the failure.
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.PreservedHuman)
	assert.Equal(t, 1, result.PreservedFailed)
	assert.Empty(t, result.Errors)

	_, ok := store.Get(ctx, "doc-c")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "doc-a")
	assert.True(t, ok)
	_, ok = store.Get(ctx, "doc-b")
	assert.True(t, ok)
	_, ok = store.Get(ctx, "doc-d")
	assert.True(t, ok)
}

func TestReconciler_EmptySnapshotDisablesCleanup(t *testing.T) {
	rec, store, _ := newReconcilerFixture()
	seedDoc(store, "doc-a")

	ctx := context.Background()
	empty := rec.Snapshot(ctx, "https://github.com/acme/empty")

	result := rec.Reconcile(ctx, empty, map[string]bool{}, map[string]bool{})

	assert.Zero(t, result.Deleted)
	_, ok := store.Get(ctx, "doc-a")
	assert.True(t, ok)
}

func TestReconciler_NilSnapshotIsNoop(t *testing.T) {
	rec, _, _ := newReconcilerFixture()

	result := rec.Reconcile(context.Background(), nil, nil, nil)

	assert.Zero(t, result.Deleted)
	assert.Empty(t, result.Errors)
}

func TestReconciler_AllOrphansHumanPreserved(t *testing.T) {
	rec, store, now := newReconcilerFixture()
	seedDoc(store, "doc-a")
	seedHumanEdit(store, "doc-a", now.AddDate(0, 0, -3))

	ctx := context.Background()
	snap := rec.Snapshot(ctx, testRepo)

	result := rec.Reconcile(ctx, snap, map[string]bool{}, map[string]bool{})

	require.Zero(t, result.Deleted)
	assert.Equal(t, 1, result.PreservedHuman)
	_, ok := store.Get(ctx, "doc-a")
	assert.True(t, ok)
}
