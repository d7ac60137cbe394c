package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

func editedPage(t *testing.T, dir string, meta domain.Metadata, body string) string {
	t.Helper()
	path := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(path, []byte(meta.AppendTo(body)), 0600))
	return path
}

func TestWatcher_RecordsHumanEdit(t *testing.T) {
	store := memory.NewDocumentStore()
	dir := t.TempDir()
	w := NewWatcher(store, dir)
	ctx := context.Background()

	// An existing generated document the edit belongs to.
	result, err := store.CreateOrUpdate(ctx, &domain.WriteRequest{
		RepoURL:    "https://github.com/acme/payments",
		RepoName:   "payments",
		Title:      "Overview",
		DocType:    "overview",
		Content:    "generated content",
		AuthorType: domain.AuthorAI,
	}, "")
	require.NoError(t, err)

	meta := domain.Metadata{
		ID:       result.ID,
		RepoURL:  "https://github.com/acme/payments",
		RepoName: "payments",
		DocType:  "overview",
	}
	path := editedPage(t, dir, meta, "# Overview\n\nHand-tuned explanation.")

	w.recordEdit(ctx, path)

	versions := store.GetVersions(ctx, result.ID)
	require.NotEmpty(t, versions)
	assert.Equal(t, domain.AuthorHuman, versions[0].AuthorType)
	assert.Equal(t, path, versions[0].AuthorMetadata["edited_file"])
}

func TestWatcher_IgnoresOwnWriteEcho(t *testing.T) {
	store := memory.NewDocumentStore()
	dir := t.TempDir()
	w := NewWatcher(store, dir)
	ctx := context.Background()

	meta := domain.Metadata{
		ID:       "placeholder",
		RepoURL:  "https://github.com/acme/payments",
		RepoName: "payments",
		DocType:  "overview",
	}
	content := meta.AppendTo("# Overview\n\nGenerated.")

	result, err := store.CreateOrUpdate(ctx, &domain.WriteRequest{
		RepoURL:    "https://github.com/acme/payments",
		RepoName:   "payments",
		Title:      "Overview",
		DocType:    "overview",
		Content:    content,
		AuthorType: domain.AuthorAI,
	}, "")
	require.NoError(t, err)

	// The file on disk matches the stored content exactly: this is our
	// own write echoing back, not a human edit. The metadata must carry
	// the real ID for the match to be found.
	meta.ID = result.ID
	content = meta.AppendTo("# Overview\n\nGenerated.")
	rec, _ := store.Get(ctx, result.ID)
	rec.Content = content
	store.SeedDocument(*rec)

	path := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	w.recordEdit(ctx, path)

	versions := store.GetVersions(ctx, result.ID)
	require.Len(t, versions, 1)
	assert.Equal(t, domain.AuthorAI, versions[0].AuthorType)
}

func TestWatcher_SkipsPagesWithoutIdentity(t *testing.T) {
	store := memory.NewDocumentStore()
	dir := t.TempDir()
	w := NewWatcher(store, dir)
	ctx := context.Background()

	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Scratch notes\n"), 0600))

	w.recordEdit(ctx, path)

	assert.Empty(t, store.GetAll(ctx, 10))
}
