package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

func testRequest() *domain.WriteRequest {
	return &domain.WriteRequest{
		RepoURL:    "https://github.com/acme/payments",
		RepoName:   "payments",
		Title:      "Overview",
		DocType:    "overview",
		Content:    "# Overview\n\nContent.",
		AuthorType: domain.AuthorAI,
		AuthorMetadata: map[string]string{
			domain.MetadataKeyCommitSHA: "sha-1",
		},
	}
}

func TestDocumentStore_CreateThenUpdate(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	created, err := store.CreateOrUpdate(ctx, testRequest(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCreated, created.Status)
	assert.NotEmpty(t, created.ID)

	updated, err := store.CreateOrUpdate(ctx, testRequest(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpdated, updated.Status)
	assert.Equal(t, created.ID, updated.ID)
}

func TestDocumentStore_ValidationRejectedBeforeWrite(t *testing.T) {
	store := NewDocumentStore()

	req := testRequest()
	req.Content = ""

	_, err := store.CreateOrUpdate(context.Background(), req, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.GetAll(context.Background(), 10))
}

func TestDocumentStore_VersionsNewestFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	times := []time.Time{
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
	}
	idx := 0
	store.Now = func() time.Time { t := times[idx]; idx++; return t }

	first, err := store.CreateOrUpdate(ctx, testRequest(), "")
	require.NoError(t, err)

	human := testRequest()
	human.AuthorType = domain.AuthorHuman
	_, err = store.CreateOrUpdate(ctx, human, "")
	require.NoError(t, err)

	versions := store.GetVersions(ctx, first.ID)
	require.Len(t, versions, 2)
	assert.Equal(t, domain.AuthorHuman, versions[0].AuthorType)
	assert.Equal(t, "2026-08-10T00:00:00Z", versions[0].CreatedAt)
}

func TestDocumentStore_GetByRepository(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.CreateOrUpdate(ctx, testRequest(), "")
	require.NoError(t, err)

	other := testRequest()
	other.RepoURL = "https://github.com/acme/billing"
	other.RepoName = "billing"
	_, err = store.CreateOrUpdate(ctx, other, "")
	require.NoError(t, err)

	docs := store.GetByRepository(ctx, "https://github.com/acme/payments", 10)
	require.Len(t, docs, 1)
	assert.Equal(t, "payments", docs[0].RepoName)
}

func TestDocumentStore_BatchDelete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	created, err := store.CreateOrUpdate(ctx, testRequest(), "")
	require.NoError(t, err)

	result := store.BatchDelete(ctx, []string{created.ID, "doc-absent"})

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Empty(t, result.Errors)

	_, ok := store.Get(ctx, created.ID)
	assert.False(t, ok)
	assert.Empty(t, store.GetVersions(ctx, created.ID))
}

func TestDocumentStore_BatchDeleteEmptyInput(t *testing.T) {
	store := NewDocumentStore()

	result := store.BatchDelete(context.Background(), nil)

	assert.Zero(t, result.Total)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestDocumentStore_HealthCheck(t *testing.T) {
	assert.True(t, NewDocumentStore().HealthCheck(context.Background()))
}
