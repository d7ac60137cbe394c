package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupCmd_RequiresRepoFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("cleanup")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "repo")
}

func TestCleanupCmd_DeletesOrphans(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	cleanupKeep = nil

	out, err := execute("cleanup", "--repo", "https://github.com/acme/payments")

	require.NoError(t, err)
	assert.Contains(t, out, "1 deleted, 0 preserved (human-edited)")

	_, ok := docStore.Get(context.Background(), "doc-1")
	assert.False(t, ok)
}

func TestCleanupCmd_KeepListProtects(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("cleanup",
		"--repo", "https://github.com/acme/payments", "--keep", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "0 deleted")

	_, ok := docStore.Get(context.Background(), "doc-1")
	assert.True(t, ok)
}

func TestCleanupCmd_NothingToCleanUp(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	cleanupKeep = nil

	out, err := execute("cleanup", "--repo", "https://github.com/acme/empty")

	require.NoError(t, err)
	assert.Contains(t, out, "nothing to clean up")
}
