package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/services"
)

// setupTestServices installs an in-memory store with fixture data
// behind the commands. The returned cleanup restores the unwired state.
func setupTestServices() func() {
	store := memory.NewDocumentStore()
	store.SeedDocument(domain.DocumentRecord{
		ID:       "doc-1",
		Title:    "Test Document 1",
		RepoURL:  "https://github.com/acme/payments",
		RepoName: "payments",
		DocType:  "overview",
		Content:  "# Test Document 1\n\nContent.",
	})
	store.SeedDocument(domain.DocumentRecord{
		ID:       "doc-2",
		Title:    "Test Document 2",
		RepoURL:  "https://github.com/acme/billing",
		RepoName: "billing",
		DocType:  "api",
	})
	store.SeedVersion("doc-1", domain.DocumentVersion{
		AuthorType:     domain.AuthorAI,
		AuthorMetadata: map[string]string{domain.MetadataKeyCommitSHA: "sha-1"},
		CreatedAt:      "2026-08-10T00:00:00Z",
	})

	docStore = store
	documentService = services.NewDocumentService(store)
	cfg = file.Config{StoreBackend: "local"}

	return func() {
		docStore = nil
		documentService = nil
		cfg = file.Config{}
		wikiDir = ""
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docwiki", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "generate")
	assert.Contains(t, names, "document")
	assert.Contains(t, names, "cleanup")
	assert.Contains(t, names, "status")
	assert.Contains(t, names, "watch")
	assert.Contains(t, names, "version")
}

func TestVersionCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "docwiki version")
}

func TestStatusCmd_Healthy(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "healthy")
}
