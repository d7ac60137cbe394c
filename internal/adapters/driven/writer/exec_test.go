package writer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
)

func testPlan() domain.PagePlan {
	return domain.PagePlan{
		RepoURL:  "https://github.com/acme/payments",
		RepoName: "payments",
		Title:    "Overview",
		DocType:  "overview",
		Keywords: []string{"payments", "api"},
	}
}

func TestCommandWriter_PassesBriefAndReturnsStdout(t *testing.T) {
	// cat echoes the JSON brief back, which doubles as output content.
	w := NewCommandWriter("cat")

	body, err := w.WritePage(context.Background(), testPlan())

	require.NoError(t, err)

	var got brief
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "payments", got.RepoName)
	assert.Equal(t, "Overview", got.Title)
	assert.Equal(t, []string{"payments", "api"}, got.Keywords)
}

func TestCommandWriter_UnconfiguredCommandRejected(t *testing.T) {
	w := NewCommandWriter("")

	_, err := w.WritePage(context.Background(), testPlan())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommandWriter_FailureIncludesStderr(t *testing.T) {
	w := NewCommandWriter("sh", "-c", "echo boom >&2; exit 1")

	_, err := w.WritePage(context.Background(), testPlan())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCommandWriter_EmptyOutputIsAnError(t *testing.T) {
	w := NewCommandWriter("true")

	_, err := w.WritePage(context.Background(), testPlan())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}

func TestCommandWriter_MissingCommandFails(t *testing.T) {
	w := NewCommandWriter("definitely-not-a-real-command-xyz")

	_, err := w.WritePage(context.Background(), testPlan())
	assert.Error(t, err)
}
