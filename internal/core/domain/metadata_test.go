package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() Metadata {
	return Metadata{
		ID:          "doc-abc123def456-789012abcdef",
		RepoURL:     "https://github.com/acme/payments",
		RepoName:    "payments",
		DocType:     "architecture",
		Collection:  "payments",
		GeneratedAt: "2026-08-20T10:00:00Z",
		Generator:   "docwiki",
		Version:     "1.0",
		Author: map[string]string{
			MetadataKeyCommitSHA: "0123456789abcdef0123456789abcdef01234567",
		},
	}
}

func TestMetadata_EncodeDecodeRoundTrip(t *testing.T) {
	meta := testMetadata()
	body := "# Architecture\n\nThe system has three services.\n"

	decoded, rest, ok := DecodeMetadata(meta.Encode() + body)

	require.True(t, ok)
	assert.Equal(t, meta, decoded)
	assert.Equal(t, body, rest)
}

func TestMetadata_AppendToDecodeRoundTrip(t *testing.T) {
	meta := testMetadata()
	body := "# Architecture\n\nThe system has three services."

	decoded, rest, ok := DecodeMetadata(meta.AppendTo(body))

	require.True(t, ok)
	assert.Equal(t, meta, decoded)
	assert.Equal(t, body, rest)
}

func TestMetadata_BackPlacementWinsOverFront(t *testing.T) {
	front := Metadata{ID: "doc-front"}
	back := Metadata{ID: "doc-back"}

	text := back.AppendTo(front.Encode() + "body text")

	decoded, _, ok := DecodeMetadata(text)
	require.True(t, ok)
	assert.Equal(t, "doc-back", decoded.ID)
}

func TestMetadata_EncodeCanonicalKeyOrder(t *testing.T) {
	meta := testMetadata()
	meta.Author["run_id"] = "run-1"
	meta.Author["generator_host"] = "ci-3"

	lines := strings.Split(strings.TrimSpace(meta.Encode()), "\n")

	keys := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "---" {
			continue
		}
		keys = append(keys, strings.SplitN(line, ":", 2)[0])
	}

	// Recognised keys first, extension keys sorted after.
	assert.Equal(t, []string{
		"id", "repo_url", "repo_name", "doc_type", "collection",
		"generated_at", "generator", "version",
		"generator_host", MetadataKeyCommitSHA, "run_id",
	}, keys)
}

func TestMetadata_ValuesWithSpacesAreQuoted(t *testing.T) {
	meta := Metadata{ID: "doc-x", Author: map[string]string{"note": "needs human review"}}

	encoded := meta.Encode()
	assert.Contains(t, encoded, `note: "needs human review"`)

	decoded, _, ok := DecodeMetadata(encoded + "body")
	require.True(t, ok)
	assert.Equal(t, "needs human review", decoded.Author["note"])
}

func TestMetadata_ValuesWithColonsSurvive(t *testing.T) {
	meta := Metadata{ID: "doc-x", RepoURL: "https://github.com/acme/payments"}

	decoded, _, ok := DecodeMetadata(meta.Encode() + "body")
	require.True(t, ok)
	assert.Equal(t, "https://github.com/acme/payments", decoded.RepoURL)
}

func TestDecodeMetadata_NoBlock(t *testing.T) {
	text := "# Just a page\n\nNo metadata here.\n"

	meta, rest, ok := DecodeMetadata(text)

	assert.False(t, ok)
	assert.Equal(t, Metadata{}, meta)
	assert.Equal(t, text, rest)
}

func TestDecodeMetadata_MalformedBackBlockIgnored(t *testing.T) {
	// A trailing delimited section with a non key-value line is not a
	// metadata block.
	text := "body\n---\njust prose, no key\n---\n"

	_, rest, ok := DecodeMetadata(text)

	assert.False(t, ok)
	assert.Equal(t, text, rest)
}

func TestDecodeMetadata_FrontBlockIgnoresProseLines(t *testing.T) {
	text := "---\nid: doc-x\nsome stray line\ndoc_type: api\n---\nbody"

	meta, rest, ok := DecodeMetadata(text)

	require.True(t, ok)
	assert.Equal(t, "doc-x", meta.ID)
	assert.Equal(t, "api", meta.DocType)
	assert.Equal(t, "body", rest)
}

func TestDecodeMetadata_SingleQuotedValues(t *testing.T) {
	text := "---\nid: 'doc-x'\n---\nbody"

	meta, _, ok := DecodeMetadata(text)

	require.True(t, ok)
	assert.Equal(t, "doc-x", meta.ID)
}

func TestMetadata_CommitSHA(t *testing.T) {
	meta := testMetadata()
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", meta.CommitSHA())

	assert.Empty(t, Metadata{}.CommitSHA())
}

func TestMetadata_EmptyFieldsOmitted(t *testing.T) {
	meta := Metadata{ID: "doc-x"}

	encoded := meta.Encode()

	assert.NotContains(t, encoded, "repo_url")
	assert.NotContains(t, encoded, "collection")
}
