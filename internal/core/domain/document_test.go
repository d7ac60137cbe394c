package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWriteRequest() *WriteRequest {
	return &WriteRequest{
		RepoURL:  "https://github.com/acme/payments",
		RepoName: "payments",
		DocType:  "overview",
		Content:  "# Overview",
	}
}

func TestWriteRequest_ValidateAccepts(t *testing.T) {
	assert.NoError(t, validWriteRequest().Validate())
}

func TestWriteRequest_ValidateListsAllMissingFields(t *testing.T) {
	req := &WriteRequest{}

	err := req.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "repo_url")
	assert.Contains(t, err.Error(), "repo_name")
	assert.Contains(t, err.Error(), "doc_type")
	assert.Contains(t, err.Error(), "content")
}

func TestWriteRequest_ValidateSingleMissingField(t *testing.T) {
	req := validWriteRequest()
	req.DocType = ""

	err := req.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc_type")
	assert.NotContains(t, err.Error(), "repo_url")
}

func TestDocumentVersion_CommitSHA(t *testing.T) {
	v := DocumentVersion{AuthorMetadata: map[string]string{MetadataKeyCommitSHA: "sha-1"}}
	assert.Equal(t, "sha-1", v.CommitSHA())
}

func TestDocumentVersion_CommitSHAUnknownSentinel(t *testing.T) {
	// "unknown" is a recorded placeholder, not a usable commit.
	v := DocumentVersion{AuthorMetadata: map[string]string{MetadataKeyCommitSHA: "unknown"}}
	assert.Empty(t, v.CommitSHA())
}

func TestDocumentVersion_CommitSHAMissing(t *testing.T) {
	assert.Empty(t, DocumentVersion{}.CommitSHA())
}

func TestSnapshot_CountAndContains(t *testing.T) {
	snap := &Snapshot{
		ByID: map[string]DocumentRecord{
			"doc-a": {ID: "doc-a"},
			"doc-b": {ID: "doc-b"},
		},
	}

	assert.Equal(t, 2, snap.Count())
	assert.True(t, snap.Contains("doc-a"))
	assert.False(t, snap.Contains("doc-z"))
}

func TestRepoChangeStatus_Changed(t *testing.T) {
	assert.False(t, RepoChangeStatus{Class: ChangeUnchanged}.Changed())
	assert.True(t, RepoChangeStatus{Class: ChangeMinor}.Changed())
	assert.True(t, RepoChangeStatus{Class: ChangeSignificant}.Changed())
	assert.True(t, RepoChangeStatus{Class: ChangeUnknown}.Changed())
}
