package domain

import (
	"fmt"
	"strings"
	"time"
)

// AuthorType identifies who produced a document version.
type AuthorType string

const (
	// AuthorHuman marks a version written or edited by a person.
	AuthorHuman AuthorType = "human"

	// AuthorAI marks a version produced by a generation run.
	AuthorAI AuthorType = "ai"
)

// Write statuses reported by the document store.
const (
	// StatusCreated means the document did not exist before this write.
	StatusCreated = "created"

	// StatusUpdated means an existing document was overwritten.
	StatusUpdated = "updated"

	// StatusFallback means the backend was unreachable and the content
	// was written to the caller-supplied fallback location instead.
	StatusFallback = "fallback"
)

// Write methods reported by the document store.
const (
	// MethodAPI means the write went through the remote backend.
	MethodAPI = "api"

	// MethodFilesystem means the write landed on the local filesystem.
	MethodFilesystem = "filesystem"
)

// MetadataKeyCommitSHA is the author metadata key recording the
// repository commit a version was generated from.
const MetadataKeyCommitSHA = "repo_commit_sha"

// DocumentRecord is the current state of a stored wiki document.
// It is owned by the document store: mutated only by CreateOrUpdate,
// destroyed only by BatchDelete.
type DocumentRecord struct {
	// ID is the stable content-addressed identifier. Opaque: its
	// internal structure must never be parsed by consumers.
	ID string

	// Title is the human-readable page title.
	Title string

	// Path is the logical folder the page lives in.
	Path string

	// Collection is an optional grouping prefix.
	Collection string

	// RepoURL is the source repository the page documents.
	RepoURL string

	// RepoName is the short repository name.
	RepoName string

	// DocType is a loose page taxonomy tag (overview, api, ...).
	DocType string

	// Content is the full page text, metadata block included.
	Content string

	// Location points at where the content currently lives
	// (a file path for the local backend, a URL for the API backend).
	Location string

	// CreatedAt is when the document was first written.
	CreatedAt time.Time

	// UpdatedAt is when the document was last overwritten.
	UpdatedAt time.Time
}

// DocumentVersion is one immutable entry in a document's append-only
// version log. Versions are ordered newest first and are never edited
// or removed except by whole-document deletion.
type DocumentVersion struct {
	// AuthorType records who produced this version.
	AuthorType AuthorType

	// AuthorMetadata is an open map; generation runs record at least
	// MetadataKeyCommitSHA here.
	AuthorMetadata map[string]string

	// CreatedAt is the version timestamp in RFC 3339 form. Kept as a
	// string because it crosses the store boundary verbatim; consumers
	// that need an age must parse it and handle failure explicitly.
	CreatedAt string
}

// CommitSHA returns the repository commit recorded for this version,
// or "" when none was recorded.
func (v DocumentVersion) CommitSHA() string {
	sha := v.AuthorMetadata[MetadataKeyCommitSHA]
	if sha == "unknown" {
		return ""
	}
	return sha
}

// WriteRequest is the payload for DocumentStore.CreateOrUpdate.
type WriteRequest struct {
	RepoURL        string            `json:"repo_url"`
	RepoName       string            `json:"repo_name"`
	Path           string            `json:"path,omitempty"`
	Title          string            `json:"title,omitempty"`
	DocType        string            `json:"doc_type"`
	Collection     string            `json:"collection,omitempty"`
	Content        string            `json:"content"`
	Keywords       []string          `json:"keywords,omitempty"`
	AuthorType     AuthorType        `json:"author_type"`
	AuthorMetadata map[string]string `json:"author_metadata,omitempty"`
}

// Validate checks the mandatory write fields. A missing field is a
// fatal validation failure: stores must reject the request before any
// network or disk operation, and never retry it.
func (r *WriteRequest) Validate() error {
	var missing []string
	if r.RepoURL == "" {
		missing = append(missing, "repo_url")
	}
	if r.RepoName == "" {
		missing = append(missing, "repo_name")
	}
	if r.DocType == "" {
		missing = append(missing, "doc_type")
	}
	if r.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// WriteResult reports the outcome of a store write.
type WriteResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Method string `json:"method,omitempty"`
	File   string `json:"file,omitempty"`
}

// BatchDeleteResult reports a best-effort batch deletion. Partial
// failures are collected per ID in Errors; the operation is never
// atomic and never retried automatically.
type BatchDeleteResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// PagePlan describes one page an external planner wants produced.
// The writer agent receives it as its brief.
type PagePlan struct {
	RepoURL    string
	RepoName   string
	Path       string
	Title      string
	DocType    string
	Collection string
	Keywords   []string
}
