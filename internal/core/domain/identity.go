package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash segment lengths for document identifiers. 12 hex characters is a
// 48-bit space per segment: practically unique for corpora up to low
// millions of repositories, with no claim of cryptographic collision
// resistance.
const (
	repoHashLength = 12
	pageHashLength = 12
)

// ComputeDocumentID derives the stable identifier for a document from
// its (repoURL, path, title) triple. The identifier is deterministic,
// never reassigned once created, and opaque to every other component.
//
// Hashed form: "doc-" + hash(repoURL) + "-" + hash(path + "/" + title),
// or just hash(title) when path is empty.
//
// Legacy form, kept for documents created under the older
// single-segment scheme: when both path and title are empty the second
// segment is the raw docType, or "default" when that is empty too. The
// two schemes can in theory collide with each other; the legacy form is
// preserved verbatim rather than unified with the hashed form.
func ComputeDocumentID(repoURL, path, title, docType string) string {
	repoSeg := hashSegment(repoURL, repoHashLength)

	if path != "" || title != "" {
		page := title
		if path != "" {
			page = path + "/" + title
		}
		return "doc-" + repoSeg + "-" + hashSegment(page, pageHashLength)
	}

	if docType != "" {
		return "doc-" + repoSeg + "-" + docType
	}
	return "doc-" + repoSeg + "-default"
}

// hashSegment returns the first n hex characters of sha256(s).
func hashSegment(s string, n int) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:n]
}

// RepoNameFromURL extracts the short repository name from a URL:
// the last path segment with any ".git" suffix removed.
func RepoNameFromURL(repoURL string) string {
	trimmed := strings.TrimRight(repoURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return strings.TrimSuffix(trimmed, ".git")
}
