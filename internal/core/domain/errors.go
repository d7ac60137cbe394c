package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Write requests failing validation wrap this and are never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the document store could not be
	// reached after retries were exhausted.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrUnknownCommit indicates a commit SHA could not be resolved in
	// the repository's current history (e.g. after a rebase or
	// force-push). This is distinct from "zero commits since" and must
	// never be coerced to zero.
	ErrUnknownCommit = errors.New("commit not found in history")

	// ErrFallbackFailed indicates both the backend write and the
	// filesystem fallback write failed.
	ErrFallbackFailed = errors.New("backend and fallback write both failed")
)
