package driven

import "context"

// RepoHistory resolves commits against the source repository. Backed
// either by a local clone (git CLI) or by the GitHub API.
type RepoHistory interface {
	// Head returns the repository's current commit SHA.
	Head(ctx context.Context) (string, error)

	// CommitsSince counts commits between sha (exclusive) and the
	// current head. When sha cannot be resolved in the current history
	// (rebase, force-push) it returns domain.ErrUnknownCommit; "cannot
	// determine" is distinct from zero and must never be coerced to it.
	CommitsSince(ctx context.Context, sha string) (int, error)
}
