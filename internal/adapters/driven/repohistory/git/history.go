// Package git implements repository history against a local clone by
// shelling out to the git CLI.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
)

// Ensure History implements the interface.
var _ driven.RepoHistory = (*History)(nil)

// History reads commit history from a local working copy.
type History struct {
	repoDir string
}

// NewHistory creates a history reader for the clone at repoDir.
func NewHistory(repoDir string) *History {
	return &History{repoDir: repoDir}
}

// Head returns the current HEAD commit SHA.
func (h *History) Head(ctx context.Context) (string, error) {
	out, err := h.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CommitsSince counts commits between sha and HEAD. A SHA that is not
// present in the clone reports domain.ErrUnknownCommit; the count is
// never guessed.
func (h *History) CommitsSince(ctx context.Context, sha string) (int, error) {
	if sha == "" {
		return 0, fmt.Errorf("%w: empty commit SHA", domain.ErrUnknownCommit)
	}

	if _, err := h.git(ctx, "cat-file", "-e", sha+"^{commit}"); err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownCommit, sha)
	}

	out, err := h.git(ctx, "rev-list", "--count", sha+"..HEAD")
	if err != nil {
		return 0, fmt.Errorf("counting commits since %s: %w", sha, err)
	}

	count, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parsing commit count %q: %w", out, err)
	}
	return count, nil
}

// git runs one git subcommand in the repository directory.
func (h *History) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", h.repoDir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}
