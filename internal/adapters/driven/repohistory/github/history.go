// Package github implements repository history via the GitHub API, for
// runs that do not have a local clone available.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
)

// Ensure History implements the interface.
var _ driven.RepoHistory = (*History)(nil)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// defaultBranch is consulted when the repository metadata does not name
// one.
const defaultBranch = "main"

// History reads commit history for one repository via the GitHub API.
type History struct {
	client      *gh.Client
	rateLimiter *RateLimiter
	owner       string
	repo        string
	branch      string
}

// NewHistory creates a history reader for the repository at repoURL.
// token, when non-empty, authenticates requests and raises the rate
// limit.
func NewHistory(ctx context.Context, repoURL, token string) (*History, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}

	return &History{
		client:      gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(),
		owner:       owner,
		repo:        repo,
	}, nil
}

// Head returns the tip commit SHA of the repository's default branch.
func (h *History) Head(ctx context.Context) (string, error) {
	branch, err := h.resolveBranch(ctx)
	if err != nil {
		return "", err
	}

	if err := h.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	sha, resp, err := h.client.Repositories.GetCommitSHA1(ctx, h.owner, h.repo, branch, "")
	h.updateRateLimit(resp)
	if err != nil {
		return "", fmt.Errorf("resolving head of %s/%s: %w", h.owner, h.repo, err)
	}
	return sha, nil
}

// CommitsSince counts commits between sha and the branch head. A SHA
// GitHub no longer knows (rewritten or garbage-collected history)
// reports domain.ErrUnknownCommit; the count is never guessed.
func (h *History) CommitsSince(ctx context.Context, sha string) (int, error) {
	if sha == "" {
		return 0, fmt.Errorf("%w: empty commit SHA", domain.ErrUnknownCommit)
	}

	branch, err := h.resolveBranch(ctx)
	if err != nil {
		return 0, err
	}

	if err := h.rateLimiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	cmp, resp, err := h.client.Repositories.CompareCommits(ctx, h.owner, h.repo, sha, branch, nil)
	h.updateRateLimit(resp)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response.StatusCode == http.StatusNotFound {
			return 0, fmt.Errorf("%w: %s", domain.ErrUnknownCommit, sha)
		}
		return 0, fmt.Errorf("comparing %s..%s: %w", sha, branch, err)
	}
	return cmp.GetTotalCommits(), nil
}

// resolveBranch fetches and caches the repository's default branch.
func (h *History) resolveBranch(ctx context.Context) (string, error) {
	if h.branch != "" {
		return h.branch, nil
	}

	if err := h.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	repository, resp, err := h.client.Repositories.Get(ctx, h.owner, h.repo)
	h.updateRateLimit(resp)
	if err != nil {
		return "", fmt.Errorf("fetching repository %s/%s: %w", h.owner, h.repo, err)
	}

	h.branch = repository.GetDefaultBranch()
	if h.branch == "" {
		h.branch = defaultBranch
	}
	return h.branch, nil
}

// updateRateLimit feeds response headers to the rate limiter.
func (h *History) updateRateLimit(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	h.rateLimiter.UpdateFromResponse(resp.Response)
}

// ParseRepoURL extracts owner and repository name from a GitHub URL
// such as https://github.com/owner/repo or git@github.com:owner/repo.git.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(repoURL, ".git")
	trimmed = strings.TrimSuffix(trimmed, "/")

	var path string
	switch {
	case strings.Contains(trimmed, "github.com/"):
		path = trimmed[strings.Index(trimmed, "github.com/")+len("github.com/"):]
	case strings.Contains(trimmed, "github.com:"):
		path = trimmed[strings.Index(trimmed, "github.com:")+len("github.com:"):]
	default:
		return "", "", fmt.Errorf("%w: not a GitHub repository URL: %s", domain.ErrInvalidInput, repoURL)
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: cannot extract owner/repo from %s", domain.ErrInvalidInput, repoURL)
	}
	return parts[0], parts[1], nil
}
