package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// DefaultCommitThreshold is the commit count at which drift counts as
// significant.
const DefaultCommitThreshold = 5

// ChangeMonitor classifies repository drift between the commit recorded
// in a document's latest version and the repository's current head.
type ChangeMonitor struct {
	history driven.RepoHistory
}

// NewChangeMonitor creates a change monitor over a repo history source.
func NewChangeMonitor(history driven.RepoHistory) *ChangeMonitor {
	return &ChangeMonitor{history: history}
}

// Classify compares lastSHA against currentSHA and grades the drift.
//
// An empty or unrecorded lastSHA yields ChangeUnknown: drift cannot be
// assessed. An unresolvable lastSHA (rewritten history) yields
// ChangeSignificant with CommitsResolved false — failing toward
// freshness, never silently treating unresolvable history as "no
// change".
func (m *ChangeMonitor) Classify(ctx context.Context, lastSHA, currentSHA string, threshold int) domain.RepoChangeStatus {
	if threshold <= 0 {
		threshold = DefaultCommitThreshold
	}

	if lastSHA == "" || lastSHA == "unknown" {
		return domain.RepoChangeStatus{
			Class:  domain.ChangeUnknown,
			Reason: "no commit recorded for previous version",
		}
	}

	if lastSHA == currentSHA {
		return domain.RepoChangeStatus{
			Class:           domain.ChangeUnchanged,
			CommitsResolved: true,
			Reason:          fmt.Sprintf("repository unchanged (still at %s)", shortSHA(currentSHA)),
		}
	}

	count, err := m.history.CommitsSince(ctx, lastSHA)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCommit) {
			logger.Warn("cannot compare to commit %s, assuming significant changes", shortSHA(lastSHA))
			return domain.RepoChangeStatus{
				Class:  domain.ChangeSignificant,
				Reason: fmt.Sprintf("repository history changed, cannot compare %s to %s", shortSHA(lastSHA), shortSHA(currentSHA)),
			}
		}
		logger.Warn("commit count failed: %v", err)
		return domain.RepoChangeStatus{
			Class:  domain.ChangeSignificant,
			Reason: fmt.Sprintf("could not determine changes since %s: %v", shortSHA(lastSHA), err),
		}
	}

	if count >= threshold {
		return domain.RepoChangeStatus{
			Class:           domain.ChangeSignificant,
			Commits:         count,
			CommitsResolved: true,
			Reason:          fmt.Sprintf("repository has significant changes: %d commits since %s", count, shortSHA(lastSHA)),
		}
	}
	return domain.RepoChangeStatus{
		Class:           domain.ChangeMinor,
		Commits:         count,
		CommitsResolved: true,
		Reason:          fmt.Sprintf("repository changes are minor: %d commits since %s (threshold %d)", count, shortSHA(lastSHA), threshold),
	}
}

// shortSHA abbreviates a commit SHA for log and reason strings.
func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
