package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// Thresholds are the tunable constants of the priority engine.
type Thresholds struct {
	// HumanRecencyDays is the window within which a human edit is
	// always preserved.
	HumanRecencyDays int

	// AIStaleDays is the age at which an AI version is regenerated
	// regardless of repository drift.
	AIStaleDays int

	// CommitThreshold is the commit count at which drift counts as
	// significant.
	CommitThreshold int
}

// DefaultThresholds returns the standard policy constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HumanRecencyDays: 7,
		AIStaleDays:      30,
		CommitThreshold:  DefaultCommitThreshold,
	}
}

// PriorityEngine decides, per document, whether regeneration is
// warranted given authorship, age, and repository drift. Human edits
// are preserved aggressively; unverifiable state fails toward
// freshness.
type PriorityEngine struct {
	store      driven.DocumentStore
	monitor    *ChangeMonitor
	thresholds Thresholds

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// NewPriorityEngine creates a priority engine over a document store and
// change monitor.
func NewPriorityEngine(store driven.DocumentStore, monitor *ChangeMonitor, t Thresholds) *PriorityEngine {
	if t.HumanRecencyDays <= 0 {
		t.HumanRecencyDays = DefaultThresholds().HumanRecencyDays
	}
	if t.AIStaleDays <= 0 {
		t.AIStaleDays = DefaultThresholds().AIStaleDays
	}
	if t.CommitThreshold <= 0 {
		t.CommitThreshold = DefaultThresholds().CommitThreshold
	}
	return &PriorityEngine{
		store:      store,
		monitor:    monitor,
		thresholds: t,
		Now:        time.Now,
	}
}

// ShouldRegenerate evaluates the decision table for one document
// against the repository's current head commit. Every decision carries
// a human-readable reason.
func (e *PriorityEngine) ShouldRegenerate(ctx context.Context, docID, currentSHA string) domain.Decision {
	logger.Debug("priority check for %s at commit %s", docID, shortSHA(currentSHA))

	rec, ok := e.store.Get(ctx, docID)
	if !ok || rec == nil {
		return domain.Decision{Regenerate: true, Reason: "no existing document found"}
	}

	versions := e.store.GetVersions(ctx, docID)
	if len(versions) == 0 {
		return domain.Decision{Regenerate: true, Reason: "document exists but has no version history"}
	}

	latest := versions[0]

	created, err := time.Parse(time.RFC3339, latest.CreatedAt)
	if err != nil {
		// Fail open toward freshness: an unparseable age is never
		// treated as "still fresh".
		return domain.Decision{
			Regenerate: true,
			Reason:     fmt.Sprintf("cannot parse version timestamp %q, regenerating to be safe", latest.CreatedAt),
		}
	}
	ageDays := int(e.Now().Sub(created).Hours() / 24)

	status := e.monitor.Classify(ctx, latest.CommitSHA(), currentSHA, e.thresholds.CommitThreshold)
	logger.Debug("document %s: author=%s age=%dd drift=%s", docID, latest.AuthorType, ageDays, status.Class)

	if latest.AuthorType == domain.AuthorHuman {
		return e.evaluateHuman(ageDays, status)
	}
	return e.evaluateAI(ageDays, status)
}

// evaluateHuman applies the human-authored rows of the decision table.
func (e *PriorityEngine) evaluateHuman(ageDays int, status domain.RepoChangeStatus) domain.Decision {
	if ageDays < e.thresholds.HumanRecencyDays {
		return domain.Decision{
			Regenerate: false,
			Reason:     fmt.Sprintf("recent human edit (%d days old), preserving their work", ageDays),
		}
	}

	switch status.Class {
	case domain.ChangeUnchanged:
		return domain.Decision{
			Regenerate: false,
			Reason:     fmt.Sprintf("human edit is %d days old but repository unchanged, no need to regenerate", ageDays),
		}
	case domain.ChangeUnknown:
		return domain.Decision{
			Regenerate: true,
			Reason:     fmt.Sprintf("human edit is %d days old and repository drift cannot be verified (commit SHA unknown), regenerating with note for human review", ageDays),
		}
	case domain.ChangeMinor:
		return domain.Decision{
			Regenerate: false,
			Reason:     fmt.Sprintf("human edit is %d days old but repository changes are minor, preserving human version", ageDays),
		}
	default:
		return domain.Decision{
			Regenerate: true,
			Reason:     fmt.Sprintf("human edit is %d days old and repository has significant changes, regenerating with note for human review", ageDays),
		}
	}
}

// evaluateAI applies the AI-authored rows of the decision table.
func (e *PriorityEngine) evaluateAI(ageDays int, status domain.RepoChangeStatus) domain.Decision {
	if ageDays >= e.thresholds.AIStaleDays {
		return domain.Decision{
			Regenerate: true,
			Reason:     fmt.Sprintf("AI documentation is stale (%d days old), regenerating", ageDays),
		}
	}
	if !status.Changed() {
		return domain.Decision{
			Regenerate: false,
			Reason:     fmt.Sprintf("AI documentation is fresh (%d days old) and repository unchanged", ageDays),
		}
	}
	return domain.Decision{
		Regenerate: true,
		Reason:     fmt.Sprintf("repository changed since last AI generation (%d days ago), updating documentation", ageDays),
	}
}
