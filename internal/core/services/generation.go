package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// Ensure GenerationOrchestrator implements the interface.
var _ driving.GenerationService = (*GenerationOrchestrator)(nil)

// generatorName tags versions written by this tool.
const generatorName = "docwiki"

// metadataVersion is the metadata block schema version.
const metadataVersion = "1.0"

// GenerationOrchestrator runs one regeneration pass for a repository:
// snapshot, per-page priority decisions, writing through the external
// writer agent, persistence, and orphan reconciliation. It is designed
// for single-flow execution: one repository, one sequential run.
type GenerationOrchestrator struct {
	store       driven.DocumentStore
	history     driven.RepoHistory
	writer      driven.PageWriter
	engine      *PriorityEngine
	reconciler  *Reconciler
	fallbackDir string
}

// NewGenerationOrchestrator wires a generation run from its parts.
// fallbackDir, when non-empty, is where content lands if the store
// becomes unreachable mid-run.
func NewGenerationOrchestrator(
	store driven.DocumentStore,
	history driven.RepoHistory,
	writer driven.PageWriter,
	engine *PriorityEngine,
	reconciler *Reconciler,
	fallbackDir string,
) *GenerationOrchestrator {
	return &GenerationOrchestrator{
		store:       store,
		history:     history,
		writer:      writer,
		engine:      engine,
		reconciler:  reconciler,
		fallbackDir: fallbackDir,
	}
}

// Run processes the planned pages for repoURL end to end and reports
// every outcome. Per-page failures never abort the run; they are
// recorded and shield the affected documents from cleanup.
func (o *GenerationOrchestrator) Run(ctx context.Context, repoURL string, plans []domain.PagePlan) (*driving.RunReport, error) {
	if repoURL == "" {
		return nil, fmt.Errorf("%w: repository URL is required", domain.ErrInvalidInput)
	}

	report := &driving.RunReport{
		RunID:   uuid.NewString(),
		RepoURL: repoURL,
	}

	head, err := o.history.Head(ctx)
	if err != nil {
		// A run can still proceed without a resolvable head; the
		// written versions record "unknown" and a later run will fail
		// toward freshness when it cannot verify drift.
		logger.Warn("cannot resolve repository head: %v", err)
		head = "unknown"
	}
	report.HeadSHA = head

	logger.Section("generation run " + report.RunID)
	logger.Info("repo=%s head=%s pages=%d", repoURL, shortSHA(head), len(plans))

	snap := o.reconciler.Snapshot(ctx, repoURL)

	generated := make(map[string]bool)
	failed := make(map[string]bool)

	for _, plan := range plans {
		// Every page is written under the run's repository, whatever
		// the plan entry claims. A divergent entry would otherwise land
		// under a repository this run's reconcile pass never protects.
		if plan.RepoURL != repoURL {
			plan.RepoURL = repoURL
			plan.RepoName = domain.RepoNameFromURL(repoURL)
		}
		outcome := o.processPage(ctx, plan, report.RunID, head)
		switch {
		case outcome.failed:
			failed[outcome.id] = true
			report.Failed = append(report.Failed, driving.PageOutcome{ID: outcome.id, Title: plan.Title, Reason: outcome.reason})
		case outcome.skipped:
			// A skipped page is still part of the plan; it must shield
			// its document from the cleanup pass like a generated one.
			generated[outcome.id] = true
			report.Skipped = append(report.Skipped, driving.PageOutcome{ID: outcome.id, Title: plan.Title, Reason: outcome.reason})
		default:
			generated[outcome.id] = true
			report.Generated = append(report.Generated, driving.PageOutcome{ID: outcome.id, Title: plan.Title, Reason: outcome.reason})
		}
	}

	report.Cleanup = o.reconciler.Reconcile(ctx, snap, generated, failed)
	return report, nil
}

// pageOutcome is the internal result of processing one planned page.
type pageOutcome struct {
	id      string
	skipped bool
	failed  bool
	reason  string
}

// processPage runs the decision, writing, and persistence steps for one
// planned page.
func (o *GenerationOrchestrator) processPage(ctx context.Context, plan domain.PagePlan, runID, head string) pageOutcome {
	id := domain.ComputeDocumentID(plan.RepoURL, plan.Path, plan.Title, plan.DocType)

	decision := o.engine.ShouldRegenerate(ctx, id, head)
	logger.Debug("page %q (%s): regenerate=%t: %s", plan.Title, id, decision.Regenerate, decision.Reason)
	if !decision.Regenerate {
		return pageOutcome{id: id, skipped: true, reason: decision.Reason}
	}

	body, err := o.writer.WritePage(ctx, plan)
	if err != nil {
		return pageOutcome{id: id, failed: true, reason: fmt.Sprintf("writer failed: %v", err)}
	}

	meta := domain.Metadata{
		ID:          id,
		RepoURL:     plan.RepoURL,
		RepoName:    plan.RepoName,
		DocType:     plan.DocType,
		Collection:  plan.Collection,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Generator:   generatorName,
		Version:     metadataVersion,
		Author: map[string]string{
			domain.MetadataKeyCommitSHA: head,
		},
	}

	req := &domain.WriteRequest{
		RepoURL:    plan.RepoURL,
		RepoName:   plan.RepoName,
		Path:       plan.Path,
		Title:      plan.Title,
		DocType:    plan.DocType,
		Collection: plan.Collection,
		Content:    meta.AppendTo(body),
		Keywords:   plan.Keywords,
		AuthorType: domain.AuthorAI,
		AuthorMetadata: map[string]string{
			domain.MetadataKeyCommitSHA: head,
			"run_id":                    runID,
			"generator":                 generatorName,
		},
	}

	result, err := o.store.CreateOrUpdate(ctx, req, o.fallbackPath(plan))
	if err != nil {
		return pageOutcome{id: id, failed: true, reason: fmt.Sprintf("store write failed: %v", err)}
	}
	if result.Status == domain.StatusFallback {
		logger.Warn("page %q written via fallback to %s", plan.Title, result.File)
	}
	return pageOutcome{id: id, reason: result.Status}
}

// fallbackPath derives the degraded-write location for a plan, or ""
// when no fallback directory is configured.
func (o *GenerationOrchestrator) fallbackPath(plan domain.PagePlan) string {
	if o.fallbackDir == "" {
		return ""
	}
	name := plan.Title
	if name == "" {
		name = plan.DocType
	}
	return filepath.Join(o.fallbackDir, plan.RepoName, name+".md")
}
