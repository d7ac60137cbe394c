package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/writer"
	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docwiki-cli/internal/core/services"
)

var generateCmd = &cobra.Command{
	Use:   "generate [plan-file]",
	Short: "Generate wiki pages for a repository",
	Long: `Runs one generation pass from a TOML plan file. Each planned page is
regenerated or skipped based on who last touched it and how far the
repository has moved since; pages no longer in the plan are cleaned up.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

// generateRepo overrides the plan file's repository URL.
var generateRepo string

func init() {
	generateCmd.Flags().StringVar(&generateRepo, "repo", "", "Repository URL (overrides the plan file)")
	rootCmd.AddCommand(generateCmd)
}

// planFile is the TOML document describing one generation run.
type planFile struct {
	RepoURL    string     `toml:"repo_url"`
	RepoName   string     `toml:"repo_name"`
	Collection string     `toml:"collection"`
	Pages      []planPage `toml:"pages"`
}

// planPage is one page entry in a plan file.
type planPage struct {
	Title      string   `toml:"title"`
	DocType    string   `toml:"doc_type"`
	Path       string   `toml:"path"`
	Collection string   `toml:"collection"`
	Keywords   []string `toml:"keywords"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if docStore == nil {
		return errors.New("document store not configured")
	}

	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}
	if generateRepo != "" {
		plan.RepoURL = generateRepo
	}
	if plan.RepoURL == "" {
		return errors.New("plan file names no repository; set repo_url or pass --repo")
	}

	ctx := context.Background()

	history, err := newRepoHistory(ctx, plan.RepoURL)
	if err != nil {
		return fmt.Errorf("setting up repository history: %w", err)
	}

	pageWriter := writer.NewCommandWriter(cfg.WriterCommand, cfg.WriterArgs...)
	monitor := services.NewChangeMonitor(history)
	engine := services.NewPriorityEngine(docStore, monitor, thresholds())
	reconciler := services.NewReconciler(docStore, cfg.HumanRecencyDays)
	orchestrator := services.NewGenerationOrchestrator(
		docStore, history, pageWriter, engine, reconciler, cfg.FallbackDir)

	cmd.Printf("Generating %d pages for %s...\n", len(plan.Pages), plan.RepoURL)

	report, err := orchestrator.Run(ctx, plan.RepoURL, plan.toPagePlans())
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

// loadPlan reads and validates a plan file.
func loadPlan(path string) (*planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	var plan planFile
	if err := toml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan file %s: %w", path, err)
	}
	if len(plan.Pages) == 0 {
		return nil, fmt.Errorf("plan file %s contains no pages", path)
	}
	return &plan, nil
}

// toPagePlans expands the plan file into per-page plans, filling
// repository-level defaults into each page.
func (p *planFile) toPagePlans() []domain.PagePlan {
	repoName := p.RepoName
	if repoName == "" {
		repoName = domain.RepoNameFromURL(p.RepoURL)
	}

	plans := make([]domain.PagePlan, 0, len(p.Pages))
	for _, page := range p.Pages {
		collection := page.Collection
		if collection == "" {
			collection = p.Collection
		}
		plans = append(plans, domain.PagePlan{
			RepoURL:    p.RepoURL,
			RepoName:   repoName,
			Path:       page.Path,
			Title:      page.Title,
			DocType:    page.DocType,
			Collection: collection,
			Keywords:   page.Keywords,
		})
	}
	return plans
}

// printReport renders a run report for the terminal.
func printReport(cmd *cobra.Command, report *driving.RunReport) {
	cmd.Printf("\nRun %s (head %s)\n\n", report.RunID, report.HeadSHA)

	if len(report.Generated) > 0 {
		cmd.Printf("Generated (%d):\n", len(report.Generated))
		for _, page := range report.Generated {
			cmd.Printf("  %s  %s\n", page.ID, page.Title)
		}
		cmd.Println()
	}

	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped (%d):\n", len(report.Skipped))
		for _, page := range report.Skipped {
			cmd.Printf("  %s  %s: %s\n", page.ID, page.Title, page.Reason)
		}
		cmd.Println()
	}

	if len(report.Failed) > 0 {
		cmd.Printf("Failed (%d):\n", len(report.Failed))
		for _, page := range report.Failed {
			cmd.Printf("  %s  %s: %s\n", page.ID, page.Title, page.Reason)
		}
		cmd.Println()
	}

	cleanup := report.Cleanup
	cmd.Printf("Cleanup: %d deleted, %d preserved (human-edited), %d preserved (failed)\n",
		cleanup.Deleted, cleanup.PreservedHuman, cleanup.PreservedFailed)
	for _, msg := range cleanup.Errors {
		cmd.Printf("  cleanup error: %s\n", msg)
	}
}
