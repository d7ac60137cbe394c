package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docwiki-cli/internal/core/services"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove orphaned documents for a repository",
	Long: `Deletes stored documents for a repository that are not on the keep
list, preserving recently human-edited pages. Without --keep, every
document not protected by a human edit is treated as orphaned.`,
	RunE: runCleanup,
}

// Flags for the cleanup command.
var (
	cleanupRepo string
	cleanupKeep []string
)

func init() {
	cleanupCmd.Flags().StringVar(&cleanupRepo, "repo", "", "Repository URL to clean up (required)")
	cleanupCmd.Flags().StringSliceVar(&cleanupKeep, "keep", nil, "Document IDs to keep")
	_ = cleanupCmd.MarkFlagRequired("repo")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	if docStore == nil {
		return errors.New("document store not configured")
	}

	ctx := context.Background()
	reconciler := services.NewReconciler(docStore, cfg.HumanRecencyDays)

	snap := reconciler.Snapshot(ctx, cleanupRepo)
	if snap.Count() == 0 {
		cmd.Printf("No documents found for %s, nothing to clean up.\n", cleanupRepo)
		return nil
	}

	keep := make(map[string]bool, len(cleanupKeep))
	for _, id := range cleanupKeep {
		keep[id] = true
	}

	result := reconciler.Reconcile(ctx, snap, keep, nil)

	cmd.Printf("Cleanup for %s: %d deleted, %d preserved (human-edited)\n",
		cleanupRepo, result.Deleted, result.PreservedHuman)
	for _, msg := range result.Errors {
		cmd.Printf("  error: %s\n", msg)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("cleanup completed with %d errors", len(result.Errors))
	}
	return nil
}
