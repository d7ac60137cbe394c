// Package cli implements the docwiki command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/repohistory/git"
	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/repohistory/github"
	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/storage/api"
	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/storage/local"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docwiki-cli/internal/core/services"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired during startup. Tests install fakes before Execute;
// initServices leaves an existing store untouched.
var (
	cfg             file.Config
	docStore        driven.DocumentStore
	documentService driving.DocumentService

	// wikiDir is the directory the local backend writes pages to,
	// watched by the watch command.
	wikiDir string
)

var (
	verboseFlag   bool
	configDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "docwiki",
	Short: "Generate and maintain wiki documentation for repositories",
	Long: `docwiki generates wiki documentation for repositories and keeps it
consistent over time: human edits are preserved, stale pages are
regenerated, and orphaned pages are cleaned up.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initServices(configDirFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Configuration directory (default ~/.docwiki)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices loads configuration and wires the document store and
// services behind the commands.
func initServices(configDir string) error {
	if docStore != nil {
		return nil
	}

	loaded, err := file.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg = loaded

	switch cfg.StoreBackend {
	case "", "local":
		store, err := local.NewStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("opening local store: %w", err)
		}
		docStore = store
		wikiDir = store.WikiDir()
	case "api":
		if cfg.APIURL == "" {
			return fmt.Errorf("store_backend is %q but api_url is not configured", cfg.StoreBackend)
		}
		docStore = api.NewDocumentStore(cfg.APIURL, cfg.APIToken)
	default:
		return fmt.Errorf("unknown store_backend %q (expected local or api)", cfg.StoreBackend)
	}

	documentService = services.NewDocumentService(docStore)
	return nil
}

// newRepoHistory builds the history reader for repoURL: a local clone
// when repo_dir is configured, the GitHub API otherwise.
func newRepoHistory(ctx context.Context, repoURL string) (driven.RepoHistory, error) {
	if cfg.RepoDir != "" {
		return git.NewHistory(cfg.RepoDir), nil
	}
	return github.NewHistory(ctx, repoURL, cfg.GitHubToken)
}

// thresholds builds the regeneration thresholds from configuration,
// falling back to defaults for unset values.
func thresholds() services.Thresholds {
	return services.Thresholds{
		HumanRecencyDays: cfg.HumanRecencyDays,
		AIStaleDays:      cfg.AIStaleDays,
		CommitThreshold:  cfg.CommitThreshold,
	}
}
