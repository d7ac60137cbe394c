package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docwiki-cli/internal/adapters/driven/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch wiki pages for human edits",
	Long: `Watches a wiki directory and records edits to generated pages as
human versions, which shields them from automatic regeneration while
the edit is recent. Without an argument, the local store's wiki
directory is watched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if docStore == nil {
		return errors.New("document store not configured")
	}

	dir := wikiDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory to watch; pass one or use the local backend")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for edits (Ctrl-C to stop)...\n", dir)

	err := watcher.NewWatcher(docStore, dir).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
