// Package watcher observes a wiki directory for human edits to
// generated pages and records them as human versions in the document
// store. A human version shields the page from automatic regeneration
// while the edit is recent.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docwiki-cli/internal/core/domain"
	"github.com/custodia-labs/docwiki-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docwiki-cli/internal/logger"
)

// Watcher records human edits observed on disk.
type Watcher struct {
	store driven.DocumentStore
	dir   string
}

// NewWatcher creates a watcher over dir, recording edits into store.
func NewWatcher(store driven.DocumentStore, dir string) *Watcher {
	return &Watcher{store: store, dir: dir}
}

// Run watches the directory tree until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addRecursive(fw, w.dir); err != nil {
		return err
	}

	logger.Info("watching %s for edits", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fw, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handleEvent processes one filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, fw *fsnotify.Watcher, event fsnotify.Event) {
	// New subdirectories need their own watch.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.Add(event.Name); err != nil {
				logger.Warn("watching new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(event.Name, ".md") {
		return
	}

	w.recordEdit(ctx, event.Name)
}

// recordEdit reads the edited page and records a human version, unless
// the content matches what the store already holds. The match check
// breaks the feedback loop between our own writes and the watch.
func (w *Watcher) recordEdit(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading edited page %s: %v", path, err)
		return
	}
	content := string(data)

	meta, _, ok := domain.DecodeMetadata(content)
	if !ok || meta.ID == "" {
		logger.Debug("edited page %s carries no identity, skipping", path)
		return
	}

	record, exists := w.store.Get(ctx, meta.ID)
	if exists && record.Content == content {
		// Our own write echoing back through the filesystem.
		return
	}

	title := strings.TrimSuffix(filepath.Base(path), ".md")
	if exists {
		title = record.Title
	}

	req := &domain.WriteRequest{
		RepoURL:    meta.RepoURL,
		RepoName:   meta.RepoName,
		Title:      title,
		DocType:    meta.DocType,
		Collection: meta.Collection,
		Content:    content,
		AuthorType: domain.AuthorHuman,
		AuthorMetadata: map[string]string{
			"edited_file": path,
		},
	}
	if exists {
		req.Path = record.Path
	}

	if _, err := w.store.CreateOrUpdate(ctx, req, ""); err != nil {
		logger.Warn("recording human edit of %s: %v", meta.ID, err)
		return
	}
	logger.Info("recorded human edit of %s (%s)", meta.ID, path)
}

// addRecursive registers dir and all its subdirectories with fw.
func addRecursive(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}
