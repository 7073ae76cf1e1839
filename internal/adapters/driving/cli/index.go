package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/deepscout-cli/internal/adapters/driven/fetch/local"
	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
	"github.com/custodia-labs/deepscout-cli/internal/logger"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index [paths or urls...]",
	Short: "Add documents to the knowledge index",
	Long: `Segments, embeds and stores documents in the local knowledge index.

Arguments may be URLs (fetched and cleaned), text files, or directories
(indexed recursively, text and markdown files only).

With --watch, keeps running after the initial pass and re-indexes files
as they change on disk.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "re-index files when they change")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	docs, err := collectDocuments(cmd.Context(), args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.New("no indexable documents found")
	}

	report, err := researchService.IndexDocuments(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}
	cmd.Printf("Indexed %d document(s), %d chunk(s)\n", report.DocumentsProcessed, report.ChunksIndexed)

	if !indexWatch {
		return nil
	}
	return watchPaths(cmd, args)
}

// collectDocuments resolves each argument to zero or more documents.
// URLs are fetched, files are read, directories are walked recursively.
func collectDocuments(ctx context.Context, args []string) ([]domain.Document, error) {
	var docs []domain.Document
	for _, arg := range args {
		if isURL(arg) {
			if contentFetcher == nil {
				return nil, errors.New("content fetcher not configured")
			}
			doc, err := contentFetcher.Fetch(ctx, arg)
			if err != nil {
				return nil, fmt.Errorf("fetching %s: %w", arg, err)
			}
			docs = append(docs, *doc)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if info.IsDir() {
			dirDocs, err := collectDir(arg)
			if err != nil {
				return nil, err
			}
			docs = append(docs, dirDocs...)
			continue
		}
		doc, err := local.Load(arg)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func collectDir(dir string) ([]domain.Document, error) {
	var docs []domain.Document
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !local.Indexable(path) {
			return nil
		}
		doc, err := local.Load(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return docs, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// watchPaths blocks re-indexing changed files until the context is
// cancelled. URLs in args are ignored; only local paths are watched.
func watchPaths(cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, arg := range args {
		if isURL(arg) {
			continue
		}
		if err := watcher.Add(arg); err != nil {
			return fmt.Errorf("watching %s: %w", arg, err)
		}
		watched++
	}
	if watched == 0 {
		return errors.New("--watch requires at least one local path")
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	return watchLoop(cmd.Context(), watcher)
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !local.Indexable(event.Name) {
				continue
			}
			reindexFile(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

func reindexFile(ctx context.Context, path string) {
	doc, err := local.Load(path)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return
	}
	report, err := researchService.IndexDocuments(ctx, []domain.Document{doc})
	if err != nil {
		logger.Error("re-indexing %s: %v", path, err)
		return
	}
	logger.Info("re-indexed %s (%d chunks)", path, report.ChunksIndexed)
}
