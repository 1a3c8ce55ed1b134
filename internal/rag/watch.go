package rag

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/DreamCats/docrag/internal/config"
	"github.com/DreamCats/docrag/internal/embedding"
)

// WatchOptions controls a watch run
type WatchOptions struct {
	Debounce time.Duration
	Progress bool
	// OnIndexed is called after each triggered index run, mainly so the
	// CLI can print a summary line
	OnIndexed func(*IndexResult, error)
}

// WatchPath watches a directory and re-indexes changed files into the
// collection. Events are debounced so a burst of saves triggers one run.
// Returns when ctx is cancelled.
func WatchPath(ctx context.Context, cfg *config.Config, embedder *embedding.Service, collection, root string, opts WatchOptions) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target must be a directory: %s", root)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	resetTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(opts.Debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				// new subdirectories need their own watch
				if event.Op&fsnotify.Create != 0 && !strings.HasPrefix(filepath.Base(event.Name), ".") {
					_ = addWatchDirs(watcher, event.Name)
				}
				continue
			}
			if !IsSupported(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			resetTimer()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			LogWarn("watch error", map[string]interface{}{"err": err.Error()})

		case <-timerC:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for path := range pending {
				if _, err := os.Stat(path); err == nil {
					paths = append(paths, path)
				}
			}
			pending = make(map[string]struct{})
			if len(paths) == 0 {
				continue
			}

			reporter := NewIndexProgress(opts.Progress, "indexing")
			result, err := IndexPaths(ctx, cfg, embedder, collection, paths, reporter)
			if opts.OnIndexed != nil {
				opts.OnIndexed(result, err)
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			LogWarn("watch add failed", map[string]interface{}{"path": path, "err": err.Error()})
		}
		return nil
	})
}
