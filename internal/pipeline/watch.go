package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/backmassage/exrlayers/internal/config"
	"github.com/backmassage/exrlayers/internal/pattern"
	"github.com/backmassage/exrlayers/internal/probe"
)

// watchDebounce collapses the burst of events a single save produces.
const watchDebounce = 150 * time.Millisecond

// Watch re-inspects files under cfg.InputPath whenever they are written or
// created, until ctx is cancelled. Each change produces a complete new report.
// For a single-file input the parent directory is watched so that editors
// which replace the file on save are still seen.
func Watch(ctx context.Context, cfg *config.Config, log Logger, w io.Writer) error {
	return watch(ctx, cfg, log, w, nil)
}

// watch is Watch with a hook called once the watcher is armed.
func watch(ctx context.Context, cfg *config.Config, log Logger, w io.Writer, ready func()) error {
	table, err := pattern.Resolve(cfg.Patterns)
	if err != nil {
		return err
	}
	match, err := newMatcher(cfg.Match)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	fi, err := os.Stat(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	var target string
	if fi.IsDir() {
		if err := addTree(watcher, cfg.InputPath); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
	} else {
		target = filepath.Clean(cfg.InputPath)
		if err := watcher.Add(filepath.Dir(target)); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
	}

	log.Info("Watching %s for changes (Ctrl-C to stop)", cfg.InputPath)
	if ready != nil {
		ready()
	}

	var (
		pending = make(map[string]bool)
		fire    <-chan time.Time
		stats   RunStats
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if target == "" && ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(path); err == nil && fi.IsDir() {
					if err := addTree(watcher, path); err != nil {
						log.Warn("Cannot watch %s: %v", path, err)
					}
					continue
				}
			}
			if target != "" && path != target {
				continue
			}
			if target == "" && (!probe.Supported(path) || !match(path)) {
				continue
			}
			pending[path] = true
			fire = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watch error: %v", err)

		case <-fire:
			fire = nil
			paths := slices.Sorted(maps.Keys(pending))
			clear(pending)
			for _, p := range paths {
				log.Info("Changed: %s", p)
				stats.Total++
				stats.Current = stats.Total
				processFile(cfg, log, w, table, p, &stats)
			}
		}
	}
}

// addTree adds root and every non-hidden directory below it to the watcher.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
