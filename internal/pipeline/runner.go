package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/backmassage/exrlayers/internal/config"
	"github.com/backmassage/exrlayers/internal/pattern"
)

// Logger is the logging interface the pipeline needs. *logging.Logger
// satisfies it; tests use a recording fake.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Run is the top-level batch entry point. It resolves the pattern table,
// discovers files, inspects each one sequentially writing its report to w,
// and returns aggregate stats. The returned error is set only when the run
// could not start; per-file failures are counted in RunStats.Failed.
func Run(ctx context.Context, cfg *config.Config, log Logger, w io.Writer) (RunStats, error) {
	var stats RunStats

	table, err := pattern.Resolve(cfg.Patterns)
	if err != nil {
		return stats, err
	}
	match, err := newMatcher(cfg.Match)
	if err != nil {
		return stats, err
	}
	found, err := Discover(cfg.InputPath)
	if err != nil {
		return stats, fmt.Errorf("file discovery: %w", err)
	}
	files := slices.DeleteFunc(found, func(p string) bool { return !match(p) })
	if skipped := len(found) - len(files); skipped > 0 {
		log.Debug("Skipped %d file(s) not matching %q", skipped, cfg.Match)
	}

	stats.Total = len(files)
	log.Info("Found %d file(s), pattern table: %s (%d patterns)", stats.Total, cfg.Patterns, len(table))

	for i, path := range files {
		stats.Current = i + 1
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		processFile(cfg, log, w, table, path, &stats)
	}

	logSummary(log, &stats)
	return stats, nil
}

// processFile inspects one file and renders its report.
func processFile(cfg *config.Config, log Logger, w io.Writer, table pattern.Table, path string, stats *RunStats) {
	log.Debug("[%d/%d] %s", stats.Current, stats.Total, filepath.Base(path))

	r, err := inspect(path, table, cfg)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return
	}
	if err := Render(w, cfg, r); err != nil {
		log.Error("Cannot write report for %s: %v", path, err)
		stats.Failed++
		return
	}
	stats.Inspected++
	stats.Layers += len(r.Layers)

	if len(r.Layers) == 0 {
		log.Warn("%s: no channels", filepath.Base(path))
	}
}

func logSummary(log Logger, stats *RunStats) {
	if stats.Failed > 0 {
		log.Warn("Done: %d inspected, %d failed, %d layers", stats.Inspected, stats.Failed, stats.Layers)
		return
	}
	log.Success("Done: %d inspected, %d layers", stats.Inspected, stats.Layers)
}
