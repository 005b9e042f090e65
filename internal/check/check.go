// Package check provides the setup diagnostics of --check mode: it resolves
// the pattern table and lints it, checks the view hints, and reports what
// the input path would yield, without grouping any file.
package check

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/backmassage/exrlayers/internal/channel"
	"github.com/backmassage/exrlayers/internal/config"
	"github.com/backmassage/exrlayers/internal/pattern"
	"github.com/backmassage/exrlayers/internal/pipeline"
	"github.com/backmassage/exrlayers/internal/probe"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck runs the --check flow and reports whether the setup is usable.
// Lint warnings do not fail the check; an unreadable pattern table or input
// path does.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Setup Check ===")

	ok := checkPatterns(cfg, log)
	checkViews(cfg, log)
	if cfg.InputPath != "" {
		ok = checkInput(cfg, log) && ok
	}
	return ok
}

// checkPatterns resolves the configured table and lists it in match order.
func checkPatterns(cfg *config.Config, log Logger) bool {
	t, err := pattern.Resolve(cfg.Patterns)
	if err != nil {
		log.Error("Pattern table: %v", err)
		return false
	}
	log.Success("Pattern table %q: %d patterns", cfg.Patterns, len(t))
	for i, p := range t.ByLength() {
		log.Debug("  %2d. %s", i+1, p)
	}
	for _, w := range LintTable(t) {
		log.Warn("  %s", w)
	}
	return true
}

// LintTable returns human-readable warnings about patterns that can never
// match or repeat an earlier pattern.
func LintTable(t pattern.Table) []string {
	var warnings []string
	for i, p := range t {
		for _, tok := range p {
			if strings.Contains(tok, channel.Delimiter) {
				warnings = append(warnings, fmt.Sprintf("pattern %s never matches: token %q contains %q", p, tok, channel.Delimiter))
				break
			}
		}
		if hasDuplicateToken(p) {
			warnings = append(warnings, fmt.Sprintf("pattern %s repeats a token", p))
		}
		if j := slices.IndexFunc(t[:i], func(q pattern.Pattern) bool { return slices.Equal(p, q) }); j >= 0 {
			warnings = append(warnings, fmt.Sprintf("pattern %s duplicates pattern %d", p, j+1))
		}
	}
	return warnings
}

func hasDuplicateToken(p pattern.Pattern) bool {
	seen := make(map[string]bool, len(p))
	for _, tok := range p {
		if seen[tok] {
			return true
		}
		seen[tok] = true
	}
	return false
}

// checkViews reports the configured view hints. A view containing the
// delimiter can never equal a single name segment.
func checkViews(cfg *config.Config, log Logger) {
	if len(cfg.Views) == 0 {
		log.Info("Views: taken from each file (multiView, then per-part view)")
		return
	}
	log.Info("Views: %s (default: %s)", strings.Join(cfg.Views, ","), cfg.Views[0])
	seen := make(map[string]bool)
	for _, v := range cfg.Views {
		if strings.Contains(v, channel.Delimiter) {
			log.Warn("  view %q contains %q and never matches", v, channel.Delimiter)
		}
		if seen[v] {
			log.Warn("  view %q listed twice", v)
		}
		seen[v] = true
	}
}

// checkInput reports how many supported files the input path yields, per
// format, and their total size.
func checkInput(cfg *config.Config, log Logger) bool {
	files, err := pipeline.Discover(cfg.InputPath)
	if err != nil {
		log.Error("Input: %v", err)
		return false
	}

	counts := make(map[probe.Format]int)
	unsupported := 0
	var size uint64
	for _, f := range files {
		if format, ok := probe.FormatOf(f); ok {
			counts[format]++
		} else {
			unsupported++
		}
		if fi, err := os.Stat(f); err == nil {
			size += uint64(fi.Size())
		}
	}

	if len(files) == 0 {
		log.Warn("Input %s: no supported files", cfg.InputPath)
		return true
	}
	log.Success("Input %s: %d file(s), %s (exr %d, json %d, yaml %d, toml %d)", cfg.InputPath, len(files),
		humanize.Bytes(size), counts[probe.FormatEXR], counts[probe.FormatJSON], counts[probe.FormatYAML], counts[probe.FormatTOML])
	if unsupported > 0 {
		log.Warn("  %d file(s) have an unsupported extension", unsupported)
	}
	return true
}
