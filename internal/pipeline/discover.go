package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/backmassage/exrlayers/internal/probe"
)

// Discover returns the files to inspect. A file path yields itself, whatever
// its extension, so an unsupported file is reported rather than silently
// skipped. A directory is walked recursively, hidden directories are pruned,
// and files with a supported extension are returned sorted lexicographically
// for deterministic processing order.
func Discover(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if probe.Supported(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// newMatcher returns a predicate on file base names for a --match glob. An
// empty pattern matches everything.
func newMatcher(pattern string) (func(path string) bool, error) {
	if pattern == "" {
		return func(string) bool { return true }, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("match pattern %q: %w", pattern, err)
	}
	return func(path string) bool { return g.Match(filepath.Base(path)) }, nil
}
