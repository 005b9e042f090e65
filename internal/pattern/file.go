package pattern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTable is returned when a pattern table file cannot be used.
var ErrInvalidTable = errors.New("invalid pattern table")

// maxTableFileSize bounds the pattern file read by LoadFile.
const maxTableFileSize = 1 << 20

// minSuggestSimilarity is the Levenshtein similarity above which an unknown
// table name is assumed to be a typo of a builtin one.
const minSuggestSimilarity = 0.6

var builtinNames = []string{"standard", "extended"}

// tableFile is the schema of a pattern table file, in YAML:
//
//	extends: standard
//	patterns:
//	  - [Y, RY, BY]
//	  - [x, y, z, w]
//
// or TOML:
//
//	extends = "standard"
//	patterns = [["Y", "RY", "BY"], ["x", "y", "z", "w"]]
type tableFile struct {
	Extends  string     `yaml:"extends" toml:"extends"`
	Patterns [][]string `yaml:"patterns" toml:"patterns"`
}

// Parse decodes a YAML pattern table. Patterns listed in the file follow the
// patterns of the builtin table named by "extends", if any.
func Parse(data []byte) (Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return f.table()
}

// ParseTOML decodes a TOML pattern table with the same schema as [Parse].
func ParseTOML(data []byte) (Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return f.table()
}

func (f *tableFile) table() (Table, error) {
	var t Table
	if f.Extends != "" {
		base, ok := Builtin(f.Extends)
		if !ok {
			return nil, fmt.Errorf("%w: unknown base table %q (use 'standard' or 'extended')", ErrInvalidTable, f.Extends)
		}
		t = append(t, base...)
	}

	for i, tokens := range f.Patterns {
		if len(tokens) == 0 {
			return nil, fmt.Errorf("%w: pattern %d is empty", ErrInvalidTable, i)
		}
		for _, tok := range tokens {
			if tok == "" {
				return nil, fmt.Errorf("%w: pattern %d has an empty token", ErrInvalidTable, i)
			}
		}
		p := Pattern(tokens)
		if t.Contains(p) {
			continue
		}
		t = append(t, p)
	}
	return t, nil
}

// LoadFile reads a pattern table from path. Files ending in .toml are TOML,
// anything else is YAML.
func LoadFile(path string) (Table, error) {
	clean := filepath.Clean(path)
	fi, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("pattern table: %w", err)
	}
	if fi.Size() > maxTableFileSize {
		return nil, fmt.Errorf("%w: file too large: %d bytes (max %d)", ErrInvalidTable, fi.Size(), maxTableFileSize)
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("pattern table: %w", err)
	}

	parse := Parse
	if strings.EqualFold(filepath.Ext(clean), ".toml") {
		parse = ParseTOML
	}
	t, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", clean, err)
	}
	return t, nil
}

// Resolve maps a config value to a table: a builtin name, or else a path to
// a table file. A missing file whose name resembles a builtin table gets a
// suggestion in the error.
func Resolve(nameOrPath string) (Table, error) {
	if t, ok := Builtin(nameOrPath); ok {
		return t, nil
	}
	t, err := LoadFile(nameOrPath)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		if s := Suggest(nameOrPath); s != "" {
			return nil, fmt.Errorf("%w (did you mean %q?)", err, s)
		}
	}
	return t, err
}

// Suggest returns the builtin table name closest to name, or "" when none is
// similar enough.
func Suggest(name string) string {
	if strings.ContainsAny(name, `/\.`) {
		return ""
	}
	lev := metrics.NewLevenshtein()
	best, bestScore := "", 0.0
	for _, b := range builtinNames {
		if score := strutil.Similarity(strings.ToLower(name), b, lev); score > bestScore {
			best, bestScore = b, score
		}
	}
	if bestScore < minSuggestSimilarity {
		return ""
	}
	return best
}
