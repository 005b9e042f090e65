// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mitchellh/go-homedir"
)

// --- Enum types for validated string fields ---

// OutputFormat selects how inspection reports are rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text" // Aligned human-readable text (default).
	OutputJSON OutputFormat = "json" // One indented JSON document per file.
)

// SentinelMode selects the label convention of the multi-view table.
type SentinelMode string

const (
	SentinelBracketed     SentinelMode = "bracketed"      // [color]/[depth]/[other], no view "" (default).
	SentinelBracketedData SentinelMode = "bracketed-data" // As bracketed, but no view is "[data]".
	SentinelPlain         SentinelMode = "plain"          // color/depth, same labels as the layer list.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Input (positional arg): an image file, a manifest, or a directory.
	InputPath string
	Match     string // Glob on base names applied while discovering files.

	// Grouping.
	Patterns     string   // "standard", "extended" (default) or a YAML table path.
	SortChannels bool     // Sort channels before delimiter grouping.
	Views        []string // View hints overriding the file's multiView list.

	// Multi-view table.
	ShowTable bool         // Include the per-channel layer/view/channel table.
	Sentinels SentinelMode // Default: "bracketed".

	// Output and behavior.
	Output OutputFormat // Default: "text".
	Watch  bool         // Re-inspect files when they change.

	// Mode.
	CheckOnly bool // Report setup diagnostics and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Patterns:     "extended",
		SortChannels: false,
		ShowTable:    false,
		Sentinels:    SentinelBracketed,
		Output:       OutputText,
		Watch:        false,
		Verbose:      false,
		ColorMode:    ColorAuto,
	}
}

// ParseViews splits a comma-separated view list, trimming blanks. An empty
// string yields nil.
func ParseViews(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	views := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v == "" {
			return nil, fmt.Errorf("invalid view list %q (empty view name)", raw)
		}
		views = append(views, v)
	}
	return views, nil
}

// Validate checks that enum fields hold valid values and that a pattern table
// is set. An input path is required unless CheckOnly is set.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
		// valid
	default:
		return errors.New("invalid output format (use 'text' or 'json')")
	}

	switch c.Sentinels {
	case SentinelBracketed, SentinelBracketedData, SentinelPlain:
		// valid
	default:
		return errors.New("invalid sentinel mode (use 'bracketed', 'bracketed-data' or 'plain')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if strings.TrimSpace(c.Patterns) == "" {
		return errors.New("pattern table must not be empty")
	}
	for _, v := range c.Views {
		if strings.TrimSpace(v) == "" {
			return errors.New("view names must not be empty")
		}
	}

	if c.Match != "" {
		if _, err := glob.Compile(c.Match); err != nil {
			return fmt.Errorf("invalid --match pattern %q: %v", c.Match, err)
		}
	}

	if c.InputPath == "" && !c.CheckOnly {
		return errors.New("need exactly one input file or directory")
	}
	return nil
}

// ExpandPaths replaces a leading "~" in every path-valued field with the
// user's home directory. Builtin pattern table names are left alone.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.InputPath, &c.Patterns, &c.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}
