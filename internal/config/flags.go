package config

// This file implements CLI flag parsing and help text.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults
// hold unless set.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, missing positional arg).
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("exrlayers", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(version) }

	var (
		negated negatedFlags
		views   string
	)

	defineGroupingFlags(fs, cfg, &views)
	defineOutputFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "exrlayers v"+version)
		os.Exit(0)
	}

	v, err := ParseViews(views)
	if err != nil {
		return err
	}
	if v != nil {
		cfg.Views = v
	}

	if err := parsePositionalArgs(fs, cfg); err != nil {
		return err
	}
	return cfg.ExpandPaths()
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineGroupingFlags registers --patterns, --sort, --views, --match.
func defineGroupingFlags(fs *flag.FlagSet, cfg *Config, views *string) {
	fs.StringVar(&cfg.Patterns, "patterns", cfg.Patterns, "Pattern table: standard | extended | <file.yaml|file.toml>")
	fs.StringVar(&cfg.Patterns, "p", cfg.Patterns, "Same as --patterns")
	fs.BoolVar(&cfg.SortChannels, "sort", false, "Sort channels by name before grouping")
	fs.StringVar(views, "views", "", "Comma-separated view hints (default view first)")
	fs.StringVar(&cfg.Match, "match", "", "Only inspect files whose name matches this glob")
	fs.StringVar(&cfg.Match, "m", "", "Same as --match")
}

// defineOutputFlags registers --output, --table, --sentinels, --watch.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&outputValue{&cfg.Output}, "output", "Report format: text | json")
	fs.Var(&outputValue{&cfg.Output}, "o", "Same as --output")
	fs.BoolVar(&cfg.ShowTable, "table", false, "Include the multi-view channel table")
	fs.BoolVar(&cfg.ShowTable, "t", false, "Same as --table")
	fs.Var(&sentinelValue{&cfg.Sentinels}, "sentinels", "Table labels: bracketed | bracketed-data | plain")
	fs.BoolVar(&cfg.Watch, "watch", false, "Re-inspect files when they change")
	fs.BoolVar(&cfg.Watch, "w", false, "Same as --watch")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check pattern table, views and input, then exit")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputPath from the single positional arg. With
// --check the input is optional.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly && len(args) == 0 {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input file or directory")
	}
	cfg.InputPath = args[0]
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "exrlayers v" + version + " - channel layer inspector for EXR images"},
		{"", ""},
		{"  exrlayers [OPTIONS] <file-or-dir>", ""},
		{"  exrlayers --check [OPTIONS] [file-or-dir]", ""},
		{"", ""},
		{"Grouping", ""},
		{"  -p, --patterns <name|file>", "standard | extended | YAML/TOML table (default: extended)"},
		{"  --sort", "Sort channels by name before grouping"},
		{"  --views <a,b,...>", "View hints, default view first (default: from file)"},
		{"  -m, --match <glob>", "Only inspect files whose name matches (e.g. '*_beauty.*')"},
		{"", ""},
		{"Output", ""},
		{"  -o, --output <text|json>", "Report format (default: text)"},
		{"  -t, --table", "Include the multi-view channel table"},
		{"  --sentinels <mode>", "bracketed | bracketed-data | plain (default: bracketed)"},
		{"  -w, --watch", "Re-inspect files when they change"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --check", "Check pattern table, views and input, then exit"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types (OutputFormat, SentinelMode) with flag.Var.

type outputValue struct{ p *OutputFormat }

func (o *outputValue) String() string {
	if o.p == nil {
		return ""
	}
	return string(*o.p)
}
func (o *outputValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "text":
		*o.p = OutputText
	case "json":
		*o.p = OutputJSON
	default:
		return fmt.Errorf("invalid output format %q (use 'text' or 'json')", s)
	}
	return nil
}

type sentinelValue struct{ p *SentinelMode }

func (v *sentinelValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}
func (v *sentinelValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "bracketed":
		*v.p = SentinelBracketed
	case "bracketed-data":
		*v.p = SentinelBracketedData
	case "plain":
		*v.p = SentinelPlain
	default:
		return fmt.Errorf("invalid sentinel mode %q (use 'bracketed', 'bracketed-data' or 'plain')", s)
	}
	return nil
}
