// Command exrlayers lists the layers of OpenEXR images and channel manifests.
//
// It parses flags, validates configuration, groups each file's channels into
// selectable layers, and prints one report per file. With --watch it keeps
// running and reprints a file's report whenever the file changes; --check
// only reports setup diagnostics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/exrlayers/internal/check"
	"github.com/backmassage/exrlayers/internal/config"
	"github.com/backmassage/exrlayers/internal/display"
	"github.com/backmassage/exrlayers/internal/logging"
	"github.com/backmassage/exrlayers/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "exrlayers: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "exrlayers: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "exrlayers: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. JSON reports own stdout, so log lines move
	// to stderr and the banner is skipped.
	if cfg.Output == config.OutputJSON {
		log.SetOutput(os.Stderr, os.Stderr)
	} else {
		display.PrintBanner(os.Stdout)
	}
	log.Debug("exrlayers v%s (%s)", version, commit)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pipeline stops between files.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping")
		cancel()
	}()

	// Phase 4: Inspect every file once, then optionally keep watching.
	stats, err := pipeline.Run(ctx, &cfg, log, os.Stdout)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	if cfg.Watch && ctx.Err() == nil {
		if err := pipeline.Watch(ctx, &cfg, log, os.Stdout); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0
	}

	if stats.Failed > 0 {
		return 1
	}
	return 0
}
