package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/slate/internal/watcher"
)

var watchDebounce time.Duration

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-resolve whenever a declarative source changes",
	Long: `Resolve once, then watch the configuration directory and re-run
the pipeline whenever a YAML source changes. Each run prints fresh
diagnostics; a halting error is reported without stopping the watch.`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "delay before re-resolving after a change")
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	resolve := func() {
		engine := newEngine(logger)
		diags, err := engine.ResolveAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolution failed: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stdout, "Resolved %d content types, %d taxonomies, %d diagnostics\n",
			len(engine.ContentTypes()), len(engine.Taxonomies()), len(diags))
		for _, d := range diags {
			fmt.Fprintf(os.Stdout, "  %s\n", d)
		}
	}
	resolve()

	w, err := watcher.New(watchDebounce, logger)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Stop()

	// Watch the directory that holds the sources; the probe engine only
	// exists to compute the effective source locations.
	probe := newEngine(logger)
	dir := filepath.Dir(probe.SourcePaths()[0])
	if err := w.AddDir(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.OnChange(func(paths []string) {
		fmt.Fprintf(os.Stdout, "Change detected in %d source(s), re-resolving\n", len(paths))
		resolve()
	})
	w.Start(ctx)

	<-ctx.Done()
	return nil
}
