package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// resolveCmd represents the resolve command.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run the full configuration-resolution pipeline",
	Long: `Load the declarative sources, merge them with built-in defaults,
normalize content types and taxonomies, validate cross-references, and
persist the resolved tree to the cache (when the caching toggle is on).

Examples:
  slate resolve                        # Resolve against ./app/config
  slate resolve --root /srv/site      # Resolve a different project
  slate resolve --cache /tmp/cc.json  # Custom cache location`,
	RunE: runResolveCommand,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolveCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	engine := newEngine(logger)

	timer := logger.StartOperation("resolve")
	diags, err := engine.ResolveAll(cmd.Context())
	if err != nil {
		timer.EndWithError(cmd.Context(), err)
		return fmt.Errorf("resolution failed: %w", err)
	}
	timer.End(cmd.Context())

	source := "cold resolution"
	if engine.Warm() {
		source = "cache"
	}
	fmt.Fprintf(os.Stdout, "Resolved %d content types, %d taxonomies (%s)\n",
		len(engine.ContentTypes()), len(engine.Taxonomies()), source)

	for _, d := range diags {
		fmt.Fprintf(os.Stdout, "  %s\n", d)
	}
	if len(diags) == 0 {
		fmt.Fprintln(os.Stdout, "No diagnostics.")
	}
	return nil
}
