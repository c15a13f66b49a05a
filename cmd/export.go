package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/slate/internal/tree"
)

var exportFormat string

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the fully resolved configuration tree",
	Long: `Resolve the configuration and print the complete tree, including
all applied defaults, in key order.

Examples:
  slate export                  # YAML to stdout
  slate export --format json    # JSON instead`,
	RunE: runExportCommand,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "output format (yaml, json)")
}

func runExportCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	engine := newEngine(logger)

	if _, err := engine.ResolveAll(cmd.Context()); err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(engine.Root(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
	case "yaml", "yml":
		data, err := tree.EncodeYAML(engine.Root())
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(data))
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", exportFormat)
	}
	return nil
}
