package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/slate/internal/validation"
)

var validateJSON bool

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Resolve the configuration and report diagnostics",
	Long: `Run the full resolution pipeline and print every validator
diagnostic. Exits non-zero when any error-severity diagnostic is present,
so it can gate CI. Warnings alone do not fail the run.

Examples:
  slate validate
  slate validate --json              # Machine-readable diagnostics`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit diagnostics as JSON")
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	engine := newEngine(logger)

	diags, err := engine.ResolveAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if validateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(diags); err != nil {
			return err
		}
	} else {
		for _, d := range diags {
			fmt.Fprintln(os.Stdout, d)
		}
	}

	if validation.HasErrors(diags) {
		errs := 0
		for _, d := range diags {
			if d.Severity == validation.SeverityError {
				errs++
			}
		}
		return fmt.Errorf("validation found %d error(s)", errs)
	}
	return nil
}
