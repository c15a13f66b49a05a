package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/slate/internal/config"
)

// Populated at build time via -ldflags.
var buildVersion = "dev"

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the slate version and schema version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "slate %s (schema %s)\n", buildVersion, config.SchemaVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
