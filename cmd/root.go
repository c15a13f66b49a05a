// Package cmd provides the command-line interface for Slate with
// configuration management supporting multiple sources.
//
// Tool settings (not the declarative schema sources — the engine reads
// those itself, in declaration order) follow the usual precedence:
//  1. Command-line flags (--root, --config-dir, etc.) - highest priority
//  2. Individual environment variables (SLATE_CONFIG_DIR, etc.)
//  3. Tool configuration file (.slate.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/slate/internal/config"
	"github.com/conneroisu/slate/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Schema-driven content configuration engine",
	Long: `Slate resolves layered declarative schema files (general settings,
content types, taxonomies, menus, routing, permissions, theme overrides)
into a single consistent configuration tree, with validation diagnostics
and a freshness-aware cache.

Quick Start:
  slate resolve                   Run the full resolution pipeline
  slate validate                  Resolve and report diagnostics (CI-friendly)
  slate export                    Print the resolved tree as YAML or JSON
  slate watch                     Re-resolve whenever a source changes`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initToolConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "tool config file (default is .slate.yml)")
	rootCmd.PersistentFlags().String("root", ".", "project root directory")
	rootCmd.PersistentFlags().String("config-dir", "", "declarative source directory (default <root>/app/config)")
	rootCmd.PersistentFlags().String("cache", "", "cache file location (default <config-dir>/cache/config-cache.json)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	bindFlags(rootCmd.PersistentFlags(), "root", "config-dir", "cache", "log-level", "log-format")
}

// bindFlags exposes each named flag to viper so environment variables and
// the tool config file can supply it.
func bindFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = viper.BindPFlag(name, fs.Lookup(name))
	}
}

// initToolConfig wires viper for the tool's own settings with SLATE_
// environment overrides (SLATE_CONFIG_DIR, SLATE_LOG_LEVEL, ...).
func initToolConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".slate")
	}

	viper.SetEnvPrefix("SLATE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using tool config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the logger from the resolved tool settings.
func newLogger() *logging.SlateLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: viper.GetString("log-format"),
		Output: os.Stderr,
	})
}

// newEngine builds the resolution engine from the resolved tool settings.
func newEngine(logger logging.Logger) *config.Config {
	return config.New(config.Options{
		RootDir:   viper.GetString("root"),
		ConfigDir: viper.GetString("config-dir"),
		CachePath: viper.GetString("cache"),
		Logger:    logger,
	})
}
