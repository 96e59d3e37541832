// Package cmd implements the CLI commands for clipdown using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tatsuyakari1203/markdown-editor-sub001/config"
)

var (
	cfg     = viper.New()
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "clipdown",
	Short: "clipdown — convert copied Google Docs HTML into Markdown",
	Long: `clipdown converts clipboard HTML, optionally enriched with the editor's
slice clip metadata, into clean Markdown, structured JSON or a terminal
preview.

Usage:
  clipdown convert <html-file|url|-> [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath != "" {
			cfg.SetConfigFile(cfgPath)
		}
		return config.Load(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (toml|yaml|json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
