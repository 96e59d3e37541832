package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tatsuyakari1203/markdown-editor-sub001/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var (
	flagConfigOut       string
	flagConfigOverwrite bool
)

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default config.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := flagConfigOut
		if out == "" {
			out = config.DefaultPath()
		}
		if _, err := os.Stat(out); err == nil && !flagConfigOverwrite {
			return fmt.Errorf("config already exists at %s; use --overwrite to replace it", out)
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := os.WriteFile(out, []byte(config.RenderDefaultTOML()), 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", out)
		return nil
	},
}

func init() {
	configGenerateCmd.Flags().StringVarP(&flagConfigOut, "output", "o", "", "Output path for config.toml")
	configGenerateCmd.Flags().BoolVar(&flagConfigOverwrite, "overwrite", false, "Replace an existing config")
	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(configCmd)
}
