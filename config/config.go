// Package config resolves clipdown settings with viper.
// Precedence: defaults < config file < CLIPDOWN_* environment < flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

// Keys shared with the CLI flags.
const (
	KeyCodeBlocks    = "code_blocks"
	KeyHeadingIDs    = "heading_ids"
	KeySuggestions   = "suggestions"
	KeyStrictMapping = "strict_mapping"
	KeyOutputDir     = "output_dir"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyPrettyStyle   = "pretty.style"
	KeyPrettyWidth   = "pretty.width"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration options, their defaults and
// meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: KeyCodeBlocks, Default: string(core.CodeBlocksIndented), Comment: "Code block style: indented or fenced"},
		{Key: KeyHeadingIDs, Default: string(core.HeadingIDsHidden), Comment: "Heading ids: hidden, html or extended"},
		{Key: KeySuggestions, Default: string(core.SuggestionsReject), Comment: "Suggested edits: show, hide, accept or reject"},
		{Key: KeyStrictMapping, Default: false, Comment: "Fail when the slice clip text does not match the HTML"},
		{Key: KeyOutputDir, Default: "", Comment: "Directory for output files; empty prints single conversions to stdout"},

		{Key: KeyLogLevel, Default: "warn", Comment: "Log level: debug, info, warn or error"},
		{Key: KeyLogFormat, Default: "text", Comment: "Log format on stderr: text or json"},

		{Key: KeyPrettyStyle, Default: "dark", Comment: "glamour style for --pretty"},
		{Key: KeyPrettyWidth, Default: 80, Comment: "Word wrap width for --pretty"},
	}
}

func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration into v. A config file set upstream with
// SetConfigFile must exist; the standard locations are optional.
func Load(ctx context.Context, v *viper.Viper) error {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "clipdown"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clipdown"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("clipdown")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string

	if err := Options(v).Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := parseLevel(v.GetString(KeyLogLevel)); err != nil {
		problems = append(problems, err.Error())
	}
	switch v.GetString(KeyLogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be text or json", v.GetString(KeyLogFormat)))
	}
	if v.GetInt(KeyPrettyWidth) <= 0 {
		problems = append(problems, "pretty.width must be greater than 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Options builds conversion options from v. The logger is left unset.
func Options(v *viper.Viper) core.Options {
	return core.Options{
		CodeBlocks:    core.CodeBlockStyle(strings.ToLower(v.GetString(KeyCodeBlocks))),
		HeadingIDs:    core.HeadingIDMode(strings.ToLower(v.GetString(KeyHeadingIDs))),
		Suggestions:   core.SuggestionMode(strings.ToLower(v.GetString(KeySuggestions))),
		StrictMapping: v.GetBool(KeyStrictMapping),
	}
}

// Logger builds the stderr logger described by log.level and log.format.
func Logger(v *viper.Viper) *slog.Logger {
	level, err := parseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if v.GetString(KeyLogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", s)
	}
	return level, nil
}
