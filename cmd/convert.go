// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// load → convert → render → write.
//
// It handles flag validation, renderer selection, and single or --all
// batch mode.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tatsuyakari1203/markdown-editor-sub001/batch"
	"github.com/tatsuyakari1203/markdown-editor-sub001/config"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/fetch"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/output"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/pipeline"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/render"
)

// Flag variables.
var (
	flagAll      bool
	flagMarkdown bool
	flagJSON     bool
	flagPretty   bool
	flagMetadata string
)

var convertCmd = &cobra.Command{
	Use:   "convert <html-file|url|->",
	Short: "Convert clipboard HTML to Markdown",
	Long: `Convert reads clipboard HTML from a file, a URL or standard input,
applies the slice clip metadata when given, and writes Markdown, JSON or a
terminal preview.

Examples:
  clipdown convert clip.html
  clipdown convert clip.html --metadata clip.sliceclip.json --heading-ids html
  pbpaste | clipdown convert - --code-blocks fenced
  clipdown convert ./clips --all --json --output_dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.BoolVar(&flagAll, "all", false, "Treat the argument as a directory and convert every HTML file in it")
	flags.StringVar(&flagMetadata, "metadata", "", "Slice clip JSON file or URL")

	// Output format flags (mutually exclusive, Markdown by default).
	flags.BoolVar(&flagMarkdown, "markdown", false, "Output Markdown (default)")
	flags.BoolVar(&flagJSON, "json", false, "Output structured JSON")
	flags.BoolVar(&flagPretty, "pretty", false, "Output a styled terminal preview")

	// Conversion options, also settable in the config file.
	flags.String("code-blocks", string(core.CodeBlocksIndented), "Code block style: indented or fenced")
	flags.String("heading-ids", string(core.HeadingIDsHidden), "Heading ids: hidden, html or extended")
	flags.String("suggestions", string(core.SuggestionsReject), "Suggested edits: show, hide, accept or reject")
	flags.Bool("strict", false, "Fail when the metadata does not match the HTML")
	flags.String("output_dir", "", "Output directory (default: stdout, or the current directory with --all)")

	for flag, key := range map[string]string{
		"code-blocks": config.KeyCodeBlocks,
		"heading-ids": config.KeyHeadingIDs,
		"suggestions": config.KeySuggestions,
		"strict":      config.KeyStrictMapping,
		"output_dir":  config.KeyOutputDir,
	} {
		if err := cfg.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}
	if err := config.CheckConfigValidity(cfg); err != nil {
		return err
	}

	opts := config.Options(cfg)
	opts.Logger = config.Logger(cfg)

	renderer := selectRenderer()
	p := pipeline.New(opts)
	loader := fetch.New().WithStdin(cmd.InOrStdin())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagAll {
		writer, err := output.New(cfg.GetString(config.KeyOutputDir))
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
		return runAll(ctx, cmd, args[0], loader, p, renderer, writer, opts)
	}
	return runOnly(ctx, cmd, args[0], loader, p, renderer, opts)
}

// runOnly converts a single input. Without an output directory the result
// goes to stdout.
func runOnly(
	ctx context.Context,
	cmd *cobra.Command,
	source string,
	loader core.Fetcher,
	p *pipeline.Pipeline,
	renderer core.Renderer,
	opts core.Options,
) error {
	data, err := process(ctx, source, flagMetadata, loader, p, renderer, opts)
	if err != nil {
		return err
	}

	dir := cfg.GetString(config.KeyOutputDir)
	if dir == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.WriteOne(source, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

// runAll converts every HTML file under root, mirroring its layout.
func runAll(
	ctx context.Context,
	cmd *cobra.Command,
	root string,
	loader core.Fetcher,
	p *pipeline.Pipeline,
	renderer core.Renderer,
	writer *output.Writer,
	opts core.Options,
) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	queue, err := batch.Discover(ctx, root)
	if err != nil {
		return fmt.Errorf("discovering inputs: %w", err)
	}
	fmt.Fprintf(out, "Found %d files to convert\n", queue.Len())

	var errCount int
	for i := 1; queue.HasNext(); i++ {
		job := queue.Next()
		fmt.Fprintf(out, "[%d/%d] Converting %s\n", i, queue.Len(), job.Rel)

		data, err := process(ctx, job.Path, job.Metadata, loader, p, renderer, opts)
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}

		path, err := writer.WriteMirror(job.Rel, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(out, "  ✓ Written: %s\n", path)
	}

	if errCount > 0 {
		return fmt.Errorf("%d/%d files failed", errCount, queue.Len())
	}
	return nil
}

// process runs one input through the full pipeline.
func process(
	ctx context.Context,
	source, metadata string,
	loader core.Fetcher,
	p *pipeline.Pipeline,
	renderer core.Renderer,
	opts core.Options,
) ([]byte, error) {
	// 1. Load
	html, err := loader.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	var clip []byte
	if metadata != "" {
		res, err := loader.Fetch(ctx, metadata)
		if err != nil {
			return nil, fmt.Errorf("load metadata: %w", err)
		}
		clip = res.Data
	}

	// 2. Convert
	var meta any
	if clip != nil {
		meta = clip
	}
	markdown, err := p.Convert(string(html.Data), meta)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", source, err)
	}

	// 3. Render
	data, err := renderer.Render(markdown, buildMetadata(source, clip != nil, opts))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

// buildMetadata describes one conversion. The JSON renderer fills the
// title from the first heading.
func buildMetadata(source string, hasClip bool, opts core.Options) core.DocumentMetadata {
	return core.DocumentMetadata{
		Source:      source,
		ConvertedAt: time.Now().UTC().Format(time.RFC3339),
		HasClip:     hasClip,
		Options:     opts.WithDefaults(),
	}
}

// validateFlags checks that at most one output format is chosen.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagMarkdown, flagJSON, flagPretty} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the Renderer chosen by flags.
func selectRenderer() core.Renderer {
	switch {
	case flagJSON:
		return render.NewJSONRenderer()
	case flagPretty:
		return render.NewPrettyRenderer(cfg.GetString(config.KeyPrettyStyle), cfg.GetInt(config.KeyPrettyWidth))
	}
	return render.NewMarkdownRenderer()
}
