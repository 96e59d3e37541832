// Package pipeline wires the conversion stages together: metadata
// parsing, HTML extraction, range annotation, normalization,
// transformation and stringification.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/extract"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/normalize"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/rangemap"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/render"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/sliceclip"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/transform"
)

// Pipeline converts clipboard HTML to Markdown. It holds no per-call
// state and may be shared between goroutines.
type Pipeline struct {
	opts        core.Options
	logger      *slog.Logger
	extractor   core.Extractor
	normalizer  core.Normalizer
	transformer core.Transformer
	stringifier core.Stringifier
}

// New creates a Pipeline with the default stages.
func New(opts core.Options) *Pipeline {
	opts = opts.WithDefaults()
	return &Pipeline{
		opts:        opts,
		logger:      opts.Logger,
		extractor:   extract.New(),
		normalizer:  normalize.New(opts),
		transformer: transform.New(opts),
		stringifier: render.NewStringifier(opts),
	}
}

// Convert runs one conversion with opts.
func Convert(html string, metadata any, opts core.Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	return New(opts).Convert(html, metadata)
}

// Convert turns html into Markdown. metadata is an optional slice clip
// in any form sliceclip.Parse accepts.
//
// A slice clip whose text no longer matches the HTML is not fatal: the
// ranges applied so far are kept, a warning is logged and the conversion
// finishes without the rest. With StrictMapping the mismatch is returned.
func (p *Pipeline) Convert(html string, metadata any) (string, error) {
	if err := p.opts.Validate(); err != nil {
		return "", err
	}

	clip, err := sliceclip.Parse(metadata)
	if err != nil {
		return "", fmt.Errorf("parsing metadata: %w", err)
	}

	doc, err := p.extractor.Extract(html)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	if clip != nil {
		if err := rangemap.Annotate(doc, clip, p.logger); err != nil {
			if p.opts.StrictMapping || !errors.Is(err, core.ErrRangeMismatch) {
				return "", fmt.Errorf("applying metadata: %w", err)
			}
			p.logger.Warn("metadata does not match the html, continuing without it", "error", err)
		}
	}

	if err := p.normalizer.Normalize(doc); err != nil {
		return "", fmt.Errorf("normalizing: %w", err)
	}
	return p.stringifier.Stringify(p.transformer.Transform(doc)), nil
}
