// Package normalize implements the Normalizer interface.
// It rewrites presentational clipboard HTML into semantic HTML through an
// ordered list of passes. Every pass mutates the shared tree in place and
// can be run or tested on its own.
package normalize

import (
	"log/slog"

	"golang.org/x/net/html"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/style"
)

// Tree is the state shared by the passes of one conversion.
type Tree struct {
	Root    *html.Node
	Styles  *style.Resolver
	Options core.Options
	Logger  *slog.Logger
}

// Pass is one tree rewrite.
type Pass interface {
	Name() string
	Transform(t *Tree)
}

// DefaultPasses returns the standard pass order.
func DefaultPasses() []Pass {
	return []Pass{
		SuggestionPass{},
		NestedListPass{},
		TablePass{},
		InlineStylePass{},
		CodeBlockPass{},
		WhitespacePass{},
		AlignmentPass{},
		CleanupPass{},
	}
}

// HeuristicNormalizer runs passes over a tree.
type HeuristicNormalizer struct {
	passes []Pass
	opts   core.Options
}

// New creates a HeuristicNormalizer with the default passes.
func New(opts core.Options) *HeuristicNormalizer {
	return NewWithPasses(opts, DefaultPasses()...)
}

// NewWithPasses creates a HeuristicNormalizer running passes in order.
func NewWithPasses(opts core.Options, passes ...Pass) *HeuristicNormalizer {
	return &HeuristicNormalizer{passes: passes, opts: opts.WithDefaults()}
}

// Passes returns the configured pass order.
func (n *HeuristicNormalizer) Passes() []Pass {
	return n.passes
}

// Normalize runs every pass over doc. Resolved styles are dropped between
// passes since passes move nodes.
func (n *HeuristicNormalizer) Normalize(doc *html.Node) error {
	logger := n.opts.Logger
	t := &Tree{
		Root:    doc,
		Styles:  style.NewResolver(logger),
		Options: n.opts,
		Logger:  logger,
	}
	for _, p := range n.passes {
		logger.Debug("running pass", "pass", p.Name())
		p.Transform(t)
		t.Styles.Invalidate()
	}
	return nil
}
