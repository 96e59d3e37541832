// Package extract implements the Extractor interface.
// It parses clipboard HTML into a node tree and strips the producer's
// clipboard scaffolding:
//  1. Removing elements that never render (scripts, templates, noscript)
//  2. Unwrapping the `docs-internal-guid` wrapper Google Docs puts around
//     every copied slice
//  3. Dropping interchange line breaks appended by browsers
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// noiseSelectors are removed before any other processing. Their text
// would otherwise leak into range mapping.
var noiseSelectors = []string{
	"script", "noscript", "template",
	"br.Apple-interchange-newline",
}

// wrapperSelector matches the slice wrapper. It is a `b` with
// font-weight:normal, so keeping it would turn the whole document bold.
const wrapperSelector = `b[id^="docs-internal-guid"]`

// HTMLExtractor parses clipboard HTML.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses src and returns the document node.
func (e *HTMLExtractor) Extract(src string) (*html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	doc.Find(wrapperSelector).Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			tree.Unwrap(n)
		}
	})

	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("parsing HTML: empty document")
	}
	return doc.Nodes[0], nil
}
