// Package render — JSON renderer.
// Builds the structured JSON output from Markdown and document metadata.
// The Markdown is parsed with goldmark so structure counts agree with
// what a CommonMark reader sees.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct {
	md goldmark.Markdown
}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Render converts Markdown and metadata into the document JSON. An empty
// title is filled from the first heading.
func (r *JSONRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	src := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(src))

	structure := core.DocumentStructure{
		Headings: []core.Heading{},
		Links:    []core.Link{},
	}
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			structure.Headings = append(structure.Headings, core.Heading{
				Level: v.Level,
				Text:  plainText(v, src),
			})
		case *ast.Link:
			structure.Links = append(structure.Links, core.Link{
				Text: plainText(v, src),
				Href: string(v.Destination),
			})
		case *ast.AutoLink:
			structure.Links = append(structure.Links, core.Link{
				Text: string(v.Label(src)),
				Href: string(v.URL(src)),
			})
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			structure.CodeBlocks++
		case *east.Table:
			structure.Tables++
		case *ast.List:
			structure.Lists++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking markdown: %w", err)
	}

	if meta.Title == "" && len(structure.Headings) > 0 {
		meta.Title = structure.Headings[0].Text
	}

	page := core.DocumentJSON{
		Metadata: meta,
		Content: core.DocumentContent{
			Text:     documentText(doc, src),
			Markdown: markdown,
			Sections: sections(doc, src),
		},
		Structure: structure,
	}

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// sections splits the top-level blocks at each heading. Content before
// the first heading belongs to no section.
func sections(doc ast.Node, src []byte) []core.Section {
	var out []core.Section
	var current *core.Section
	var body []string

	flush := func() {
		if current != nil {
			current.Text = strings.Join(body, "\n\n")
			out = append(out, *current)
		}
		body = nil
	}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			current = &core.Section{Heading: plainText(h, src), Level: h.Level}
			continue
		}
		if t := plainText(n, src); t != "" {
			body = append(body, t)
		}
	}
	flush()
	return out
}

func documentText(doc ast.Node, src []byte) string {
	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := plainText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// plainText returns the literal text under n, one line per nested block.
// Raw HTML is dropped.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c != n && c.Type() == ast.TypeBlock && c.PreviousSibling() != nil {
			b.WriteByte('\n')
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
