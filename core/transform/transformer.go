// Package transform implements the Transformer interface.
// It maps a normalized HTML tree onto the Markdown syntax tree with one
// handler per tag. Handlers check the node they are given and panic on a
// mismatch: a wrong dispatch is a bug, not bad input.
package transform

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/mdast"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// googleRedirect prefixes links that Docs routes through its redirector.
const googleRedirect = "https://www.google.com/url?"

// HTMLTransformer converts normalized HTML into mdast.
type HTMLTransformer struct {
	opts core.Options
}

// New creates an HTMLTransformer.
func New(opts core.Options) *HTMLTransformer {
	return &HTMLTransformer{opts: opts.WithDefaults()}
}

// state is owned by one Transform call.
type state struct {
	opts   core.Options
	logger *slog.Logger
	slugs  map[string]string // heading id -> slug
}

// Transform converts doc. Heading slugs are computed over the whole
// document first so links may point forward.
func (t *HTMLTransformer) Transform(doc *html.Node) *mdast.Root {
	s := &state{
		opts:   t.opts,
		logger: t.opts.Logger,
		slugs:  make(map[string]string),
	}
	slugger := NewSlugger()
	for _, h := range tree.Elements(doc) {
		if !tree.IsHeading(h) {
			continue
		}
		slug := slugger.Slug(tree.Text(h))
		if id, ok := tree.Attr(h, "id"); ok && id != "" {
			s.slugs[id] = slug
		}
	}
	return &mdast.Root{Children: s.flow(doc)}
}

func expect(n *html.Node, tags ...atom.Atom) {
	if !tree.Is(n, tags...) {
		got := "<nil>"
		if n != nil {
			got = fmt.Sprintf("%q (type %d)", n.Data, n.Type)
		}
		panic(fmt.Sprintf("transform: handler for %v given %s", tags, got))
	}
}

// flow converts the children of n into blocks, grouping runs of phrasing
// content into paragraphs. Whitespace-only runs are dropped, and so is
// trailing whitespace of a run that a block interrupts.
func (s *state) flow(n *html.Node) []mdast.Node {
	var out, run []mdast.Node
	flush := func() {
		if !blankRun(run) {
			out = append(out, &mdast.Paragraph{Children: run})
		}
		run = nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for _, m := range s.node(c) {
			if mdast.IsPhrasing(m) {
				run = append(run, m)
				continue
			}
			run = trimEnd(run)
			flush()
			out = append(out, m)
		}
	}
	flush()
	return out
}

func trimEnd(run []mdast.Node) []mdast.Node {
	for len(run) > 0 {
		t, ok := run[len(run)-1].(*mdast.Text)
		if !ok {
			return run
		}
		t.Value = strings.TrimRight(t.Value, " \t\n")
		if t.Value != "" {
			return run
		}
		run = run[:len(run)-1]
	}
	return run
}

// phrasing converts the children of n into inline content. Blocks found
// inside inline context are flattened.
func (s *state) phrasing(n *html.Node) []mdast.Node {
	var nodes []mdast.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, s.node(c)...)
	}
	return inline(nodes)
}

func inline(nodes []mdast.Node) []mdast.Node {
	var out []mdast.Node
	prevBlock := false
	for _, m := range nodes {
		if mdast.IsPhrasing(m) {
			out = append(out, m)
			prevBlock = false
			continue
		}
		if prevBlock {
			out = append(out, &mdast.Break{})
		}
		switch b := m.(type) {
		case *mdast.Paragraph:
			out = append(out, b.Children...)
		case *mdast.Heading:
			out = append(out, b.Children...)
		default:
			out = append(out, &mdast.Text{Value: mdast.PlainText(m)})
		}
		prevBlock = true
	}
	return out
}

func blankRun(nodes []mdast.Node) bool {
	for _, m := range nodes {
		switch v := m.(type) {
		case *mdast.Break:
		case *mdast.Text:
			if !tree.IsBlank(v.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// node dispatches on the tag.
func (s *state) node(n *html.Node) []mdast.Node {
	switch n.Type {
	case html.TextNode:
		return []mdast.Node{&mdast.Text{Value: n.Data}}
	case html.DocumentNode:
		return s.flow(n)
	case html.ElementNode:
	default:
		return nil
	}

	switch tree.TagOf(n) {
	case atom.Head, atom.Style, atom.Script, atom.Title, atom.Template, atom.Noscript, atom.Colgroup:
		return nil
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main, atom.Header, atom.Footer,
		atom.Center, atom.Li, atom.Dd, atom.Dt, atom.Dl, atom.Html, atom.Body:
		return s.flow(n)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return one(s.heading(n))
	case atom.Blockquote:
		return one(&mdast.Blockquote{Children: s.flow(n)})
	case atom.Pre:
		return one(s.code(n))
	case atom.Ul, atom.Ol:
		return one(s.list(n))
	case atom.Table:
		return one(s.table(n))
	case atom.Hr:
		return one(&mdast.ThematicBreak{})
	case atom.Br:
		return one(&mdast.Break{})
	case atom.Img:
		return one(s.image(n))
	case atom.A:
		return s.link(n)
	case atom.Strong, atom.B:
		return s.wrap(n, func(c []mdast.Node) mdast.Node { return &mdast.Strong{Children: c} })
	case atom.Em, atom.I:
		return s.wrap(n, func(c []mdast.Node) mdast.Node { return &mdast.Emphasis{Children: c} })
	case atom.Del, atom.S, atom.Strike:
		return s.wrap(n, func(c []mdast.Node) mdast.Node { return &mdast.Delete{Children: c} })
	case atom.Ins:
		return s.wrap(n, func(c []mdast.Node) mdast.Node { return &mdast.Insert{Children: c} })
	case atom.Code, atom.Kbd, atom.Samp, atom.Tt:
		return s.inlineCode(n)
	case atom.Sup, atom.Sub:
		return s.island(n)
	}
	// Unknown elements are transparent.
	var out []mdast.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, s.node(c)...)
	}
	return out
}

func one(n mdast.Node) []mdast.Node {
	if n == nil {
		return nil
	}
	return []mdast.Node{n}
}

func (s *state) heading(n *html.Node) mdast.Node {
	expect(n, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6)
	depth := int(n.Data[1] - '0')
	h := &mdast.Heading{Depth: depth, Children: s.phrasing(n)}

	id, _ := tree.Attr(n, "id")
	if id == "" {
		return h
	}
	switch s.opts.HeadingIDs {
	case core.HeadingIDsHTML:
		h.Children = append([]mdast.Node{anchor(id)}, h.Children...)
	case core.HeadingIDsExtended:
		h.Children = append(h.Children, &mdast.HTML{Value: " {#" + id + "}"})
	}
	return h
}

func anchor(id string) *mdast.HTML {
	return &mdast.HTML{Value: `<a id="` + html.EscapeString(id) + `"></a>`}
}

func (s *state) code(n *html.Node) mdast.Node {
	expect(n, atom.Pre)
	lang, _ := tree.Attr(n, tree.AttrCodeLanguage)
	if lang == "" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if tree.Is(c, atom.Code) {
				lang, _ = tree.Attr(c, tree.AttrCodeLanguage)
				break
			}
		}
	}
	value := strings.TrimSuffix(tree.Text(n), "\n")
	return &mdast.Code{Lang: lang, Value: value}
}

func (s *state) list(n *html.Node) mdast.Node {
	expect(n, atom.Ul, atom.Ol)
	l := &mdast.List{Ordered: tree.Is(n, atom.Ol), Start: 1}
	if v, ok := tree.Attr(n, "start"); ok {
		if start, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && start >= 0 {
			l.Start = start
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case tree.Is(c, atom.Li):
			l.Children = append(l.Children, &mdast.ListItem{Children: s.flow(c)})
		case c.Type == html.TextNode && tree.IsBlank(c.Data):
		case c.Type == html.TextNode, c.Type == html.ElementNode:
			// Stray content such as an orphaned nested list gets its own item.
			blocks := s.node(c)
			if len(blocks) > 0 && mdast.IsPhrasing(blocks[0]) {
				blocks = []mdast.Node{&mdast.Paragraph{Children: blocks}}
			}
			l.Children = append(l.Children, &mdast.ListItem{Children: blocks})
		}
	}
	return l
}

func (s *state) image(n *html.Node) mdast.Node {
	expect(n, atom.Img)
	src, _ := tree.Attr(n, "src")
	if src == "" {
		return nil
	}
	alt, _ := tree.Attr(n, "alt")
	title, _ := tree.Attr(n, "title")
	return &mdast.Image{URL: src, Alt: alt, Title: title}
}

func (s *state) link(n *html.Node) []mdast.Node {
	expect(n, atom.A)
	children := s.phrasing(n)
	href, _ := tree.Attr(n, "href")
	if href == "" {
		if id, _ := tree.Attr(n, "id"); id != "" {
			// Bookmark target.
			return append([]mdast.Node{anchor(id)}, children...)
		}
		return children
	}
	if len(children) == 0 {
		return nil
	}
	title, _ := tree.Attr(n, "title")
	return []mdast.Node{&mdast.Link{URL: s.rewrite(href), Title: title, Children: children}}
}

// rewrite unwraps redirect links and points in-document links at the
// anchors this conversion emits.
func (s *state) rewrite(href string) string {
	if strings.HasPrefix(href, googleRedirect) {
		if u, err := url.Parse(href); err == nil {
			if q := u.Query().Get("q"); q != "" {
				href = q
			}
		}
	}
	switch {
	case strings.HasPrefix(href, "#heading="):
		id := strings.TrimPrefix(href, "#heading=")
		if s.opts.HeadingIDs != core.HeadingIDsHidden {
			return "#" + id
		}
		if slug, ok := s.slugs[id]; ok {
			return "#" + slug
		}
		s.logger.Debug("link to unknown heading", "id", id)
		return "#" + id
	case strings.HasPrefix(href, "#bookmark="):
		return "#" + strings.TrimPrefix(href, "#bookmark=")
	}
	return href
}

// wrap builds a phrasing container. Empty results vanish and
// whitespace-only ones lose the wrapper.
func (s *state) wrap(n *html.Node, build func([]mdast.Node) mdast.Node) []mdast.Node {
	expect(n, atom.Strong, atom.B, atom.Em, atom.I, atom.Del, atom.S, atom.Strike, atom.Ins)
	children := s.phrasing(n)
	if len(children) == 0 {
		return nil
	}
	if blankRun(children) {
		return children
	}
	return []mdast.Node{build(children)}
}

func (s *state) inlineCode(n *html.Node) []mdast.Node {
	expect(n, atom.Code, atom.Kbd, atom.Samp, atom.Tt)
	value := tree.Text(n)
	switch {
	case value == "":
		return nil
	case tree.IsBlank(value):
		return []mdast.Node{&mdast.Text{Value: value}}
	}
	return []mdast.Node{&mdast.InlineCode{Value: value}}
}

// island keeps sup and sub as literal markup around converted content.
func (s *state) island(n *html.Node) []mdast.Node {
	expect(n, atom.Sup, atom.Sub)
	children := s.phrasing(n)
	if len(children) == 0 {
		return nil
	}
	out := []mdast.Node{&mdast.HTML{Value: "<" + n.Data + ">"}}
	out = append(out, children...)
	return append(out, &mdast.HTML{Value: "</" + n.Data + ">"})
}
