package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// spaceSensitive elements become delimiters that cannot start or end
// with whitespace in Markdown.
var spaceSensitive = []atom.Atom{
	atom.Em, atom.I, atom.Strong, atom.B, atom.Ins, atom.Del, atom.S, atom.Strike,
}

// WhitespacePass moves leading and trailing whitespace of space-sensitive
// elements to sibling text just outside them.
type WhitespacePass struct{}

func (WhitespacePass) Name() string { return "whitespace" }

func (WhitespacePass) Transform(t *Tree) {
	for _, n := range tree.Elements(t.Root) {
		if !tree.Is(n, spaceSensitive...) || n.Parent == nil || tree.Closest(n, isPre) != nil {
			continue
		}
		if lead := takeEdge(n, true); lead != "" {
			insertText(n, lead, true)
		}
		if trail := takeEdge(n, false); trail != "" {
			insertText(n, trail, false)
		}
	}
}

func isPre(n *html.Node) bool { return tree.Is(n, atom.Pre) }

// takeEdge strips whitespace from the first (or last) text descendants of
// n, descending only through space-sensitive elements, and returns it.
func takeEdge(n *html.Node, leading bool) string {
	taken := ""
	for {
		c := edgeChild(n, leading)
		for c != nil && tree.Is(c, spaceSensitive...) && c.FirstChild != nil {
			c = edgeChild(c, leading)
		}
		if tree.Is(c, spaceSensitive...) {
			// Emptied by an earlier round.
			tree.Remove(c)
			continue
		}
		if c == nil || c.Type != html.TextNode {
			return taken
		}

		var kept string
		if leading {
			kept = strings.TrimLeftFunc(c.Data, unicode.IsSpace)
			taken += c.Data[:len(c.Data)-len(kept)]
		} else {
			kept = strings.TrimRightFunc(c.Data, unicode.IsSpace)
			taken = c.Data[len(kept):] + taken
		}
		if kept != "" {
			c.Data = kept
			return taken
		}
		tree.Remove(c)
	}
}

func edgeChild(n *html.Node, leading bool) *html.Node {
	if leading {
		return n.FirstChild
	}
	return n.LastChild
}

// insertText places s right before (or after) n, joining an adjacent
// text sibling when there is one.
func insertText(n *html.Node, s string, before bool) {
	if before {
		if p := n.PrevSibling; p != nil && p.Type == html.TextNode {
			p.Data += s
			return
		}
		n.Parent.InsertBefore(tree.NewText(s), n)
		return
	}
	if next := n.NextSibling; next != nil && next.Type == html.TextNode {
		next.Data = s + next.Data
		return
	}
	tree.InsertAfter(n, tree.NewText(s))
}
