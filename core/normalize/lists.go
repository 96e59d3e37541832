package normalize

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// NestedListPass moves a list nested directly inside another list into
// the preceding list item.
type NestedListPass struct{}

func (NestedListPass) Name() string { return "nested-lists" }

func (NestedListPass) Transform(t *Tree) {
	for _, list := range tree.Elements(t.Root) {
		if !isList(list) {
			continue
		}
		for _, child := range tree.Children(list) {
			if !isList(child) {
				continue
			}
			item := previousElement(child)
			if !tree.Is(item, atom.Li) {
				t.Logger.Warn("nested list has no preceding list item", "list", list.Data)
				continue
			}
			list.RemoveChild(child)
			item.AppendChild(child)
		}
	}
}

func isList(n *html.Node) bool {
	return tree.Is(n, atom.Ul, atom.Ol)
}

// previousElement skips whitespace text between siblings.
func previousElement(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		switch {
		case p.Type == html.ElementNode:
			return p
		case p.Type == html.TextNode && !tree.IsBlank(p.Data):
			return nil
		}
	}
	return nil
}
