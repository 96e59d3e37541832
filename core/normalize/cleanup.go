package normalize

import (
	"regexp"

	"github.com/JohannesKaufmann/html-to-markdown/v2/collapse"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// allowedAttrs survive cleanup on every element.
var allowedAttrs = map[string]bool{
	"href":                  true,
	"src":                   true,
	"alt":                   true,
	"title":                 true,
	"colspan":               true,
	"rowspan":               true,
	"type":                  true,
	"value":                 true,
	"name":                  true,
	"start":                 true,
	"id":                    true,
	tree.AttrSuggestionID:   true,
	tree.AttrSuggestionType: true,
	tree.AttrCodeLanguage:   true,
}

var (
	asciiSpace    = regexp.MustCompile(`[ \t\n\r\f]+`)
	languageClass = regexp.MustCompile(`(?:^|\s)(?:language|lang)-(\S+)`)
)

var collapseFuncs = &collapse.DomFuncs{
	IsBlockNode: tree.IsBlock,
	IsVoidNode:  tree.IsVoid,
	IsPreformattedNode: func(n *html.Node) bool {
		return tree.Is(n, atom.Pre)
	},
}

// CleanupPass removes presentational leftovers: non-rendering elements,
// comments, disallowed attributes, whitespace runs and empty elements.
type CleanupPass struct{}

func (CleanupPass) Name() string { return "cleanup" }

func (CleanupPass) Transform(t *Tree) {
	doc := goquery.NewDocumentFromNode(t.Root)
	doc.Find("style, meta, script, head, title, link, noscript").Remove()

	tree.WalkPost(t.Root, func(n *html.Node) {
		switch n.Type {
		case html.CommentNode, html.DoctypeNode:
			tree.Remove(n)
		case html.ElementNode:
			if tree.Is(n, atom.Html, atom.Body) {
				tree.Unwrap(n)
				return
			}
			filterAttrs(n)
		}
	})

	collapseText(t.Root)
	for _, n := range tree.Elements(t.Root) {
		if n.Parent != nil && (tree.Is(n, atom.Td, atom.Th) || tree.IsHeading(n)) {
			collapse.Collapse(n, collapseFuncs)
		}
	}

	tree.WalkPost(t.Root, func(n *html.Node) {
		if n.Type == html.ElementNode && isEmpty(n) {
			tree.Remove(n)
		}
	})
}

func filterAttrs(n *html.Node) {
	if tree.Is(n, atom.Code) {
		if _, ok := tree.Attr(n, tree.AttrCodeLanguage); !ok {
			class, _ := tree.Attr(n, "class")
			if m := languageClass.FindStringSubmatch(class); m != nil {
				tree.SetAttr(n, tree.AttrCodeLanguage, m[1])
			}
		}
	}
	cell := tree.Is(n, atom.Td, atom.Th)
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if allowedAttrs[a.Key] || (cell && a.Key == "align") {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

// collapseText folds ASCII whitespace runs into one space outside pre and
// drops empty text nodes.
func collapseText(root *html.Node) {
	tree.WalkPost(root, func(n *html.Node) {
		if n.Type != html.TextNode {
			return
		}
		if tree.Closest(n, isPre) == nil {
			n.Data = asciiSpace.ReplaceAllString(n.Data, " ")
		}
		if n.Data == "" {
			tree.Remove(n)
		}
	})
}

// isEmpty reports elements without meaningful content. Void elements,
// table structure, elements that kept an attribute and media survive.
func isEmpty(n *html.Node) bool {
	switch {
	case tree.IsVoid(n), len(n.Attr) > 0, tree.HasMedia(n):
		return false
	case tree.Is(n, atom.Table, atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr, atom.Td, atom.Th):
		return false
	}
	return tree.IsBlank(tree.Text(n)) && !keepsDescendant(n)
}

// keepsDescendant reports a descendant that survives on its own, such
// as a bookmark anchor or a rule.
func keepsDescendant(n *html.Node) bool {
	for _, el := range tree.Elements(n) {
		if len(el.Attr) > 0 || tree.Is(el, atom.Hr) {
			return true
		}
	}
	return false
}
