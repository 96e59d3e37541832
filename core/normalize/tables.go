package normalize

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// tableAttrs survive on table parts. style stays until cleanup so the
// alignment pass can resolve it.
var tableAttrs = map[string]bool{
	"colspan": true,
	"rowspan": true,
	"style":   true,
	"align":   true,
}

// TablePass puts rows into a body, drops column groups and empty
// paragraphs in cells and strips cosmetic attributes from table parts.
type TablePass struct{}

func (TablePass) Name() string { return "tables" }

func (TablePass) Transform(t *Tree) {
	doc := goquery.NewDocumentFromNode(t.Root)
	doc.Find("table colgroup").Remove()

	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		table := s.Get(0)
		rows := s.ChildrenFiltered("tr")
		if rows.Length() == 0 {
			return
		}
		body := tree.NewElement(atom.Tbody)
		table.InsertBefore(body, rows.Get(0))
		for _, row := range rows.Nodes {
			table.RemoveChild(row)
			body.AppendChild(row)
		}
	})

	doc.Find("td > p, th > p").Each(func(_ int, s *goquery.Selection) {
		p := s.Get(0)
		if tree.IsBlank(tree.Text(p)) && !tree.HasMedia(p) {
			tree.Remove(p)
		}
	})

	doc.Find("table, thead, tbody, tfoot, tr, td, th").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if tableAttrs[a.Key] {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	})
}

// cellOf returns the cell containing n, or nil.
func cellOf(n *html.Node) *html.Node {
	if tree.Is(n, atom.Td, atom.Th) {
		return n
	}
	return tree.Closest(n, func(p *html.Node) bool { return tree.Is(p, atom.Td, atom.Th) })
}
