package transform

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/mdast"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// maxColspan bounds colspan expansion.
const maxColspan = 100

func (s *state) table(n *html.Node) mdast.Node {
	expect(n, atom.Table)
	t := &mdast.Table{}
	var columns [][]mdast.Align

	for _, tr := range rows(n) {
		row := &mdast.TableRow{}
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if !tree.Is(c, atom.Td, atom.Th) {
				continue
			}
			col := len(row.Children)
			row.Children = append(row.Children, &mdast.TableCell{Children: s.cell(c)})
			for len(columns) <= col {
				columns = append(columns, nil)
			}
			if a := cellAlign(c); a != mdast.AlignNone {
				columns[col] = append(columns[col], a)
			}
			for range colspan(c) - 1 {
				row.Children = append(row.Children, &mdast.TableCell{})
			}
		}
		if len(row.Children) > 0 {
			t.Children = append(t.Children, row)
		}
	}
	if len(t.Children) == 0 {
		return nil
	}

	for _, seen := range columns {
		t.Align = append(t.Align, shared(seen))
	}
	t.Normalize()
	return t
}

// rows returns the table's rows in order, looking through row groups but
// not into nested tables.
func rows(table *html.Node) []*html.Node {
	var out []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case tree.Is(c, atom.Tr):
			out = append(out, c)
		case tree.Is(c, atom.Thead, atom.Tbody, atom.Tfoot):
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if tree.Is(r, atom.Tr) {
					out = append(out, r)
				}
			}
		}
	}
	return out
}

// cell flattens a cell to one line of phrasing content, joining blocks
// with <br>.
func (s *state) cell(n *html.Node) []mdast.Node {
	expect(n, atom.Td, atom.Th)
	var out []mdast.Node
	for i, b := range s.flow(n) {
		if i > 0 {
			out = append(out, &mdast.HTML{Value: "<br>"})
		}
		switch v := b.(type) {
		case *mdast.Paragraph:
			out = append(out, v.Children...)
		case *mdast.Heading:
			out = append(out, v.Children...)
		default:
			out = append(out, &mdast.Text{Value: mdast.PlainText(b)})
		}
	}
	return breaksToHTML(out)
}

// breaksToHTML replaces hard breaks, which cannot appear in a table row.
func breaksToHTML(nodes []mdast.Node) []mdast.Node {
	for i, m := range nodes {
		if _, ok := m.(*mdast.Break); ok {
			nodes[i] = &mdast.HTML{Value: "<br>"}
			continue
		}
		breaksToHTML(mdast.Children(m))
	}
	return nodes
}

func cellAlign(n *html.Node) mdast.Align {
	v, _ := tree.Attr(n, "align")
	switch v {
	case "left":
		return mdast.AlignLeft
	case "center":
		return mdast.AlignCenter
	case "right":
		return mdast.AlignRight
	}
	return mdast.AlignNone
}

func colspan(n *html.Node) int {
	v, _ := tree.Attr(n, "colspan")
	span, err := strconv.Atoi(v)
	if err != nil || span < 1 {
		return 1
	}
	return min(span, maxColspan)
}

// shared returns the alignment every aligned cell of a column agrees on.
func shared(seen []mdast.Align) mdast.Align {
	if len(seen) == 0 {
		return mdast.AlignNone
	}
	for _, a := range seen[1:] {
		if a != seen[0] {
			return mdast.AlignNone
		}
	}
	return seen[0]
}
