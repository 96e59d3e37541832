// Package mdast is the Markdown syntax tree produced by the transformer
// and consumed by the stringifier.
//
// Node is a closed union: only the types in this package implement it.
// Consumers switch over the concrete types and treat anything else as a
// programming error.
package mdast

// Node is any Markdown tree node.
type Node interface {
	mdNode()
}

// Align is a table column alignment.
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type (
	// Root is the document.
	Root struct{ Children []Node }

	Paragraph struct{ Children []Node }

	Heading struct {
		Depth    int // 1-6
		Children []Node
	}

	Blockquote struct{ Children []Node }

	ThematicBreak struct{}

	// Code is a code block. Lang is empty when unknown.
	Code struct {
		Lang  string
		Value string
	}

	List struct {
		Ordered  bool
		Start    int
		Children []*ListItem
	}

	ListItem struct{ Children []Node }

	// Table keeps len(Align) equal to the column count.
	Table struct {
		Align    []Align
		Children []*TableRow
	}

	TableRow struct{ Children []*TableCell }

	TableCell struct{ Children []Node }

	Text struct{ Value string }

	Emphasis struct{ Children []Node }

	Strong struct{ Children []Node }

	Delete struct{ Children []Node }

	// Insert has no Markdown syntax and is written as <ins>…</ins>.
	Insert struct{ Children []Node }

	InlineCode struct{ Value string }

	Break struct{}

	Link struct {
		URL      string
		Title    string
		Children []Node
	}

	Image struct {
		URL   string
		Alt   string
		Title string
	}

	// HTML is a literal markup island written without escaping.
	HTML struct{ Value string }
)

func (*Root) mdNode()          {}
func (*Paragraph) mdNode()     {}
func (*Heading) mdNode()       {}
func (*Blockquote) mdNode()    {}
func (*ThematicBreak) mdNode() {}
func (*Code) mdNode()          {}
func (*List) mdNode()          {}
func (*ListItem) mdNode()      {}
func (*Table) mdNode()         {}
func (*TableRow) mdNode()      {}
func (*TableCell) mdNode()     {}
func (*Text) mdNode()          {}
func (*Emphasis) mdNode()      {}
func (*Strong) mdNode()        {}
func (*Delete) mdNode()        {}
func (*Insert) mdNode()        {}
func (*InlineCode) mdNode()    {}
func (*Break) mdNode()         {}
func (*Link) mdNode()          {}
func (*Image) mdNode()         {}
func (*HTML) mdNode()          {}

// IsPhrasing reports whether n is inline content.
func IsPhrasing(n Node) bool {
	switch n.(type) {
	case *Text, *Emphasis, *Strong, *Delete, *Insert, *InlineCode, *Break, *Link, *Image, *HTML:
		return true
	}
	return false
}

// ColumnCount returns the widest row of t.
func (t *Table) ColumnCount() int {
	n := 0
	for _, row := range t.Children {
		if len(row.Children) > n {
			n = len(row.Children)
		}
	}
	return n
}

// Normalize pads every row to the column count and sizes Align to match.
func (t *Table) Normalize() {
	cols := t.ColumnCount()
	for _, row := range t.Children {
		for len(row.Children) < cols {
			row.Children = append(row.Children, &TableCell{})
		}
	}
	switch {
	case len(t.Align) > cols:
		t.Align = t.Align[:cols]
	case len(t.Align) < cols:
		t.Align = append(t.Align, make([]Align, cols-len(t.Align))...)
	}
}

// PlainText concatenates the literal text under n. Markup islands are
// skipped.
func PlainText(n Node) string {
	var buf []byte
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Text:
			buf = append(buf, v.Value...)
		case *InlineCode:
			buf = append(buf, v.Value...)
		case *Code:
			buf = append(buf, v.Value...)
		case *Image:
			buf = append(buf, v.Alt...)
		case *Break:
			buf = append(buf, ' ')
		default:
			for _, c := range Children(n) {
				walk(c)
			}
		}
	}
	walk(n)
	return string(buf)
}

// Children returns the child nodes of containers and nil for leaves.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Root:
		return v.Children
	case *Paragraph:
		return v.Children
	case *Heading:
		return v.Children
	case *Blockquote:
		return v.Children
	case *ListItem:
		return v.Children
	case *TableCell:
		return v.Children
	case *Emphasis:
		return v.Children
	case *Strong:
		return v.Children
	case *Delete:
		return v.Children
	case *Insert:
		return v.Children
	case *Link:
		return v.Children
	case *List:
		out := make([]Node, len(v.Children))
		for i, c := range v.Children {
			out[i] = c
		}
		return out
	case *Table:
		out := make([]Node, len(v.Children))
		for i, c := range v.Children {
			out[i] = c
		}
		return out
	case *TableRow:
		out := make([]Node, len(v.Children))
		for i, c := range v.Children {
			out[i] = c
		}
		return out
	}
	return nil
}
