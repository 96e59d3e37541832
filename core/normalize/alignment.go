package normalize

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/style"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// AlignmentPass records each cell's horizontal alignment in its align
// attribute.
type AlignmentPass struct{}

func (AlignmentPass) Name() string { return "alignment" }

func (AlignmentPass) Transform(t *Tree) {
	for _, cell := range tree.Elements(t.Root) {
		if !tree.Is(cell, atom.Td, atom.Th) {
			continue
		}
		if v, ok := tree.Attr(cell, "align"); ok && style.ParseAlignment(v) != style.AlignNone {
			tree.SetAttr(cell, "align", string(style.ParseAlignment(v)))
			continue
		}
		align := cellAlignment(t.Styles, cell)
		if align == style.AlignNone {
			tree.RemoveAttr(cell, "align")
			continue
		}
		tree.SetAttr(cell, "align", string(align))
	}
}

// cellAlignment uses the cell's own resolved alignment, else the one
// alignment all of its blocks share.
func cellAlignment(styles *style.Resolver, cell *html.Node) style.Alignment {
	if a := styles.TextAlign(cell); a != style.AlignNone {
		return a
	}
	shared := style.AlignNone
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		if !tree.IsBlock(c) {
			if c.Type == html.TextNode && tree.IsBlank(c.Data) {
				continue
			}
			return style.AlignNone
		}
		a := styles.TextAlign(c)
		if a == style.AlignNone || (shared != style.AlignNone && a != shared) {
			return style.AlignNone
		}
		shared = a
	}
	return shared
}
