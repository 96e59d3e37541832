package normalize

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// aliases lists the tags that already carry a wrapper's meaning.
var aliases = map[atom.Atom][]atom.Atom{
	atom.Em:     {atom.Em, atom.I},
	atom.Strong: {atom.Strong, atom.B},
	atom.Sup:    {atom.Sup},
	atom.Sub:    {atom.Sub},
	atom.Del:    {atom.Del, atom.S, atom.Strike},
	atom.Code:   {atom.Code, atom.Pre, atom.Kbd, atom.Samp, atom.Tt},
}

// flattened wrappers carry no meaning once styles are resolved.
var flattened = []atom.Atom{atom.Span, atom.Font, atom.U, atom.Small, atom.Big}

// mergeable tags are joined with an identical adjacent sibling.
var mergeable = []atom.Atom{
	atom.Strong, atom.B, atom.Em, atom.I, atom.Del, atom.S, atom.Strike,
	atom.Sup, atom.Sub, atom.Code, atom.Ins,
}

// InlineStylePass turns resolved inline styles into semantic elements,
// flattens meaningless wrappers and merges adjacent equal elements.
type InlineStylePass struct{}

func (InlineStylePass) Name() string { return "inline-styles" }

func (InlineStylePass) Transform(t *Tree) {
	for _, n := range tree.Elements(t.Root) {
		if tree.IsBlock(n) || tree.IsVoid(n) || tree.IsMedia(n) {
			continue
		}
		// Outermost first.
		var wrappers []atom.Atom
		if t.Styles.IsItalic(n) {
			wrappers = append(wrappers, atom.Em)
		}
		if t.Styles.IsBold(n) {
			wrappers = append(wrappers, atom.Strong)
		}
		switch t.Styles.VerticalAlign(n) {
		case "super":
			wrappers = append(wrappers, atom.Sup)
		case "sub":
			wrappers = append(wrappers, atom.Sub)
		}
		if t.Styles.IsLineThrough(n) {
			wrappers = append(wrappers, atom.Del)
		}
		if t.Styles.IsMonospace(n) && !tree.HasMedia(n) {
			wrappers = append(wrappers, atom.Code)
		}

		target := n
		for _, w := range wrappers {
			if hasMeaning(n, w) {
				continue
			}
			el := tree.NewElement(w)
			tree.WrapChildren(target, el)
			target = el
		}
	}

	for _, n := range tree.Elements(t.Root) {
		if tree.Is(n, flattened...) {
			tree.Unwrap(n)
		}
	}

	mergeSiblings(t.Root)
}

// hasMeaning reports whether n or an ancestor already is a wrapper of
// kind w.
func hasMeaning(n *html.Node, w atom.Atom) bool {
	tags := aliases[w]
	if tree.Is(n, tags...) {
		return true
	}
	return tree.Closest(n, func(p *html.Node) bool { return tree.Is(p, tags...) }) != nil
}

// mergeSiblings joins adjacent same-tag siblings with identical
// attributes, parents before children so merged contents merge again.
func mergeSiblings(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !tree.Is(c, mergeable...) {
			continue
		}
		for next := c.NextSibling; next != nil && next.Type == html.ElementNode &&
			tree.TagOf(next) == tree.TagOf(c) && tree.SameAttrs(c, next); next = c.NextSibling {
			for gc := next.FirstChild; gc != nil; gc = next.FirstChild {
				next.RemoveChild(gc)
				c.AppendChild(gc)
			}
			n.RemoveChild(next)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		mergeSiblings(c)
	}
}
