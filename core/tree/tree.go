// Package tree holds small helpers over golang.org/x/net/html nodes that
// every pipeline stage shares: element construction, attribute access,
// content classification and splicing.
package tree

import (
	"strings"
	"unicode"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attributes carried by pipeline-created elements.
const (
	AttrSuggestionID   = "data-suggestion-id"
	AttrSuggestionType = "data-suggestion-type"
	AttrCodeLanguage   = "data-code-language"
)

// NewElement returns a detached element. Data and DataAtom are both set
// so callers may dispatch on either.
func NewElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     attrs,
	}
}

// NewText returns a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Is reports whether n is an element with one of the given tags.
func Is(n *html.Node, tags ...atom.Atom) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	a := TagOf(n)
	for _, t := range tags {
		if a == t {
			return true
		}
	}
	return false
}

// TagOf returns the atom of an element, looking it up when the node was
// built without one.
func TagOf(n *html.Node) atom.Atom {
	if n.DataAtom != 0 {
		return n.DataAtom
	}
	return atom.Lookup([]byte(n.Data))
}

// Attr returns the value of key and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	return dom.GetAttribute(n, key)
}

// SetAttr replaces or appends key.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops key if present.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

// SameAttrs reports whether a and b carry identical attribute sets.
func SameAttrs(a, b *html.Node) bool {
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for _, attr := range a.Attr {
		v, ok := Attr(b, attr.Key)
		if !ok || v != attr.Val {
			return false
		}
	}
	return true
}

// Text returns the concatenated text of n's subtree.
func Text(n *html.Node) string {
	return dom.CollectText(n)
}

// IsVoid reports elements that never have children.
func IsVoid(n *html.Node) bool {
	return Is(n, atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr)
}

// IsMedia reports replaced or embedded content.
func IsMedia(n *html.Node) bool {
	return Is(n, atom.Img, atom.Picture, atom.Video, atom.Audio, atom.Iframe,
		atom.Svg, atom.Canvas, atom.Object, atom.Embed, atom.Math)
}

// HasMedia reports whether n or any descendant is media.
func HasMedia(n *html.Node) bool {
	return IsMedia(n) || dom.ContainsNode(n, IsMedia)
}

// IsBlock reports block-level elements.
func IsBlock(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if dom.NameIsBlockNode(n.Data) {
		return true
	}
	return Is(n, atom.Tbody, atom.Thead, atom.Tfoot, atom.Tr, atom.Td, atom.Th,
		atom.Body, atom.Html, atom.Center, atom.Dd, atom.Dt)
}

// IsHeading reports h1-h6.
func IsHeading(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && dom.NameIsHeading(n.Data)
}

// IsBlank reports whether s has only whitespace (NBSP included).
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// Unwrap replaces n by its children.
func Unwrap(n *html.Node) {
	dom.UnwrapNode(n)
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	dom.RemoveNode(n)
}

// WrapChildren moves every child of n into wrapper and appends wrapper
// to n.
func WrapChildren(n, wrapper *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		wrapper.AppendChild(c)
	}
	n.AppendChild(wrapper)
}

// InsertAfter places n right after ref.
func InsertAfter(ref, n *html.Node) {
	if ref.NextSibling != nil {
		ref.Parent.InsertBefore(n, ref.NextSibling)
		return
	}
	ref.Parent.AppendChild(n)
}

// Children snapshots the child list so callers may mutate while iterating.
func Children(n *html.Node) []*html.Node {
	return dom.AllChildNodes(n)
}

// Closest returns the nearest ancestor (excluding n) matching fn.
func Closest(n *html.Node, fn func(*html.Node) bool) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if fn(p) {
			return p
		}
	}
	return nil
}

// Elements returns every element below root in document order.
func Elements(root *html.Node) []*html.Node {
	return dom.FindAllNodes(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode
	})
}

// WalkPost calls fn on every node below root, children before parents.
// fn may detach the node it is given.
func WalkPost(root *html.Node, fn func(*html.Node)) {
	for _, c := range Children(root) {
		WalkPost(c, fn)
		fn(c)
	}
}
