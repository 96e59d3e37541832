// Package rangemap projects spacer-text ranges onto the text nodes of an
// HTML tree.
//
// The spacer text is the clipboard metadata's flat rendition of the
// document. HTML represents some of its characters (line breaks, cell
// boundaries, code markers) only structurally, so the mapper aligns the
// two on non-whitespace content and splices wrapper elements around the
// matched text.
package rangemap

import (
	"log/slog"
	"sort"
	"unicode"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Span locates the part of a range inside one text node. Start and End
// are rune offsets into Node.Data.
type Span struct {
	Node  *html.Node
	Start int
	End   int
}

// ApplyFunc is called for every part of a range. A non-nil result is
// spliced in place of the span with the span's text moved inside it; nil
// leaves the node untouched.
type ApplyFunc func(r core.Range, span Span) *html.Node

// Mapper walks a tree against one spacer text.
type Mapper struct {
	text   []rune
	logger *slog.Logger
}

// New returns a Mapper for text. A nil logger discards output.
func New(text string, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Mapper{text: []rune(text), logger: logger}
}

// segment is a text node awaiting ranges. base is the spacer offset of
// the node's first rune, min the first rune ranges may cover and limit
// the spacer offset where the node's matched content ends.
type segment struct {
	node   *html.Node
	base   int
	min    int
	length int
	limit  int
}

// Map applies ranges to root. ranges need not be sorted. It stops at the
// first text node that disagrees with the spacer text and returns a
// *core.MappingError; ranges applied before that point stay applied.
func (m *Mapper) Map(root *html.Node, ranges []core.Range, apply ApplyFunc) error {
	pending := make([]core.Range, len(ranges))
	copy(pending, ranges)
	core.SortRanges(pending)

	cursor := 0
	for _, n := range renderedText(root) {
		runes := []rune(n.Data)
		lead := countFunc(runes, unicode.IsSpace)
		if lead == len(runes) {
			continue
		}
		trail := countFunc(reversed(runes), unicode.IsSpace)
		content := runes[lead : len(runes)-trail]

		pos := m.nonspaceIndex(cursor)
		if !m.matches(pos, content) {
			return &core.MappingError{
				Offset: pos,
				Want:   string(m.text[pos:min(pos+len(content), len(m.text))]),
				Got:    string(content),
			}
		}
		cursor = pos + len(content)

		if len(pending) == 0 {
			continue
		}
		queue := []segment{{node: n, base: pos - lead, min: lead, length: len(runes), limit: cursor}}
		for len(queue) > 0 && len(pending) > 0 {
			seg := queue[0]
			queue = queue[1:]
			next := m.fill(seg, &pending, apply)
			queue = append(next, queue...)
		}
	}

	for _, r := range pending {
		m.logger.Debug("range not mapped", "kind", r.Kind, "id", r.ID, "start", r.Start, "end", r.End)
	}
	return nil
}

// fill applies pending ranges starting inside seg until one splices the
// node, then returns the segments created by the splice.
func (m *Mapper) fill(seg segment, pending *[]core.Range, apply ApplyFunc) []segment {
	for len(*pending) > 0 && (*pending)[0].Start < seg.limit {
		r := (*pending)[0]
		*pending = (*pending)[1:]

		ls := clamp(r.Start-seg.base, seg.min, seg.length)
		le := clamp(r.End-seg.base, ls, seg.length)
		if r.End > seg.limit {
			rest := r
			rest.Start = seg.limit
			*pending = insertSorted(*pending, rest)
			le = seg.length
			if ls > le {
				ls = le
			}
		}
		if ls == le && r.Len() > 0 {
			continue
		}

		wrapper := apply(r, Span{Node: seg.node, Start: ls, End: le})
		if wrapper == nil {
			continue
		}
		return splice(seg, ls, le, wrapper)
	}
	return nil
}

// splice replaces seg's node by [before, wrapper(middle), after], reusing
// the original node for before.
func splice(seg segment, ls, le int, wrapper *html.Node) []segment {
	n := seg.node
	runes := []rune(n.Data)
	before, middle, after := runes[:ls], runes[ls:le], runes[le:]

	tree.InsertAfter(n, wrapper)
	var next []segment
	if len(middle) > 0 {
		mid := tree.NewText(string(middle))
		wrapper.AppendChild(mid)
		next = append(next, segment{
			node:   mid,
			base:   seg.base + ls,
			length: len(middle),
			limit:  min(seg.limit, seg.base+le),
		})
	}
	if len(after) > 0 {
		rest := tree.NewText(string(after))
		tree.InsertAfter(wrapper, rest)
		next = append(next, segment{
			node:   rest,
			base:   seg.base + le,
			length: len(after),
			limit:  seg.limit,
		})
	}
	if len(before) > 0 {
		n.Data = string(before)
	} else {
		tree.Remove(n)
	}
	return next
}

// nonspaceIndex returns the first offset at or after from holding
// visible content.
func (m *Mapper) nonspaceIndex(from int) int {
	for from < len(m.text) && skippable(m.text[from]) {
		from++
	}
	return from
}

func (m *Mapper) matches(pos int, content []rune) bool {
	if pos+len(content) > len(m.text) {
		return false
	}
	for i, r := range content {
		s := m.text[pos+i]
		if r != s && !(unicode.IsSpace(r) && unicode.IsSpace(s)) {
			return false
		}
	}
	return true
}

func skippable(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r) || unicode.Is(unicode.Co, r)
}

// renderedText returns text nodes in document order, skipping containers
// whose text is never displayed.
func renderedText(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			out = append(out, n)
			return
		case tree.Is(n, atom.Head, atom.Style, atom.Script, atom.Title, atom.Template, atom.Noscript):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func insertSorted(ranges []core.Range, r core.Range) []core.Range {
	i := sort.Search(len(ranges), func(i int) bool { return core.RangeLess(r, ranges[i]) })
	ranges = append(ranges, core.Range{})
	copy(ranges[i+1:], ranges[i:])
	ranges[i] = r
	return ranges
}

func countFunc(runes []rune, fn func(rune) bool) int {
	n := 0
	for n < len(runes) && fn(runes[n]) {
		n++
	}
	return n
}

func reversed(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[len(runes)-1-i] = r
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
