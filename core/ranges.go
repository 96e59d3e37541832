package core

import "sort"

// RangeKind is the semantic annotation carried by a Range.
type RangeKind int

// The declaration order is the application order for ranges starting at
// the same offset.
const (
	KindBookmark RangeKind = iota
	KindHeading
	KindCodeSnippet
	KindInsertion
	KindDeletion
)

func (k RangeKind) String() string {
	switch k {
	case KindBookmark:
		return "bookmark"
	case KindHeading:
		return "heading"
	case KindCodeSnippet:
		return "code-snippet"
	case KindInsertion:
		return "insertion"
	case KindDeletion:
		return "deletion"
	}
	return "unknown"
}

// Range is a [Start, End) span in spacer text rune offsets.
type Range struct {
	Start    int
	End      int
	Kind     RangeKind
	ID       string // suggestion, bookmark or heading id
	Language string // code snippets only
}

// Len returns the number of spacer runes covered.
func (r Range) Len() int { return r.End - r.Start }

// RangeLess orders ranges by start, then kind, then longer first so
// outer wrappers are applied before the ranges nested inside them.
func RangeLess(a, b Range) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.End > b.End
}

// SortRanges sorts in place with RangeLess.
func SortRanges(ranges []Range) {
	sort.SliceStable(ranges, func(i, j int) bool {
		return RangeLess(ranges[i], ranges[j])
	})
}
