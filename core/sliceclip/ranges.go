package sliceclip

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

// Markers delimiting a code block in the spacer text.
const (
	CodeBlockStart = '\uEC03'
	CodeBlockEnd   = '\uEC02'
)

// Style slice types read by the range derivation.
const (
	SliceParagraph   = "paragraph"
	SliceCodeSnippet = "code_snippet"
)

// CodeBlock is a code region recovered from marker pairs. Start and End
// delimit the text between the markers.
type CodeBlock struct {
	ID       string
	Language string
	Text     string
	Start    int
	End      int
}

type paragraphStyle struct {
	HeadingLevel int    `json:"ps_hd"`
	HeadingID    string `json:"ps_hdid"`
}

type codeSnippetStyle struct {
	Language string `json:"cos_l"`
}

// Ranges returns every range the metadata describes, sorted.
func (c *SliceClip) Ranges() ([]core.Range, error) {
	var out []core.Range

	headings, err := c.HeadingRanges()
	if err != nil {
		return nil, err
	}
	out = append(out, headings...)
	out = append(out, c.BookmarkRanges()...)

	blocks, err := c.CodeBlocks()
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		out = append(out, core.Range{Start: b.Start, End: b.End, Kind: core.KindCodeSnippet, ID: b.ID, Language: b.Language})
	}

	if s := c.Resolved.SuggestedInsertions; s != nil {
		out = append(out, s.ranges(core.KindInsertion, c.length())...)
	}
	if s := c.Resolved.SuggestedDeletions; s != nil {
		out = append(out, s.ranges(core.KindDeletion, c.length())...)
	}

	core.SortRanges(out)
	return out, nil
}

func (c *SliceClip) length() int {
	return len([]rune(c.Resolved.Spacers))
}

// ranges walks the per-position id sets. A non-null entry replaces the
// active set: new ids open there, vanished ids close there. Ids still
// open at the end close at length.
func (s *SuggestionSlice) ranges(kind core.RangeKind, length int) []core.Range {
	var out []core.Range
	open := map[string]int{}
	var order []string

	closeID := func(id string, at int) {
		start := open[id]
		delete(open, id)
		if at > start {
			out = append(out, core.Range{Start: start, End: at, Kind: kind, ID: id})
		}
	}

	for i, ids := range s.Sugg {
		if ids == nil {
			continue
		}
		if i > length {
			i = length
		}
		for _, id := range slices.Clone(order) {
			if _, ok := open[id]; ok && !slices.Contains(ids, id) {
				closeID(id, i)
				order = slices.DeleteFunc(order, func(o string) bool { return o == id })
			}
		}
		for _, id := range ids {
			if _, ok := open[id]; !ok {
				open[id] = i
				order = append(order, id)
			}
		}
	}
	for _, id := range order {
		closeID(id, length)
	}
	return out
}

// HeadingRanges returns one range per paragraph style entry carrying a
// heading id. A range stops at the next style entry or line break.
func (c *SliceClip) HeadingRanges() ([]core.Range, error) {
	slice := c.StyleSlice(SliceParagraph)
	if slice == nil {
		return nil, nil
	}
	text := []rune(c.Resolved.Spacers)
	var out []core.Range
	for i, raw := range slice.Styles {
		if isNull(raw) || i >= len(text) {
			continue
		}
		var ps paragraphStyle
		if err := json.Unmarshal(raw, &ps); err != nil {
			return nil, styleError(SliceParagraph, i, err)
		}
		if ps.HeadingID == "" || ps.HeadingLevel <= 0 {
			continue
		}
		end := slice.nextEntry(i, len(text))
		if nl := slices.Index(text[i:end], '\n'); nl >= 0 {
			end = i + nl
		}
		out = append(out, core.Range{Start: i, End: end, Kind: core.KindHeading, ID: ps.HeadingID})
	}
	return out, nil
}

// BookmarkRanges returns a zero-length range at every bookmark position.
func (c *SliceClip) BookmarkRanges() []core.Range {
	ids := make([]string, 0, len(c.Resolved.EntityPositions))
	for id := range c.Resolved.EntityPositions {
		if c.Resolved.EntityTypes[id] == "bookmark" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	length := c.length()
	var out []core.Range
	for _, id := range ids {
		for _, pos := range c.Resolved.EntityPositions[id] {
			if pos < 0 || pos > length {
				continue
			}
			out = append(out, core.Range{Start: pos, End: pos, Kind: core.KindBookmark, ID: id})
		}
	}
	return out
}

// CodeBlocks pairs start and end markers in the spacer text. The
// language is the code_snippet style in effect at the start marker. An
// unmatched start marker runs to the end of the text.
func (c *SliceClip) CodeBlocks() ([]CodeBlock, error) {
	text := []rune(c.Resolved.Spacers)
	slice := c.StyleSlice(SliceCodeSnippet)

	var out []CodeBlock
	start := -1
	flush := func(end int) error {
		lang := ""
		if slice != nil {
			if raw := slice.entryAt(start); raw != nil {
				var cs codeSnippetStyle
				if err := json.Unmarshal(raw, &cs); err != nil {
					return styleError(SliceCodeSnippet, start, err)
				}
				lang = cs.Language
			}
		}
		out = append(out, CodeBlock{
			ID:       fmt.Sprintf("code-%d", len(out)+1),
			Language: lang,
			Text:     string(text[start+1 : end]),
			Start:    start + 1,
			End:      end,
		})
		start = -1
		return nil
	}

	for i, r := range text {
		switch r {
		case CodeBlockStart:
			if start < 0 {
				start = i
			}
		case CodeBlockEnd:
			if start >= 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
			}
		}
	}
	if start >= 0 {
		if err := flush(len(text)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// entryAt returns the non-null entry in effect at pos.
func (s *StyleSlice) entryAt(pos int) json.RawMessage {
	for i := min(pos, len(s.Styles)-1); i >= 0; i-- {
		if !isNull(s.Styles[i]) {
			return s.Styles[i]
		}
	}
	return nil
}

// nextEntry returns the index of the first non-null entry after pos, or
// limit.
func (s *StyleSlice) nextEntry(pos, limit int) int {
	for i := pos + 1; i < len(s.Styles) && i < limit; i++ {
		if !isNull(s.Styles[i]) {
			return i
		}
	}
	return limit
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func styleError(typ string, index int, err error) error {
	return &core.MetadataError{
		Err:   core.ErrMetadataSchema,
		Field: fmt.Sprintf("resolved.dsl_styleslices[%s].stsl_styles[%d]", typ, index),
		Cause: err,
	}
}
