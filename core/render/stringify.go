// Package render — Markdown stringifier.
// Serializes the Markdown tree with the pipeline's join rules: an extra
// blank line before headings, blank lines around tables and a comment
// between adjacent lists so they stay separate when parsed again.
package render

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/mdast"
)

// listSeparator keeps two adjacent lists (or a list and indented code)
// from merging.
const listSeparator = "<!-- -->"

// MarkdownStringifier writes mdast as Markdown text.
type MarkdownStringifier struct {
	codeBlocks core.CodeBlockStyle
}

// NewStringifier creates a MarkdownStringifier.
func NewStringifier(opts core.Options) *MarkdownStringifier {
	return &MarkdownStringifier{codeBlocks: opts.WithDefaults().CodeBlocks}
}

// Stringify returns the document ending in exactly one newline, or "" for
// an empty document.
func (s *MarkdownStringifier) Stringify(root *mdast.Root) string {
	out := strings.TrimRight(s.blocks(root.Children, false), "\n")
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return out + "\n"
}

// context tracks where phrasing content is written.
type context struct {
	heading bool
	table   bool
}

func (s *MarkdownStringifier) blocks(nodes []mdast.Node, tight bool) string {
	var b strings.Builder
	var prev mdast.Node
	for _, n := range nodes {
		text := s.block(n)
		if text == "" {
			continue
		}
		if prev != nil {
			b.WriteString(s.separator(prev, n, tight))
		}
		b.WriteString(text)
		prev = n
	}
	return b.String()
}

func (s *MarkdownStringifier) separator(prev, next mdast.Node, tight bool) string {
	_, prevList := prev.(*mdast.List)
	_, nextList := next.(*mdast.List)
	_, prevHeading := prev.(*mdast.Heading)
	_, nextHeading := next.(*mdast.Heading)
	_, prevTable := prev.(*mdast.Table)
	_, nextTable := next.(*mdast.Table)

	switch {
	case prevList && (nextList || s.indented(next)):
		return "\n\n" + listSeparator + "\n\n"
	case nextHeading && !prevHeading:
		return "\n\n\n"
	case prevTable || nextTable:
		return "\n\n"
	case tight:
		return "\n"
	}
	return "\n\n"
}

func (s *MarkdownStringifier) block(n mdast.Node) string {
	switch v := n.(type) {
	case *mdast.Paragraph:
		return s.paragraph(v.Children)
	case *mdast.Heading:
		return s.heading(v)
	case *mdast.Code:
		return s.code(v)
	case *mdast.Blockquote:
		return prefixLines(s.blocks(v.Children, false), "> ", ">")
	case *mdast.List:
		return s.list(v)
	case *mdast.Table:
		return s.table(v)
	case *mdast.ThematicBreak:
		return "***"
	case *mdast.HTML:
		return v.Value
	}
	if mdast.IsPhrasing(n) {
		return s.paragraph([]mdast.Node{n})
	}
	panic("render: unexpected block node")
}

func (s *MarkdownStringifier) paragraph(children []mdast.Node) string {
	children = trimBreaks(children)
	text := strings.TrimLeft(s.inline(children, context{}), " \t")
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = escapeLineStart(line)
	}
	return strings.Join(lines, "\n")
}

func trimBreaks(nodes []mdast.Node) []mdast.Node {
	for len(nodes) > 0 {
		if _, ok := nodes[0].(*mdast.Break); !ok {
			break
		}
		nodes = nodes[1:]
	}
	for len(nodes) > 0 {
		if _, ok := nodes[len(nodes)-1].(*mdast.Break); !ok {
			break
		}
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

func (s *MarkdownStringifier) heading(h *mdast.Heading) string {
	marker := strings.Repeat("#", h.Depth)
	text := strings.TrimSpace(s.inline(h.Children, context{heading: true}))
	if text == "" {
		return ""
	}
	// A trailing # would be read as a closing sequence.
	if strings.HasSuffix(text, "#") {
		text = text[:len(text)-1] + `\#`
	}
	return marker + " " + text
}

func (s *MarkdownStringifier) indented(n mdast.Node) bool {
	c, ok := n.(*mdast.Code)
	if !ok || s.codeBlocks != core.CodeBlocksIndented || c.Lang != "" {
		return false
	}
	lines := strings.Split(c.Value, "\n")
	return strings.TrimSpace(lines[0]) != "" && strings.TrimSpace(lines[len(lines)-1]) != ""
}

func (s *MarkdownStringifier) code(c *mdast.Code) string {
	if s.indented(c) {
		lines := strings.Split(c.Value, "\n")
		for i, line := range lines {
			if line != "" {
				lines[i] = "    " + line
			}
		}
		return strings.Join(lines, "\n")
	}
	fence := strings.Repeat("`", max(3, longestRun(c.Value, '`')+1))
	if c.Value == "" {
		return fence + c.Lang + "\n" + fence
	}
	return fence + c.Lang + "\n" + c.Value + "\n" + fence
}

// tight lists hold at most one block per item besides nested lists, and
// no tables at any depth since those need blank lines around them.
func tight(l *mdast.List) bool {
	for _, item := range l.Children {
		blocks := 0
		for _, c := range item.Children {
			if _, ok := c.(*mdast.List); !ok {
				blocks++
			}
		}
		if blocks > 1 || hasTable(item) {
			return false
		}
	}
	return true
}

func hasTable(item *mdast.ListItem) bool {
	for _, c := range item.Children {
		switch v := c.(type) {
		case *mdast.Table:
			return true
		case *mdast.List:
			for _, nested := range v.Children {
				if hasTable(nested) {
					return true
				}
			}
		}
	}
	return false
}

func (s *MarkdownStringifier) list(l *mdast.List) string {
	isTight := tight(l)
	items := make([]string, 0, len(l.Children))
	for i, item := range l.Children {
		marker := "-"
		if l.Ordered {
			marker = strconv.Itoa(l.Start+i) + "."
		}
		content := s.blocks(item.Children, isTight)
		if content == "" {
			items = append(items, marker)
			continue
		}
		indent := strings.Repeat(" ", len(marker)+1)
		lines := strings.Split(content, "\n")
		lines[0] = marker + " " + lines[0]
		for j := 1; j < len(lines); j++ {
			if lines[j] != "" {
				lines[j] = indent + lines[j]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	if isTight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "\n\n")
}

func (s *MarkdownStringifier) table(t *mdast.Table) string {
	t.Normalize()
	cols := t.ColumnCount()
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 3
	}
	cells := make([][]string, len(t.Children))
	for r, row := range t.Children {
		cells[r] = make([]string, cols)
		for c, cell := range row.Children {
			text := s.inline(cell.Children, context{table: true})
			text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
			cells[r][c] = text
			widths[c] = max(widths[c], runewidth.StringWidth(text))
		}
	}

	lines := make([]string, 0, len(cells)+1)
	lines = append(lines, formatRow(cells[0], widths, t.Align))
	delimiter := make([]string, cols)
	for c, w := range widths {
		delimiter[c] = delimiterCell(w, t.Align[c])
	}
	lines = append(lines, "| "+strings.Join(delimiter, " | ")+" |")
	for _, row := range cells[1:] {
		lines = append(lines, formatRow(row, widths, t.Align))
	}
	return strings.Join(lines, "\n")
}

func formatRow(row []string, widths []int, align []mdast.Align) string {
	padded := make([]string, len(row))
	for c, text := range row {
		padded[c] = pad(text, widths[c], align[c])
	}
	return "| " + strings.Join(padded, " | ") + " |"
}

func pad(text string, width int, align mdast.Align) string {
	switch align {
	case mdast.AlignRight:
		return runewidth.FillLeft(text, width)
	case mdast.AlignCenter:
		gap := width - runewidth.StringWidth(text)
		left := gap / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
	}
	return runewidth.FillRight(text, width)
}

func delimiterCell(width int, align mdast.Align) string {
	switch align {
	case mdast.AlignLeft:
		return ":" + strings.Repeat("-", width-1)
	case mdast.AlignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	case mdast.AlignRight:
		return strings.Repeat("-", width-1) + ":"
	}
	return strings.Repeat("-", width)
}

// span is one rendered phrasing node. Delimited spans keep their inner
// text so the markers can be chosen once both neighbours are known.
type span struct {
	text   string
	marker string
	tag    string
}

func (s *MarkdownStringifier) inline(nodes []mdast.Node, ctx context) string {
	spans := make([]span, len(nodes))
	for i, n := range nodes {
		spans[i] = s.span(n, ctx)
	}

	var b strings.Builder
	for i, sp := range spans {
		if sp.marker == "" {
			b.WriteString(sp.text)
			continue
		}
		if sp.text == "" {
			continue
		}
		before, _ := utf8.DecodeLastRuneInString(b.String())
		if flanking(before, following(spans[i+1:]), sp.text) {
			b.WriteString(sp.marker + sp.text + sp.marker)
		} else {
			b.WriteString("<" + sp.tag + ">" + sp.text + "</" + sp.tag + ">")
		}
	}
	return b.String()
}

func (s *MarkdownStringifier) span(n mdast.Node, ctx context) span {
	switch v := n.(type) {
	case *mdast.Text:
		return span{text: escapeText(v.Value, ctx)}
	case *mdast.Emphasis:
		return span{text: s.inline(v.Children, ctx), marker: "*", tag: "em"}
	case *mdast.Strong:
		return span{text: s.inline(v.Children, ctx), marker: "**", tag: "strong"}
	case *mdast.Delete:
		return span{text: s.inline(v.Children, ctx), marker: "~~", tag: "del"}
	case *mdast.Insert:
		if inner := s.inline(v.Children, ctx); inner != "" {
			return span{text: "<ins>" + inner + "</ins>"}
		}
		return span{}
	case *mdast.InlineCode:
		return span{text: codeSpan(v.Value, ctx)}
	case *mdast.Break:
		switch {
		case ctx.heading:
			return span{text: " "}
		case ctx.table:
			return span{text: "<br>"}
		}
		return span{text: "\\\n"}
	case *mdast.Link:
		return span{text: "[" + s.inline(v.Children, ctx) + "](" + destination(v.URL) + title(v.Title) + ")"}
	case *mdast.Image:
		return span{text: "![" + escapeText(v.Alt, ctx) + "](" + destination(v.URL) + title(v.Title) + ")"}
	case *mdast.HTML:
		return span{text: v.Value}
	}
	panic("render: unexpected phrasing node")
}

// following returns the first rune the spans write, or utf8.RuneError
// when they write nothing.
func following(spans []span) rune {
	for _, sp := range spans {
		if sp.text == "" {
			continue
		}
		if sp.marker != "" {
			return rune(sp.marker[0])
		}
		r, _ := utf8.DecodeRuneInString(sp.text)
		return r
	}
	return utf8.RuneError
}

// flanking reports whether markers around inner open and close emphasis
// under CommonMark's delimiter run rules, given the runes around it.
// utf8.RuneError stands for the start or end of the line.
func flanking(before, after rune, inner string) bool {
	first, _ := utf8.DecodeRuneInString(inner)
	last, _ := utf8.DecodeLastRuneInString(inner)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	opens := !isPunct(first) || isBoundary(before)
	closes := !isPunct(last) || isBoundary(after)
	return opens && closes
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isBoundary(r rune) bool {
	return r == utf8.RuneError || unicode.IsSpace(r) || isPunct(r)
}

func codeSpan(value string, ctx context) string {
	if ctx.table {
		value = strings.ReplaceAll(value, "|", `\|`)
	}
	fence := strings.Repeat("`", longestRun(value, '`')+1)
	if strings.HasPrefix(value, "`") || strings.HasSuffix(value, "`") ||
		(strings.HasPrefix(value, " ") && strings.HasSuffix(value, " ") && strings.Trim(value, " ") != "") {
		value = " " + value + " "
	}
	return fence + value + fence
}

func destination(url string) string {
	if url == "" {
		return "<>"
	}
	if strings.ContainsAny(url, " <>()") {
		r := strings.NewReplacer("<", `\<`, ">", `\>`)
		return "<" + r.Replace(url) + ">"
	}
	return url
}

func title(t string) string {
	if t == "" {
		return ""
	}
	return ` "` + strings.ReplaceAll(t, `"`, `\"`) + `"`
}

func longestRun(s string, r rune) int {
	longest, run := 0, 0
	for _, c := range s {
		if c == r {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

// escapeText backslash-escapes characters that would start Markdown
// syntax. Underscores inside words, and < or & that cannot open a tag or
// entity, are left alone.
func escapeText(s string, ctx context) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		switch r {
		case '\\', '*', '`', '[', ']', '~':
			b.WriteByte('\\')
		case '_':
			if i == 0 || i == len(runes)-1 || !isWord(runes[i-1]) || !isWord(runes[i+1]) {
				b.WriteByte('\\')
			}
		case '<':
			if i+1 < len(runes) && (unicode.IsLetter(runes[i+1]) || strings.ContainsRune("/!?", runes[i+1])) {
				b.WriteByte('\\')
			}
		case '&':
			if entityLike(runes[i+1:]) {
				b.WriteByte('\\')
			}
		case '|':
			if ctx.table {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// entityLike reports text continuing a character reference after &.
func entityLike(rest []rune) bool {
	for i, r := range rest {
		switch {
		case r == ';':
			return i > 0
		case r == '#' && i == 0, isWord(r):
		default:
			return false
		}
	}
	return false
}

// escapeLineStart escapes markers that would turn a paragraph line into
// another block.
func escapeLineStart(line string) string {
	body := strings.TrimLeft(line, " ")
	lead := line[:len(line)-len(body)]
	if body == "" {
		return line
	}
	switch body[0] {
	case '#', '>':
		return lead + `\` + body
	case '-', '+', '=':
		if len(body) == 1 || body[1] == ' ' || body[1] == '\t' || strings.Trim(body, string(body[0])+" ") == "" {
			return lead + `\` + body
		}
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		digits := len(body) - len(strings.TrimLeft(body, "0123456789"))
		if digits <= 9 && digits < len(body) && (body[digits] == '.' || body[digits] == ')') &&
			(digits+1 == len(body) || body[digits+1] == ' ' || body[digits+1] == '\t') {
			return lead + body[:digits] + `\` + body[digits:]
		}
	}
	return line
}

func prefixLines(text, prefix, empty string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = empty
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
