package pipeline

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

func options(mutate ...func(*core.Options)) core.Options {
	opts := core.Options{Logger: slog.New(slog.DiscardHandler)}
	for _, m := range mutate {
		m(&opts)
	}
	return opts
}

func convert(t *testing.T, src string, metadata any, opts core.Options) string {
	t.Helper()
	md, err := Convert(src, metadata, opts)
	require.NoError(t, err)
	return md
}

const docsClip = `<meta charset="utf-8"><b style="font-weight:normal;" id="docs-internal-guid-1a2b">` +
	`<h1 dir="ltr" style="line-height:1.38;margin-top:20pt"><span style="font-size:20pt;font-weight:400">Title</span></h1>` +
	`<p dir="ltr" style="line-height:1.38"><span style="font-weight:700">Bold</span>` +
	`<span style="font-weight:400"> and </span><span style="font-style:italic;font-weight:400">italic</span></p>` +
	`<ul style="margin-top:0"><li dir="ltr"><p dir="ltr"><span>one</span></p></li>` +
	`<li dir="ltr"><p dir="ltr"><span>two</span></p></li></ul>` +
	`<br class="Apple-interchange-newline"></b>`

func TestConvertDocsClipboard(t *testing.T) {
	got := convert(t, docsClip, nil, options())
	assert.Equal(t, "# Title\n\n**Bold** and *italic*\n\n- one\n- two\n", got)
}

func TestConvertWithoutContent(t *testing.T) {
	assert.Equal(t, "", convert(t, "", nil, options()))
	assert.Equal(t, "", convert(t, `<p> </p><p><br></p>`, nil, options()))
}

func TestNestedListRepair(t *testing.T) {
	got := convert(t, `<ul><li>A</li><ul><li>B</li></ul></ul>`, nil, options())
	assert.Equal(t, "- A\n  - B\n", got)
}

func TestTableInListKeepsBlankLine(t *testing.T) {
	got := convert(t, `<ul><li><table><tr><td>a</td></tr></table></li><li>next</li></ul>`, nil, options())
	assert.Equal(t, "- | a   |\n  | --- |\n\n- next\n", got)
}

func TestEmphasisNextToPunctuation(t *testing.T) {
	got := convert(t, `<p>foo<em>(bar)</em>baz</p>`, nil, options())
	assert.Equal(t, "foo<em>(bar)</em>baz\n", got)
}

func TestWhitespaceStaysOutsideMarkers(t *testing.T) {
	got := convert(t, `<p>Hello<em> italics </em></p>`, nil, options())
	assert.Equal(t, "Hello *italics* \n", got)
}

func TestHeadingSpacing(t *testing.T) {
	got := convert(t, `<p>para</p><h2>H</h2><p>para</p>`, nil, options())
	assert.Equal(t, "para\n\n\n## H\n\npara\n", got)
}

func TestMonospaceParagraphsBecomeCode(t *testing.T) {
	var src strings.Builder
	for _, line := range []string{"a", "b", "c"} {
		src.WriteString(`<p><span style="font-family:Consolas,monospace">` + line + `</span></p>`)
	}

	assert.Equal(t, "    a\n    b\n    c\n", convert(t, src.String(), nil, options()))
	fenced := options(func(o *core.Options) { o.CodeBlocks = core.CodeBlocksFenced })
	assert.Equal(t, "```\na\nb\nc\n```\n", convert(t, src.String(), nil, fenced))
}

func suggestionClip() map[string]any {
	insertions := make([]any, 9)
	insertions[0] = []string{"s1"}
	insertions[8] = []string{}
	deletions := make([]any, 9)
	deletions[0] = []string{}
	deletions[8] = []string{"d1"}
	return map[string]any{"resolved": map[string]any{
		"dsl_spacers":             "new textold text",
		"dsl_styleslices":         []any{},
		"dsl_suggestedinsertions": map[string]any{"sgsl_sugg": insertions},
		"dsl_suggesteddeletions":  map[string]any{"sgsl_sugg": deletions},
	}}
}

func TestSuggestionModes(t *testing.T) {
	const src = `<p><span>new text</span><span>old text</span></p>`
	cases := map[core.SuggestionMode]string{
		core.SuggestionsAccept: "new text\n",
		core.SuggestionsReject: "old text\n",
		core.SuggestionsHide:   "",
		core.SuggestionsShow:   "<ins>new text</ins>~~old text~~\n",
	}
	for mode, want := range cases {
		t.Run(string(mode), func(t *testing.T) {
			opts := options(func(o *core.Options) { o.Suggestions = mode })
			assert.Equal(t, want, convert(t, src, suggestionClip(), opts))
		})
	}
}

func TestSliceClipEnrichment(t *testing.T) {
	headings := `{"resolved":{"dsl_spacers":"Intro\ngo","dsl_styleslices":[` +
		`{"stsl_type":"paragraph","stsl_styles":[{"ps_hd":2,"ps_hdid":"h.k1"}]}]}}`
	src := `<h2><span>Intro</span></h2><p><a href="#heading=h.k1">go</a></p>`

	assert.Equal(t, "## Intro\n\n[go](#intro)\n", convert(t, src, headings, options()))

	htmlIDs := options(func(o *core.Options) { o.HeadingIDs = core.HeadingIDsHTML })
	assert.Equal(t, "## <a id=\"h.k1\"></a>Intro\n\n[go](#h.k1)\n", convert(t, src, headings, htmlIDs))

	wrapped := `{"data":` + headings + `}`
	assert.Equal(t, "## Intro\n\n[go](#intro)\n", convert(t, src, wrapped, options()))

	bookmark := map[string]any{"resolved": map[string]any{
		"dsl_spacers":           "ab",
		"dsl_styleslices":       []any{},
		"dsl_entitypositionmap": map[string][]int{"id.x": {1}},
		"dsl_entitytypemap":     map[string]string{"id.x": "bookmark"},
	}}
	assert.Equal(t, "a<a id=\"id.x\"></a>b\n", convert(t, `<p>ab</p>`, bookmark, options()))

	snippet := map[string]any{"resolved": map[string]any{
		"dsl_spacers": "\uEC03x = 1\uEC02",
		"dsl_styleslices": []any{
			map[string]any{"stsl_type": "code_snippet", "stsl_styles": []any{map[string]any{"cos_l": "python"}}},
		},
	}}
	assert.Equal(t, "```python\nx = 1\n```\n", convert(t, `<p>x = 1</p>`, snippet, options()))
}

func TestRangeMismatch(t *testing.T) {
	clip := map[string]any{"resolved": map[string]any{
		"dsl_spacers":             "Hello Worms",
		"dsl_styleslices":         []any{},
		"dsl_suggestedinsertions": map[string]any{"sgsl_sugg": []any{nil, nil, nil, nil, nil, nil, []string{"s1"}}},
	}}
	const src = `<p>Hello World</p>`

	var logs bytes.Buffer
	opts := core.Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	assert.Equal(t, "Hello World\n", convert(t, src, clip, opts))
	assert.Contains(t, logs.String(), "metadata does not match the html")

	strict := options(func(o *core.Options) { o.StrictMapping = true })
	_, err := Convert(src, clip, strict)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRangeMismatch)
	var mapping *core.MappingError
	require.True(t, errors.As(err, &mapping))
	assert.Equal(t, 6, mapping.Offset)
}

func TestConvertErrors(t *testing.T) {
	cases := []struct {
		name     string
		metadata any
		opts     core.Options
		kind     error
	}{
		{"syntax", `{"resolved":`, options(), core.ErrMetadataSyntax},
		{"schema", `{}`, options(), core.ErrMetadataSchema},
		{"missing spacers", `{"resolved":{"dsl_styleslices":[]}}`, options(), core.ErrMetadataSchema},
		{"wrong shape", `[]`, options(), core.ErrMetadataSchema},
		{"option", nil, options(func(o *core.Options) { o.CodeBlocks = "tabs" }), core.ErrInvalidOption},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			md, err := Convert(`<p>x</p>`, c.metadata, c.opts)
			assert.ErrorIs(t, err, c.kind)
			assert.Empty(t, md)
		})
	}

	_, err := Convert(`<p>x</p>`, `{}`, options())
	var metaErr *core.MetadataError
	require.True(t, errors.As(err, &metaErr))
	assert.Equal(t, "resolved", metaErr.Field)
}

func TestConcurrentConversions(t *testing.T) {
	p := New(options())
	want, err := p.Convert(docsClip, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = p.Convert(docsClip, nil)
		}()
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

const roundTrip = `<h1>Title</h1>` +
	`<p><b>Bold</b> and <i>italic</i> with <a href="https://example.com/">a link</a>.</p>` +
	`<h2>List</h2><ul><li>one</li><li>two<ul><li>nested</li></ul></li></ul>` +
	"<pre><code>x := 1\ny := 2</code></pre>" +
	`<blockquote><p>quoted</p></blockquote>` +
	`<table><tr><td>A</td><td>B</td></tr><tr><td>1</td><td>2</td></tr></table>`

func TestIdempotence(t *testing.T) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	toHTML := func(src string) string {
		var buf bytes.Buffer
		require.NoError(t, md.Convert([]byte(src), &buf))
		return buf.String()
	}

	first := convert(t, roundTrip, nil, options())
	assert.Equal(t, "# Title\n\n"+
		"**Bold** and *italic* with [a link](https://example.com/).\n\n\n"+
		"## List\n\n"+
		"- one\n- two\n  - nested\n\n"+
		"<!-- -->\n\n"+
		"    x := 1\n    y := 2\n\n"+
		"> quoted\n\n"+
		"| A   | B   |\n| --- | --- |\n| 1   | 2   |\n", first)

	second := convert(t, toHTML(first), nil, options())
	assert.Equal(t, first, second)

	third := convert(t, toHTML(second), nil, options())
	assert.Equal(t, second, third)
}
