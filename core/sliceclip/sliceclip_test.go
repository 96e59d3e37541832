package sliceclip

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

const minimal = `{"resolved":{"dsl_spacers":"Hello","dsl_styleslices":[]}}`

func TestParseForms(t *testing.T) {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(minimal), &decoded))

	inner, err := json.Marshal(minimal)
	require.NoError(t, err)
	stringEnvelope := `{"data":` + string(inner) + `}`

	cases := map[string]any{
		"string":          minimal,
		"bytes":           []byte(minimal),
		"raw message":     json.RawMessage(minimal),
		"map":             decoded,
		"object envelope": `{"data":` + minimal + `}`,
		"string envelope": stringEnvelope,
		"nested envelope": `{"data":{"data":` + string(inner) + `}}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			clip, err := Parse(input)
			require.NoError(t, err)
			require.NotNil(t, clip)
			assert.Equal(t, "Hello", clip.Text())
			assert.Empty(t, clip.Resolved.StyleSlices)
		})
	}
}

func TestParseNothing(t *testing.T) {
	for _, input := range []any{nil, "", "   ", []byte(" \n"), (*SliceClip)(nil)} {
		clip, err := Parse(input)
		assert.NoError(t, err)
		assert.Nil(t, clip)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input any
		kind  error
		field string
	}{
		{"syntax", `{"resolved":`, core.ErrMetadataSyntax, ""},
		{"missing resolved", `{"other":1}`, core.ErrMetadataSchema, "resolved"},
		{"missing spacers", `{"resolved":{"dsl_styleslices":[]}}`, core.ErrMetadataSchema, "resolved.dsl_spacers"},
		{"missing style slices", `{"resolved":{"dsl_spacers":""}}`, core.ErrMetadataSchema, "resolved.dsl_styleslices"},
		{"null style slices", `{"resolved":{"dsl_spacers":"","dsl_styleslices":null}}`, core.ErrMetadataSchema, "resolved.dsl_styleslices"},
		{"wrong type", `{"resolved":{"dsl_spacers":5,"dsl_styleslices":[]}}`, core.ErrMetadataSchema, "resolved.dsl_spacers"},
		{"bad envelope string", `{"data":"{nope"}`, core.ErrMetadataSyntax, ""},
		{"top-level array", `[]`, core.ErrMetadataSchema, ""},
		{"top-level string", `"x"`, core.ErrMetadataSchema, ""},
		{"top-level number", `42`, core.ErrMetadataSchema, ""},
		{"array envelope", `{"data":[1]}`, core.ErrMetadataSchema, ""},
		{"unsupported type", 42, core.ErrMetadataSchema, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.kind)

			var metaErr *core.MetadataError
			require.True(t, errors.As(err, &metaErr))
			assert.Equal(t, c.field, metaErr.Field)
		})
	}
}

func TestParseEnvelopeLimit(t *testing.T) {
	doc := minimal
	for range maxEnvelopes + 2 {
		doc = `{"data":` + doc + `}`
	}
	_, err := Parse(doc)
	assert.ErrorIs(t, err, core.ErrMetadataSchema)
}

func clip(t *testing.T, resolved string) *SliceClip {
	t.Helper()
	c, err := Parse(`{"resolved":` + resolved + `}`)
	require.NoError(t, err)
	return c
}

func TestSuggestionRanges(t *testing.T) {
	c := clip(t, `{
		"dsl_spacers": "abcdefghij",
		"dsl_styleslices": [],
		"dsl_suggestedinsertions": {"sgsl_sugg": [null, ["s1"], null, ["s1","s2"], ["s2"], [], null, ["s3"]]},
		"dsl_suggesteddeletions": {"sgsl_sugg": [["d1"]]}
	}`)

	ranges, err := c.Ranges()
	require.NoError(t, err)
	assert.Equal(t, []core.Range{
		{Start: 0, End: 10, Kind: core.KindDeletion, ID: "d1"},
		{Start: 1, End: 4, Kind: core.KindInsertion, ID: "s1"},
		{Start: 3, End: 5, Kind: core.KindInsertion, ID: "s2"},
		{Start: 7, End: 10, Kind: core.KindInsertion, ID: "s3"},
	}, ranges)
}

func TestHeadingRanges(t *testing.T) {
	c := clip(t, `{
		"dsl_spacers": "Title\nBody text\nNext",
		"dsl_styleslices": [
			{"stsl_type": "paragraph", "stsl_styles": [{"ps_hd": 1, "ps_hdid": "h.top"}, null, null, null, null, null, {"ps_hd": 0}, null, null, null, null, null, null, null, null, null, {"ps_hd": 2, "ps_hdid": "h.next"}]}
		]
	}`)

	ranges, err := c.HeadingRanges()
	require.NoError(t, err)
	assert.Equal(t, []core.Range{
		{Start: 0, End: 5, Kind: core.KindHeading, ID: "h.top"},
		{Start: 16, End: 20, Kind: core.KindHeading, ID: "h.next"},
	}, ranges)
}

func TestBookmarkRanges(t *testing.T) {
	c := clip(t, `{
		"dsl_spacers": "abc",
		"dsl_styleslices": [],
		"dsl_entitypositionmap": {"id.b": [2], "id.a": [0, 9], "id.img": [1]},
		"dsl_entitytypemap": {"id.a": "bookmark", "id.b": "bookmark", "id.img": "inline_object"}
	}`)

	assert.Equal(t, []core.Range{
		{Start: 0, End: 0, Kind: core.KindBookmark, ID: "id.a"},
		{Start: 2, End: 2, Kind: core.KindBookmark, ID: "id.b"},
	}, c.BookmarkRanges())
}

func TestCodeBlocks(t *testing.T) {
	spacers := "intro\n" + string(CodeBlockStart) + "x := 1\ny := 2" + string(CodeBlockEnd) + "\n" +
		string(CodeBlockStart) + "plain" + string(CodeBlockEnd) + string(CodeBlockStart) + "tail"
	spacersJSON, err := json.Marshal(spacers)
	require.NoError(t, err)

	styles := make([]any, 30)
	styles[6] = map[string]string{"cos_l": "go"}
	styles[29] = map[string]string{"cos_l": ""}
	stylesJSON, err := json.Marshal(styles)
	require.NoError(t, err)

	c := clip(t, `{"dsl_spacers": `+string(spacersJSON)+`, "dsl_styleslices": [{"stsl_type": "code_snippet", "stsl_styles": `+string(stylesJSON)+`}]}`)

	blocks, err := c.CodeBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, CodeBlock{ID: "code-1", Language: "go", Text: "x := 1\ny := 2", Start: 7, End: 20}, blocks[0])
	assert.Equal(t, "plain", blocks[1].Text)
	assert.Equal(t, "go", blocks[1].Language, "style stays in effect until the next entry")
	assert.Equal(t, "tail", blocks[2].Text)
	assert.Equal(t, "", blocks[2].Language)
	assert.Equal(t, len([]rune(spacers)), blocks[2].End)
}

func TestBadStyleEntry(t *testing.T) {
	c := clip(t, `{"dsl_spacers": "abc", "dsl_styleslices": [{"stsl_type": "paragraph", "stsl_styles": [{"ps_hd": "one"}]}]}`)
	_, err := c.Ranges()
	assert.ErrorIs(t, err, core.ErrMetadataSchema)
}
