package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/mdast"
)

func txt(s string) *mdast.Text { return &mdast.Text{Value: s} }

func para(nodes ...mdast.Node) *mdast.Paragraph { return &mdast.Paragraph{Children: nodes} }

func item(nodes ...mdast.Node) *mdast.ListItem { return &mdast.ListItem{Children: nodes} }

func stringify(opts core.Options, nodes ...mdast.Node) string {
	return NewStringifier(opts).Stringify(&mdast.Root{Children: nodes})
}

func TestStringifyHeadingSpacing(t *testing.T) {
	got := stringify(core.Options{},
		para(txt("para")),
		&mdast.Heading{Depth: 2, Children: []mdast.Node{txt("H")}},
		para(txt("para")))
	assert.Equal(t, "para\n\n\n## H\n\npara\n", got)

	got = stringify(core.Options{},
		&mdast.Heading{Depth: 1, Children: []mdast.Node{txt("A")}},
		&mdast.Heading{Depth: 2, Children: []mdast.Node{txt("B")}})
	assert.Equal(t, "# A\n\n## B\n", got)
}

func TestStringifyKeepsTrailingSpace(t *testing.T) {
	got := stringify(core.Options{}, para(
		txt("Hello "),
		&mdast.Emphasis{Children: []mdast.Node{txt("italics")}},
		txt(" ")))
	assert.Equal(t, "Hello *italics* \n", got)
}

func TestStringifyEmpty(t *testing.T) {
	assert.Equal(t, "", stringify(core.Options{}))
	assert.Equal(t, "", stringify(core.Options{}, para(txt("  "))))
}

func TestStringifyLists(t *testing.T) {
	nested := &mdast.List{Children: []*mdast.ListItem{
		item(para(txt("a")), &mdast.List{Children: []*mdast.ListItem{item(para(txt("b")))}}),
		item(para(txt("c"))),
	}}
	assert.Equal(t, "- a\n  - b\n- c\n", stringify(core.Options{}, nested))

	loose := &mdast.List{Ordered: true, Start: 3, Children: []*mdast.ListItem{
		item(para(txt("a")), para(txt("b"))),
		item(para(txt("c"))),
	}}
	assert.Equal(t, "3. a\n\n   b\n\n4. c\n", stringify(core.Options{}, loose))

	first := &mdast.List{Children: []*mdast.ListItem{item(para(txt("a")))}}
	second := &mdast.List{Children: []*mdast.ListItem{item(para(txt("b")))}}
	assert.Equal(t, "- a\n\n<!-- -->\n\n- b\n", stringify(core.Options{}, first, second))

	assert.Equal(t, "- a\n\n<!-- -->\n\n    x\n", stringify(core.Options{}, first, &mdast.Code{Value: "x"}))
}

func TestStringifyListWithTable(t *testing.T) {
	table := func(s string) *mdast.Table {
		return &mdast.Table{Children: []*mdast.TableRow{
			{Children: []*mdast.TableCell{{Children: []mdast.Node{txt(s)}}}},
		}}
	}

	list := &mdast.List{Children: []*mdast.ListItem{
		item(table("a")),
		item(para(txt("next"))),
	}}
	assert.Equal(t, "- | a   |\n  | --- |\n\n- next\n", stringify(core.Options{}, list))

	nested := &mdast.List{Children: []*mdast.ListItem{
		item(para(txt("a")), &mdast.List{Children: []*mdast.ListItem{item(table("x"))}}),
		item(para(txt("c"))),
	}}
	assert.Equal(t, "- a\n\n  - | x   |\n    | --- |\n\n- c\n", stringify(core.Options{}, nested))
}

func TestStringifyCode(t *testing.T) {
	cases := []struct {
		name string
		opts core.Options
		code *mdast.Code
		want string
	}{
		{"indented", core.Options{}, &mdast.Code{Value: "x := 1\n\ny := 2"}, "    x := 1\n\n    y := 2\n"},
		{"language fences", core.Options{}, &mdast.Code{Lang: "go", Value: "x"}, "```go\nx\n```\n"},
		{"empty fences", core.Options{}, &mdast.Code{}, "```\n```\n"},
		{"leading blank line fences", core.Options{}, &mdast.Code{Value: "\nx"}, "```\n\nx\n```\n"},
		{"long fence", core.Options{CodeBlocks: core.CodeBlocksFenced}, &mdast.Code{Value: "a ``` b"}, "````\na ``` b\n````\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, stringify(c.opts, c.code))
		})
	}
}

func TestStringifyTable(t *testing.T) {
	row := func(cells ...[]mdast.Node) *mdast.TableRow {
		r := &mdast.TableRow{}
		for _, c := range cells {
			r.Children = append(r.Children, &mdast.TableCell{Children: c})
		}
		return r
	}
	table := &mdast.Table{
		Align: []mdast.Align{mdast.AlignNone, mdast.AlignRight, mdast.AlignCenter},
		Children: []*mdast.TableRow{
			row([]mdast.Node{txt("Name")}, []mdast.Node{txt("Qty")}, []mdast.Node{txt("Note")}),
			row([]mdast.Node{txt("a|b")}, []mdast.Node{txt("10")}, []mdast.Node{txt("日本")}),
		},
	}
	want := "| Name | Qty | Note |\n" +
		"| ---- | --: | :--: |\n" +
		"| a\\|b |  10 | 日本 |\n"
	assert.Equal(t, want, stringify(core.Options{}, table))

	breaks := &mdast.Table{Children: []*mdast.TableRow{
		row([]mdast.Node{txt("a")}),
		row([]mdast.Node{txt("x"), &mdast.Break{}, txt("y")}),
	}}
	assert.Equal(t, "| a      |\n| ------ |\n| x<br>y |\n", stringify(core.Options{}, breaks))
}

func TestStringifyEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1. not a list", "1\\. not a list\n"},
		{"*x* [y] `z` ~w~", "\\*x\\* \\[y\\] \\`z\\` \\~w\\~\n"},
		{"snake_case and _z_", "snake_case and \\_z\\_\n"},
		{"<div> a < b", "\\<div> a < b\n"},
		{"a & b &amp;", "a & b \\&amp;\n"},
		{"# h", "\\# h\n"},
		{"- item", "\\- item\n"},
		{"+", "\\+\n"},
		{"---", "\\---\n"},
		{"===", "\\===\n"},
		{"-foo", "-foo\n"},
		{"mid # and > stay", "mid # and > stay\n"},
		{`back\slash`, "back\\\\slash\n"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, stringify(core.Options{}, para(txt(c.in))), c.in)
	}

	got := stringify(core.Options{}, para(txt("a"), &mdast.Break{}, txt("# b")))
	assert.Equal(t, "a\\\n\\# b\n", got)
}

func TestStringifyHeadings(t *testing.T) {
	got := stringify(core.Options{}, &mdast.Heading{Depth: 1, Children: []mdast.Node{txt("C#")}})
	assert.Equal(t, "# C\\#\n", got)

	got = stringify(core.Options{}, &mdast.Heading{Depth: 3, Children: []mdast.Node{txt("a"), &mdast.Break{}, txt("b")}})
	assert.Equal(t, "### a b\n", got)
}

func TestStringifyInline(t *testing.T) {
	cases := []struct {
		name string
		node mdast.Node
		want string
	}{
		{"inner backtick", &mdast.InlineCode{Value: "a`b"}, "``a`b``\n"},
		{"edge backtick", &mdast.InlineCode{Value: "`x"}, "`` `x ``\n"},
		{"strong", &mdast.Strong{Children: []mdast.Node{txt("b")}}, "**b**\n"},
		{"delete", &mdast.Delete{Children: []mdast.Node{txt("old")}}, "~~old~~\n"},
		{"insert", &mdast.Insert{Children: []mdast.Node{txt("new")}}, "<ins>new</ins>\n"},
		{"link", &mdast.Link{URL: "https://x.com/a b", Title: `say "hi"`, Children: []mdast.Node{txt("t")}}, "[t](<https://x.com/a b> \"say \\\"hi\\\"\")\n"},
		{"image", &mdast.Image{URL: "i.png", Alt: "a*b"}, "![a\\*b](i.png)\n"},
		{"html", &mdast.HTML{Value: "<sup>2</sup>"}, "<sup>2</sup>\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, stringify(core.Options{}, para(c.node)))
		})
	}
}

func TestStringifyEmphasisFlanking(t *testing.T) {
	em := func(s string) *mdast.Emphasis { return &mdast.Emphasis{Children: []mdast.Node{txt(s)}} }

	cases := []struct {
		name  string
		nodes []mdast.Node
		want  string
	}{
		{"spaced punctuation", []mdast.Node{txt("a "), em("(bar)"), txt(" c")}, "a *(bar)* c\n"},
		{"intraword", []mdast.Node{txt("x"), &mdast.Strong{Children: []mdast.Node{txt("y")}}, txt("z")}, "x**y**z\n"},
		{"punctuation inside word", []mdast.Node{txt("foo"), em("(bar)"), txt("baz")}, "foo<em>(bar)</em>baz\n"},
		{"closing punctuation", []mdast.Node{em("bar."), txt("baz")}, "<em>bar.</em>baz\n"},
		{"delete after word", []mdast.Node{txt("w"), &mdast.Delete{Children: []mdast.Node{txt("(a)")}}}, "w<del>(a)</del>\n"},
		{"nested", []mdast.Node{txt("a "), &mdast.Strong{Children: []mdast.Node{em("b")}}}, "a ***b***\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, stringify(core.Options{}, para(c.nodes...)))
		})
	}

	var out bytes.Buffer
	md := goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	require.NoError(t, md.Convert([]byte(stringify(core.Options{}, para(txt("foo"), em("(bar)"), txt("baz")))), &out))
	assert.Equal(t, "<p>foo<em>(bar)</em>baz</p>\n", out.String())
}

func TestStringifyBlocks(t *testing.T) {
	quote := &mdast.Blockquote{Children: []mdast.Node{para(txt("a")), para(txt("b"))}}
	assert.Equal(t, "> a\n>\n> b\n", stringify(core.Options{}, quote))
	assert.Equal(t, "a\n\n***\n", stringify(core.Options{}, para(txt("a")), &mdast.ThematicBreak{}))
	assert.Equal(t, "a\n", stringify(core.Options{}, para(&mdast.Break{}, txt("a"), &mdast.Break{})))
}

func TestStringifyPanicsOnForeignNode(t *testing.T) {
	assert.Panics(t, func() {
		stringify(core.Options{}, &mdast.ListItem{})
	})
}
