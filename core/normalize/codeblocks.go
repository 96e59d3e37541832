package normalize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// CodeBlockPass merges maximal runs of sibling paragraphs whose text is
// entirely inside code elements into one pre > code block.
type CodeBlockPass struct{}

func (CodeBlockPass) Name() string { return "code-blocks" }

func (CodeBlockPass) Transform(t *Tree) {
	var parents []*html.Node
	for _, n := range append([]*html.Node{t.Root}, tree.Elements(t.Root)...) {
		if tree.Is(n, atom.Pre, atom.Code, atom.P) || cellOf(n) != nil {
			continue
		}
		parents = append(parents, n)
	}
	for _, parent := range parents {
		mergeRuns(parent)
	}
}

func mergeRuns(parent *html.Node) {
	var run []*html.Node
	flush := func() {
		// Leading and trailing empty lines stay paragraphs.
		for len(run) > 0 && tree.IsBlank(tree.Text(run[0])) {
			run = run[1:]
		}
		for len(run) > 0 && tree.IsBlank(tree.Text(run[len(run)-1])) {
			run = run[:len(run)-1]
		}
		if len(run) > 0 {
			replaceRun(run)
		}
		run = nil
	}

	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && tree.IsBlank(c.Data):
		case isCodeLine(c):
			run = append(run, c)
		default:
			flush()
		}
	}
	flush()
}

// isCodeLine reports a p or div whose visible text all sits in code.
func isCodeLine(n *html.Node) bool {
	if !tree.Is(n, atom.P, atom.Div) || tree.HasMedia(n) {
		return false
	}
	var stray bool
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch {
		case stray:
		case c.Type == html.TextNode:
			stray = !tree.IsBlank(c.Data)
		case tree.Is(c, atom.Code):
		case tree.IsBlock(c) && c != n:
			stray = true
		default:
			for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
				walk(gc)
			}
		}
	}
	walk(n)
	return !stray
}

func replaceRun(run []*html.Node) {
	var lines []string
	lang := ""
	for _, line := range run {
		lines = append(lines, lineText(line))
		if lang == "" {
			if code := firstWithLanguage(line); code != nil {
				lang, _ = tree.Attr(code, tree.AttrCodeLanguage)
			}
		}
	}

	code := tree.NewElement(atom.Code)
	if lang != "" {
		tree.SetAttr(code, tree.AttrCodeLanguage, lang)
	}
	code.AppendChild(tree.NewText(strings.Join(lines, "\n")))
	pre := tree.NewElement(atom.Pre)
	pre.AppendChild(code)

	first, last := run[0], run[len(run)-1]
	first.Parent.InsertBefore(pre, first)
	for n := first; n != nil; {
		next := n.NextSibling
		n.Parent.RemoveChild(n)
		if n == last {
			break
		}
		n = next
	}
}

// lineText flattens a paragraph into one code line: br becomes a line
// break and NBSP a space.
func lineText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(strings.ReplaceAll(c.Data, "\u00a0", " "))
		case tree.Is(c, atom.Br):
			b.WriteByte('\n')
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			walk(gc)
		}
	}
	walk(n)
	return strings.TrimSuffix(b.String(), "\n")
}

func firstWithLanguage(n *html.Node) *html.Node {
	for _, el := range tree.Elements(n) {
		if v, ok := tree.Attr(el, tree.AttrCodeLanguage); ok && v != "" {
			return el
		}
	}
	return nil
}
