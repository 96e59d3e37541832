package rangemap

import (
	"log/slog"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/sliceclip"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Annotate derives ranges from clip and marks them up in root: bookmark
// anchors, heading ids, code snippet languages and suggestion wrappers.
func Annotate(root *html.Node, clip *sliceclip.SliceClip, logger *slog.Logger) error {
	ranges, err := clip.Ranges()
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return nil
	}
	return New(clip.Text(), logger).Map(root, ranges, markup)
}

func markup(r core.Range, span Span) *html.Node {
	switch r.Kind {
	case core.KindBookmark:
		return tree.NewElement(atom.A, html.Attribute{Key: "id", Val: r.ID})
	case core.KindHeading:
		if h := tree.Closest(span.Node, tree.IsHeading); h != nil {
			if _, ok := tree.Attr(h, "id"); !ok {
				tree.SetAttr(h, "id", r.ID)
			}
		}
		return nil
	case core.KindCodeSnippet:
		return tree.NewElement(atom.Code, html.Attribute{Key: tree.AttrCodeLanguage, Val: r.Language})
	case core.KindInsertion:
		return tree.NewElement(atom.Ins,
			html.Attribute{Key: tree.AttrSuggestionID, Val: r.ID},
			html.Attribute{Key: tree.AttrSuggestionType, Val: "insertion"})
	case core.KindDeletion:
		return tree.NewElement(atom.Del,
			html.Attribute{Key: tree.AttrSuggestionID, Val: r.ID},
			html.Attribute{Key: tree.AttrSuggestionType, Val: "deletion"})
	}
	return nil
}
