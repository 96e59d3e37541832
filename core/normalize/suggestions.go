package normalize

import (
	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
)

// SuggestionPass resolves suggestion wrappers per Options.Suggestions.
type SuggestionPass struct{}

func (SuggestionPass) Name() string { return "suggestions" }

func (SuggestionPass) Transform(t *Tree) {
	mode := t.Options.Suggestions
	if mode == core.SuggestionsShow {
		return
	}

	marked := dom.FindAllNodes(t.Root, func(n *html.Node) bool {
		_, ok := tree.Attr(n, tree.AttrSuggestionID)
		return ok
	})
	for _, n := range marked {
		kind, _ := tree.Attr(n, tree.AttrSuggestionType)
		switch {
		case mode == core.SuggestionsHide:
			tree.Remove(n)
		case mode == core.SuggestionsAccept && kind == "deletion",
			mode == core.SuggestionsReject && kind == "insertion":
			tree.Remove(n)
		default:
			tree.Unwrap(n)
		}
	}
}
