package core

import (
	"fmt"
	"log/slog"
)

// CodeBlockStyle selects how code blocks are written.
type CodeBlockStyle string

const (
	CodeBlocksIndented CodeBlockStyle = "indented"
	CodeBlocksFenced   CodeBlockStyle = "fenced"
)

// HeadingIDMode selects how heading ids appear in the output.
type HeadingIDMode string

const (
	// HeadingIDsHidden drops ids; in-document links point at generated slugs.
	HeadingIDsHidden HeadingIDMode = "hidden"
	// HeadingIDsHTML emits an <a id="…"></a> anchor inside the heading.
	HeadingIDsHTML HeadingIDMode = "html"
	// HeadingIDsExtended emits the `{#id}` attribute syntax.
	HeadingIDsExtended HeadingIDMode = "extended"
)

// SuggestionMode selects how suggested edits are resolved.
type SuggestionMode string

const (
	SuggestionsShow   SuggestionMode = "show"
	SuggestionsHide   SuggestionMode = "hide"
	SuggestionsAccept SuggestionMode = "accept"
	SuggestionsReject SuggestionMode = "reject"
)

// Options configures a conversion. The zero value is valid and resolves
// to the defaults.
type Options struct {
	CodeBlocks  CodeBlockStyle `json:"code_blocks"`
	HeadingIDs  HeadingIDMode  `json:"heading_ids"`
	Suggestions SuggestionMode `json:"suggestions"`

	// StrictMapping returns range-mapping mismatches to the caller
	// instead of degrading to cleanup-only output.
	StrictMapping bool `json:"strict_mapping"`

	Logger *slog.Logger `json:"-"`
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.CodeBlocks == "" {
		o.CodeBlocks = CodeBlocksIndented
	}
	if o.HeadingIDs == "" {
		o.HeadingIDs = HeadingIDsHidden
	}
	if o.Suggestions == "" {
		o.Suggestions = SuggestionsReject
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Validate reports the first option holding an unknown value.
func (o Options) Validate() error {
	switch o.CodeBlocks {
	case "", CodeBlocksIndented, CodeBlocksFenced:
	default:
		return fmt.Errorf("%w: code blocks %q (want indented or fenced)", ErrInvalidOption, o.CodeBlocks)
	}
	switch o.HeadingIDs {
	case "", HeadingIDsHidden, HeadingIDsHTML, HeadingIDsExtended:
	default:
		return fmt.Errorf("%w: heading ids %q (want hidden, html or extended)", ErrInvalidOption, o.HeadingIDs)
	}
	switch o.Suggestions {
	case "", SuggestionsShow, SuggestionsHide, SuggestionsAccept, SuggestionsReject:
	default:
		return fmt.Errorf("%w: suggestions %q (want show, hide, accept or reject)", ErrInvalidOption, o.Suggestions)
	}
	return nil
}
