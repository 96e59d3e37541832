// Package sliceclip parses and validates the editor's out-of-band
// clipboard metadata ("slice clip") and derives spacer-text ranges from
// its position-indexed side tables.
package sliceclip

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

// maxEnvelopes bounds how many {"data": …} layers are unwrapped.
const maxEnvelopes = 4

// SliceClip is the decoded metadata.
type SliceClip struct {
	Resolved Resolved `json:"resolved"`
}

// Resolved holds the document slice. Spacers is the flat visible text
// that every position index refers to.
type Resolved struct {
	Spacers             string            `json:"dsl_spacers"`
	StyleSlices         []StyleSlice      `json:"dsl_styleslices"`
	SuggestedInsertions *SuggestionSlice  `json:"dsl_suggestedinsertions,omitempty"`
	SuggestedDeletions  *SuggestionSlice  `json:"dsl_suggesteddeletions,omitempty"`
	EntityPositions     map[string][]int  `json:"dsl_entitypositionmap,omitempty"`
	EntityTypes         map[string]string `json:"dsl_entitytypemap,omitempty"`
}

// StyleSlice is a position-indexed run list of one style type. A non-null
// entry applies from its index until the next non-null entry.
type StyleSlice struct {
	Type   string            `json:"stsl_type"`
	Styles []json.RawMessage `json:"stsl_styles"`
}

// SuggestionSlice lists the active suggestion ids per position. A null
// entry keeps the previous set, any array replaces it.
type SuggestionSlice struct {
	Sugg [][]string `json:"sgsl_sugg"`
}

// raw mirrors SliceClip with presence-detecting fields for validation.
type raw struct {
	Resolved *struct {
		Spacers             *string           `json:"dsl_spacers"`
		StyleSlices         *[]StyleSlice     `json:"dsl_styleslices"`
		SuggestedInsertions *SuggestionSlice  `json:"dsl_suggestedinsertions"`
		SuggestedDeletions  *SuggestionSlice  `json:"dsl_suggesteddeletions"`
		EntityPositions     map[string][]int  `json:"dsl_entitypositionmap"`
		EntityTypes         map[string]string `json:"dsl_entitytypemap"`
	} `json:"resolved"`
}

// Parse accepts nil, a JSON string or bytes, json.RawMessage, a decoded
// map or a *SliceClip. A nil result with a nil error means no metadata:
// an empty or blank string counts as absent, the way a clipboard without
// the slice clip flavor reports it.
func Parse(metadata any) (*SliceClip, error) {
	switch v := metadata.(type) {
	case nil:
		return nil, nil
	case *SliceClip:
		if v == nil {
			return nil, nil
		}
		return v, nil
	case SliceClip:
		return &v, nil
	case string:
		return ParseBytes([]byte(v))
	case []byte:
		return ParseBytes(v)
	case json.RawMessage:
		return ParseBytes(v)
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, &core.MetadataError{Err: core.ErrMetadataSyntax, Cause: err}
		}
		return ParseBytes(data)
	default:
		return nil, &core.MetadataError{
			Err:   core.ErrMetadataSchema,
			Cause: fmt.Errorf("unsupported metadata type %T", metadata),
		}
	}
}

// ParseBytes decodes JSON, unwrapping {"data": …} envelopes whose value
// is either an object or a JSON-encoded string, then validates the
// required fields.
func ParseBytes(data []byte) (*SliceClip, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	for i := 0; ; i++ {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, schemaOrSyntax(err)
		}
		inner, wrapped := probe["data"]
		if _, resolved := probe["resolved"]; resolved || !wrapped {
			break
		}
		if i == maxEnvelopes {
			return nil, &core.MetadataError{Err: core.ErrMetadataSchema, Field: "data", Cause: fmt.Errorf("more than %d envelopes", maxEnvelopes)}
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '"' {
			var s string
			if err := json.Unmarshal(inner, &s); err != nil {
				return nil, &core.MetadataError{Err: core.ErrMetadataSyntax, Field: "data", Cause: err}
			}
			inner = []byte(s)
		}
		data = inner
	}

	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, schemaOrSyntax(err)
	}
	if err := validate(&r); err != nil {
		return nil, err
	}

	res := r.Resolved
	return &SliceClip{Resolved: Resolved{
		Spacers:             *res.Spacers,
		StyleSlices:         *res.StyleSlices,
		SuggestedInsertions: res.SuggestedInsertions,
		SuggestedDeletions:  res.SuggestedDeletions,
		EntityPositions:     res.EntityPositions,
		EntityTypes:         res.EntityTypes,
	}}, nil
}

func validate(r *raw) error {
	switch {
	case r.Resolved == nil:
		return &core.MetadataError{Err: core.ErrMetadataSchema, Field: "resolved"}
	case r.Resolved.Spacers == nil:
		return &core.MetadataError{Err: core.ErrMetadataSchema, Field: "resolved.dsl_spacers"}
	case r.Resolved.StyleSlices == nil:
		return &core.MetadataError{Err: core.ErrMetadataSchema, Field: "resolved.dsl_styleslices"}
	}
	return nil
}

// schemaOrSyntax separates well-formed JSON of the wrong shape from
// malformed input.
func schemaOrSyntax(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &core.MetadataError{Err: core.ErrMetadataSchema, Field: typeErr.Field, Cause: err}
	}
	return &core.MetadataError{Err: core.ErrMetadataSyntax, Cause: err}
}

// Text returns the spacer text.
func (c *SliceClip) Text() string {
	return c.Resolved.Spacers
}

// StyleSlice returns the slice of the given type, or nil.
func (c *SliceClip) StyleSlice(typ string) *StyleSlice {
	for i := range c.Resolved.StyleSlices {
		if c.Resolved.StyleSlices[i].Type == typ {
			return &c.Resolved.StyleSlices[i]
		}
	}
	return nil
}
