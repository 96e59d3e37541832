// Package core defines the pipeline interfaces for clipdown.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/mdast"
	"golang.org/x/net/html"
)

// FetchResult holds raw bytes loaded from a file, stdin or URL.
type FetchResult struct {
	Location   string
	StatusCode int
	Data       []byte
}

// DocumentMetadata describes one conversion for the structured outputs.
type DocumentMetadata struct {
	Source      string  `json:"source"`
	Title       string  `json:"title"`
	ConvertedAt string  `json:"converted_at"` // ISO8601
	HasClip     bool    `json:"has_slice_clip"`
	Options     Options `json:"options"`
}

// Section represents a heading-delimited section of content.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// Heading represents a single heading found in the content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// DocumentContent holds the text and structured content of a document.
type DocumentContent struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown"`
	Sections []Section `json:"sections"`
}

// DocumentStructure holds structural metadata parsed from the Markdown.
type DocumentStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	Lists      int       `json:"lists"`
}

// DocumentJSON is the complete JSON output for a single conversion.
type DocumentJSON struct {
	Metadata  DocumentMetadata  `json:"metadata"`
	Content   DocumentContent   `json:"content"`
	Structure DocumentStructure `json:"structure"`
}

// Fetcher loads raw input (clipboard HTML or slice clip JSON).
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*FetchResult, error)
}

// Extractor parses clipboard HTML into a tree, stripping producer noise.
type Extractor interface {
	Extract(html string) (*html.Node, error)
}

// Normalizer rewrites the tree in place into semantic HTML.
type Normalizer interface {
	Normalize(doc *html.Node) error
}

// Transformer converts a normalized tree into a Markdown tree.
type Transformer interface {
	Transform(doc *html.Node) *mdast.Root
}

// Stringifier serializes a Markdown tree.
type Stringifier interface {
	Stringify(root *mdast.Root) string
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta DocumentMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".json").
	Extension() string
}
