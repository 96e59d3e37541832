// Package render — terminal renderer.
// Renders the Markdown with glamour for reading in a terminal.
package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core"
)

// PrettyRenderer styles Markdown for terminal output.
type PrettyRenderer struct {
	style string
	width int
}

// NewPrettyRenderer creates a PrettyRenderer. style is a glamour standard
// style name such as "dark", "light" or "notty".
func NewPrettyRenderer(style string, width int) *PrettyRenderer {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	return &PrettyRenderer{style: style, width: width}
}

// Render returns the styled document.
func (r *PrettyRenderer) Render(markdown string, meta core.DocumentMetadata) ([]byte, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := tr.Render(markdown)
	if err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	return []byte(out), nil
}

// Extension returns the file extension for terminal output.
func (r *PrettyRenderer) Extension() string {
	return ".txt"
}
