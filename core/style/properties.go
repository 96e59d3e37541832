package style

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Alignment is a horizontal text alignment.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

var monospaceFamilies = map[string]bool{
	"andale mono":      true,
	"anonymous pro":    true,
	"consolas":         true,
	"courier":          true,
	"courier new":      true,
	"cousine":          true,
	"dejavu sans mono": true,
	"droid sans mono":  true,
	"fira code":        true,
	"fira mono":        true,
	"ibm plex mono":    true,
	"inconsolata":      true,
	"jetbrains mono":   true,
	"liberation mono":  true,
	"lucida console":   true,
	"menlo":            true,
	"monaco":           true,
	"monospace":        true,
	"pt mono":          true,
	"roboto mono":      true,
	"source code pro":  true,
	"space mono":       true,
	"ubuntu mono":      true,
}

// IsItalic reports a resolved italic or oblique font style.
func (r *Resolver) IsItalic(n *html.Node) bool {
	v, _ := r.Resolve(n, "font-style")
	return v == "italic" || strings.HasPrefix(v, "oblique")
}

// IsBold reports a resolved weight of bold, bolder or at least 600.
func (r *Resolver) IsBold(n *html.Node) bool {
	v, _ := r.Resolve(n, "font-weight")
	switch v {
	case "bold", "bolder":
		return true
	}
	weight, err := strconv.Atoi(v)
	return err == nil && weight >= 600
}

// VerticalAlign returns "super", "sub" or "" for anything else.
func (r *Resolver) VerticalAlign(n *html.Node) string {
	v, _ := r.Resolve(n, "vertical-align")
	switch v {
	case "super", "sub":
		return v
	}
	return ""
}

// IsLineThrough reports text-decoration(-line) starting with line-through.
func (r *Resolver) IsLineThrough(n *html.Node) bool {
	for _, prop := range []string{"text-decoration", "text-decoration-line"} {
		if v, _ := r.Resolve(n, prop); strings.HasPrefix(v, "line-through") {
			return true
		}
	}
	return false
}

// IsMonospace reports whether the first usable font family is monospace.
func (r *Resolver) IsMonospace(n *html.Node) bool {
	v, ok := r.Resolve(n, "font-family")
	if !ok {
		return false
	}
	return IsMonospaceFamily(v)
}

// IsMonospaceFamily inspects a font-family value. Only the first named
// family counts, since later ones are fallbacks.
func IsMonospaceFamily(value string) bool {
	for _, family := range strings.Split(value, ",") {
		family = strings.Trim(strings.TrimSpace(family), `"'`)
		if family == "" {
			continue
		}
		family = strings.ToLower(family)
		return monospaceFamilies[family] || strings.HasSuffix(family, " mono")
	}
	return false
}

// TextAlign returns the resolved horizontal alignment of n.
func (r *Resolver) TextAlign(n *html.Node) Alignment {
	v, _ := r.Resolve(n, "text-align")
	return ParseAlignment(v)
}

// ParseAlignment maps CSS and HTML alignment keywords.
func ParseAlignment(v string) Alignment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "start":
		return AlignLeft
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	}
	return AlignNone
}
