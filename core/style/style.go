// Package style parses inline `style` attributes and resolves inherited
// property values through the ancestor chain.
//
// Memoized results live in maps keyed by node identity and owned by one
// Resolver, so trees never carry hidden cache fields and resolvers are
// never shared between conversions.
package style

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/tatsuyakari1203/markdown-editor-sub001/core/tree"
	"golang.org/x/net/html"
)

// Properties maps lowercased property names to lowercased values.
type Properties map[string]string

var declaration = regexp.MustCompile(`^\s*([a-zA-Z-]+)\s*:\s*(.*?)\s*$`)

// ParsePropertyList parses the body of a style attribute. Malformed
// entries are skipped and reported in warnings.
func ParsePropertyList(text string) (Properties, []string) {
	props := Properties{}
	var warnings []string
	for _, entry := range strings.Split(text, ";") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		m := declaration.FindStringSubmatch(entry)
		if m == nil || m[2] == "" {
			warnings = append(warnings, strings.TrimSpace(entry))
			continue
		}
		value := strings.ToLower(m[2])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		props[strings.ToLower(m[1])] = value
	}
	return props, warnings
}

type key struct {
	node *html.Node
	prop string
}

type resolved struct {
	value string
	ok    bool
}

// Resolver memoizes own and resolved styles for one tree.
type Resolver struct {
	own      map[*html.Node]Properties
	resolved map[key]resolved
	logger   *slog.Logger
}

// NewResolver creates an empty Resolver. A nil logger discards warnings.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		own:      make(map[*html.Node]Properties),
		resolved: make(map[key]resolved),
		logger:   logger,
	}
}

// Own returns the properties declared on n itself.
func (r *Resolver) Own(n *html.Node) Properties {
	if props, ok := r.own[n]; ok {
		return props
	}
	props := Properties{}
	if n.Type == html.ElementNode {
		if text, ok := tree.Attr(n, "style"); ok {
			var warnings []string
			props, warnings = ParsePropertyList(text)
			for _, w := range warnings {
				r.logger.Warn("skipping malformed style entry", "element", n.Data, "entry", w)
			}
		}
	}
	r.own[n] = props
	return props
}

// Resolve returns the value of prop for n: its own value unless that is
// `inherit`, otherwise the parent's. ok is false when no ancestor sets it.
func (r *Resolver) Resolve(n *html.Node, prop string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	k := key{n, prop}
	if res, ok := r.resolved[k]; ok {
		return res.value, res.ok
	}
	value, ok := r.Own(n)[prop]
	if !ok || value == "inherit" {
		value, ok = r.Resolve(n.Parent, prop)
	}
	r.resolved[k] = resolved{value, ok}
	return value, ok
}

// Invalidate forgets resolved values. Own styles stay cached since the
// style attribute is not rewritten by the pipeline.
func (r *Resolver) Invalidate() {
	clear(r.resolved)
}
