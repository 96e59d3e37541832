package transform

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugger generates GitHub-style heading anchors, deduplicated with
// -1, -2, … suffixes in the order headings are seen.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns the next unique slug for text.
func (s *Slugger) Slug(text string) string {
	base := Slug(text)
	slug := base
	for {
		if _, taken := s.occurrences[slug]; !taken {
			break
		}
		s.occurrences[base]++
		slug = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[slug] = 0
	return slug
}

// Slug lowercases text, drops punctuation and symbols and turns spaces
// into hyphens. It does not deduplicate.
func Slug(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('-')
		case r == '_', unicode.IsLetter(r), unicode.IsNumber(r), unicode.Is(unicode.M, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
