// Package batch — input filtering rules.
// Decides which files are clipboard HTML and where their sidecars live.
package batch

import (
	"os"
	"path/filepath"
	"strings"
)

// htmlExtensions are the file extensions converted in batch mode.
var htmlExtensions = map[string]bool{
	".html": true,
	".htm":  true,
}

// sidecarSuffixes are tried in order next to an HTML file.
var sidecarSuffixes = []string{".sliceclip.json", ".json"}

// IsHTML reports whether path has an HTML extension, in any case.
func IsHTML(path string) bool {
	return htmlExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsHidden reports dot-files and dot-directories.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// SidecarCandidates returns the metadata paths tried for htmlPath.
// Example: docs/a.html → docs/a.sliceclip.json, docs/a.json
func SidecarCandidates(htmlPath string) []string {
	base := strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath))
	out := make([]string, 0, len(sidecarSuffixes))
	for _, suffix := range sidecarSuffixes {
		out = append(out, base+suffix)
	}
	return out
}

// FindSidecar returns the first existing candidate, or "".
func FindSidecar(htmlPath string) string {
	for _, c := range SidecarCandidates(htmlPath) {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c
		}
	}
	return ""
}
