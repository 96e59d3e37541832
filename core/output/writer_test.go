package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	cases := map[string]string{
		"clip.html":                       "clip",
		"/tmp/in/My Notes.htm":            "My_Notes",
		"-":                               "stdin",
		"https://example.com/docs/intro":  "example_com_docs_intro",
		"https://example.com/a/clip.html": "example_com_a_clip",
		"https://example.com/":            "example_com",
	}
	for in, want := range cases {
		assert.Equal(t, want, Name(in), in)
	}
}

func TestWriteOne(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)

	path, err := w.WriteOne("notes/clip.html", []byte("# x\n"), ".md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.OutputDir, "clip.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# x\n", string(data))
}

func TestWriteMirror(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := w.WriteMirror(filepath.Join("docs", "intro.html"), []byte("{}"), ".json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.OutputDir, "docs", "intro.json"), path)
	assert.FileExists(t, path)

	_, err = w.WriteMirror(filepath.Join("..", "escape.html"), []byte("x"), ".md")
	assert.Error(t, err)
}
