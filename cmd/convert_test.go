package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clip = `<meta charset="utf-8"><b style="font-weight:normal;" id="docs-internal-guid-1">` +
	`<h1>Title</h1><p>Hello <span style="font-weight:700">world</span></p></b>`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestValidateFlags(t *testing.T) {
	defer func() { flagJSON, flagPretty = false, false }()

	require.NoError(t, validateFlags())
	flagJSON, flagPretty = true, true
	assert.Error(t, validateFlags())
}

func TestConvertToStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.html")
	require.NoError(t, os.WriteFile(path, []byte(clip), 0o644))

	out, err := execute(t, "convert", path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nHello **world**\n", out)
}

func TestConvertRejectsBadOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.html")
	require.NoError(t, os.WriteFile(path, []byte(clip), 0o644))

	_, err := execute(t, "convert", path, "--suggestions", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	require.NoError(t, convertCmd.Flags().Set("suggestions", "reject"))
}

func TestConvertAll(t *testing.T) {
	root, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "one.html"), []byte(clip), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "two.htm"), []byte(clip), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip"), 0o644))

	log, err := execute(t, "convert", root, "--all", "--output_dir", out)
	require.NoError(t, err)
	assert.Contains(t, log, "Found 2 files to convert")

	data, err := os.ReadFile(filepath.Join(out, "a", "one.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nHello **world**\n", string(data))
	assert.FileExists(t, filepath.Join(out, "two.md"))
}
