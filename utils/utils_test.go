package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEditor(t *testing.T) {
	assert.Equal(t, "hx", ResolveEditor("hx"))

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", ResolveEditor(""))
}

func TestEditorCommandSplitsArgs(t *testing.T) {
	cmd := EditorCommand("code --wait", "/tmp/n.md")
	assert.Equal(t, []string{"code", "--wait", "/tmp/n.md"}, cmd.Args)

	cmd = EditorCommand("  ", "/tmp/n.md")
	assert.Equal(t, []string{"vi", "/tmp/n.md"}, cmd.Args)
}

func TestNoteTempFileRoundTrip(t *testing.T) {
	path, err := NoteTempFile("a/b", "hello")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "lexicon-a_b-")

	got, err := ReadAndRemove(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenEditorWithContent(t *testing.T) {
	// "true" exits without touching the file, so the content comes back as is
	got, err := OpenEditorWithContent("true", "quill", "unchanged")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", got)

	_, err = OpenEditorWithContent("false", "quill", "x")
	assert.ErrorContains(t, err, "editor")
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "and_or", SafeFilename("and/or"))
	assert.Equal(t, "_..", SafeFilename(".."))
	assert.Equal(t, "café", SafeFilename("café"))
}

func TestExportNotes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	n, err := ExportNotes(dir, map[string]string{
		"quill":  "a feather pen",
		"and/or": "conjunction\n",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(filepath.Join(dir, "quill.md"))
	require.NoError(t, err)
	assert.Equal(t, "# quill\n\na feather pen\n", string(raw))

	raw, err = os.ReadFile(filepath.Join(dir, "and_or.md"))
	require.NoError(t, err)
	assert.Equal(t, "# and/or\n\nconjunction\n", string(raw))
}

func TestExportNotesCollidingNames(t *testing.T) {
	dir := t.TempDir()
	n, err := ExportNotes(dir, map[string]string{
		"Cat": "upper",
		"cat": "lower",
		"a/b": "slash",
		"a_b": "underscore",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"Cat.md", "cat-2.md", "a_b.md", "a_b-2.md"}, names)

	raw, err := os.ReadFile(filepath.Join(dir, "cat-2.md"))
	require.NoError(t, err)
	assert.Equal(t, "# cat\n\nlower\n", string(raw))

	raw, err = os.ReadFile(filepath.Join(dir, "a_b-2.md"))
	require.NoError(t, err)
	assert.Equal(t, "# a_b\n\nunderscore\n", string(raw))
}
