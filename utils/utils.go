package utils

import (
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// ResolveEditor picks the configured editor, then $EDITOR, then nvim or vi.
func ResolveEditor(configured string) string {
	if configured != "" {
		return configured
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	// prefer nvim if available
	if p, err := exec.LookPath("nvim"); err == nil {
		return p
	}
	if p, err := exec.LookPath("vi"); err == nil {
		return p
	}
	return "ed"
}

// NoteTempFile writes initial to a fresh markdown file named after word and
// returns its path. The caller removes it.
func NoteTempFile(word, initial string) (string, error) {
	tmp, err := os.CreateTemp("", "lexicon-"+SafeFilename(word)+"-*.md")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// EditorCommand builds the command for editor on path. editor may carry
// arguments, e.g. "code --wait".
func EditorCommand(editor, path string) *exec.Cmd {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		parts = []string{"vi"}
	}
	args := append(parts[1:], path)
	return exec.Command(parts[0], args...)
}

// ReadAndRemove returns the file's contents and deletes it.
func ReadAndRemove(path string) (string, error) {
	defer os.Remove(path)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// OpenEditorWithContent runs editor on a temp copy of initial, attached to
// the current terminal, and returns what was saved.
func OpenEditorWithContent(editor, word, initial string) (string, error) {
	path, err := NoteTempFile(word, initial)
	if err != nil {
		return "", err
	}

	cmd := EditorCommand(ResolveEditor(editor), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("editor: %w", err)
	}
	return ReadAndRemove(path)
}

// SafeFilename maps a word onto something every filesystem accepts.
func SafeFilename(word string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "_")
	name := r.Replace(word)
	if name == "" || name == "." || name == ".." {
		name = "_" + name
	}
	return name
}

// ExportNotes writes each note to dir/<word>.md and returns how many were
// written. Words whose filenames would clash, including clashes that differ
// only in case, get a numeric suffix: cat.md, cat-2.md.
func ExportNotes(dir string, notes map[string]string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	words := slices.Sorted(maps.Keys(notes))
	used := make(map[string]bool, len(words))
	count := 0
	for _, word := range words {
		base := SafeFilename(word)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[strings.ToLower(name)] = true

		content := "# " + word + "\n\n" + notes[word]
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(content), 0644); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
