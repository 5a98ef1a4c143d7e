package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electr1fy0/lexicon/config"
	"github.com/electr1fy0/lexicon/lexicon"
	"github.com/electr1fy0/lexicon/storage"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

func newTestModel(t *testing.T, words ...string) (Model, *lexicon.Store) {
	t.Helper()
	store, err := lexicon.Open(storage.NewMemory())
	require.NoError(t, err)
	for _, w := range words {
		_, err := store.Add(w)
		require.NoError(t, err)
	}
	m := New(Session{View: lexicon.NewView(store)}, Options{
		Render:    config.RenderPlain,
		ExportDir: filepath.Join(t.TempDir(), "export"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), store
}

func itemWords(m Model) []string {
	var out []string
	for _, it := range m.list.Items() {
		out = append(out, it.(wordItem).match.Word)
	}
	return out
}

func TestAddWord(t *testing.T) {
	m, store := newTestModel(t)

	m = press(t, m, "a")
	assert.Equal(t, stateAdd, m.state)

	m = typeText(t, m, "apple")
	m = press(t, m, "enter")
	assert.True(t, store.Contains("apple"))
	assert.Equal(t, stateAdd, m.state, "stays in add mode for the next word")
	assert.Empty(t, m.addInput.Value())
	assert.Equal(t, []string{"apple"}, itemWords(m))

	m = press(t, m, "esc")
	assert.Equal(t, stateList, m.state)
}

func TestAddDuplicateShowsBlockingNotice(t *testing.T) {
	m, store := newTestModel(t, "Cat")

	m = press(t, m, "a")
	m = typeText(t, m, "Cat")
	m = press(t, m, "enter")
	assert.Equal(t, stateNotice, m.state)
	assert.Equal(t, `"Cat" is already in the lexicon under letter C.`, m.noticeMsg)
	assert.Contains(t, m.View(), "already in the lexicon")
	assert.Len(t, store.ListByLetter("C"), 1)

	m = press(t, m, "x")
	assert.Equal(t, stateAdd, m.state)
	assert.Equal(t, "Cat", m.addInput.Value(), "input kept for correction")
}

func TestAddEmptyShowsNotice(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "a", " ", "enter")
	assert.Equal(t, stateNotice, m.state)
	assert.Equal(t, "Please enter a word.", m.noticeMsg)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, store := newTestModel(t, "Apple", "Banana")

	m = press(t, m, "d")
	assert.Equal(t, stateConfirm, m.state)
	assert.Contains(t, m.confirmMsg, `Delete "Apple" from your lexicon?`)

	m = press(t, m, "n")
	assert.Equal(t, stateList, m.state)
	assert.True(t, store.Contains("Apple"))

	m = press(t, m, "d", "y")
	assert.Equal(t, stateList, m.state)
	assert.False(t, store.Contains("Apple"))
	assert.Equal(t, []string{"Banana"}, itemWords(m))
	assert.Equal(t, "Deleted: Apple", m.status)
}

func TestLiveSearchAndJump(t *testing.T) {
	m, _ := newTestModel(t, "Apple", "apply", "Banana")

	m = press(t, m, "/")
	m = typeText(t, m, "app")
	assert.Equal(t, []string{"Apple", "apply"}, itemWords(m))
	assert.Contains(t, m.View(), `Search results for "app"`)

	m = press(t, m, "enter")
	assert.Equal(t, stateDetail, m.state)
	word, _, open := m.view.Detail()
	assert.True(t, open)
	assert.Equal(t, "Apple", word)
	assert.Empty(t, m.searchInput.Value())
	assert.Empty(t, m.view.Query())
}

func TestSearchEscRestoresLetterView(t *testing.T) {
	m, _ := newTestModel(t, "Apple", "Banana")
	m = press(t, m, "right", "right") // All -> A -> B
	require.Equal(t, "B", m.view.Letter())

	m = press(t, m, "/")
	m = typeText(t, m, "app")
	assert.Equal(t, []string{"Apple"}, itemWords(m))

	m = press(t, m, "esc")
	assert.Equal(t, stateList, m.state)
	assert.Equal(t, []string{"Banana"}, itemWords(m))
}

func TestDetailEditPersistsEveryKeystroke(t *testing.T) {
	m, store := newTestModel(t, "quill")

	m = press(t, m, "enter")
	require.Equal(t, stateDetail, m.state)

	m = press(t, m, "tab")
	require.True(t, m.editing)
	m = typeText(t, m, "pen")

	note, err := store.Note("quill")
	require.NoError(t, err)
	assert.Equal(t, "pen", note)

	m = press(t, m, "esc")
	assert.False(t, m.editing)
	assert.Contains(t, m.viewContent, "pen")

	m = press(t, m, "esc")
	assert.Equal(t, stateList, m.state)
	_, _, open := m.view.Detail()
	assert.False(t, open)

	m = press(t, m, "enter")
	_, got, _ := m.view.Detail()
	assert.Equal(t, "pen", got)
}

func TestDeleteFromDetailClosesIt(t *testing.T) {
	m, store := newTestModel(t, "quill")
	m = press(t, m, "enter", "d")
	assert.Equal(t, stateConfirm, m.state)

	m = press(t, m, "y")
	assert.Equal(t, stateList, m.state)
	assert.False(t, store.Contains("quill"))
	_, _, open := m.view.Detail()
	assert.False(t, open)
	assert.Contains(t, m.View(), "Your lexicon is empty. Add some words!")
}

func TestLetterNavigation(t *testing.T) {
	m, _ := newTestModel(t, "Apple", "Banana")

	m = press(t, m, "right")
	assert.Equal(t, "A", m.view.Letter())
	assert.Equal(t, []string{"Apple"}, itemWords(m))

	m = press(t, m, "g", "b")
	assert.Equal(t, "B", m.view.Letter())
	assert.Equal(t, []string{"Banana"}, itemWords(m))

	m = press(t, m, "0")
	assert.Equal(t, "", m.view.Letter())

	m = press(t, m, "left")
	assert.Equal(t, "Z", m.view.Letter(), "wraps around")
	assert.Contains(t, m.View(), "No words found for this letter.")
}

func TestExportNotes(t *testing.T) {
	m, store := newTestModel(t, "quill")
	require.NoError(t, store.SetNote("quill", "feather"))

	m = press(t, m, "x")
	assert.Empty(t, m.lastError)
	assert.Contains(t, m.status, "Exported 1 notes")

	raw, err := os.ReadFile(filepath.Join(m.opts.ExportDir, "quill.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "feather")
}

func TestLockedUnlock(t *testing.T) {
	store, err := lexicon.Open(storage.NewMemory())
	require.NoError(t, err)
	var rekeyed string
	unlock := func(pass string) (Session, error) {
		if pass != "open sesame" {
			return Session{}, errors.New("wrong passphrase")
		}
		return Session{
			View:  lexicon.NewView(store),
			Rekey: func(p string) error { rekeyed = p; return nil },
		}, nil
	}

	m := NewLocked(unlock, Options{Render: config.RenderPlain})
	assert.Equal(t, statePass, m.state)

	m = typeText(t, m, "nope")
	m = press(t, m, "enter")
	assert.Equal(t, statePass, m.state)
	assert.Contains(t, m.status, "Failed to unlock")

	m = typeText(t, m, "open sesame")
	m = press(t, m, "enter")
	assert.Equal(t, stateList, m.state)
	assert.Empty(t, m.lastError)

	m = press(t, m, "P")
	assert.Equal(t, stateChangePass, m.state)
	m = typeText(t, m, "new")
	m = press(t, m, "enter")
	assert.Equal(t, "new", rekeyed)
	assert.Equal(t, "Passphrase changed.", m.status)
}

func TestViewRendersStrip(t *testing.T) {
	m, _ := newTestModel(t, "Apple")
	out := m.View()
	assert.Contains(t, out, "All Words")
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "Z")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
