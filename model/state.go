package model

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/electr1fy0/lexicon/lexicon"
)

type state int

const (
	statePass state = iota
	stateList
	stateAdd
	stateSearch
	stateConfirm
	stateNotice
	stateDetail
	stateChangePass
)

// Session is an unlocked lexicon. Rekey is nil when the backend has no
// passphrase to change.
type Session struct {
	View  *lexicon.View
	Rekey func(passphrase string) error
}

// Unlocker opens an encrypted vault with the passphrase typed at startup.
type Unlocker func(passphrase string) (Session, error)

type Options struct {
	Render    string
	Editor    string
	ExportDir string
	Logger    *zap.Logger
}

type wordItem struct {
	match lexicon.Match
}

func (i wordItem) FilterValue() string { return i.match.Word }

// wordDelegate draws one word per line, with the search hit highlighted.
type wordDelegate struct{}

func (wordDelegate) Height() int                             { return 1 }
func (wordDelegate) Spacing() int                            { return 0 }
func (wordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (wordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(wordItem)
	if !ok {
		return
	}
	before, hit, after := it.match.Split()
	text := before
	if hit != "" {
		text += highlightStyle.Render(hit) + after
	}
	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("▸ ")+text)
		return
	}
	fmt.Fprint(w, "  "+text)
}

type editorFinishedMsg struct {
	word string
	path string
	err  error
}

type Model struct {
	state    state
	returnTo state

	width  int
	height int

	opts   Options
	log    *zap.Logger
	unlock Unlocker

	view  *lexicon.View
	rekey func(string) error

	pwInput     textinput.Model
	addInput    textinput.Model
	searchInput textinput.Model
	noteArea    textarea.Model

	list list.Model

	// letterPrompt is set after "g": the next key picks a letter.
	letterPrompt bool

	editing     bool
	viewContent string

	confirmMsg string
	noticeMsg  string

	status    string
	lastError string
}
