package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/electr1fy0/lexicon/lexicon"
	"github.com/electr1fy0/lexicon/utils"
)

func newPassInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 30
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return ti
}

func baseModel(opts Options) Model {
	ai := textinput.New()
	ai.Placeholder = "new word"
	ai.CharLimit = 80
	ai.Width = 30

	si := textinput.New()
	si.Placeholder = "search words..."
	si.CharLimit = 50
	si.Width = 40

	ta := textarea.New()
	ta.Placeholder = "Notes (markdown)..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(50)
	ta.SetHeight(10)

	l := list.New([]list.Item{}, wordDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return Model{
		opts:        opts,
		log:         log,
		addInput:    ai,
		searchInput: si,
		noteArea:    ta,
		list:        l,
	}
}

// New starts on the word list of an already opened lexicon.
func New(sess Session, opts Options) Model {
	m := baseModel(opts)
	m.adopt(sess)
	return m
}

// NewLocked starts on the passphrase prompt and calls unlock on enter.
func NewLocked(unlock Unlocker, opts Options) Model {
	m := baseModel(opts)
	m.unlock = unlock
	m.pwInput = newPassInput("enter passphrase")
	m.state = statePass
	return m
}

func (m *Model) adopt(sess Session) {
	m.view = sess.View
	m.rekey = sess.Rekey
	m.state = stateList
	m.refreshList()
	m.status = fmt.Sprintf("Loaded lexicon (%d words)", m.view.Store().Len())
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case editorFinishedMsg:
		return m.finishEditor(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.state {
	case statePass:
		return m.updatePass(msg)
	case stateAdd:
		return m.updateAdd(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateNotice:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.noticeMsg = ""
			m.state = m.returnTo
			cmd := m.focusFor(m.state)
			return m, cmd
		}
		return m, nil
	case stateDetail:
		return m.updateDetail(msg)
	case stateChangePass:
		return m.updateChangePass(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updatePass(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.pwInput, cmd = m.pwInput.Update(msg)
	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() != "enter" {
		return m, cmd
	}

	sess, err := m.unlock(m.pwInput.Value())
	if err != nil {
		m.setError("Failed to unlock: ", err)
		m.pwInput.SetValue("")
		return m, nil
	}
	m.pwInput.SetValue("")
	m.lastError = ""
	m.adopt(sess)
	m.resize()
	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if m.letterPrompt {
		m.letterPrompt = false
		if r := key.Runes; len(r) == 1 && unicode.IsPrint(r[0]) {
			m.selectLetter(string(r[0]))
		}
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "a":
		m.state = stateAdd
		cmd := m.addInput.Focus()
		return m, cmd
	case "/":
		m.state = stateSearch
		cmd := m.searchInput.Focus()
		return m, cmd
	case "c", "esc":
		if m.view.Query() != "" {
			m.clearSearch()
			m.status = "Cleared search"
		}
	case "left", "h":
		m.stepLetter(-1)
	case "right", "l":
		m.stepLetter(1)
	case "0":
		m.selectLetter("")
	case "g":
		m.letterPrompt = true
		m.status = "Letter: type one to jump"
	case "d", "delete":
		if word, ok := m.selectedWord(); ok {
			return m.requestRemove(word)
		}
	case "enter":
		if word, ok := m.selectedWord(); ok {
			return m.openDetail(word)
		}
	case "x":
		if err := m.exportNotes(); err != nil {
			m.setError("Export failed: ", err)
		}
	case "P":
		if m.rekey == nil {
			m.status = "This store has no passphrase"
			break
		}
		m.pwInput = newPassInput("enter new passphrase (empty to decrypt)")
		m.state = stateChangePass
		return m, textinput.Blink
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.addInput.Blur()
			m.addInput.SetValue("")
			m.state = stateList
			return m, nil
		case "enter":
			added, err := m.view.Add(m.addInput.Value())
			if err != nil {
				return m.notify(err), nil
			}
			m.addInput.SetValue("")
			m.refreshList()
			m.lastError = ""
			m.status = fmt.Sprintf("Added %q under %s", added.Word, added.Letter)
			if added.NewGroup {
				m.log.Debug("letter index regenerated", zap.String("letter", added.Letter))
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.clearSearch()
			m.state = stateList
			return m, nil
		case "down", "tab":
			m.searchInput.Blur()
			m.state = stateList
			return m, nil
		case "enter":
			word, found, err := m.view.JumpToBestMatch()
			if err != nil {
				m.setError("Open failed: ", err)
				return m, nil
			}
			if !found {
				m.status = fmt.Sprintf("No match for %q", m.view.Query())
				return m, nil
			}
			m.searchInput.SetValue("")
			m.searchInput.Blur()
			m.refreshList()
			return m.showDetail(word)
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.view.Query() {
		m.view.Search(m.searchInput.Value())
		m.refreshList()
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		removed, err := m.view.ConfirmRemove()
		m.confirmMsg = ""
		if err != nil {
			m.setError("Delete failed: ", err)
		} else {
			m.lastError = ""
			m.status = "Deleted: " + removed.Word
		}
		m.refreshList()
		m.state = m.returnTo
		if _, _, open := m.view.Detail(); !open && m.state == stateDetail {
			m.state = stateList
			m.viewContent = ""
			m.resize()
		}
		return m, nil
	case "n", "N", "esc":
		m.view.CancelRemove()
		m.confirmMsg = ""
		m.state = m.returnTo
		return m, nil
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	if m.editing {
		if isKey && key.String() == "esc" {
			m.editing = false
			m.noteArea.Blur()
			m.renderDetail()
			return m, nil
		}
		var cmd tea.Cmd
		m.noteArea, cmd = m.noteArea.Update(msg)
		if _, note, _ := m.view.Detail(); m.noteArea.Value() != note {
			if err := m.view.EditNote(m.noteArea.Value()); err != nil {
				m.setError("Save failed: ", err)
			}
		}
		return m, cmd
	}

	if !isKey {
		return m, nil
	}
	word, note, _ := m.view.Detail()
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		m.view.CloseDetail()
		m.state = stateList
		m.viewContent = ""
		m.resize()
	case "tab", "i":
		m.editing = true
		m.noteArea.SetValue(note)
		cmd := m.noteArea.Focus()
		return m, cmd
	case "E":
		path, err := utils.NoteTempFile(word, note)
		if err != nil {
			m.setError("Editor failed: ", err)
			break
		}
		cmd := utils.EditorCommand(utils.ResolveEditor(m.opts.Editor), path)
		return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
			return editorFinishedMsg{word: word, path: path, err: err}
		})
	case "d":
		return m.requestRemove(word)
	}
	return m, nil
}

func (m Model) finishEditor(msg editorFinishedMsg) (tea.Model, tea.Cmd) {
	content, readErr := utils.ReadAndRemove(msg.path)
	if msg.err != nil {
		m.setError("Editor failed: ", msg.err)
		return m, tea.ClearScreen
	}
	if readErr != nil {
		m.setError("Editor failed: ", readErr)
		return m, tea.ClearScreen
	}
	if word, _, open := m.view.Detail(); !open || word != msg.word {
		if _, err := m.view.OpenDetail(msg.word); err != nil {
			m.setError("Open failed: ", err)
			return m, tea.ClearScreen
		}
	}
	if err := m.view.EditNote(content); err != nil {
		m.setError("Save failed: ", err)
		return m, tea.ClearScreen
	}
	m.lastError = ""
	m.status = "Edited " + msg.word
	m.renderDetail()
	return m, tea.ClearScreen
}

func (m Model) updateChangePass(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.pwInput, cmd = m.pwInput.Update(msg)
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, cmd
	}
	switch key.String() {
	case "enter":
		if err := m.changePassphrase(m.pwInput.Value()); err != nil {
			m.setError("Passphrase change failed: ", err)
		}
		m.pwInput.SetValue("")
		m.state = stateList
	case "esc":
		m.pwInput.SetValue("")
		m.state = stateList
	}
	return m, cmd
}

// notify shows a blocking notice for a validation failure.
func (m Model) notify(err error) Model {
	var dup *lexicon.DuplicateError
	if errors.Is(err, lexicon.ErrEmptyWord) || errors.As(err, &dup) {
		m.returnTo = m.state
		m.noticeMsg = lexicon.Notice(err)
		m.state = stateNotice
		return m
	}
	m.setError("", err)
	return m
}

func (m *Model) setError(prefix string, err error) {
	m.lastError = err.Error()
	m.status = prefix + strings.TrimPrefix(err.Error(), "lexicon: ")
	m.log.Warn("action failed", zap.String("status", m.status), zap.Error(err))
}
