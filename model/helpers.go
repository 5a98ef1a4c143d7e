package model

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/electr1fy0/lexicon/utils"
)

// refreshList repopulates the list from the view's current listing.
func (m *Model) refreshList() {
	if m.view == nil {
		return
	}
	listing := m.view.Listing()
	items := make([]list.Item, 0, len(listing.Rows))
	for _, row := range listing.Rows {
		items = append(items, wordItem{match: row})
	}
	m.list.SetItems(items)
	if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

func (m *Model) resize() {
	listWidth := m.width - 4
	if _, _, open := m.viewDetail(); open {
		listWidth = m.width / 3
	}
	if listWidth < 20 {
		listWidth = 20
	}
	listHeight := m.height - 12
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetWidth(listWidth)
	m.list.SetHeight(listHeight)

	noteWidth := m.width - listWidth - 8
	if noteWidth < 30 {
		noteWidth = 30
	}
	m.noteArea.SetWidth(noteWidth)
	m.noteArea.SetHeight(listHeight)
	if m.state == stateDetail && !m.editing {
		m.renderDetail()
	}
}

func (m *Model) viewDetail() (string, string, bool) {
	if m.view == nil {
		return "", "", false
	}
	return m.view.Detail()
}

func (m *Model) selectedWord() (string, bool) {
	it := m.list.SelectedItem()
	if it == nil {
		return "", false
	}
	return it.(wordItem).match.Word, true
}

func (m *Model) selectLetter(letter string) {
	m.view.SelectLetter(letter)
	m.searchInput.SetValue("")
	m.list.Select(0)
	m.refreshList()
	m.status = m.view.Listing().Heading
}

// stepLetter moves along the alphabet strip, wrapping at both ends.
func (m *Model) stepLetter(delta int) {
	entries := m.view.Index()
	cur := 0
	for i, e := range entries {
		if e.Active {
			cur = i
			break
		}
	}
	next := (cur + delta + len(entries)) % len(entries)
	m.selectLetter(entries[next].Letter)
}

func (m *Model) clearSearch() {
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.view.Search("")
	m.refreshList()
}

func (m *Model) focusFor(s state) tea.Cmd {
	switch s {
	case stateAdd:
		return m.addInput.Focus()
	case stateSearch:
		return m.searchInput.Focus()
	}
	return nil
}

func (m Model) requestRemove(word string) (tea.Model, tea.Cmd) {
	prompt, err := m.view.RequestRemove(word)
	if err != nil {
		m.setError("Delete failed: ", err)
		return m, nil
	}
	m.confirmMsg = prompt + " (y/N)"
	m.returnTo = m.state
	m.state = stateConfirm
	return m, nil
}

func (m Model) openDetail(word string) (tea.Model, tea.Cmd) {
	if _, err := m.view.OpenDetail(word); err != nil {
		m.setError("Open failed: ", err)
		return m, nil
	}
	return m.showDetail(word)
}

func (m Model) showDetail(word string) (tea.Model, tea.Cmd) {
	m.state = stateDetail
	m.editing = false
	m.noteArea.Blur()
	m.resize()
	m.renderDetail()
	m.status = "Opened " + word
	return m, nil
}

func (m *Model) renderDetail() {
	_, note, _ := m.viewDetail()
	width := m.width - m.list.Width() - 8
	m.viewContent = renderNote(note, width, m.opts.Render)
}

func (m *Model) exportNotes() error {
	notes, err := m.view.Store().Notes()
	if err != nil {
		return err
	}
	dir := m.opts.ExportDir
	if dir == "" {
		dir = fmt.Sprintf("lexicon_export_%d", time.Now().Unix())
	}
	count, err := utils.ExportNotes(dir, notes)
	if err != nil {
		return err
	}
	m.lastError = ""
	m.status = fmt.Sprintf("Exported %d notes to %s/", count, dir)
	return nil
}

func (m *Model) changePassphrase(pass string) error {
	if m.rekey == nil {
		return fmt.Errorf("this store has no passphrase")
	}
	if err := m.rekey(pass); err != nil {
		return err
	}
	m.lastError = ""
	if pass == "" {
		m.status = "Vault decrypted."
	} else {
		m.status = "Passphrase changed."
	}
	return nil
}
