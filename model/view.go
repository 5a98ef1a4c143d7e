package model

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("lexicon"))
	s.WriteString("\n\n")

	switch m.state {
	case statePass:
		s.WriteString("Enter passphrase to unlock the lexicon:\n\n")
		s.WriteString(m.pwInput.View())
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("enter: unlock  ctrl+c: quit"))
		m.writeStatus(&s)
		return s.String()

	case stateChangePass:
		s.WriteString("New passphrase:\n\n")
		s.WriteString(m.pwInput.View())
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("enter: save  esc: cancel"))
		return s.String()

	case stateNotice:
		s.WriteString(noticeStyle.Render(warningStyle.Render(m.noticeMsg)))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("press any key to continue"))
		return s.String()

	case stateConfirm:
		s.WriteString(warningStyle.Render(m.confirmMsg))
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("y: delete  n/esc: cancel"))
		return s.String()
	}

	s.WriteString(m.letterStrip())
	s.WriteString("\n\n")

	switch m.state {
	case stateAdd:
		s.WriteString("Add: " + m.addInput.View())
		s.WriteString("\n\n")
	case stateSearch:
		s.WriteString("Search: " + m.searchInput.View())
		s.WriteString("\n\n")
	}

	body := m.listView()
	if m.state == stateDetail {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, detailStyle.Render(m.detailView()))
	}
	s.WriteString(body)
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.helpLine()))
	m.writeStatus(&s)
	return s.String()
}

func (m Model) letterStrip() string {
	var parts []string
	for _, e := range m.view.Index() {
		switch {
		case e.Active:
			parts = append(parts, letterActiveStyle.Render(e.Label))
		case e.HasWords:
			parts = append(parts, letterStyle.Render(e.Label))
		default:
			parts = append(parts, letterEmptyStyle.Render(e.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) listView() string {
	listing := m.view.Listing()
	var s strings.Builder
	s.WriteString(titleStyle.Render(listing.Heading))
	s.WriteString("\n")
	if len(listing.Rows) == 0 {
		s.WriteString(helpStyle.Render(listing.Empty))
		return s.String()
	}
	s.WriteString(m.list.View())
	return s.String()
}

func (m Model) detailView() string {
	word, _, _ := m.view.Detail()
	var s strings.Builder
	s.WriteString(titleStyle.Render(word))
	s.WriteString("\n\n")
	if m.editing {
		s.WriteString(m.noteArea.View())
	} else {
		s.WriteString(m.viewContent)
	}
	return s.String()
}

func (m Model) helpLine() string {
	switch m.state {
	case stateAdd:
		return "enter: add  esc: done"
	case stateSearch:
		return "enter: open best match  tab: browse results  esc: cancel"
	case stateDetail:
		if m.editing {
			return "every change is saved  esc: stop editing"
		}
		return "tab: edit  E: $EDITOR  d: delete  esc: close  q: quit"
	}
	helpParts := []string{"a:add", "d:delete", "enter:open", "/:search"}
	if m.view.Query() != "" {
		helpParts = append(helpParts, "c:clear search")
	}
	helpParts = append(helpParts, "←/→:letter", "g:go to letter", "0:all", "x:export")
	if m.rekey != nil {
		helpParts = append(helpParts, "P:passphrase")
	}
	helpParts = append(helpParts, "q:quit")
	return strings.Join(helpParts, "  ")
}

func (m Model) writeStatus(s *strings.Builder) {
	if m.status == "" {
		return
	}
	s.WriteString("\n")
	if m.lastError != "" {
		s.WriteString(errorStyle.Render(m.status))
	} else {
		s.WriteString(successStyle.Render(m.status))
	}
}
