package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gotodo/internal/state"
	todosync "gotodo/internal/sync"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("22")).
			Background(lipgloss.Color("151")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("52")).
			Background(lipgloss.Color("217")).
			Padding(0, 1)

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	openStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	checkDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	checkOpenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	confirmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

const (
	// chromeLines is the height of everything drawn around the list
	chromeLines = 10
	minListRows = 3
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("My Todo List"))
	s.WriteString("\n")

	if alert := m.renderAlert(); alert != "" {
		s.WriteString(alert)
		s.WriteString("\n\n")
	}

	s.WriteString(m.draft.View())
	if m.st.Busy {
		s.WriteString("  " + m.spinner.View())
	}
	s.WriteString("\n\n")

	s.WriteString(m.renderList())

	if m.st.PendingDeleteID != "" {
		s.WriteString("\n")
		s.WriteString(confirmStyle.Render(todosync.MsgConfirmDelete + " (y/n)"))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderHelp())

	return s.String()
}

func (m Model) renderAlert() string {
	if m.st.Alert == nil {
		return ""
	}
	if m.st.Alert.Kind == state.AlertError {
		return errorStyle.Render("✗ " + m.st.Alert.Message)
	}
	return successStyle.Render("✓ " + m.st.Alert.Message)
}

func (m Model) renderList() string {
	if len(m.st.Todos) == 0 {
		if m.st.Busy {
			return ""
		}
		return mutedStyle.Render("No todos yet. Add one to get started!") + "\n"
	}

	titleWidth := m.width - 4
	if titleWidth < 10 {
		titleWidth = 10
	}

	total := len(m.st.Todos)
	start, end := visibleRange(total, m.cursor, m.listRows())

	var s strings.Builder
	if start > 0 {
		s.WriteString(mutedStyle.Render(fmt.Sprintf("  ↑ %d more", start)) + "\n")
	}
	for i := start; i < end; i++ {
		item := m.st.Todos[i]
		pointer := "  "
		if m.focus == focusList && i == m.cursor {
			pointer = cursorStyle.Render("▸ ")
		}

		check := checkOpenStyle.Render("○")
		if item.Completed {
			check = checkDoneStyle.Render("●")
		}

		var title string
		switch {
		case m.st.IsEditing(item.ID):
			title = m.edit.View()
		case item.Completed:
			title = doneStyle.MaxWidth(titleWidth).Render(item.Title)
		default:
			title = openStyle.MaxWidth(titleWidth).Render(item.Title)
		}

		fmt.Fprintf(&s, "%s%s %s\n", pointer, check, title)
	}
	if end < total {
		s.WriteString(mutedStyle.Render(fmt.Sprintf("  ↓ %d more", total-end)) + "\n")
	}
	return s.String()
}

// listRows is how many todos fit on screen, markers included
func (m Model) listRows() int {
	rows := m.height - chromeLines
	if rows < minListRows {
		rows = minListRows
	}
	return rows
}

// visibleRange picks the window of at most rows items out of n that keeps
// cursor in view, leaving a line for each "more" marker it needs
func visibleRange(n, cursor, rows int) (start, end int) {
	if n <= rows {
		return 0, n
	}
	// Room for both markers
	rows -= 2
	if rows < 1 {
		rows = 1
	}
	start = cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func (m Model) renderHelp() string {
	var help string
	switch {
	case m.st.PendingDeleteID != "":
		help = "y: delete • n: keep"
	case m.st.EditingID != "":
		help = "enter: save • esc: cancel"
	case m.focus == focusInput:
		help = "enter: add • tab: list • ctrl+c: quit"
	default:
		help = "↑/↓: navigate • space: toggle • e: edit • d: delete • r: refresh • a: add • q: quit"
	}
	return mutedStyle.Render(help)
}
