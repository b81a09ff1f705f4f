package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"gotodo/backend"
	"gotodo/internal/state"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// GetTerminalWidth returns the current terminal width, defaulting to 80 if unable to detect
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}

// ShowTodos prints the list as a bordered table of id, state and title
func ShowTodos(w io.Writer, todos []backend.TodoItem, width int) {
	borderWidth := width - 2
	if borderWidth < 40 {
		borderWidth = 40
	}
	if borderWidth > 100 {
		borderWidth = 100
	}

	headerText := "─ My Todo List "
	headerPadding := borderWidth - lipgloss.Width(headerText)
	if headerPadding < 0 {
		headerPadding = 0
	}
	fmt.Fprintln(w, headerStyle.Render("┌"+headerText+strings.Repeat("─", headerPadding)+"┐"))

	if len(todos) == 0 {
		fmt.Fprintln(w, "  No todos yet. Add one to get started!")
	}

	idWidth := 0
	for _, item := range todos {
		if len(item.ID) > idWidth {
			idWidth = len(item.ID)
		}
	}

	for _, item := range todos {
		mark := "[ ]"
		title := item.Title
		if item.Completed {
			mark = "[x]"
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(w, "  %s %s %s\n", idStyle.Render(fmt.Sprintf("%-*s", idWidth, item.ID)), mark, title)
	}

	fmt.Fprintln(w, headerStyle.Render("└"+strings.Repeat("─", borderWidth)+"┘"))
}

// ShowAlert prints an operation's alert
func ShowAlert(w io.Writer, alert *state.Alert) {
	if alert == nil {
		return
	}
	if alert.Kind == state.AlertError {
		fmt.Fprintln(w, errorStyle.Render("✗ "+alert.Message))
		return
	}
	fmt.Fprintln(w, successStyle.Render("✓ "+alert.Message))
}
