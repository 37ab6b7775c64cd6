package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	question string
	styles   *Styles

	answer  bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "y":
		m.answer, m.done = true, true
	case "n", "enter", "esc":
		m.answer, m.done = false, true
	case "ctrl+c":
		m.aborted = true
	default:
		return m, nil
	}

	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	return m.styles.Question().Render(m.question) + " " + m.styles.Help().Render("[y/N]") + "\n"
}
