package menu

import (
	"github.com/ImSingee/go-ex/ee"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompter shows interactive terminal prompts
type Prompter struct {
	Styles  *Styles
	Options []tea.ProgramOption
}

func NewPrompter(theme string, options ...tea.ProgramOption) *Prompter {
	return &Prompter{Styles: NewStyles(theme), Options: options}
}

// Select returns the index of the chosen item, or ErrAborted
func (p *Prompter) Select(title string, items []Item) (int, error) {
	final, err := tea.NewProgram(newSelectModel(title, items, p.Styles), p.Options...).Run()
	if err != nil {
		return -1, ee.Wrap(err, "cannot show menu")
	}

	m := final.(selectModel)
	if m.aborted || m.choice < 0 {
		return -1, ErrAborted
	}

	return m.choice, nil
}

// Confirm asks a yes/no question, the default answer is no
func (p *Prompter) Confirm(question string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question, styles: p.Styles}, p.Options...).Run()
	if err != nil {
		return false, ee.Wrap(err, "cannot show prompt")
	}

	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}

	return m.answer, nil
}
