package menu

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrAborted = fmt.Errorf("aborted")

type Item struct {
	Label  string
	Detail string

	index int
}

func (i Item) Title() string       { return i.Label }
func (i Item) Description() string { return i.Detail }
func (i Item) FilterValue() string { return i.Label }

type selectModel struct {
	list    list.Model
	choice  int
	aborted bool
}

func newSelectModel(title string, items []Item, styles *Styles) selectModel {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		item.index = i
		listItems[i] = item
	}

	l := list.New(listItems, styles.delegate(), 72, 20)
	l.Title = title
	l.Styles.Title = styles.Title()
	l.SetShowStatusBar(false)

	return selectModel{list: l, choice: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break
			}
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(Item); ok {
				m.choice = item.index
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.choice >= 0 || m.aborted {
		return ""
	}
	return m.list.View()
}
