package menu

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	flavor catppuccin.Flavor
}

func NewStyles(theme string) *Styles {
	return &Styles{flavor: flavorFromName(theme)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) color(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

func (s *Styles) Title() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Base())).
		Background(s.color(s.flavor.Mauve())).
		Padding(0, 1)
}

func (s *Styles) Question() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Peach()))
}

func (s *Styles) Help() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Overlay0()))
}

func (s *Styles) Installed() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Green()))
}

func (s *Styles) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(s.color(s.flavor.Text()))
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(s.color(s.flavor.Subtext0()))
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(s.color(s.flavor.Mauve())).
		BorderForeground(s.color(s.flavor.Mauve()))
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(s.color(s.flavor.Lavender())).
		BorderForeground(s.color(s.flavor.Mauve()))

	return d
}
