package tui

import (
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/shelf/internal/tui/exp/list"
)

type KeyMap struct {
	Filter,
	ClearFilter,
	AcceptFilter,
	Copy,
	Help,
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		AcceptFilter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy id"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpKeyMap joins the app bindings with the list bindings for help.Model.
type helpKeyMap struct {
	app       KeyMap
	list      list.KeyMap
	filtering bool
	extra     []key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding {
	if k.filtering {
		return []key.Binding{k.app.AcceptFilter, k.app.ClearFilter}
	}
	bindings := []key.Binding{k.list.Down, k.list.Up, k.app.Filter, k.app.Copy}
	bindings = append(bindings, k.extra...)
	return append(bindings, k.app.Help, k.app.Quit)
}

func (k helpKeyMap) FullHelp() [][]key.Binding {
	if k.filtering {
		return [][]key.Binding{k.ShortHelp()}
	}
	groups := k.list.FullHelp()
	groups = append(groups, append([]key.Binding{k.app.Filter, k.app.ClearFilter, k.app.Copy}, k.extra...))
	return append(groups, []key.Binding{k.app.Help, k.app.Quit})
}
