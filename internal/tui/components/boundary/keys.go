package boundary

import (
	"github.com/charmbracelet/bubbles/v2/key"
)

type KeyMap struct {
	Retry key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
	}
}

// Bindings implements layout.Help.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Retry}
}
