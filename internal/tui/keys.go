package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the explorer's key bindings.
type KeyMap struct {
	Earlier key.Binding
	Later   key.Binding
	Up      key.Binding
	Down    key.Binding
	Brush   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the arrow-key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Earlier: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "earlier")),
		Later:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "later")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "later hours")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "earlier hours")),
		Brush:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle brush")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Earlier, k.Later, k.Brush, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Earlier, k.Later},
		{k.Up, k.Down, k.Brush},
		{k.Help, k.Quit},
	}
}
