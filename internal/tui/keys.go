package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the viewer's global bindings. Tab-local bindings (list
// navigation, edit) are matched inline by their tabs.
type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	GapUp       key.Binding
	GapDown     key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Thicker     key.Binding
	Thinner     key.Binding
	Labels      key.Binding
	NextDataset key.Binding
	PrevDataset key.Binding
	Reset       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab:     key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←", "prev tab")),
		GapUp:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider gap")),
		GapDown:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "narrower gap")),
		RotateLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "rotate ccw")),
		RotateRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "rotate cw")),
		Thicker:     key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "thicker")),
		Thinner:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "thinner")),
		Labels:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle labels")),
		NextDataset: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next dataset")),
		PrevDataset: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev dataset")),
		Reset:       key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset geometry")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.GapUp, k.GapDown, k.RotateLeft, k.RotateRight, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.NextDataset, k.PrevDataset},
		{k.GapUp, k.GapDown, k.RotateLeft, k.RotateRight},
		{k.Thicker, k.Thinner, k.Labels, k.Reset},
		{k.Help, k.Quit},
	}
}
