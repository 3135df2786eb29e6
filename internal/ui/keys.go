package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. View-specific keys live with
// their views.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	GoTo     key.Binding

	// Actions
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding

	// General
	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev view"),
		),
		GoTo: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "views"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.GoTo, k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView, k.GoTo},
		{k.Add, k.Toggle, k.Delete},
		{k.ThemeCycle, k.Help, k.Quit, k.Back},
	}
}
