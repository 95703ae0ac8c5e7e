package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the preview.
type KeyMap struct {
	// Anchor
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding

	// Content
	Wider    key.Binding
	Narrower key.Binding
	Taller   key.Binding
	Shorter  key.Binding

	// Popup
	Direction key.Binding
	Shadow    key.Binding
	Arrow     key.Binding
	Animation key.Binding
	Theme     key.Binding
	Dismiss   key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Wider, k.Direction, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Wider, k.Narrower, k.Taller, k.Shorter},
		{k.Direction, k.Shadow, k.Arrow, k.Animation},
		{k.Theme, k.Dismiss, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "anchor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "anchor right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "anchor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "anchor down"),
		),
		Wider: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "wider content"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "narrower content"),
		),
		Taller: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "taller content"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "shorter content"),
		),
		Direction: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cycle direction"),
		),
		Shadow: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle shadow"),
		),
		Arrow: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle arrow"),
		),
		Animation: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle animation"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss/show"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
