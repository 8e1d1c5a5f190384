// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit stops acquisition and exits.
	Quit key.Binding

	// Help toggles the full key list.
	Help key.Binding

	// Toggle starts or stops acquisition.
	Toggle key.Binding

	// Clear drops every plotted point.
	Clear key.Binding

	// Record starts or ends a capture session.
	Record key.Binding

	// Freeze holds the current picture while data keeps arriving.
	Freeze key.Binding

	// NextPort cycles through the available ports while stopped.
	NextPort key.Binding

	// NextBaud cycles through the standard baud rates while stopped.
	NextBaud key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Record: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "record"),
		),
		Freeze: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "freeze"),
		),
		NextPort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next port"),
		),
		NextBaud: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "next baud"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Freeze, k.Help, k.Quit}
}

// StoppedHelp returns keybindings that apply while acquisition is stopped.
func (k *KeyMap) StoppedHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NextPort, k.NextBaud, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Clear, k.Freeze},
		{k.Record, k.NextPort, k.NextBaud},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
