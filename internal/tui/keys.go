package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the key bindings of the progress display.
type KeyMap struct {
	Quit Key
}

// Key represents a key binding.
type Key struct {
	Keys    []string
	Help    string
	Enabled bool
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: Key{
			Keys:    []string{"q", "ctrl+c", "esc"},
			Help:    "abort",
			Enabled: true,
		},
	}
}

// Matches checks if a key message matches this key binding.
func (k Key) Matches(msg tea.KeyMsg) bool {
	if !k.Enabled {
		return false
	}

	keyStr := msg.String()
	for _, key := range k.Keys {
		if keyStr == key {
			return true
		}
	}
	return false
}

// StatusBarHelp returns the help line shown under the progress bars.
func (km KeyMap) StatusBarHelp() string {
	if !km.Quit.Enabled || len(km.Quit.Keys) == 0 {
		return ""
	}
	return km.Quit.Keys[0] + " " + km.Quit.Help
}
