// Package tui implements the Bubble Tea interface for the sikkerchat client.
package tui

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
)

// Theme holds the color palette for one theme choice.
type Theme struct {
	Name string

	Accent  lipgloss.Color // highlights, active room, prompts
	Text    lipgloss.Color // message bodies
	Dim     lipgloss.Color // metadata, help, inactive rooms
	Success lipgloss.Color // ok status
	Danger  lipgloss.Color // error status
	Mine    lipgloss.Color // own messages
}

// Tokyo Night palette for the dark theme.
var darkTheme = Theme{
	Name:    prefs.ThemeDark,
	Accent:  lipgloss.Color("#7aa2f7"),
	Text:    lipgloss.Color("#c0caf5"),
	Dim:     lipgloss.Color("#565f89"),
	Success: lipgloss.Color("#9ece6a"),
	Danger:  lipgloss.Color("#d75f6b"),
	Mine:    lipgloss.Color("#9ece6a"),
}

// Tokyo Night Day palette for the light theme.
var lightTheme = Theme{
	Name:    prefs.ThemeLight,
	Accent:  lipgloss.Color("#2e7de9"),
	Text:    lipgloss.Color("#3760bf"),
	Dim:     lipgloss.Color("#848cb5"),
	Success: lipgloss.Color("#587539"),
	Danger:  lipgloss.Color("#c64343"),
	Mine:    lipgloss.Color("#587539"),
}

// ThemeFor returns the palette for a persisted theme value. Anything other
// than "light" selects the dark palette.
func ThemeFor(name string) Theme {
	if name == prefs.ThemeLight {
		return lightTheme
	}
	return darkTheme
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == prefs.ThemeLight {
		return darkTheme
	}
	return lightTheme
}

// senderPalette colors senders deterministically so the same name always
// renders in the same color.
var senderPalette = []lipgloss.Color{
	lipgloss.Color("#7aa2f7"), // blue
	lipgloss.Color("#bb9af7"), // purple
	lipgloss.Color("#7dcfff"), // cyan
	lipgloss.Color("#e0af68"), // yellow
	lipgloss.Color("#f7768e"), // red
	lipgloss.Color("#73daca"), // teal
}

// colorForString hashes a string onto the sender palette.
func colorForString(s string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return senderPalette[h.Sum32()%uint32(len(senderPalette))]
}

// Icons and symbols.
const (
	iconRoom = "#"
	iconDot  = "·"
)
