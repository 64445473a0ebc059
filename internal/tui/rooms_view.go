package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RoomsView renders the room directory as a horizontal bar with the active
// room highlighted.
type RoomsView struct {
	rooms  []string
	active string
	width  int
	theme  Theme
}

// NewRoomsView creates an empty room bar.
func NewRoomsView(theme Theme) *RoomsView {
	return &RoomsView{theme: theme, width: 80}
}

// SetTheme switches the palette.
func (v *RoomsView) SetTheme(t Theme) { v.theme = t }

// SetWidth sets the bar width.
func (v *RoomsView) SetWidth(width int) { v.width = width }

// SetRooms replaces the directory and re-resolves the active room against it.
func (v *RoomsView) SetRooms(rooms []string, active string) {
	v.rooms = rooms
	v.active = active
}

// View renders the bar. Rooms past the available width are summarized.
func (v *RoomsView) View() string {
	if len(v.rooms) == 0 {
		return lipgloss.NewStyle().Foreground(v.theme.Dim).Render(" no rooms ")
	}

	activeStyle := lipgloss.NewStyle().
		Foreground(v.theme.Accent).
		Bold(true)
	idleStyle := lipgloss.NewStyle().Foreground(v.theme.Dim)

	var parts []string
	used := 0
	hidden := 0
	for _, room := range v.rooms {
		label := iconRoom + room
		// Leave headroom for the overflow marker.
		if used+len(label)+3 > v.width-8 && len(parts) > 0 {
			hidden++
			continue
		}
		if room == v.active {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, idleStyle.Render(label))
		}
		used += len(label) + 3
	}

	bar := strings.Join(parts, "   ")
	if hidden > 0 {
		bar += idleStyle.Render("  +" + strconv.Itoa(hidden))
	}
	return bar
}
