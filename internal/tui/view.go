package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// View renders the full screen: room bar, feed, status line, composer,
// and help, with modal overlays on top.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	main := m.renderMain()

	switch m.state {
	case stateCreatingRoom:
		if m.roomForm != nil {
			return m.renderFormOverlay("New Room", m.roomForm.View())
		}
	case stateEditingUser:
		if m.userForm != nil {
			return m.renderFormOverlay("Display Name", m.userForm.View())
		}
	case statePreviewing:
		return m.preview.Overlay(m.width, m.height)
	}

	return main
}

func (m Model) renderMain() string {
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)

	statusStyle := lipgloss.NewStyle().Foreground(m.theme.Success)
	if m.statusIsErr {
		statusStyle = lipgloss.NewStyle().Foreground(m.theme.Danger)
	}

	var composer string
	if m.state == stateBrowsing {
		composer = dimStyle.Render("browsing  [esc] back to composer")
	} else {
		composer = m.input.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.roomsBar.View(),
		m.feed.View(),
		statusStyle.Render(m.statusText),
		composer,
		dimStyle.Render(m.helpLine()),
	)
}

func (m Model) helpLine() string {
	switch m.state {
	case stateBrowsing:
		return "[↑/↓/j/k] select  [enter] preview  [pgup/pgdn] scroll  [esc] compose  [ctrl+c] quit"
	default:
		return "[enter] send  [tab] room  [esc] browse  [ctrl+n] new room  [ctrl+u] name  [ctrl+t] theme  [ctrl+r] refresh  [ctrl+c] quit"
	}
}

// renderFormOverlay centers a bordered form over the screen.
func (m Model) renderFormOverlay(title, body string) string {
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		"",
		body,
		"",
		lipgloss.NewStyle().Foreground(m.theme.Dim).Render("[enter] confirm  [esc] cancel"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Padding(1, 2).
		Width(min(m.width-previewModalMargin, 60)).
		Render(content)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// Room returns the active room, for callers inspecting the final model.
func (m Model) Room() string { return m.room }

// Username returns the live display name field.
func (m Model) Username() string { return m.username }

// StatusLine returns the current status text and whether it is an error.
func (m Model) StatusLine() (string, bool) { return m.statusText, m.statusIsErr }
