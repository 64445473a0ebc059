package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// formTheme builds a huh theme from the active palette so the forms match
// the rest of the screen.
func formTheme(t Theme) *huh.Theme {
	theme := huh.ThemeBase()

	theme.Focused.Title = theme.Focused.Title.Foreground(t.Accent).Bold(true)
	theme.Focused.Base = theme.Focused.Base.BorderForeground(t.Accent)
	theme.Focused.TextInput.Cursor = theme.Focused.TextInput.Cursor.Foreground(t.Accent)
	theme.Focused.TextInput.Prompt = theme.Focused.TextInput.Prompt.Foreground(t.Accent)
	theme.Focused.ErrorMessage = theme.Focused.ErrorMessage.Foreground(t.Danger)
	theme.Blurred.Title = theme.Blurred.Title.Foreground(t.Dim)

	return theme
}

// RoomForm wraps a huh.Form for creating a new room.
type RoomForm struct {
	form      *huh.Form
	name      string
	submitted bool
	cancelled bool
}

// NewRoomForm creates a room creation form. existing is used to reject
// duplicate room names before they hit the server.
func NewRoomForm(existing []string, theme Theme) *RoomForm {
	f := &RoomForm{}

	taken := make(map[string]bool, len(existing))
	for _, r := range existing {
		taken[r] = true
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Room Name").
				Value(&f.name).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return errors.New("room name is required")
					}
					if taken[s] {
						return errors.New("room already exists")
					}
					return nil
				}),
		),
	).WithTheme(formTheme(theme))

	return f
}

// Form returns the underlying huh.Form for tea.Model integration.
func (f *RoomForm) Form() *huh.Form {
	return f.form
}

// Submitted returns true if the form was submitted.
func (f *RoomForm) Submitted() bool {
	return f.submitted
}

// Cancelled returns true if the form was cancelled.
func (f *RoomForm) Cancelled() bool {
	return f.cancelled
}

// SetSubmitted marks the form as submitted.
func (f *RoomForm) SetSubmitted() {
	f.submitted = true
}

// SetCancelled marks the form as cancelled.
func (f *RoomForm) SetCancelled() {
	f.cancelled = true
}

// Name returns the entered room name. Only valid if Submitted() is true.
func (f *RoomForm) Name() string {
	return strings.TrimSpace(f.name)
}

// View renders the form.
func (f *RoomForm) View() string {
	return f.form.View()
}
