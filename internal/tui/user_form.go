package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// UserForm wraps a huh.Form for editing the display name.
type UserForm struct {
	form      *huh.Form
	username  string
	submitted bool
	cancelled bool
}

// NewUserForm creates a username form prefilled with the current value.
// An empty submission is allowed and falls back to the anonymous sender.
func NewUserForm(current string, theme Theme) *UserForm {
	f := &UserForm{username: current}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display Name").
				Description("Leave empty to post as Anon").
				Value(&f.username),
		),
	).WithTheme(formTheme(theme))

	return f
}

// Form returns the underlying huh.Form for tea.Model integration.
func (f *UserForm) Form() *huh.Form {
	return f.form
}

// Submitted returns true if the form was submitted.
func (f *UserForm) Submitted() bool {
	return f.submitted
}

// Cancelled returns true if the form was cancelled.
func (f *UserForm) Cancelled() bool {
	return f.cancelled
}

// SetSubmitted marks the form as submitted.
func (f *UserForm) SetSubmitted() {
	f.submitted = true
}

// SetCancelled marks the form as cancelled.
func (f *UserForm) SetCancelled() {
	f.cancelled = true
}

// Username returns the entered name. Only valid if Submitted() is true.
func (f *UserForm) Username() string {
	return strings.TrimSpace(f.username)
}

// View renders the form.
func (f *UserForm) View() string {
	return f.form.View()
}
