// Package prefs holds the locally persisted user preferences: the display
// username and the theme choice. Preferences survive across sessions; the
// TUI and the CLI commands read and write the same store.
package prefs

import (
	"context"
	"errors"
	"time"
)

// Preference keys.
const (
	KeyUsername = "username"
	KeyTheme    = "theme"
	KeyRoom     = "room"
)

// Theme values. Anything other than "light" selects the dark palette.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ErrKeyNotFound is returned when a preference has never been set.
var ErrKeyNotFound = errors.New("preference not found")

// Entry is a single persisted preference.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines persistence operations for preferences.
type Store interface {
	// Get returns an entry by key. Returns ErrKeyNotFound if not found.
	Get(ctx context.Context, key string) (Entry, error)
	// Set creates or updates an entry.
	Set(ctx context.Context, key, value string) error
	// Delete removes an entry by key. Returns ErrKeyNotFound if not found.
	Delete(ctx context.Context, key string) error
	// List returns all entries.
	List(ctx context.Context) ([]Entry, error)
}

// Username returns the persisted username, or empty when unset.
func Username(ctx context.Context, s Store) string {
	e, err := s.Get(ctx, KeyUsername)
	if err != nil {
		return ""
	}
	return e.Value
}

// Room returns the last active room, or empty when unset.
func Room(ctx context.Context, s Store) string {
	e, err := s.Get(ctx, KeyRoom)
	if err != nil {
		return ""
	}
	return e.Value
}

// Theme returns the persisted theme, defaulting to dark.
func Theme(ctx context.Context, s Store) string {
	e, err := s.Get(ctx, KeyTheme)
	if err == nil && e.Value == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}
