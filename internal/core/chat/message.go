// Package chat defines the message feed data model and the service the TUI
// and CLI commands share.
package chat

import (
	"strings"
	"time"
)

// Sentinel display identities for absent fields.
const (
	// DefaultSender is used when the local username field resolves empty.
	DefaultSender = "Anon"
	// UnknownSender is shown for received messages without a sender field.
	UnknownSender = "Unknown"
)

// Message is a single feed entry as returned by the remote store. The body
// travels in a field named ciphertext but carries plain text; the name is a
// leftover from a planned encryption layer that never shipped.
type Message struct {
	Sender     string  `json:"sender"`
	Ciphertext string  `json:"ciphertext"`
	Room       string  `json:"room,omitempty"`
	Timestamp  float64 `json:"timestamp,omitempty"` // seconds since epoch, fractional
}

// Text returns the message body.
func (m Message) Text() string { return m.Ciphertext }

// DisplaySender returns the sender label, substituting a sentinel when the
// field is absent.
func (m Message) DisplaySender() string {
	if m.Sender == "" {
		return UnknownSender
	}
	return m.Sender
}

// Time converts the wire timestamp to a local time. Messages without a
// timestamp are stamped with now; older backends served records that predate
// server-side timestamping.
func (m Message) Time(now time.Time) time.Time {
	if m.Timestamp == 0 {
		return now
	}
	sec := int64(m.Timestamp)
	nsec := int64((m.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// InRoom reports whether the message is visible in the given room. Messages
// without a room field predate room-scoped storage and show everywhere.
func (m Message) InRoom(room string) bool {
	return m.Room == "" || m.Room == room
}

// IsMine reports whether the message was sent under the given username field
// value, resolved the same way the composer resolves the outgoing sender.
// Plain string equality: identity here is a display label, not a security
// boundary.
func (m Message) IsMine(usernameField string) bool {
	return m.Sender == ResolveSender(usernameField)
}

// ResolveSender trims the username field and falls back to the anonymous
// sentinel when empty.
func ResolveSender(field string) string {
	s := strings.TrimSpace(field)
	if s == "" {
		return DefaultSender
	}
	return s
}

// FilterRoom returns the subset of msgs visible in room, preserving the
// server-defined order.
func FilterRoom(msgs []Message, room string) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.InRoom(room) {
			out = append(out, m)
		}
	}
	return out
}

// PickRoom returns current if it is present in rooms, and otherwise falls
// back to the first available room. An empty list keeps the current room.
func PickRoom(current string, rooms []string) string {
	if len(rooms) == 0 {
		return current
	}
	for _, r := range rooms {
		if r == current {
			return current
		}
	}
	return rooms[0]
}
