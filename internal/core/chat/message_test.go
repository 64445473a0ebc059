package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage_DisplaySender(t *testing.T) {
	assert.Equal(t, "alice", Message{Sender: "alice"}.DisplaySender())
	assert.Equal(t, UnknownSender, Message{}.DisplaySender())
}

func TestMessage_Time(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	t.Run("converts wire timestamp", func(t *testing.T) {
		m := Message{Timestamp: 1714566600.5}
		got := m.Time(now)
		assert.Equal(t, time.Unix(1714566600, int64(500*time.Millisecond)).Unix(), got.Unix())
	})

	t.Run("absent timestamp uses now", func(t *testing.T) {
		assert.Equal(t, now, Message{}.Time(now))
	})
}

func TestMessage_IsMine(t *testing.T) {
	tests := []struct {
		name          string
		sender        string
		usernameField string
		want          bool
	}{
		{"exact match", "alice", "alice", true},
		{"field is trimmed", "alice", "  alice  ", true},
		{"case sensitive mismatch", "alice", "Alice", false},
		{"different sender", "bob", "alice", false},
		{"empty field resolves to Anon", DefaultSender, "", true},
		{"empty field does not own others", "alice", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Message{Sender: tt.sender}
			assert.Equal(t, tt.want, m.IsMine(tt.usernameField))
		})
	}
}

func TestFilterRoom(t *testing.T) {
	msgs := []Message{
		{Sender: "a", Room: "general"},
		{Sender: "b", Room: "random"},
		{Sender: "c"}, // no room, visible everywhere
		{Sender: "d", Room: "general"},
	}

	got := FilterRoom(msgs, "general")

	// Order is preserved, room-less entries retained.
	assert.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Sender)
	assert.Equal(t, "c", got[1].Sender)
	assert.Equal(t, "d", got[2].Sender)
}

func TestPickRoom(t *testing.T) {
	t.Run("keeps current when present", func(t *testing.T) {
		assert.Equal(t, "general", PickRoom("general", []string{"random", "general"}))
	})

	t.Run("falls back to first when absent", func(t *testing.T) {
		assert.Equal(t, "random", PickRoom("gone", []string{"random", "general"}))
	})

	t.Run("empty list keeps current", func(t *testing.T) {
		assert.Equal(t, "general", PickRoom("general", nil))
	})
}

func TestResolveSender(t *testing.T) {
	assert.Equal(t, "alice", ResolveSender(" alice "))
	assert.Equal(t, DefaultSender, ResolveSender(""))
	assert.Equal(t, DefaultSender, ResolveSender("   "))
}
