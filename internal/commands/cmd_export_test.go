package commands

import (
	"html"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
)

func TestRenderTranscriptEscapesMarkup(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	msgs := []chat.Message{
		{Sender: "alice", Ciphertext: `<script>alert("x")</script>`, Room: "general", Timestamp: float64(now.Unix())},
		{Sender: "<b>bob</b>", Ciphertext: "tea & biscuits", Room: "general", Timestamp: float64(now.Unix())},
	}

	out, err := renderTranscript("general", msgs, now)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.Contains(t, out, "&lt;b&gt;bob&lt;/b&gt;")
	assert.Contains(t, out, "tea &amp; biscuits")
}

func TestRenderTranscriptRoundTrip(t *testing.T) {
	raw := `5 < 6 & "quotes" with 'apostrophes' > 4`
	msgs := []chat.Message{{Sender: "a", Ciphertext: raw, Room: "r"}}

	out, err := renderTranscript("r", msgs, time.Now())
	require.NoError(t, err)

	// The escaped text unescapes back to the original.
	start := strings.Index(out, `<div class="text">`)
	require.Greater(t, start, 0)
	start += len(`<div class="text">`)
	end := strings.Index(out[start:], "</div>")
	require.Greater(t, end, 0)

	assert.Equal(t, raw, html.UnescapeString(out[start:start+end]))
}

func TestRenderTranscriptEmptyRoom(t *testing.T) {
	out, err := renderTranscript("quiet", nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "quiet")
	assert.Contains(t, out, "0 messages")
}

func TestFilterRooms(t *testing.T) {
	rooms := []string{"general", "general-dev", "random", "ops"}

	out, err := filterRooms(rooms, "general*")
	require.NoError(t, err)
	assert.Equal(t, []string{"general", "general-dev"}, out)

	out, err = filterRooms(rooms, "")
	require.NoError(t, err)
	assert.Equal(t, rooms, out)

	_, err = filterRooms(rooms, "[")
	assert.Error(t, err)
}
