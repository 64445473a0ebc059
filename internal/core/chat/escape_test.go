package chat

import (
	"html"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeText_RoundTrip(t *testing.T) {
	inputs := []string{
		`<script>alert("x")</script>`,
		`Tom & Jerry`,
		`she said "hi" & 'bye'`,
		`plain text`,
		``,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			escaped := EscapeText(in)

			// No raw markup characters outside entity form.
			stripped := strings.NewReplacer("&amp;", "", "&lt;", "", "&gt;", "", "&#34;", "", "&#39;", "").Replace(escaped)
			assert.NotContains(t, stripped, "<")
			assert.NotContains(t, stripped, ">")
			assert.NotContains(t, stripped, `"`)
			assert.NotContains(t, stripped, "&")

			// Decoding recovers the original.
			assert.Equal(t, in, html.UnescapeString(escaped))
		})
	}
}

func TestSanitizeDisplay(t *testing.T) {
	t.Run("strips ansi escape sequences", func(t *testing.T) {
		got := SanitizeDisplay("hi\x1b[31mred\x1b[0m")
		assert.NotContains(t, got, "\x1b")
		assert.Contains(t, got, "hi")
	})

	t.Run("keeps newlines, converts tabs", func(t *testing.T) {
		assert.Equal(t, "a\nb c", SanitizeDisplay("a\nb\tc"))
	})

	t.Run("plain text unchanged", func(t *testing.T) {
		assert.Equal(t, "hello æøå", SanitizeDisplay("hello æøå"))
	})
}
