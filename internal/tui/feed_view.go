package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
)

// bottomFollowThreshold is how close (in lines) the view must be to the
// bottom for a background refresh to keep following new messages. Renders
// triggered by a user action always jump to the end regardless.
const bottomFollowThreshold = 40

// Entry is one projected feed block ready for display.
type Entry struct {
	Sender string
	Text   string
	Clock  string // "15:04"
	Mine   bool
}

// projectMessages filters the batch to the current room and computes the
// display fields for each retained message, in server order. The username
// field is the live value, so editing it re-labels ownership immediately.
func projectMessages(msgs []chat.Message, room, usernameField string, now time.Time) []Entry {
	filtered := chat.FilterRoom(msgs, room)
	out := make([]Entry, 0, len(filtered))
	for _, m := range filtered {
		out = append(out, Entry{
			Sender: chat.SanitizeDisplay(m.DisplaySender()),
			Text:   chat.SanitizeDisplay(m.Text()),
			Clock:  m.Time(now).Local().Format("15:04"),
			Mine:   m.IsMine(usernameField),
		})
	}
	return out
}

// feedLine is one renderable line of the feed. Meta lines carry the sender
// and clock of their entry; body lines carry wrapped message text.
type feedLine struct {
	entry int // index into entries, -1 for spacer
	meta  bool
	text  string
}

// FeedView renders the message feed with cursor selection and a
// follow-the-bottom scroll policy.
type FeedView struct {
	entries  []Entry
	lines    []feedLine
	offset   int
	cursor   int
	browsing bool
	width    int
	height   int
	theme    Theme
}

// NewFeedView creates an empty feed view.
func NewFeedView(theme Theme) *FeedView {
	return &FeedView{theme: theme, width: 80, height: 24}
}

// SetTheme switches the palette.
func (v *FeedView) SetTheme(t Theme) { v.theme = t }

// SetSize sets the viewport dimensions.
func (v *FeedView) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
	v.rebuild()
	v.clampOffset()
}

// SetEntries replaces the feed contents. forceScroll jumps to the end; a
// background replacement only follows the bottom when the view was already
// within bottomFollowThreshold lines of it.
func (v *FeedView) SetEntries(entries []Entry, forceScroll bool) {
	wasNear := v.distanceFromBottom() < bottomFollowThreshold

	v.entries = entries
	if v.cursor >= len(entries) {
		v.cursor = max(0, len(entries)-1)
	}
	v.rebuild()

	if forceScroll || wasNear {
		v.GotoBottom()
		return
	}
	v.clampOffset()
}

// Entries returns the currently projected entries.
func (v *FeedView) Entries() []Entry { return v.entries }

// SetBrowsing toggles cursor selection mode.
func (v *FeedView) SetBrowsing(on bool) {
	v.browsing = on
	if on && len(v.entries) > 0 {
		v.cursor = len(v.entries) - 1
		v.ensureCursorVisible()
	}
}

// SelectedEntry returns the entry under the cursor, or nil if none.
func (v *FeedView) SelectedEntry() *Entry {
	if !v.browsing || len(v.entries) == 0 || v.cursor >= len(v.entries) {
		return nil
	}
	return &v.entries[v.cursor]
}

// MoveUp moves the cursor to the previous entry.
func (v *FeedView) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
		v.ensureCursorVisible()
	}
}

// MoveDown moves the cursor to the next entry.
func (v *FeedView) MoveDown() {
	if v.cursor < len(v.entries)-1 {
		v.cursor++
		v.ensureCursorVisible()
	}
}

// ScrollUp scrolls the viewport up by n lines.
func (v *FeedView) ScrollUp(n int) {
	v.offset -= n
	v.clampOffset()
}

// ScrollDown scrolls the viewport down by n lines.
func (v *FeedView) ScrollDown(n int) {
	v.offset += n
	v.clampOffset()
}

// PageUp scrolls up by one viewport height.
func (v *FeedView) PageUp() { v.ScrollUp(v.height) }

// PageDown scrolls down by one viewport height.
func (v *FeedView) PageDown() { v.ScrollDown(v.height) }

// GotoBottom jumps to the end of the feed.
func (v *FeedView) GotoBottom() {
	v.offset = v.maxOffset()
}

// AtBottom reports whether the last line is visible.
func (v *FeedView) AtBottom() bool {
	return v.offset >= v.maxOffset()
}

func (v *FeedView) maxOffset() int {
	return max(0, len(v.lines)-v.height)
}

func (v *FeedView) clampOffset() {
	if v.offset > v.maxOffset() {
		v.offset = v.maxOffset()
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// distanceFromBottom returns how many lines below the viewport remain.
func (v *FeedView) distanceFromBottom() int {
	return max(0, len(v.lines)-(v.offset+v.height))
}

// ensureCursorVisible scrolls so the cursor's meta line is on screen.
func (v *FeedView) ensureCursorVisible() {
	first := -1
	last := -1
	for i, line := range v.lines {
		if line.entry == v.cursor {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return
	}

	if first < v.offset {
		v.offset = first
	} else if last >= v.offset+v.height {
		v.offset = last - v.height + 1
	}
	v.clampOffset()
}

// rebuild flattens entries into renderable lines: a meta line, the wrapped
// body, and a spacer per entry.
func (v *FeedView) rebuild() {
	v.lines = v.lines[:0]

	bodyWidth := v.width - 4
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	for i, e := range v.entries {
		v.lines = append(v.lines, feedLine{entry: i, meta: true})

		for _, line := range strings.Split(wordwrap.String(e.Text, bodyWidth), "\n") {
			v.lines = append(v.lines, feedLine{entry: i, text: line})
		}

		if i < len(v.entries)-1 {
			v.lines = append(v.lines, feedLine{entry: -1})
		}
	}
}

// View renders the visible window of the feed.
func (v *FeedView) View() string {
	var b strings.Builder

	if len(v.entries) == 0 {
		empty := lipgloss.NewStyle().Foreground(v.theme.Dim).Render("  No messages yet")
		b.WriteString(empty)
		for i := 1; i < v.height; i++ {
			b.WriteString("\n")
		}
		return b.String()
	}

	end := min(v.offset+v.height, len(v.lines))
	rendered := 0

	for i := v.offset; i < end; i++ {
		line := v.lines[i]
		b.WriteString(v.renderLine(line))
		b.WriteString("\n")
		rendered++
	}

	// Pad to a fixed height so the layout below never shifts.
	for i := rendered; i < v.height; i++ {
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (v *FeedView) renderLine(line feedLine) string {
	if line.entry == -1 {
		return ""
	}

	selected := v.browsing && line.entry == v.cursor

	marker := "  "
	if selected {
		marker = lipgloss.NewStyle().Foreground(v.theme.Accent).Render("┃") + " "
	}

	if line.meta {
		e := v.entries[line.entry]

		senderColor := colorForString(e.Sender)
		if e.Mine {
			senderColor = v.theme.Mine
		}
		senderStyle := lipgloss.NewStyle().Foreground(senderColor).Bold(true)
		metaStyle := lipgloss.NewStyle().Foreground(v.theme.Dim)

		meta := senderStyle.Render(e.Sender)
		if e.Mine {
			meta += metaStyle.Render(" (you)")
		}
		meta += metaStyle.Render(" " + iconDot + " " + e.Clock)
		return marker + meta
	}

	bodyStyle := lipgloss.NewStyle().Foreground(v.theme.Text)
	if selected {
		bodyStyle = bodyStyle.Bold(true)
	}
	return marker + bodyStyle.Render(line.text)
}
