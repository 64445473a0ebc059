package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Preview modal layout constants.
const (
	previewModalMaxWidth  = 100 // maximum modal width in columns
	previewModalMaxHeight = 30  // maximum modal height in rows
	previewModalMargin    = 4   // margin from screen edges
	previewModalChrome    = 7   // rows for title, metadata, help, and spacing
	previewModalPadding   = 4   // padding inside content area
	glamourGutter         = 2   // glamour adds gutter space
)

// PreviewModal displays a single message with markdown rendering.
type PreviewModal struct {
	entry    Entry
	viewport viewport.Model
	theme    Theme
}

// NewPreviewModal creates a preview modal for the given feed entry.
func NewPreviewModal(entry Entry, theme Theme, width, height int) PreviewModal {
	modalWidth := min(width-previewModalMargin, previewModalMaxWidth)
	modalHeight := min(height-previewModalMargin, previewModalMaxHeight)
	contentHeight := max(1, modalHeight-previewModalChrome)

	vp := viewport.New(modalWidth-previewModalPadding, contentHeight)
	vp.Style = lipgloss.NewStyle()

	m := PreviewModal{
		entry:    entry,
		viewport: vp,
		theme:    theme,
	}
	m.renderContent(modalWidth - previewModalPadding - glamourGutter)

	return m
}

// renderContent renders the message text as markdown, falling back to the
// raw text when glamour cannot render it.
func (m *PreviewModal) renderContent(width int) {
	style := "tokyo-night"
	if m.theme.Name == "light" {
		style = "light"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.viewport.SetContent(m.entry.Text)
		return
	}

	rendered, err := renderer.Render(m.entry.Text)
	if err != nil {
		m.viewport.SetContent(m.entry.Text)
		return
	}

	content := strings.TrimSpace(rendered)
	content = stripLeadingDecorative(content)
	content = stripTrailingDecorative(content)
	m.viewport.SetContent(content)
}

// ScrollUp scrolls the viewport up.
func (m *PreviewModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *PreviewModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Overlay renders the modal centered over the full screen.
func (m PreviewModal) Overlay(width, height int) string {
	modalWidth := min(width-previewModalMargin, previewModalMaxWidth)
	modalHeight := min(height-previewModalMargin, previewModalMaxHeight)

	titleStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	senderStyle := lipgloss.NewStyle().Foreground(m.theme.Success)
	timeStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)
	dividerStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)
	helpStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)

	metadata := fmt.Sprintf("%s %s %s",
		senderStyle.Render(m.entry.Sender),
		timeStyle.Render(iconDot),
		timeStyle.Render(m.entry.Clock),
	)

	scrollInfo := ""
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		scrollInfo = timeStyle.Render(fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100))
	}

	divider := strings.Repeat("─", max(1, modalWidth-previewModalPadding))

	modalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Message"+scrollInfo),
		metadata,
		dividerStyle.Render(divider),
		m.viewport.View(),
		helpStyle.Render("[↑/↓/j/k] scroll  [enter/esc] close"),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Padding(0, 1).
		Width(modalWidth).
		Height(modalHeight).
		Render(modalContent)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// isDecorativeLine checks if a line contains only decorative characters
// (horizontal rules, spaces) after stripping ANSI codes.
func isDecorativeLine(line string) bool {
	stripped := ansiPattern.ReplaceAllString(line, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return true
	}
	for _, r := range stripped {
		if r != '─' && r != '━' && r != '-' && r != '=' {
			return false
		}
	}
	return true
}

// stripLeadingDecorative removes leading decorative lines from content.
func stripLeadingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	start := 0
	for start < len(lines) && isDecorativeLine(lines[start]) {
		start++
	}
	if start > 0 {
		return strings.Join(lines[start:], "\n")
	}
	return content
}

// stripTrailingDecorative removes trailing decorative lines from content.
func stripTrailingDecorative(content string) string {
	lines := strings.Split(content, "\n")
	end := len(lines)
	for end > 0 && isDecorativeLine(lines[end-1]) {
		end--
	}
	if end < len(lines) {
		return strings.Join(lines[:end], "\n")
	}
	return content
}
