package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateComposing UIState = iota
	stateBrowsing
	stateCreatingRoom
	stateEditingUser
	statePreviewing
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
)

// Status line text.
const (
	statusUpdating     = "Updating…"
	statusConnected    = "Connected ✔"
	statusConnError    = "Connection error"
	statusSending      = "Sending…"
	statusSent         = "Sent ✔"
	statusSendFailed   = "Could not send message"
	statusCreatingRoom = "Creating room…"
	statusRoomCreated  = "Room created ✔"
	statusRoomFailed   = "Could not create room"
)

// Options configures the TUI behavior.
type Options struct {
	Service        ChatService
	Prefs          prefs.Store // optional, nil disables persistence
	Logger         zerolog.Logger
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Room           string
	Username       string
	Theme          string
}

// Model is the main Bubble Tea model for the chat TUI.
type Model struct {
	svc            ChatService
	prefStore      prefs.Store
	log            zerolog.Logger
	pollInterval   time.Duration
	requestTimeout time.Duration

	state  UIState
	width  int
	height int

	feed     *FeedView
	roomsBar *RoomsView
	input    textinput.Model
	roomForm *RoomForm
	userForm *UserForm
	preview  PreviewModal

	theme Theme

	messages []chat.Message
	rooms    []string
	room     string
	username string

	fetching       bool // a messages request is in flight
	pendingRefresh bool // a refresh arrived while a fetch was in flight
	pendingScroll  bool // the deferred refresh scrolls to the end
	polling        bool // the background tick chain has started
	sending        bool // a composer submit is in flight

	statusText    string
	statusIsErr   bool
	confirmStatus string // confirmation to show once the active refresh lands

	quitting bool

	now func() time.Time
}

// New creates a new chat TUI model.
func New(opts Options) Model {
	theme := ThemeFor(opts.Theme)

	input := textinput.New()
	input.Placeholder = "Type a message"
	input.Prompt = "> "
	input.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	input.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	input.CharLimit = 0
	input.Focus()

	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	return Model{
		svc:            opts.Service,
		prefStore:      opts.Prefs,
		log:            opts.Logger,
		pollInterval:   opts.PollInterval,
		requestTimeout: opts.RequestTimeout,
		state:          stateComposing,
		feed:           NewFeedView(theme),
		roomsBar:       NewRoomsView(theme),
		input:          input,
		theme:          theme,
		room:           opts.Room,
		username:       opts.Username,
		fetching:       true,
		statusText:     statusUpdating,
		now:            time.Now,
		width:          80,
		height:         24,
	}
}

// Init starts the composer cursor, the first fetch, and the room load. The
// poll tick chain starts once the first fetch completes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		fetchMessages(m.svc, m.room, m.requestTimeout, true),
		loadRooms(m.svc, m.requestTimeout),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pollTickMsg:
		return m.handlePollTick()

	case messagesFetchedMsg:
		return m.handleMessagesFetched(msg)

	case roomsLoadedMsg:
		return m.handleRoomsLoaded(msg)

	case messageSentMsg:
		return m.handleMessageSent(msg)

	case roomCreatedMsg:
		return m.handleRoomCreated(msg)

	case prefSavedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("key", msg.key).Msg("failed to persist preference")
		}
		return m, nil
	}

	// Forms consume every message type while open, not just keys.
	switch m.state {
	case stateCreatingRoom:
		return m.updateRoomForm(msg)
	case stateEditingUser:
		return m.updateUserForm(msg)
	}

	return m, nil
}

// refresh starts a fetch. A refresh requested while one is in flight is
// not dropped: it is remembered and replayed as soon as the active fetch
// lands, so a room change never waits for the next poll tick.
func (m *Model) refresh(scrollToEnd bool) tea.Cmd {
	if m.fetching {
		m.pendingRefresh = true
		m.pendingScroll = m.pendingScroll || scrollToEnd
		return nil
	}
	m.fetching = true
	if m.confirmStatus == "" {
		m.setStatus(statusUpdating, false)
	}
	return fetchMessages(m.svc, m.room, m.requestTimeout, scrollToEnd)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusText = text
	m.statusIsErr = isErr
}

// layout distributes the window between the bars, the feed, and the composer.
func (m *Model) layout() {
	feedHeight := m.height - 4 // room bar, status line, composer, spacing
	if feedHeight < 3 {
		feedHeight = 3
	}
	m.feed.SetSize(m.width, feedHeight)
	m.roomsBar.SetWidth(m.width)
	m.input.Width = max(10, m.width-4)
}

// reproject rebuilds the feed entries from the cached batch without
// touching the network.
func (m *Model) reproject(forceScroll bool) {
	entries := projectMessages(m.messages, m.room, m.username, m.now())
	m.feed.SetEntries(entries, forceScroll)
}

func (m Model) handlePollTick() (tea.Model, tea.Cmd) {
	// The chain always continues. A tick that lands while a request is in
	// flight skips the fetch so at most one runs at a time.
	cmds := []tea.Cmd{schedulePollTick(m.pollInterval)}
	if !m.fetching {
		m.fetching = true
		cmds = append(cmds, fetchMessages(m.svc, m.room, m.requestTimeout, false))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleMessagesFetched(msg messagesFetchedMsg) (tea.Model, tea.Cmd) {
	m.fetching = false

	var cmds []tea.Cmd
	if !m.polling {
		m.polling = true
		cmds = append(cmds, schedulePollTick(m.pollInterval))
	}

	stale := msg.room != m.room
	switch {
	case msg.err != nil:
		// Keep the previous feed on a failed cycle.
		m.log.Error().Err(msg.err).Str("room", msg.room).Msg("message fetch failed")
		m.confirmStatus = ""
		m.setStatus(statusConnError, true)
	case stale:
		// The room changed while this batch was in flight. Drop it.
	default:
		m.messages = msg.messages
		if m.confirmStatus != "" {
			m.setStatus(m.confirmStatus, false)
			m.confirmStatus = ""
		} else {
			m.setStatus(statusConnected, false)
		}
		m.reproject(msg.scrollToEnd)
	}

	if m.pendingRefresh || (stale && msg.err == nil) {
		scroll := m.pendingScroll || stale
		m.pendingRefresh = false
		m.pendingScroll = false
		m.fetching = true
		cmds = append(cmds, fetchMessages(m.svc, m.room, m.requestTimeout, scroll))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleRoomsLoaded(msg roomsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Keep the previous directory on failure.
		m.log.Error().Err(msg.err).Msg("room list fetch failed")
		return m, nil
	}

	m.rooms = msg.rooms
	resolved := chat.PickRoom(m.room, m.rooms)
	changed := resolved != m.room
	m.room = resolved
	m.roomsBar.SetRooms(m.rooms, m.room)

	if changed {
		cmd := m.refresh(true)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMessageSent(msg messageSentMsg) (tea.Model, tea.Cmd) {
	m.sending = false

	if msg.err != nil {
		// The composer keeps its text so the user can retry.
		m.log.Error().Err(msg.err).Msg("send failed")
		m.setStatus(statusSendFailed, true)
		return m, nil
	}

	m.input.SetValue("")
	m.confirmStatus = statusSent
	m.setStatus(statusSent, false)
	cmd := m.refresh(true)
	return m, cmd
}

func (m Model) handleRoomCreated(msg roomCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("room", msg.name).Msg("room create failed")
		m.setStatus(statusRoomFailed, true)
		return m, nil
	}

	m.room = msg.name
	m.confirmStatus = statusRoomCreated
	m.setStatus(statusRoomCreated, false)
	refreshCmd := m.refresh(true)
	return m, tea.Batch(
		loadRooms(m.svc, m.requestTimeout),
		refreshCmd,
		savePref(m.prefStore, prefs.KeyRoom, m.room),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == keyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateComposing:
		return m.handleComposerKey(msg, keyStr)
	case stateBrowsing:
		return m.handleBrowseKey(keyStr)
	case stateCreatingRoom:
		return m.handleRoomFormKey(msg, keyStr)
	case stateEditingUser:
		return m.handleUserFormKey(msg, keyStr)
	case statePreviewing:
		return m.handlePreviewKey(keyStr)
	}
	return m, nil
}

func (m Model) handleComposerKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyEnter:
		return m.submit()
	case "esc":
		m.state = stateBrowsing
		m.feed.SetBrowsing(true)
		return m, nil
	case "tab":
		return m.cycleRoom(1)
	case "shift+tab":
		return m.cycleRoom(-1)
	case "ctrl+r":
		cmd := m.refresh(true)
		return m, cmd
	case "ctrl+n":
		m.state = stateCreatingRoom
		m.roomForm = NewRoomForm(m.rooms, m.theme)
		return m, m.roomForm.Form().Init()
	case "ctrl+u":
		m.state = stateEditingUser
		m.userForm = NewUserForm(m.username, m.theme)
		return m, m.userForm.Form().Init()
	case "ctrl+t":
		return m.toggleTheme()
	case "pgup":
		m.feed.PageUp()
		return m, nil
	case "pgdown":
		m.feed.PageDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit posts the composer text. Empty input and an in-flight send are
// both rejected without touching the network.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	out := chat.Outgoing{
		Sender:     m.username,
		Ciphertext: text,
		Room:       m.room,
	}

	m.sending = true
	m.setStatus(statusSending, false)
	return m, sendMessage(m.svc, out, m.requestTimeout)
}

// cycleRoom moves the active room through the directory and refetches.
func (m Model) cycleRoom(step int) (tea.Model, tea.Cmd) {
	if len(m.rooms) == 0 {
		return m, nil
	}

	idx := 0
	for i, r := range m.rooms {
		if r == m.room {
			idx = i
			break
		}
	}
	idx = (idx + step + len(m.rooms)) % len(m.rooms)
	m.room = m.rooms[idx]
	m.roomsBar.SetRooms(m.rooms, m.room)
	m.reproject(true)

	refreshCmd := m.refresh(true)
	return m, tea.Batch(
		refreshCmd,
		savePref(m.prefStore, prefs.KeyRoom, m.room),
	)
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.theme = m.theme.Toggle()
	m.feed.SetTheme(m.theme)
	m.roomsBar.SetTheme(m.theme)
	m.input.PromptStyle = lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	m.input.Cursor.Style = lipgloss.NewStyle().Foreground(m.theme.Accent)
	return m, savePref(m.prefStore, prefs.KeyTheme, m.theme.Name)
}

func (m Model) handleBrowseKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc", "i", "q":
		m.state = stateComposing
		m.feed.SetBrowsing(false)
		return m, nil
	case "up", "k":
		m.feed.MoveUp()
		return m, nil
	case "down", "j":
		m.feed.MoveDown()
		return m, nil
	case "pgup":
		m.feed.PageUp()
		return m, nil
	case "pgdown":
		m.feed.PageDown()
		return m, nil
	case "G":
		m.feed.GotoBottom()
		return m, nil
	case keyEnter:
		entry := m.feed.SelectedEntry()
		if entry == nil {
			return m, nil
		}
		m.preview = NewPreviewModal(*entry, m.theme, m.width, m.height)
		m.state = statePreviewing
		return m, nil
	}
	return m, nil
}

func (m Model) handlePreviewKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc", keyEnter, "q":
		m.state = stateBrowsing
		return m, nil
	case "up", "k":
		m.preview.ScrollUp()
		return m, nil
	case "down", "j":
		m.preview.ScrollDown()
		return m, nil
	}
	return m, nil
}

func (m Model) handleRoomFormKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	if keyStr == "esc" {
		m.roomForm.SetCancelled()
		m.roomForm = nil
		m.state = stateComposing
		return m, nil
	}
	return m.updateRoomForm(msg)
}

// updateRoomForm routes any message to the form and reacts to completion.
func (m Model) updateRoomForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.roomForm.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.roomForm.form = f

		if f.State == huh.StateCompleted {
			m.roomForm.SetSubmitted()
			name := m.roomForm.Name()
			m.roomForm = nil
			m.state = stateComposing
			m.setStatus(statusCreatingRoom, false)
			return m, createRoom(m.svc, name, m.requestTimeout)
		}
		if f.State == huh.StateAborted {
			m.roomForm = nil
			m.state = stateComposing
			return m, nil
		}
	}
	return m, cmd
}

func (m Model) handleUserFormKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	if keyStr == "esc" {
		m.userForm.SetCancelled()
		m.userForm = nil
		m.state = stateComposing
		return m, nil
	}
	return m.updateUserForm(msg)
}

// updateUserForm routes any message to the form and reacts to completion.
// A submitted name re-labels message ownership on the next render.
func (m Model) updateUserForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.userForm.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.userForm.form = f

		if f.State == huh.StateCompleted {
			m.userForm.SetSubmitted()
			m.username = m.userForm.Username()
			m.userForm = nil
			m.state = stateComposing
			m.reproject(false)
			return m, savePref(m.prefStore, prefs.KeyUsername, m.username)
		}
		if f.State == huh.StateAborted {
			m.userForm = nil
			m.state = stateComposing
			return m, nil
		}
	}
	return m, cmd
}
