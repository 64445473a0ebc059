package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
)

// fakeChatService is an in-memory ChatService with switchable failures.
type fakeChatService struct {
	mu       sync.Mutex
	messages []chat.Message
	rooms    []string

	failMessages bool
	failSend     bool
	failRooms    bool

	fetchCalls int
	sendCalls  int
	lastSent   chat.Outgoing
}

func (f *fakeChatService) Messages(_ context.Context, _ string) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.failMessages {
		return nil, errors.New("server unreachable")
	}
	out := make([]chat.Message, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeChatService) Send(_ context.Context, out chat.Outgoing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	f.lastSent = out
	if f.failSend {
		return errors.New("server unreachable")
	}
	f.messages = append(f.messages, chat.Message{
		Sender:     chat.ResolveSender(out.Sender),
		Ciphertext: out.Ciphertext,
		Room:       out.Room,
		Timestamp:  float64(time.Now().Unix()),
	})
	return nil
}

func (f *fakeChatService) Rooms(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRooms {
		return nil, errors.New("server unreachable")
	}
	out := make([]string, len(f.rooms))
	copy(out, f.rooms)
	return out, nil
}

func (f *fakeChatService) CreateRoom(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, name)
	return nil
}

func newTestModel(svc ChatService) Model {
	return New(Options{
		Service:        svc,
		Logger:         zerolog.Nop(),
		PollInterval:   time.Millisecond,
		RequestTimeout: time.Second,
		Room:           "general",
	})
}

// deliver runs a command and feeds every resulting message back into the
// model. Poll ticks are dropped so the timer chain terminates in tests.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(pollTickMsg); ok {
			continue
		}
		if msg == nil {
			continue
		}

		updated, followup := m.Update(msg)
		m = updated.(Model)
		if followup != nil {
			queue = append(queue, followup)
		}
	}
	return m
}

func keyPress(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, c := m.Update(msg)
		m = updated.(Model)
		cmd = c
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestModelInitialFetchPopulatesFeed(t *testing.T) {
	svc := &fakeChatService{
		messages: []chat.Message{
			{Sender: "alice", Ciphertext: "hi", Room: "general"},
		},
		rooms: []string{"general", "dev"},
	}

	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	status, isErr := m.StatusLine()
	assert.Equal(t, statusConnected, status)
	assert.False(t, isErr)
	assert.True(t, m.polling, "poll chain should start after the first fetch")

	require.Len(t, m.feed.Entries(), 1)
	assert.Equal(t, "hi", m.feed.Entries()[0].Text)
}

func TestModelFailedFetchKeepsPreviousFeed(t *testing.T) {
	svc := &fakeChatService{
		messages: []chat.Message{
			{Sender: "alice", Ciphertext: "hi", Room: "general"},
		},
		rooms: []string{"general"},
	}

	m := newTestModel(svc)
	m = deliver(t, m, m.Init())
	require.Len(t, m.feed.Entries(), 1)

	svc.mu.Lock()
	svc.failMessages = true
	svc.mu.Unlock()

	updated, cmd := m.Update(pollTickMsg{})
	m = deliver(t, updated.(Model), cmd)

	status, isErr := m.StatusLine()
	assert.Equal(t, statusConnError, status)
	assert.True(t, isErr)
	assert.Len(t, m.feed.Entries(), 1, "failed cycle must keep the previous feed")
}

func TestModelAtMostOneFetchInFlight(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	// Simulate an in-flight request, then a tick.
	m.fetching = true
	before := svc.fetchCalls

	updated, cmd := m.Update(pollTickMsg{})
	m = updated.(Model)

	// Execute the batch: the tick reschedules but must not fetch.
	if cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for range batch {
			}
		}
	}
	assert.Equal(t, before, svc.fetchCalls, "tick during an in-flight fetch must not start another")
}

func TestModelSubmitGuards(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	// Empty input: no send.
	_, cmd := keyPress(t, m, "enter")
	assert.Nil(t, cmd)

	// With text: a send command is produced.
	m = typeText(t, m, "hello")
	m2, cmd := keyPress(t, m, "enter")
	m = m2
	require.NotNil(t, cmd)
	assert.True(t, m.sending)

	// Re-entrancy guard: a second enter while in flight is ignored.
	_, cmd2 := keyPress(t, m, "enter")
	assert.Nil(t, cmd2)
}

func TestModelSendRoundTrip(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := New(Options{
		Service:        svc,
		Logger:         zerolog.Nop(),
		PollInterval:   time.Millisecond,
		RequestTimeout: time.Second,
		Room:           "general",
		Username:       "alice",
	})
	m = deliver(t, m, m.Init())
	fetchesBefore := svc.fetchCalls

	m = typeText(t, m, "hello")
	m2, cmd := keyPress(t, m, "enter")
	require.NotNil(t, cmd)

	// Complete the send, the follow-up refresh, and the refetch.
	m = deliver(t, m2, cmd)

	assert.Equal(t, 1, svc.sendCalls, "exactly one POST per submit")
	assert.Equal(t, fetchesBefore+1, svc.fetchCalls, "exactly one refresh per completed send")
	assert.Equal(t, chat.Outgoing{Sender: "alice", Ciphertext: "hello", Room: "general"}, svc.lastSent)

	assert.Empty(t, m.input.Value(), "composer clears on a successful send")
	require.NotEmpty(t, m.feed.Entries())
	last := m.feed.Entries()[len(m.feed.Entries())-1]
	assert.Equal(t, "hello", last.Text)
	assert.Equal(t, "alice", last.Sender)
	assert.True(t, last.Mine)
	assert.True(t, m.feed.AtBottom(), "a completed send scrolls to the end")
}

func TestModelSendAnonDefault(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	m = typeText(t, m, "hi there")
	m2, cmd := keyPress(t, m, "enter")
	require.NotNil(t, cmd)
	m = deliver(t, m2, cmd)

	require.NotEmpty(t, m.feed.Entries())
	last := m.feed.Entries()[len(m.feed.Entries())-1]
	assert.Equal(t, chat.DefaultSender, last.Sender)
	assert.True(t, last.Mine)
}

func TestModelSendConfirmationSurvivesRefresh(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	m = typeText(t, m, "hello")
	m2, cmd := keyPress(t, m, "enter")
	require.NotNil(t, cmd)
	m = deliver(t, m2, cmd)

	status, isErr := m.StatusLine()
	assert.Equal(t, statusSent, status, "the confirmation outlives the post-send refetch")
	assert.False(t, isErr)

	// The next poll cycle returns to the plain connected status.
	updated, tick := m.Update(pollTickMsg{})
	m = deliver(t, updated.(Model), tick)
	status, _ = m.StatusLine()
	assert.Equal(t, statusConnected, status)
}

func TestModelRoomCreatedConfirmation(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	m = deliver(t, m, createRoom(svc, "ops", time.Second))

	assert.Equal(t, "ops", m.Room())
	status, isErr := m.StatusLine()
	assert.Equal(t, statusRoomCreated, status)
	assert.False(t, isErr)
}

func TestModelSendFailureKeepsComposerText(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}, failSend: true}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	m = typeText(t, m, "do not lose me")
	m2, cmd := keyPress(t, m, "enter")
	require.NotNil(t, cmd)

	m = deliver(t, m2, cmd)

	status, isErr := m.StatusLine()
	assert.Equal(t, statusSendFailed, status)
	assert.True(t, isErr)
	assert.Equal(t, "do not lose me", m.input.Value())
	assert.False(t, m.sending)
}

func TestModelRoomFallback(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"lobby", "dev"}}
	m := newTestModel(svc) // starts in "general", which the server lacks

	m = deliver(t, m, m.Init())
	assert.Equal(t, "lobby", m.Room(), "unknown room falls back to the first directory entry")
}

func TestModelRoomFallbackDuringInitialFetch(t *testing.T) {
	svc := &fakeChatService{
		rooms: []string{"lobby", "dev"},
		messages: []chat.Message{
			{Sender: "a", Ciphertext: "welcome", Room: "lobby"},
		},
	}
	m := newTestModel(svc) // starts in "general"; the first fetch is in flight

	// The directory arrives before the initial batch and forces a fallback.
	updated, cmd := m.Update(roomsLoadedMsg{rooms: svc.rooms})
	m = updated.(Model)
	assert.Nil(t, cmd, "the refetch waits for the active request")
	require.Equal(t, "lobby", m.Room())

	// The batch for the old room lands. It must be discarded and the
	// deferred refetch issued right away, not on the next tick.
	updated, cmd = m.Update(messagesFetchedMsg{room: "general", scrollToEnd: true})
	m = deliver(t, updated.(Model), cmd)

	require.Len(t, m.feed.Entries(), 1)
	assert.Equal(t, "welcome", m.feed.Entries()[0].Text)
	status, isErr := m.StatusLine()
	assert.Equal(t, statusConnected, status)
	assert.False(t, isErr)
}

func TestModelRoomCycleRefetches(t *testing.T) {
	svc := &fakeChatService{
		rooms: []string{"general", "dev"},
		messages: []chat.Message{
			{Sender: "a", Ciphertext: "general talk", Room: "general"},
			{Sender: "b", Ciphertext: "dev talk", Room: "dev"},
		},
	}

	m := newTestModel(svc)
	m = deliver(t, m, m.Init())
	require.Equal(t, "general", m.Room())
	require.Len(t, m.feed.Entries(), 1)

	m2, cmd := keyPress(t, m, "tab")
	m = deliver(t, m2, cmd)

	assert.Equal(t, "dev", m.Room())
	require.Len(t, m.feed.Entries(), 1)
	assert.Equal(t, "dev talk", m.feed.Entries()[0].Text)
}

func TestModelRoomsLoadFailureKeepsDirectory(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general", "dev"}}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())
	require.Equal(t, []string{"general", "dev"}, m.rooms)

	svc.mu.Lock()
	svc.failRooms = true
	svc.mu.Unlock()

	m = deliver(t, m, loadRooms(svc, time.Second))
	assert.Equal(t, []string{"general", "dev"}, m.rooms)
}

func TestModelBrowseAndBack(t *testing.T) {
	svc := &fakeChatService{
		rooms:    []string{"general"},
		messages: []chat.Message{{Sender: "a", Ciphertext: "one", Room: "general"}},
	}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())

	m, _ = keyPress(t, m, "esc")
	assert.Equal(t, stateBrowsing, m.state)
	require.NotNil(t, m.feed.SelectedEntry())

	m, _ = keyPress(t, m, "enter")
	assert.Equal(t, statePreviewing, m.state)

	m, _ = keyPress(t, m, "esc")
	assert.Equal(t, stateBrowsing, m.state)

	m, _ = keyPress(t, m, "i")
	assert.Equal(t, stateComposing, m.state)
}

func TestModelThemeToggle(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := newTestModel(svc)
	m = deliver(t, m, m.Init())
	require.Equal(t, darkTheme.Name, m.theme.Name)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	assert.Equal(t, lightTheme.Name, m.theme.Name)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	assert.Equal(t, darkTheme.Name, m.theme.Name)
}

func TestModelQuit(t *testing.T) {
	svc := &fakeChatService{rooms: []string{"general"}}
	m := newTestModel(svc)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}
