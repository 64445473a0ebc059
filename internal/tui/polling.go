package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
)

// ChatService is the part of the chat service the TUI depends on.
type ChatService interface {
	Messages(ctx context.Context, room string) ([]chat.Message, error)
	Send(ctx context.Context, out chat.Outgoing) error
	Rooms(ctx context.Context) ([]string, error)
	CreateRoom(ctx context.Context, name string) error
}

// messagesFetchedMsg is sent when a fetch cycle completes. room records
// which room the request was issued for, so a batch that lands after a
// room switch can be recognized as stale.
type messagesFetchedMsg struct {
	room        string
	messages    []chat.Message
	scrollToEnd bool
	err         error
}

// roomsLoadedMsg is sent when the room list has been loaded.
type roomsLoadedMsg struct {
	rooms []string
	err   error
}

// messageSentMsg is sent when a composer submit completes.
type messageSentMsg struct {
	err error
}

// roomCreatedMsg is sent when a create-room request completes.
type roomCreatedMsg struct {
	name string
	err  error
}

// prefSavedMsg is sent when a preference write completes.
type prefSavedMsg struct {
	key string
	err error
}

// pollTickMsg is sent to trigger the next background poll.
type pollTickMsg struct{}

// fetchMessages returns a command that fetches the current batch for room.
func fetchMessages(svc ChatService, room string, timeout time.Duration, scrollToEnd bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msgs, err := svc.Messages(ctx, room)
		return messagesFetchedMsg{room: room, messages: msgs, scrollToEnd: scrollToEnd, err: err}
	}
}

// loadRooms returns a command that loads the room directory.
func loadRooms(svc ChatService, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		rooms, err := svc.Rooms(ctx)
		return roomsLoadedMsg{rooms: rooms, err: err}
	}
}

// sendMessage returns a command that posts a new message.
func sendMessage(svc ChatService, out chat.Outgoing, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return messageSentMsg{err: svc.Send(ctx, out)}
	}
}

// createRoom returns a command that registers a new room.
func createRoom(svc ChatService, name string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return roomCreatedMsg{name: name, err: svc.CreateRoom(ctx, name)}
	}
}

// savePref returns a command that persists a preference value.
func savePref(store prefs.Store, key, value string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return prefSavedMsg{key: key, err: store.Set(ctx, key, value)}
	}
}

// schedulePollTick returns a command that schedules the next poll tick.
func schedulePollTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}
