package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Errors for invalid local input, caught before any request is issued.
var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrEmptyRoom    = errors.New("room name is empty")
)

// Outgoing is the create-message request body.
type Outgoing struct {
	Sender     string `json:"sender"`
	Ciphertext string `json:"ciphertext"`
	Room       string `json:"room"`
}

// Remote is the subset of the API client the service depends on.
type Remote interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
}

// Service exposes the remote message store operations. All methods log their
// own failures; callers translate errors into status lines.
type Service struct {
	remote Remote
	log    zerolog.Logger
}

// NewService creates a service on top of the given remote client.
func NewService(remote Remote, logger zerolog.Logger) *Service {
	return &Service{remote: remote, log: logger}
}

// Messages fetches the current batch for a room. The server filters by the
// room query parameter when it supports one; callers still apply FilterRoom
// for records stored before the backend scoped messages by room.
func (s *Service) Messages(ctx context.Context, room string) ([]Message, error) {
	path := "/messages"
	if room != "" {
		path += "?room=" + url.QueryEscape(room)
	}

	var msgs []Message
	if err := s.remote.Get(ctx, path, &msgs); err != nil {
		s.log.Error().Err(err).Str("room", room).Msg("fetch messages")
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	return msgs, nil
}

// Send posts a new message. The sender is resolved from the raw username
// field; a body that trims to nothing is rejected locally. Failed sends are
// dropped, the caller resubmits manually.
func (s *Service) Send(ctx context.Context, out Outgoing) error {
	if strings.TrimSpace(out.Ciphertext) == "" {
		return ErrEmptyMessage
	}
	out.Sender = ResolveSender(out.Sender)

	if err := s.remote.Post(ctx, "/messages", out, nil); err != nil {
		s.log.Error().Err(err).Str("room", out.Room).Msg("send message")
		return fmt.Errorf("send message: %w", err)
	}

	s.log.Debug().Str("room", out.Room).Str("sender", out.Sender).Msg("message sent")
	return nil
}

// Rooms fetches the server-owned room list.
func (s *Service) Rooms(ctx context.Context) ([]string, error) {
	var rooms []string
	if err := s.remote.Get(ctx, "/rooms", &rooms); err != nil {
		s.log.Error().Err(err).Msg("fetch rooms")
		return nil, fmt.Errorf("fetch rooms: %w", err)
	}
	return rooms, nil
}

// CreateRoom registers a new room on the server.
func (s *Service) CreateRoom(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyRoom
	}

	if err := s.remote.Post(ctx, "/rooms", map[string]string{"room": name}, nil); err != nil {
		s.log.Error().Err(err).Str("room", name).Msg("create room")
		return fmt.Errorf("create room: %w", err)
	}

	s.log.Debug().Str("room", name).Msg("room created")
	return nil
}
