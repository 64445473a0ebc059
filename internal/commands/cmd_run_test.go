package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/config"
	"github.com/sikkerchat/sikkerchat/internal/store/jsonfile"
	"github.com/sikkerchat/sikkerchat/pkg/executil"
)

// stubRemote serves canned responses for command tests.
type stubRemote struct {
	messages []chat.Message
	rooms    []string
}

func (s *stubRemote) Get(_ context.Context, path string, out any) error {
	switch {
	case strings.HasPrefix(path, "/messages"):
		*(out.(*[]chat.Message)) = s.messages
	case strings.HasPrefix(path, "/rooms"):
		*(out.(*[]string)) = s.rooms
	}
	return nil
}

func (s *stubRemote) Post(_ context.Context, _ string, _ any, _ any) error {
	return nil
}

func testFlags(t *testing.T, remote chat.Remote) *Flags {
	t.Helper()
	dataDir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dataDir, "missing.yaml"), dataDir)
	require.NoError(t, err)

	return &Flags{
		DataDir: dataDir,
		Config:  cfg,
		Service: chat.NewService(remote, zerolog.Nop()),
		Prefs:   jsonfile.NewPrefStore(cfg.PrefsFile()),
	}
}

func TestExportCmdWritesTranscript(t *testing.T) {
	remote := &stubRemote{
		messages: []chat.Message{
			{Sender: "alice", Ciphertext: "<b>hi</b>", Room: "general"},
		},
	}

	flags := testFlags(t, remote)
	out := filepath.Join(t.TempDir(), "transcript.html")

	cmd := NewExportCmd(flags, &executil.RecordingExecutor{})
	cmd.room = "general"
	cmd.out = out

	require.NoError(t, cmd.run(context.Background(), nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "&lt;b&gt;hi&lt;/b&gt;")
	assert.NotContains(t, string(data), "<b>hi</b>")
}

func TestExportCmdOpensTranscript(t *testing.T) {
	flags := testFlags(t, &stubRemote{})
	out := filepath.Join(t.TempDir(), "transcript.html")

	exec := &executil.RecordingExecutor{}
	cmd := NewExportCmd(flags, exec)
	cmd.room = "general"
	cmd.out = out
	cmd.open = true

	require.NoError(t, cmd.run(context.Background(), nil))

	require.Len(t, exec.Commands, 1)
	assert.Equal(t, openCommand(), exec.Commands[0].Cmd)
	assert.Equal(t, []string{out}, exec.Commands[0].Args)
}

func TestSendCmdRejectsEmptyText(t *testing.T) {
	flags := testFlags(t, &stubRemote{})
	cmd := NewSendCmd(flags)

	err := cmd.flags.Service.Send(context.Background(), chat.Outgoing{Ciphertext: "   "})
	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
}
