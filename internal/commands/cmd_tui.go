package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
	"github.com/sikkerchat/sikkerchat/internal/tui"
)

type TuiCmd struct {
	flags *Flags

	room string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "room",
			Aliases:     []string{"r"},
			Usage:       "room to open",
			Sources:     cli.EnvVars("SIKKERCHAT_ROOM"),
			Destination: &cmd.room,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	// Flag beats preference beats config default.
	room := cmd.room
	if room == "" {
		room = prefs.Room(ctx, cmd.flags.Prefs)
	}
	if room == "" {
		room = cmd.flags.Config.DefaultRoom
	}

	opts := tui.Options{
		Service:        cmd.flags.Service,
		Prefs:          cmd.flags.Prefs,
		Logger:         log.With().Str("component", "tui").Logger(),
		PollInterval:   cmd.flags.Config.PollInterval.Std(),
		RequestTimeout: cmd.flags.Config.HTTPTimeout.Std(),
		Room:           room,
		Username:       prefs.Username(ctx, cmd.flags.Prefs),
		Theme:          prefs.Theme(ctx, cmd.flags.Prefs),
	}

	m := tui.New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
