package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
	"github.com/sikkerchat/sikkerchat/internal/printer"
)

type SendCmd struct {
	flags *Flags

	room string
	as   string
}

// NewSendCmd creates a new send command
func NewSendCmd(flags *Flags) *SendCmd {
	return &SendCmd{flags: flags}
}

// Register adds the send command to the application
func (cmd *SendCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "send",
		Usage:       "Post a message to a room",
		UsageText:   "sikkerchat send [options] <text>",
		Description: "Posts a message without opening the interactive client. The sender defaults to the stored username.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "room",
				Aliases:     []string{"r"},
				Usage:       "target room (defaults to the configured room)",
				Destination: &cmd.room,
			},
			&cli.StringFlag{
				Name:        "as",
				Usage:       "sender name for this message only",
				Destination: &cmd.as,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SendCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("nothing to send: %w", chat.ErrEmptyMessage)
	}

	room := cmd.room
	if room == "" {
		room = prefs.Room(ctx, cmd.flags.Prefs)
	}
	if room == "" {
		room = cmd.flags.Config.DefaultRoom
	}

	sender := cmd.as
	if sender == "" {
		sender = prefs.Username(ctx, cmd.flags.Prefs)
	}

	out := chat.Outgoing{
		Sender:     sender,
		Ciphertext: text,
		Room:       room,
	}
	if err := cmd.flags.Service.Send(ctx, out); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	p.Successf("Sent to %s as %s", room, chat.ResolveSender(sender))
	return nil
}
