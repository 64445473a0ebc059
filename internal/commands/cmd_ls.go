package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
	"github.com/sikkerchat/sikkerchat/internal/printer"
)

type LsCmd struct {
	flags *Flags

	room  string
	limit int
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "ls",
		Usage:       "List recent messages in a room",
		UsageText:   "sikkerchat ls [options]",
		Description: "Displays a table of recent messages with their sender, time, and text.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "room",
				Aliases:     []string{"r"},
				Usage:       "room to list (defaults to the configured room)",
				Destination: &cmd.room,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of messages to show (0 shows all)",
				Value:       50,
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	room := cmd.room
	if room == "" {
		room = prefs.Room(ctx, cmd.flags.Prefs)
	}
	if room == "" {
		room = cmd.flags.Config.DefaultRoom
	}

	batch, err := cmd.flags.Service.Messages(ctx, room)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}

	msgs := chat.FilterRoom(batch, room)
	if len(msgs) == 0 {
		p.Infof("No messages in %s", room)
		return nil
	}
	if cmd.limit > 0 && len(msgs) > cmd.limit {
		msgs = msgs[len(msgs)-cmd.limit:]
	}

	textWidth := messageColumnWidth()
	now := time.Now()

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tSENDER\tMESSAGE")

	for _, m := range msgs {
		text := strings.ReplaceAll(chat.SanitizeDisplay(m.Text()), "\n", " ")
		if runes := []rune(text); len(runes) > textWidth {
			text = string(runes[:textWidth-1]) + "…"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			m.Time(now).Local().Format("2006-01-02 15:04"),
			chat.SanitizeDisplay(m.DisplaySender()),
			text,
		)
	}

	return w.Flush()
}

// messageColumnWidth leaves room for the time and sender columns within
// the terminal width.
func messageColumnWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 120
	}

	w := width - 40
	if w < 20 {
		w = 20
	}
	return w
}
