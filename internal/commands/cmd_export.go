package commands

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
	"github.com/sikkerchat/sikkerchat/internal/printer"
	"github.com/sikkerchat/sikkerchat/pkg/executil"
	"github.com/sikkerchat/sikkerchat/pkg/randid"
	"github.com/sikkerchat/sikkerchat/pkg/tmpl"
)

// transcriptTemplate renders a room transcript as a standalone HTML page.
// Message text and sender names pass through esc so markup in messages
// renders as literal text.
const transcriptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ esc .Room }} transcript</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; color: #1a1b26; }
.msg { margin-bottom: 1rem; }
.meta { color: #565f89; font-size: 0.85rem; }
.sender { font-weight: bold; color: #2e7de9; }
.text { white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{ esc .Room }}</h1>
<p class="meta">Exported {{ .ExportedAt }} · {{ len .Messages }} messages</p>
{{ range .Messages }}<div class="msg">
<div><span class="sender">{{ esc .Sender }}</span> <span class="meta">{{ .Clock }}</span></div>
<div class="text">{{ esc .Text }}</div>
</div>
{{ end }}</body>
</html>
`

type ExportCmd struct {
	flags *Flags
	exec  executil.Executor

	room string
	out  string
	open bool
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, exec executil.Executor) *ExportCmd {
	return &ExportCmd{flags: flags, exec: exec}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "export",
		Usage:       "Export a room transcript to HTML",
		UsageText:   "sikkerchat export [options]",
		Description: "Writes the current contents of a room to a standalone HTML file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "room",
				Aliases:     []string{"r"},
				Usage:       "room to export (defaults to the configured room)",
				Destination: &cmd.room,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file path",
				Destination: &cmd.out,
			},
			&cli.BoolFlag{
				Name:        "open",
				Usage:       "open the transcript in the default browser",
				Destination: &cmd.open,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, _ *cli.Command) error {
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

	html, err := renderTranscript(room, chat.FilterRoom(batch, room), time.Now())
	if err != nil {
		return err
	}

	out := cmd.out
	if out == "" {
		out = fmt.Sprintf("transcript-%s-%s.html", room, randid.Generate(6))
	}

	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	p.Successf("Exported %s to %s", room, out)

	if cmd.open {
		if _, err := cmd.exec.Run(ctx, openCommand(), out); err != nil {
			p.Warnf("Could not open %s: %v", out, err)
		}
	}
	return nil
}

// openCommand returns the platform launcher for opening files.
func openCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "start"
	default:
		return "xdg-open"
	}
}

type transcriptEntry struct {
	Sender string
	Text   string
	Clock  string
}

// renderTranscript builds the HTML transcript for a room.
func renderTranscript(room string, msgs []chat.Message, now time.Time) (string, error) {
	entries := make([]transcriptEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, transcriptEntry{
			Sender: m.DisplaySender(),
			Text:   m.Text(),
			Clock:  m.Time(now).Local().Format("2006-01-02 15:04"),
		})
	}

	data := map[string]any{
		"Room":       room,
		"Messages":   entries,
		"ExportedAt": now.Local().Format("2006-01-02 15:04"),
	}
	funcs := template.FuncMap{
		"esc": chat.EscapeText,
	}

	html, err := tmpl.Render(transcriptTemplate, data, funcs)
	if err != nil {
		return "", fmt.Errorf("render transcript: %w", err)
	}
	return html, nil
}
