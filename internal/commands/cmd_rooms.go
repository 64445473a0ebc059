package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/sikkerchat/sikkerchat/internal/printer"
)

type RoomsCmd struct {
	flags *Flags

	match string
}

// NewRoomsCmd creates a new rooms command
func NewRoomsCmd(flags *Flags) *RoomsCmd {
	return &RoomsCmd{flags: flags}
}

// Register adds the rooms command to the application
func (cmd *RoomsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "rooms",
		Usage:       "List rooms on the server",
		UsageText:   "sikkerchat rooms [options]",
		Description: "Lists the room directory. Use --match to filter with a glob pattern.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "glob pattern to filter room names",
				Destination: &cmd.match,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new room",
				UsageText: "sikkerchat rooms create <name>",
				Action:    cmd.runCreate,
			},
		},
	})

	return app
}

func (cmd *RoomsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	rooms, err := cmd.flags.Service.Rooms(ctx)
	if err != nil {
		return fmt.Errorf("fetch rooms: %w", err)
	}

	rooms, err = filterRooms(rooms, cmd.match)
	if err != nil {
		return err
	}

	if len(rooms) == 0 {
		p.Infof("No rooms found")
		return nil
	}

	out := c.Root().Writer
	for _, r := range rooms {
		_, _ = fmt.Fprintln(out, r)
	}
	return nil
}

func (cmd *RoomsCmd) runCreate(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	name := strings.TrimSpace(c.Args().First())
	if name == "" {
		return fmt.Errorf("room name is required")
	}

	if err := cmd.flags.Service.CreateRoom(ctx, name); err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	p.Successf("Created room %s", name)
	return nil
}

// filterRooms keeps rooms matching the glob pattern. An empty pattern
// keeps everything.
func filterRooms(rooms []string, pattern string) ([]string, error) {
	if pattern == "" {
		return rooms, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid match pattern %q", pattern)
	}

	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ok, err := doublestar.Match(pattern, r)
		if err != nil {
			return nil, fmt.Errorf("match pattern: %w", err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
