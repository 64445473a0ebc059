package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
	"github.com/sikkerchat/sikkerchat/internal/printer"
)

type PrefsCmd struct {
	flags *Flags
}

// NewPrefsCmd creates a new prefs command
func NewPrefsCmd(flags *Flags) *PrefsCmd {
	return &PrefsCmd{flags: flags}
}

// Register adds the prefs command to the application
func (cmd *PrefsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "prefs",
		Usage:       "Manage local preferences",
		UsageText:   "sikkerchat prefs <command>",
		Description: "Reads and writes the locally stored preferences: username, theme, and last room.",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List all preferences",
				UsageText: "sikkerchat prefs ls",
				Action:    cmd.runList,
			},
			{
				Name:      "get",
				Usage:     "Print a preference value",
				UsageText: "sikkerchat prefs get <key>",
				Action:    cmd.runGet,
			},
			{
				Name:      "set",
				Usage:     "Set a preference value",
				UsageText: "sikkerchat prefs set <key> <value>",
				Action:    cmd.runSet,
			},
			{
				Name:      "rm",
				Usage:     "Remove a preference",
				UsageText: "sikkerchat prefs rm <key>",
				Action:    cmd.runRemove,
			},
		},
	})

	return app
}

func (cmd *PrefsCmd) runList(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	entries, err := cmd.flags.Prefs.List(ctx)
	if err != nil {
		return fmt.Errorf("list preferences: %w", err)
	}

	if len(entries) == 0 {
		p.Infof("No preferences set")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tVALUE\tUPDATED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (cmd *PrefsCmd) runGet(ctx context.Context, c *cli.Command) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("key is required")
	}

	e, err := cmd.flags.Prefs.Get(ctx, key)
	if errors.Is(err, prefs.ErrKeyNotFound) {
		return fmt.Errorf("preference %q is not set", key)
	}
	if err != nil {
		return fmt.Errorf("get preference: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, e.Value)
	return nil
}

func (cmd *PrefsCmd) runSet(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	key := c.Args().Get(0)
	value := c.Args().Get(1)
	if key == "" || value == "" {
		return fmt.Errorf("key and value are required")
	}

	if err := cmd.flags.Prefs.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}

	p.Successf("Set %s", key)
	return nil
}

func (cmd *PrefsCmd) runRemove(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("key is required")
	}

	err := cmd.flags.Prefs.Delete(ctx, key)
	if errors.Is(err, prefs.ErrKeyNotFound) {
		return fmt.Errorf("preference %q is not set", key)
	}
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}

	p.Successf("Removed %s", key)
	return nil
}
