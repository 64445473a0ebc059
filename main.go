package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/sikkerchat/sikkerchat/internal/api"
	"github.com/sikkerchat/sikkerchat/internal/commands"
	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/config"
	"github.com/sikkerchat/sikkerchat/internal/printer"
	"github.com/sikkerchat/sikkerchat/internal/store/jsonfile"
	"github.com/sikkerchat/sikkerchat/pkg/executil"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", "", false); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	app := &cli.Command{
		Name:      "sikkerchat",
		Usage:     "Terminal client for sikkerchat rooms",
		UsageText: "sikkerchat [global options] command [command options]",
		Description: `Sikkerchat is a polling chat client. It renders room feeds in the
terminal, posts messages, and keeps the view current without any
push channel.

Run 'sikkerchat' with no arguments to open the interactive client.
Run 'sikkerchat send' to post a message without opening it.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SIKKERCHAT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("SIKKERCHAT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SIKKERCHAT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SIKKERCHAT_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "server",
				Usage:       "chat server base URL",
				Sources:     cli.EnvVars("SIKKERCHAT_SERVER_URL"),
				Destination: &flags.ServerURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// No subcommand means the interactive client is about to own
			// the terminal, so logs cannot go to stderr.
			isTUI := len(c.Args().Slice()) == 0

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.ServerURL != "" {
				cfg.ServerURL = flags.ServerURL
			}
			if err := cfg.Validate(); err != nil {
				return ctx, err
			}
			flags.Config = cfg

			logFile := flags.LogFile
			if isTUI && logFile == "" {
				logFile = cfg.LogFile()
			}
			if err := setupLogger(flags.LogLevel, logFile, isTUI); err != nil {
				return ctx, err
			}

			logger := log.With().
				Str("run_id", uuid.NewString()[:8]).
				Str("server", cfg.ServerURL).
				Logger()

			client := api.New(cfg.ServerURL, cfg.HTTPTimeout.Std(), logger)
			flags.Service = chat.NewService(client, logger)
			flags.Prefs = jsonfile.NewPrefStore(cfg.PrefsFile())

			return ctx, nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)

	app = commands.NewSendCmd(flags).Register(app)
	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewRoomsCmd(flags).Register(app)
	app = commands.NewExportCmd(flags, &executil.RealExecutor{}).Register(app)
	app = commands.NewPrefsCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'sikkerchat --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		printer.Ctx(ctx).FatalError(err)
		os.Exit(1)
	}
}

func setupLogger(level string, logFile string, quietConsole bool) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		if quietConsole {
			output = file
		} else {
			output = io.MultiWriter(
				zerolog.ConsoleWriter{Out: os.Stderr},
				file,
			)
		}
	} else if quietConsole {
		output = io.Discard
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
