package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/olympus-go/connectcheck"
	"github.com/olympus-go/connectcheck/spotify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exitCode := 1
	app := &cli.Command{
		Name:  "connectcheck",
		Usage: "Verify Spotify Connect (zeroconf) login, token retrieval, and credential storage",
		Flags: flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			exitCode = run(ctx, config, newLogger(cmd.Bool("debug")))
			return nil
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "connectcheck: %s\n", err)
		exitCode = 1
	}

	stop()
	os.Exit(exitCode)
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to an optional TOML configuration file",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "How long to wait for a Spotify Connect transfer",
			Value: 60 * time.Second,
		},
		&cli.DurationFlag{
			Name:  "poll-interval",
			Usage: "How often to check for a session",
			Value: time.Second,
		},
		&cli.StringFlag{
			Name:  "credentials",
			Usage: "Where credentials are stored once a session is established",
			Value: "credentials.json",
		},
		&cli.StringFlag{
			Name:  "device-name",
			Usage: "Spotify Connect device name to advertise",
			Value: "librespot-spotizerr",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func run(ctx context.Context, config fileConfig, logger zerolog.Logger) int {
	fmt.Println("Zeroconf Login5 Test")
	fmt.Println(strings.Repeat("=", 30))
	fmt.Println("=== Testing Login5 with Zeroconf ===")

	server := spotify.NewZeroconfServerBuilder(config.Spotify).
		Logger(logger).
		Create()

	h := connectcheck.New(connectcheck.ZeroconfSource(server), config.Check,
		connectcheck.WithOutput(os.Stdout),
		connectcheck.WithLogger(logger),
	)
	report := h.Run(ctx)

	fmt.Println("\n" + strings.Repeat("=", 30))
	if report.Success() {
		fmt.Println("🎉 Zeroconf Login5 test completed successfully!")
	} else {
		fmt.Println("⚠ Zeroconf test failed or timed out")
		logger.Debug().Str("outcome", report.Outcome.String()).Str("server_state", server.State().String()).Msg("run finished")
	}

	return report.ExitCode()
}
