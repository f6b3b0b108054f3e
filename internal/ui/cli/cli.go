// Package cli implements the resgen command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"resgen/internal/shared/version"

	cli "github.com/urfave/cli/v3"
)

const appName = "resgen"

// Process exit codes.
const (
	ExitOK    = 0
	ExitFatal = 1
	ExitUsage = 2
)

// usageError marks configuration and command line mistakes.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err: err}
}

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// runner holds what the commands share: output streams and the directory
// the project is looked up from.
type runner struct {
	stdout io.Writer
	stderr io.Writer
	cwd    string
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "%s: unable to get working directory: %v\n", appName, err)
		return ExitFatal
	}
	r := &runner{stdout: stdout, stderr: stderr, cwd: cwd}
	return r.run(ctx, args)
}

func (r *runner) run(ctx context.Context, args []string) int {
	err := r.command().Run(ctx, args)
	return r.exitCode(err)
}

func (r *runner) command() *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "generates strongly typed Swift accessors for project resources",
		Version:         version.Version,
		HideHelpCommand: true,
		Writer:          r.stdout,
		ErrWriter:       r.stderr,
		Before:          r.configureLogging,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (TOML or YAML)"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
			dryRunFlag(),
		},
		Action: r.generate,
		Commands: []*cli.Command{
			{
				Name:         "generate",
				Usage:        "Generates the accessor file once (default command)",
				OnUsageError: usageErrorHandler,
				Flags:        []cli.Flag{dryRunFlag()},
				Action:       r.generate,
			},
			{
				Name:         "unused",
				Usage:        "Lists images no source file refers to",
				OnUsageError: usageErrorHandler,
				Action:       r.unused,
			},
			{
				Name:         "watch",
				Usage:        "Regenerates whenever resources change",
				OnUsageError: usageErrorHandler,
				Action:       r.watch,
			},
			{
				Name:         "history",
				Usage:        "Shows recorded generation runs",
				OnUsageError: usageErrorHandler,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "since", Usage: "only runs at or after `TIME` (RFC3339 or YYYY-MM-DD)"},
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "show at most `N` runs, 0 for all"},
				},
				Action: r.history,
			},
			{
				Name:         "dumpconfig",
				Usage:        "Dumps either default or actual configuration",
				OnUsageError: usageErrorHandler,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "toml", Usage: "output `FORMAT` (toml or yaml)"},
					&cli.BoolFlag{Name: "default", Usage: "output default configuration"},
				},
				ArgsUsage: "[DESTINATION]",
				Action:    r.dumpConfig,
			},
		},
	}
}

func dryRunFlag() cli.Flag {
	return &cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "render and compare without writing the output file"}
}

func (r *runner) configureLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: level})))
	return ctx, nil
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return usage(err)
}

// exitCode prints err and maps it to a process exit code.
func (r *runner) exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitOK
	}
	for _, line := range errorLines(err) {
		fmt.Fprintln(r.stderr, errorStyle.Render("error:")+" "+line)
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	return ExitFatal
}
