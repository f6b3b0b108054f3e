package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"resgen/internal/core/config"
	"resgen/internal/core/errors"
	"resgen/internal/core/ports"
	"resgen/internal/shared/observability"

	cli "github.com/urfave/cli/v3"
)

func (r *runner) generate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 0 {
		return usagef("unknown command %q", cmd.Args().First())
	}
	s, err := r.openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	dryRun := cmd.Bool("dry-run")
	res, err := s.app.Generate(ctx, ports.GenerateRequest{Trigger: "cli", DryRun: dryRun})
	printGenerate(r.stdout, res, err, dryRun)
	return err
}

func (r *runner) unused(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.app.FindUnused(ctx)
	if err != nil {
		return err
	}
	for _, skipped := range res.Skipped {
		slog.Warn("skipping unreadable source file", "path", skipped.Path, "error", skipped.Err)
	}
	printUnused(r.stdout, res)
	return nil
}

func (r *runner) watch(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	obs := s.cfg.Observability
	if obs.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, obs.OTLPEndpoint, obs.ServiceName)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				slog.Warn("failed to flush traces", "error", err)
			}
		}()
	}
	if obs.Enabled {
		server := observability.NewServer(fmt.Sprintf(":%d", obs.Port), func() any { return s.app.LastRun() })
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("start observability server: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	if s.configPath != "" {
		reloader := config.NewWatcher(s.configPath, func(cfg *config.Config) {
			if err := config.Validate(cfg); err != nil {
				slog.Warn("ignoring invalid configuration", "error", err)
				return
			}
			paths, err := config.ResolvePaths(cfg, r.cwd)
			if err != nil {
				slog.Warn("ignoring configuration with unresolvable paths", "error", err)
				return
			}
			if err := s.app.Reload(cfg, paths); err != nil {
				slog.Warn("failed to apply reloaded configuration", "error", err)
				return
			}
			slog.Info("configuration reloaded; restart to watch new roots", "path", s.configPath)
		})
		if err := reloader.Start(ctx); err != nil {
			slog.Warn("config reload disabled", "error", err)
		} else {
			defer reloader.Stop()
		}
	}

	return s.app.Watch(ctx, func(res ports.GenerateResult, err error) {
		printGenerate(r.stdout, res, err, false)
		if err != nil {
			for _, line := range errorLines(err) {
				fmt.Fprintln(r.stderr, errorStyle.Render("error:")+" "+line)
			}
		}
	})
}

func (r *runner) history(ctx context.Context, cmd *cli.Command) error {
	since, err := parseSince(cmd.String("since"))
	if err != nil {
		return usage(err)
	}
	limit := cmd.Int("limit")
	if limit < 0 {
		return usagef("--limit must be >= 0, got %d", limit)
	}

	s, err := r.openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.app.History(ctx, since, int(limit))
	if errors.IsCode(err, errors.CodeNotFound) {
		return usage(err)
	}
	if err != nil {
		return err
	}
	printHistory(r.stdout, runs)
	return nil
}

func (r *runner) dumpConfig(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		slog.Warn("malformed command line, too many destinations", "ignoring", cmd.Args().Slice()[1:])
	}
	format := cmd.String("format")
	switch format {
	case "toml", "yaml", "yml":
	default:
		return usagef("--format must be toml or yaml, got %q", format)
	}

	var cfg *config.Config
	if cmd.Bool("default") {
		cfg = config.Default()
	} else {
		loaded, _, err := loadConfig(cmd.String("config"), r.cwd)
		if err != nil {
			return usage(err)
		}
		cfg = loaded
	}
	data, err := config.Dump(cfg, format)
	if err != nil {
		return err
	}

	dest := cmd.Args().Get(0)
	if dest == "" {
		_, err = r.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	slog.Info("configuration written", "file", dest)
	return nil
}
