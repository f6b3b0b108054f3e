package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	coreapp "resgen/internal/core/app"
	"resgen/internal/core/config"
	"resgen/internal/data/history"
	"resgen/internal/data/queue"

	cli "github.com/urfave/cli/v3"
)

const historyQueueSize = 64

// session is one loaded project: configuration, paths and the wired app.
type session struct {
	cfg        *config.Config
	configPath string
	paths      config.ResolvedPaths
	app        *coreapp.App
	history    *history.Adapter
	recorder   *queue.Recorder
}

func (s *session) Close() {
	if s.recorder != nil {
		_ = s.recorder.Close()
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

// openSession loads the project. Long-running commands pass async so run
// history is written in the background.
func (r *runner) openSession(cmd *cli.Command, async bool) (*session, error) {
	cfg, cfgPath, err := loadConfig(cmd.String("config"), r.cwd)
	if err != nil {
		return nil, usage(err)
	}
	paths, err := config.ResolvePaths(cfg, r.cwd)
	if err != nil {
		return nil, usage(fmt.Errorf("failed to resolve project paths: %w", err))
	}

	s := &session{cfg: cfg, configPath: cfgPath, paths: paths}
	opts := []coreapp.Option{coreapp.WithConfigFile(cfgPath)}
	if s.history, err = openHistoryIfEnabled(cfg, paths); err != nil {
		return nil, err
	}
	switch {
	case s.history != nil && async:
		s.recorder = queue.NewRecorder(s.history, historyQueueSize)
		opts = append(opts, coreapp.WithHistory(s.recorder))
	case s.history != nil:
		opts = append(opts, coreapp.WithHistory(s.history))
	}

	if s.app, err = coreapp.New(cfg, paths, opts...); err != nil {
		s.Close()
		return nil, usage(err)
	}
	slog.Debug("project loaded", "root", paths.ProjectRoot, "config", cfgPath, "output", paths.OutputFile)
	return s, nil
}

// loadConfig reads the explicit file, or the config file found in the
// project, or falls back to defaults. Environment overrides apply last.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = discoverConfig(cwd)
	}

	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		slog.Debug("no configuration file, using defaults")
		cfg = config.Default()
	} else if cfg, err = config.Load(path); err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", path, err)
	}

	config.ApplyEnvOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

// discoverConfig looks in cwd first, then in the detected project root.
func discoverConfig(cwd string) string {
	if path := config.FindConfigFile(cwd); path != "" {
		return path
	}
	root, err := config.DetectProjectRoot([]string{cwd})
	if err != nil {
		return ""
	}
	return config.FindConfigFile(root)
}

func openHistoryIfEnabled(cfg *config.Config, paths config.ResolvedPaths) (*history.Adapter, error) {
	if !cfg.DB.Enabled {
		return nil, nil
	}
	if err := os.MkdirAll(paths.DatabaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	store, err := history.Open(paths.DBPath, cfg.DB.BusyTimeout)
	if history.IsCorruptError(err) {
		slog.Warn("history database is corrupt, continuing without run history", "path", paths.DBPath, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	slog.Debug("history store opened", "path", store.Path(), "retain", cfg.DB.Retain)
	return history.NewAdapter(store, cfg.DB.Retain), nil
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}
