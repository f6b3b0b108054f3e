package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	ProjectRoot    string
	StateDir       string
	DatabaseDir    string
	DBPath         string
	OutputFile     string
	IgnoreFile     string
	ResourceRoots  []string
	SourceRoots    []string
	MarkdownReport string
	SARIFReport    string
}

func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	projectRoot := strings.TrimSpace(cfg.Paths.ProjectRoot)
	if projectRoot != "" {
		projectRoot = ResolveRelative(cwd, projectRoot)
	} else {
		root, err := DetectProjectRoot([]string{cwd})
		if err != nil {
			return ResolvedPaths{}, err
		}
		projectRoot = root
	}

	stateDir := ResolveRelative(projectRoot, cfg.Paths.StateDir)
	databaseDir := ResolveRelative(projectRoot, cfg.Paths.DatabaseDir)

	dbPath := strings.TrimSpace(cfg.DB.Path)
	if filepath.IsAbs(dbPath) {
		dbPath = filepath.Clean(dbPath)
	} else {
		dbPath = filepath.Join(databaseDir, dbPath)
	}

	resolved := ResolvedPaths{
		ProjectRoot:   filepath.Clean(projectRoot),
		StateDir:      filepath.Clean(stateDir),
		DatabaseDir:   filepath.Clean(databaseDir),
		DBPath:        filepath.Clean(dbPath),
		OutputFile:    ResolveRelative(projectRoot, cfg.Output.File),
		IgnoreFile:    ResolveRelative(projectRoot, cfg.Resources.IgnoreFile),
		ResourceRoots: resolveAll(projectRoot, cfg.Resources.Roots),
		SourceRoots:   resolveAll(projectRoot, cfg.Sources.Roots),
	}
	if md := strings.TrimSpace(cfg.Output.MarkdownReport); md != "" {
		resolved.MarkdownReport = ResolveRelative(projectRoot, md)
	}
	if sarif := strings.TrimSpace(cfg.Output.SARIFReport); sarif != "" {
		resolved.SARIFReport = ResolveRelative(projectRoot, sarif)
	}
	return resolved, nil
}

func resolveAll(base string, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, ResolveRelative(base, v))
	}
	return out
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate until it finds a directory
// holding a config file, an Xcode project or a repository root.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		DefaultFileName,
		"resgen.yaml",
		"Package.swift",
		".git",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			if hasXcodeProject(root) {
				return filepath.Clean(root), nil
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}

func hasXcodeProject(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xcodeproj"))
	return err == nil && len(matches) > 0
}

// FindConfigFile returns the first config file found in dir, or "".
func FindConfigFile(dir string) string {
	for _, name := range []string{DefaultFileName, "resgen.yaml", "resgen.yml"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
