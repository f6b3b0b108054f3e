package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName   = "resgen.toml"
	DefaultIgnoreFile = ".resgenignore"
	DefaultOutputFile = "R.generated.swift"
)

// Load reads a TOML or YAML configuration file, fills in defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data in the format named by ext (".toml", ".yaml" or
// ".yml"; anything else is TOML).
func Decode(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing TOML config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
		}
	}
	return finish(&cfg)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs every section check.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateProject(cfg); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	if err := validateOutput(cfg); err != nil {
		return err
	}
	if err := validateUnused(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	if err := validateDatabase(cfg); err != nil {
		return err
	}
	return validateObservability(cfg)
}

// Dump renders cfg as TOML, or YAML when format is "yaml".
func Dump(cfg *Config, format string) ([]byte, error) {
	if strings.EqualFold(format, "yaml") || strings.EqualFold(format, "yml") {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
		}
		return data, nil
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config to toml: %w", err)
	}
	return buf.Bytes(), nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = ".resgen"
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = cfg.Paths.StateDir
	}

	if strings.TrimSpace(cfg.Project.DevelopmentRegion) == "" {
		cfg.Project.DevelopmentRegion = "en"
	}
	if strings.TrimSpace(cfg.Project.AccessLevel) == "" {
		cfg.Project.AccessLevel = "internal"
	}

	if len(cfg.Resources.Roots) == 0 {
		cfg.Resources.Roots = []string{"."}
	}
	if strings.TrimSpace(cfg.Resources.IgnoreFile) == "" {
		cfg.Resources.IgnoreFile = DefaultIgnoreFile
	}
	if len(cfg.Sources.Roots) == 0 {
		cfg.Sources.Roots = append([]string(nil), cfg.Resources.Roots...)
	}
	if len(cfg.Sources.Extensions) == 0 {
		cfg.Sources.Extensions = []string{".swift", ".m", ".mm"}
	}

	if strings.TrimSpace(cfg.Output.File) == "" {
		cfg.Output.File = DefaultOutputFile
	}

	if cfg.Unused.Workers <= 0 {
		cfg.Unused.Workers = runtime.NumCPU()
	}
	if strings.TrimSpace(cfg.Unused.GeneratedName) == "" {
		cfg.Unused.GeneratedName = strings.TrimSuffix(filepath.Base(cfg.Output.File), filepath.Ext(cfg.Output.File))
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MinInterval == 0 {
		cfg.Watch.MinInterval = 2 * time.Second
	}

	if strings.TrimSpace(cfg.DB.Driver) == "" {
		cfg.DB.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "history.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if cfg.DB.Retain <= 0 {
		cfg.DB.Retain = 200
	}

	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9464
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "resgen"
	}
}

func normalize(cfg *Config) {
	cfg.Project.ProductModule = strings.TrimSpace(cfg.Project.ProductModule)
	cfg.Project.BundleIdentifier = strings.TrimSpace(cfg.Project.BundleIdentifier)
	cfg.Project.DevelopmentRegion = strings.TrimSpace(cfg.Project.DevelopmentRegion)
	cfg.Project.AccessLevel = strings.ToLower(strings.TrimSpace(cfg.Project.AccessLevel))
	cfg.Project.Imports = normalizeList(cfg.Project.Imports, false)

	cfg.Resources.Roots = normalizeList(cfg.Resources.Roots, false)
	cfg.Sources.Roots = normalizeList(cfg.Sources.Roots, false)
	cfg.Sources.Extensions = normalizeExtensions(cfg.Sources.Extensions)
	cfg.Exclude.Dirs = normalizeList(cfg.Exclude.Dirs, false)
	cfg.Exclude.Files = normalizeList(cfg.Exclude.Files, false)

	for i := range cfg.Unused.Conventions {
		c := &cfg.Unused.Conventions[i]
		c.Name = strings.TrimSpace(c.Name)
		c.Extensions = normalizeExtensions(c.Extensions)
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}

func normalizeList(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func normalizeExtensions(values []string) []string {
	dotted := make([]string, 0, len(values))
	for _, ext := range values {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		dotted = append(dotted, ext)
	}
	return normalizeList(dotted, true)
}
