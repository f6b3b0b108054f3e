package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/language"
)

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateProject(cfg *Config) error {
	switch cfg.Project.AccessLevel {
	case "internal", "public":
	default:
		return fmt.Errorf("project.access_level must be one of: internal, public")
	}
	if cfg.Project.DevelopmentRegion != "Base" {
		if _, err := language.Parse(cfg.Project.DevelopmentRegion); err != nil {
			return fmt.Errorf("project.development_region %q is not a valid locale: %w", cfg.Project.DevelopmentRegion, err)
		}
	}
	if cfg.Output.ObjC && cfg.Project.ProductModule == "" {
		return fmt.Errorf("output.objc=true requires project.product_module")
	}
	for i, m := range cfg.Project.Imports {
		if strings.ContainsAny(m, " \t.;") {
			return fmt.Errorf("project.imports[%d] %q is not a module name", i, m)
		}
	}
	if len(cfg.Resources.Roots) == 0 {
		return fmt.Errorf("resources.roots must not be empty")
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, p := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("exclude.dirs[%d] %q is not a valid pattern: %w", i, p, err)
		}
	}
	for i, p := range cfg.Exclude.Files {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("exclude.files[%d] %q is not a valid pattern: %w", i, p, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	file := strings.TrimSpace(cfg.Output.File)
	if file == "" {
		return fmt.Errorf("output.file must not be empty")
	}
	if !strings.EqualFold(filepath.Ext(file), ".swift") {
		return fmt.Errorf("output.file must end in .swift, got %q", file)
	}
	md := strings.TrimSpace(cfg.Output.MarkdownReport)
	sarif := strings.TrimSpace(cfg.Output.SARIFReport)
	for _, r := range [][2]string{{"output.markdown_report", md}, {"output.sarif_report", sarif}} {
		if r[1] != "" && filepath.Clean(r[1]) == filepath.Clean(file) {
			return fmt.Errorf("%s must not point at output.file", r[0])
		}
	}
	if md != "" && sarif != "" && filepath.Clean(md) == filepath.Clean(sarif) {
		return fmt.Errorf("output.markdown_report and output.sarif_report must differ")
	}
	return nil
}

func validateUnused(cfg *Config) error {
	if cfg.Unused.Workers < 1 {
		return fmt.Errorf("unused.workers must be >= 1, got %d", cfg.Unused.Workers)
	}
	seen := make(map[string]bool, len(cfg.Unused.Conventions))
	for i, c := range cfg.Unused.Conventions {
		ref := fmt.Sprintf("unused.conventions[%d]", i)
		if c.Name == "" {
			return fmt.Errorf("%s.name must not be empty", ref)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate unused convention name %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Extensions) == 0 {
			return fmt.Errorf("%s.extensions must not be empty", ref)
		}
		if strings.TrimSpace(c.Prefix) == "" {
			return fmt.Errorf("%s.prefix must not be empty", ref)
		}
		if c.Marker != "" && !strings.Contains(c.Prefix, c.Marker) {
			return fmt.Errorf("%s.marker %q must occur in prefix %q", ref, c.Marker, c.Prefix)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MinInterval < 0 {
		return fmt.Errorf("watch.min_interval must not be negative")
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("db.driver must be sqlite, got %q", cfg.DB.Driver)
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Port < 0 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 0 and 65535, got %d", cfg.Observability.Port)
	}
	if cfg.Observability.EnableTracing && cfg.Observability.OTLPEndpoint == "" {
		return fmt.Errorf("observability.enable_tracing=true requires observability.otlp_endpoint")
	}
	return nil
}
