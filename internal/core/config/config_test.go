package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	content := `
[project]
product_module = "App"
bundle_identifier = "com.example.app"
access_level = "Public"
imports = ["SwiftUI", " SwiftUI "]

[resources]
roots = ["App/Resources"]

[sources]
extensions = ["swift", ".M"]

[exclude]
dirs = ["Generated"]
files = ["*.tmp"]

[output]
file = "App/R.generated.swift"
objc = true

[unused]
enabled = true
workers = 3

[[unused.conventions]]
name = "swiftui"
extensions = ["swift"]
marker = "Image(R.image."
prefix = "Image(R.image."
separator = "."

[watch]
debounce = "1s"
`
	cfg, err := Load(writeConfig(t, "resgen.toml", content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Project.AccessLevel != "public" {
		t.Errorf("expected normalized access level public, got %q", cfg.Project.AccessLevel)
	}
	if len(cfg.Project.Imports) != 1 || cfg.Project.Imports[0] != "SwiftUI" {
		t.Errorf("unexpected imports %v", cfg.Project.Imports)
	}
	if got := strings.Join(cfg.Sources.Extensions, ","); got != ".swift,.m" {
		t.Errorf("unexpected source extensions %q", got)
	}
	if len(cfg.Sources.Roots) != 1 || cfg.Sources.Roots[0] != "App/Resources" {
		t.Errorf("source roots should default to resource roots, got %v", cfg.Sources.Roots)
	}
	if cfg.Unused.Workers != 3 || !cfg.Unused.Enabled {
		t.Errorf("unexpected unused settings %+v", cfg.Unused)
	}
	if cfg.Unused.GeneratedName != "R.generated" {
		t.Errorf("expected generated name from output file, got %q", cfg.Unused.GeneratedName)
	}
	if len(cfg.Unused.Conventions) != 1 || cfg.Unused.Conventions[0].Extensions[0] != ".swift" {
		t.Errorf("unexpected conventions %+v", cfg.Unused.Conventions)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MinInterval != 2*time.Second {
		t.Errorf("expected default min interval, got %v", cfg.Watch.MinInterval)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != "history.db" {
		t.Errorf("unexpected db defaults %+v", cfg.DB)
	}
}

func TestLoadYAML(t *testing.T) {
	content := `
project:
  product_module: App
  development_region: de
output:
  file: Sources/R.generated.swift
watch:
  debounce: 250ms
`
	cfg, err := Load(writeConfig(t, "resgen.yaml", content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Project.DevelopmentRegion != "de" {
		t.Errorf("expected region de, got %q", cfg.Project.DevelopmentRegion)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadEmptyYAMLUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "resgen.yml", ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.File != DefaultOutputFile {
		t.Errorf("expected default output file, got %q", cfg.Output.File)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown toml key", "resgen.toml", "[output]\nfiles = \"x\"\n", "unknown config key"},
		{"unknown yaml key", "resgen.yaml", "output:\n  files: x\n", "parsing YAML config"},
		{"version", "resgen.toml", "version = 3\n", "unsupported config version"},
		{"access level", "resgen.toml", "[project]\naccess_level = \"open\"\n", "project.access_level"},
		{"region", "resgen.toml", "[project]\ndevelopment_region = \"not a locale!\"\n", "project.development_region"},
		{"objc without module", "resgen.toml", "[output]\nobjc = true\n", "requires project.product_module"},
		{"output extension", "resgen.toml", "[output]\nfile = \"R.generated.m\"\n", "must end in .swift"},
		{"report clash", "resgen.toml", "[output]\nfile = \"R.swift\"\nsarif_report = \"./R.swift\"\n", "output.sarif_report must not point"},
		{"bad glob", "resgen.toml", "[exclude]\ndirs = [\"[abc\"]\n", "exclude.dirs[0]"},
		{"convention prefix", "resgen.toml", "[[unused.conventions]]\nname = \"x\"\nextensions = [\"swift\"]\n", "prefix must not be empty"},
		{"duplicate convention", "resgen.toml", "[[unused.conventions]]\nname = \"x\"\nextensions = [\"swift\"]\nprefix = \"a\"\n[[unused.conventions]]\nname = \"x\"\nextensions = [\"m\"]\nprefix = \"b\"\n", "duplicate unused convention"},
		{"marker outside prefix", "resgen.toml", "[[unused.conventions]]\nname = \"x\"\nextensions = [\"swift\"]\nprefix = \"R.image.\"\nmarker = \"Image(\"\n", "must occur in prefix"},
		{"driver", "resgen.toml", "[db]\ndriver = \"postgres\"\n", "db.driver must be sqlite"},
		{"tracing", "resgen.toml", "[observability]\nenable_tracing = true\n", "requires observability.otlp_endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("RESGEN_OUTPUT_FILE", "Gen/R.swift")
	t.Setenv("RESGEN_PROJECT_IMPORTS", "SwiftUI, Combine,,SwiftUI")
	t.Setenv("RESGEN_UNUSED_WORKERS", "not-a-number")
	t.Setenv("RESGEN_WATCH_DEBOUNCE", "2s")
	t.Setenv("RESGEN_OBSERVABILITY_ENABLED", "TRUE")

	cfg := Default()
	cfg.Unused.Workers = 4
	ApplyEnvOverrides(cfg)

	if cfg.Output.File != "Gen/R.swift" {
		t.Errorf("unexpected output file %q", cfg.Output.File)
	}
	if strings.Join(cfg.Project.Imports, ",") != "SwiftUI,Combine" {
		t.Errorf("unexpected imports %v", cfg.Project.Imports)
	}
	if cfg.Unused.Workers != 4 {
		t.Errorf("invalid int override must be ignored, got %d", cfg.Unused.Workers)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("unexpected debounce %v", cfg.Watch.Debounce)
	}
	if !cfg.Observability.Enabled {
		t.Error("expected observability enabled")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Project.ProductModule = "App"
	cfg.Unused.Workers = 2

	for _, format := range []string{"toml", "yaml"} {
		data, err := Dump(cfg, format)
		if err != nil {
			t.Fatalf("%s: Dump failed: %v", format, err)
		}
		ext := ".toml"
		if format == "yaml" {
			ext = ".yaml"
		}
		back, err := Decode(data, ext)
		if err != nil {
			t.Fatalf("%s: Decode failed: %v\n%s", format, err, data)
		}
		if back.Project.ProductModule != "App" || back.Unused.Workers != 2 || back.Watch.Debounce != cfg.Watch.Debounce {
			t.Errorf("%s: round trip lost values: %+v", format, back)
		}
	}
}
