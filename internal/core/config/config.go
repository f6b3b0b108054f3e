package config

import (
	"time"
)

type Config struct {
	Version       int           `toml:"version" yaml:"version"`
	Paths         Paths         `toml:"paths" yaml:"paths"`
	Project       Project       `toml:"project" yaml:"project"`
	Resources     Resources     `toml:"resources" yaml:"resources"`
	Sources       Sources       `toml:"sources" yaml:"sources"`
	Exclude       Exclude       `toml:"exclude" yaml:"exclude"`
	Output        Output        `toml:"output" yaml:"output"`
	Unused        Unused        `toml:"unused" yaml:"unused"`
	Watch         Watch         `toml:"watch" yaml:"watch"`
	DB            Database      `toml:"db" yaml:"db"`
	Observability Observability `toml:"observability" yaml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root" yaml:"project_root"`
	StateDir    string `toml:"state_dir" yaml:"state_dir"`
	DatabaseDir string `toml:"database_dir" yaml:"database_dir"`
}

// Project describes the target the generated file is compiled into.
type Project struct {
	ProductModule     string   `toml:"product_module" yaml:"product_module"`
	BundleIdentifier  string   `toml:"bundle_identifier" yaml:"bundle_identifier"`
	DevelopmentRegion string   `toml:"development_region" yaml:"development_region"`
	AccessLevel       string   `toml:"access_level" yaml:"access_level"`
	Imports           []string `toml:"imports" yaml:"imports"`
}

type Resources struct {
	Roots      []string `toml:"roots" yaml:"roots"`
	IgnoreFile string   `toml:"ignore_file" yaml:"ignore_file"`
}

type Sources struct {
	Roots      []string `toml:"roots" yaml:"roots"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs" yaml:"dirs"`
	Files []string `toml:"files" yaml:"files"`
}

type Output struct {
	File           string `toml:"file" yaml:"file"`
	ObjC           bool   `toml:"objc" yaml:"objc"`
	MarkdownReport string `toml:"markdown_report" yaml:"markdown_report"`
	SARIFReport    string `toml:"sarif_report" yaml:"sarif_report"`
}

type Unused struct {
	Enabled       bool         `toml:"enabled" yaml:"enabled"`
	Workers       int          `toml:"workers" yaml:"workers"`
	GeneratedName string       `toml:"generated_name" yaml:"generated_name"`
	Conventions   []Convention `toml:"conventions" yaml:"conventions"`
}

// Convention spells an image accessor in one source language.
type Convention struct {
	Name       string   `toml:"name" yaml:"name"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Marker     string   `toml:"marker" yaml:"marker"`
	Prefix     string   `toml:"prefix" yaml:"prefix"`
	Separator  string   `toml:"separator" yaml:"separator"`
	Suffix     string   `toml:"suffix" yaml:"suffix"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce" yaml:"debounce"`
	// MinInterval is the shortest time between two regenerations.
	MinInterval time.Duration `toml:"min_interval" yaml:"min_interval"`
}

type Database struct {
	Enabled     bool          `toml:"enabled" yaml:"enabled"`
	Driver      string        `toml:"driver" yaml:"driver"`
	Path        string        `toml:"path" yaml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout" yaml:"busy_timeout"`
	Retain      int           `toml:"retain" yaml:"retain"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Port          int    `toml:"port" yaml:"port"`
	OTLPEndpoint  string `toml:"otlp_endpoint" yaml:"otlp_endpoint"`
	ServiceName   string `toml:"service_name" yaml:"service_name"`
	EnableTracing bool   `toml:"enable_tracing" yaml:"enable_tracing"`
	EnableMetrics bool   `toml:"enable_metrics" yaml:"enable_metrics"`
}
