package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: RESGEN_[SECTION]_[KEY] (e.g., RESGEN_OUTPUT_FILE).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "RESGEN_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.StateDir, "RESGEN_PATHS_STATE_DIR")
	setEnvString(&cfg.Paths.DatabaseDir, "RESGEN_PATHS_DATABASE_DIR")

	// Project
	setEnvString(&cfg.Project.ProductModule, "RESGEN_PROJECT_PRODUCT_MODULE")
	setEnvString(&cfg.Project.BundleIdentifier, "RESGEN_PROJECT_BUNDLE_IDENTIFIER")
	setEnvString(&cfg.Project.DevelopmentRegion, "RESGEN_PROJECT_DEVELOPMENT_REGION")
	setEnvString(&cfg.Project.AccessLevel, "RESGEN_PROJECT_ACCESS_LEVEL")
	setEnvList(&cfg.Project.Imports, "RESGEN_PROJECT_IMPORTS")

	// Output
	setEnvString(&cfg.Output.File, "RESGEN_OUTPUT_FILE")
	setEnvBool(&cfg.Output.ObjC, "RESGEN_OUTPUT_OBJC")
	setEnvString(&cfg.Output.MarkdownReport, "RESGEN_OUTPUT_MARKDOWN_REPORT")
	setEnvString(&cfg.Output.SARIFReport, "RESGEN_OUTPUT_SARIF_REPORT")

	// Unused
	setEnvBool(&cfg.Unused.Enabled, "RESGEN_UNUSED_ENABLED")
	setEnvInt(&cfg.Unused.Workers, "RESGEN_UNUSED_WORKERS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "RESGEN_WATCH_DEBOUNCE")
	setEnvDuration(&cfg.Watch.MinInterval, "RESGEN_WATCH_MIN_INTERVAL")

	// Database
	setEnvBool(&cfg.DB.Enabled, "RESGEN_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "RESGEN_DB_PATH")
	setEnvDuration(&cfg.DB.BusyTimeout, "RESGEN_DB_BUSY_TIMEOUT")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "RESGEN_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "RESGEN_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "RESGEN_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "RESGEN_OBSERVABILITY_ENABLE_TRACING")
	setEnvBool(&cfg.Observability.EnableMetrics, "RESGEN_OBSERVABILITY_ENABLE_METRICS")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = normalizeList(strings.Split(val, ","), false)
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
