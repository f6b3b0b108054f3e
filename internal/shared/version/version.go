package version

// Version is overridden at build time with -ldflags "-X resgen/internal/shared/version.Version=...".
var Version = "dev"
