package config

// Version is the citegraph binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/citegraph/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
