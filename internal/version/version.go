// Package version exposes build information injected at link time.
package version

// Version is overridden via -ldflags "-X github.com/celeste-ai/gateway/internal/version.Version=...".
var Version = "0.1.0-dev"

// Commit is the git revision the binary was built from.
var Commit = "unknown"
