// Package buildinfo holds the version string reported by --version and
// sent upstream as part of the Code Assist user agent.
package buildinfo

// Version is overridden at release-build time via -ldflags
// "-X github.com/samkirk/gca-bridge/internal/buildinfo.Version=...".
var Version = "dev"
