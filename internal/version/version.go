// Package version holds build metadata injected at link time.
package version

import "fmt"

// Overridden via -ldflags at build time, e.g.
// go build -ldflags "-X taptick/internal/version.Version=v0.3.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String renders the version with its build metadata, as shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
