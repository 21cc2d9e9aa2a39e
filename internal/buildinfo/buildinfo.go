// Package buildinfo exposes compile-time metadata of the wework binary.
package buildinfo

import (
	"fmt"
	"runtime"
)

// The following variables are overridden via ldflags during release builds.
// Defaults cover local development builds.
var (
	// Version is the semantic version or git describe output of the binary.
	Version = "dev"

	// Commit is the git commit SHA baked into the binary.
	Commit = "none"

	// BuildDate records when the binary was built in UTC.
	BuildDate = "unknown"
)

// Summary renders the version line printed by `wework version`.
func Summary() string {
	return fmt.Sprintf("wework %s (commit %s, built %s, %s %s/%s)",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
