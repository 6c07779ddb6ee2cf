// Package version exposes build metadata set through -ldflags.
package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X github.com/insurancevn/insurancenews/internal/version.Version=v1.0.0".
var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("insurancenews %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
