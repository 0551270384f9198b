// Package version exposes build metadata injected at link time.
package version

import "fmt"

var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GoVersion = "unknown"
)

// SetInfo overrides the build metadata for non-empty values.
func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// Summary returns a one-line version string for logs.
func Summary() string {
	return fmt.Sprintf("autocore %s (%s, built %s)", Version, GitCommit, BuildTime)
}
