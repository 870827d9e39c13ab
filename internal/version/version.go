// Package version provides build-time version information for airjoin.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/airq-etl/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/airq-etl/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/airq-etl/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "runtime"

// Set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the structured form of the build metadata, used for the health
// endpoint and log attributes.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a formatted version string.
func String() string {
	return "airjoin " + Version + " (" + Commit + ") built " + BuildTime + " " + runtime.Version()
}
