// Package version carries the build information injected at link time
package version

import (
	"fmt"
	"runtime"
)

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/cirules/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/cirules/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/cirules/internal/version.Date={{.Date}}
)

// Info is what `cirules version` and the health endpoint report
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("cirules version %s\n  commit: %s\n  built:  %s\n  go:     %s",
		i.Version, i.Commit, i.Date, i.GoVersion)
}
