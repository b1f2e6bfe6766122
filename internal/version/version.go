// Package version reports the build of the rewards binary.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/example/rewards/internal/version.Version=v0.3.0 \
//	  -X github.com/example/rewards/internal/version.Commit=$(git rev-parse HEAD)" ./cmd/rewards
//
// Builds without ldflags fall back to the VCS stamp the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime/debug"
)

const unknown = "unknown"

var (
	Version   = "dev"
	Commit    = unknown
	BuildTime = unknown
)

// Info describes one build.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	Modified  bool
}

// Get returns the stamped build info, filling unset fields from the
// embedded VCS settings when available.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fillFromSettings(info, bi.Settings)
	}
	return info
}

func fillFromSettings(info Info, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == unknown {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders info for `rewards --version`.
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, commit, i.BuildTime)
}

// String returns the version line of the running binary.
func String() string {
	return Get().String()
}
