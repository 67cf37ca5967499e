package version

import (
	"runtime/debug"
)

// Set at build time with -ldflags.
var (
	Version = "dev"
	Commit  = ""
)

const shortCommitLen = 7

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

// Get returns the build info, filling Commit and Dirty from the embedded VCS
// stamp when they were not set at link time.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(Version, Commit, bi)
}

func fromBuildInfo(ver, commit string, bi *debug.BuildInfo) Info {
	info := Info{Version: ver, Commit: commit}
	if bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.Commit) > shortCommitLen {
		info.Commit = info.Commit[:shortCommitLen]
	}
	return info
}

// String renders "<version>[-<commit>][-dirty]".
func (i Info) String() string {
	s := i.Version
	if i.Commit != "" {
		s += "-" + i.Commit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}
