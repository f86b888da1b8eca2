// Package version reports the build identity of the semverpop binary.
package version

import "runtime/debug"

// Build identity. Release builds set these with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

const (
	settingRevision = "vcs.revision"
	settingTime     = "vcs.time"
	shortCommitLen  = 12
)

// InitBinaryVersion fills unset build identity from the embedded build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case settingRevision:
			if Commit == "unknown" {
				Commit = s.Value[:min(len(s.Value), shortCommitLen)]
			}
		case settingTime:
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// String renders "version (commit: c, built: d)".
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
