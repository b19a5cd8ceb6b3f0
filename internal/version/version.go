package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set by release builds:
//
//	go build -ldflags="-X github.com/muurk/premiere/internal/version.Version=v0.3.0"
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills whatever ldflags left empty from the VCS stamp.
func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	vcs := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; Commit == "" && rev != "" {
		Commit = rev[:min(7, len(rev))]
		if vcs["vcs.modified"] == "true" {
			Commit += "-dirty"
		}
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	if Version == "" {
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			Version = "dev-" + t.Format("20060102")
		}
	}
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Line returns the banner printed by the version commands.
func Line(program string) string {
	return program + " " + Full()
}
