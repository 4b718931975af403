// Package version reports the build version of pakrecharge.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/pakrecharge/topup/internal/version.Version=v1.0.0 \
//	                   -X github.com/pakrecharge/topup/internal/version.Commit=abc123"
//
// Otherwise they are filled from VCS build info, falling back to "dev".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

// Info describes the running build
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func init() {
	if Version == "" || Commit == "" {
		rev, modified, vcsTime := readVCS()
		if Commit == "" {
			Commit = shortCommit(rev, modified)
		}
		if Version == "" && !vcsTime.IsZero() {
			Version = "dev-" + vcsTime.Format("20060102")
		}
	}

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// readVCS extracts revision details embedded by the go command
func readVCS() (revision string, modified bool, at time.Time) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false, time.Time{}
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				at = t
			}
		}
	}
	return revision, modified, at
}

func shortCommit(revision string, modified bool) string {
	if revision == "" {
		return ""
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}

// Get returns the build description
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
