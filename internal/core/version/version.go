// Package version provides information about the build version of the binaries.
package version

import (
	"fmt"

	"tasker/internal/core/lexicon"
)

// BuildInfo holds version information about a build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Lexicon int    `json:"lexicon"`
}

// Info returns the build information for service. The version, commit, and date
// variables are set at build time using -ldflags.
func Info(service string) BuildInfo {
	// -ldflags "-X 'tasker/internal/core/version.version=v0.1.0'
	// -X 'tasker/internal/core/version.commit=abcd' -X 'tasker/internal/core/version.date=2026-01-02'"
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Lexicon: lexicon.Default().Version(),
	}
}

// String renders a one line banner
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (%s, %s) lexicon v%d", b.Service, b.Version, b.Commit, b.Date, b.Lexicon)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
