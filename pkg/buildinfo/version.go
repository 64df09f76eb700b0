// Package buildinfo exposes the version information stamped into release
// binaries at build time.
package buildinfo

import "fmt"

// Set via ldflags, e.g.
//
//	go build -ldflags "-X github.com/wemcdonald/boxr/pkg/buildinfo.Version=v1.0.0"
//
// Commit and Date follow the same pattern.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build information for human output.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
