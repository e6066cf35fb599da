// Package version holds the build version reported by --version.
package version

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/wikimatter/internal/version.Version=v1.0.0".
var Version = "dev"
