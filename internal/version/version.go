// Package version holds the application version information.
package version

// Version is the current application version.
// It can be overridden at build time using:
//
//	go build -ldflags "-X routine-guard/internal/version.Version=x.y.z"
var Version = "1.0.0"
