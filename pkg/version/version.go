// Package version holds build-time metadata injected via -ldflags
// (-X github.com/agabani/tor-operator/pkg/version.Version=...), following
// the teacher's printVersion() expectations.
package version

var (
	// Version is the operator's release version, e.g. "v0.1.0".
	Version = "dev"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"

	// BuildDate is the RFC3339 timestamp the binary was built at.
	BuildDate = "unknown"
)
