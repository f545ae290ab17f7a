// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Tubeplay is the canonical application identifier used for filesystem paths and CLI branding.
	Tubeplay = "tubeplay"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, injected with -ldflags "-X".
var (
	BuiltAt  = ""
	BuiltBy  = "unknown"
	Revision = "unknown"
)
