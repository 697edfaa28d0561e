package build

// Stamped at link time:
//
//	go build -ldflags "-X github.com/rohmanhakim/askpdf/internal/build.Version=1.2.0 ..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Info is the payload of the version command.
func Info() map[string]any {
	return map[string]any{
		"version":    Version,
		"commit":     Commit,
		"build_time": BuildTime,
		"full":       FullVersion(),
	}
}
