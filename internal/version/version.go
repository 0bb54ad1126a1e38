package version

// Version is the version of quantforge, set at build time with
// -ldflags "-X github.com/Simon666Z/quantforge/internal/version.Version=1.2.3".
// "main" marks a development build.
var Version = "main"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
