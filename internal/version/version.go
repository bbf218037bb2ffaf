package version

// Version is the current tickmate version, overridable at build time via
// -ldflags "-X github.com/thomas-vilte/tickmate/internal/version.Version=...".
var Version = "0.1.0"

// Commit is the git commit the binary was built from.
var Commit = "dev"

// FullVersion returns the version with the commit suffix.
func FullVersion() string {
	return Version + "+" + Commit
}
