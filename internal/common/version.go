package common

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/marketlens/marketlens/internal/common.Version=x.y.z"
var Version = "0.9.0"

// GetVersion returns the application version string
func GetVersion() string {
	return Version
}
