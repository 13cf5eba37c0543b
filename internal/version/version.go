// Package version reports the build version shared by the CLI and HTTP surfaces.
package version

import "os"

// DefaultVersion is used when SCRIPTRUNNER_VERSION is not set.
const DefaultVersion = "1.0.0"

// Get returns the running version.
func Get() string {
	if v := os.Getenv("SCRIPTRUNNER_VERSION"); v != "" {
		return v
	}
	return DefaultVersion
}
