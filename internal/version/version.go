// Package version contains the version.
package version

// Version is the software version.
const Version = "0.1.0-dev"

// UserAgent returns the User-Agent header value to use.
func UserAgent() string {
	return "altroute/" + Version
}
