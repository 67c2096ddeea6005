// Package misc keeps build time program information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by linker: -X colorsonly/misc.version=... -X colorsonly/misc.gitHash=...
var (
	version = "development"
	gitHash = "unknown"
	appName = ""
)

// GetVersion returns program version as set at build time.
func GetVersion() string {
	return version
}

// GetGitHash returns git hash of the build.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name. Unless overwritten at build time it is
// derived from the executable name without extension.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name, err := os.Executable()
	if err != nil {
		return "colorsonly"
	}
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
