package update

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-version"
)

// Check reports whether latest is newer than current.
func Check(current, latest string) (bool, error) {
	cur, err := version.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("invalid version format: %w", err)
	}
	lat, err := version.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("invalid latest version format: %w", err)
	}
	return cur.LessThan(lat), nil
}

// GetDownloadURL returns the download URL for the current platform
func GetDownloadURL(version string) string {
	return fmt.Sprintf("https://github.com/satishbabariya/sqlbuilder/releases/download/v%s/sqlbuilder-%s-%s",
		version, runtime.GOOS, runtime.GOARCH)
}
