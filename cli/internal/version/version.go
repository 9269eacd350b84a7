package version

import (
	"database/sql"
	"fmt"
	"runtime"
	"strings"
)

var (
	// Version is the version of the CLI, set at build time
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
	Drivers   []string
}

// Get returns version information, including the registered SQL drivers
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Drivers:   sql.Drivers(),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("sqlbuilder version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a detailed version string
func (i Info) FullString() string {
	drivers := "none"
	if len(i.Drivers) > 0 {
		drivers = strings.Join(i.Drivers, ", ")
	}
	return fmt.Sprintf(`sqlbuilder version %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s
Drivers: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion, drivers)
}
