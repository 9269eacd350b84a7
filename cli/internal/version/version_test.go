package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_Strings(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		BuildDate: "2026-01-02",
		GitCommit: "abc123",
		GoVersion: "go1.24.1",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "sqlbuilder version 1.2.3 (linux/amd64 go1.24.1)", info.String())
	assert.Contains(t, info.FullString(), "Git Commit: abc123")
	assert.Contains(t, info.FullString(), "Drivers: none")

	info.Drivers = []string{"mysql", "postgres"}
	assert.Contains(t, info.FullString(), "Drivers: mysql, postgres")
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
