package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDataDirMacOS(t *testing.T) {
	home, _ := os.UserHomeDir()
	dir := defaultDataDirForOS("darwin")
	assert.Equal(t, filepath.Join(home, "Library", "Application Support", "quadrant"), dir)
}

func TestDefaultDataDirLinux(t *testing.T) {
	home, _ := os.UserHomeDir()

	t.Setenv("XDG_DATA_HOME", "")
	assert.Equal(t, filepath.Join(home, ".local", "share", "quadrant"), defaultDataDirForOS("linux"))

	t.Setenv("XDG_DATA_HOME", "/custom/data")
	assert.Equal(t, filepath.Join("/custom/data", "quadrant"), defaultDataDirForOS("linux"))
}

func TestDefaultDataDirWindows(t *testing.T) {
	t.Setenv("LOCALAPPDATA", `C:\Users\test\AppData\Local`)
	assert.Equal(t, filepath.Join(`C:\Users\test\AppData\Local`, "quadrant"), defaultDataDirForOS("windows"))

	t.Setenv("LOCALAPPDATA", "")
	t.Setenv("APPDATA", `C:\Users\test\AppData\Roaming`)
	assert.Equal(t, filepath.Join(`C:\Users\test\AppData\Roaming`, "quadrant"), defaultDataDirForOS("windows"))
}

func TestResolveDataDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, "/srv/tasks", ResolveDataDir("/srv/tasks"))
	assert.Equal(t, filepath.Join(home, "tasks"), ResolveDataDir("~/tasks"))
	assert.Equal(t, DefaultDataDir(), ResolveDataDir("  "))
}
