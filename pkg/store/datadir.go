package store

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "quadrant"

// DefaultDataDir returns where the task slot and log live when no directory
// is configured.
//
//   - macOS:   ~/Library/Application Support/quadrant
//   - Linux:   $XDG_DATA_HOME/quadrant (fallback ~/.local/share/quadrant)
//   - Windows: %LOCALAPPDATA%\quadrant (fallback %APPDATA%\quadrant)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

// ResolveDataDir returns dir with a leading ~ expanded, or DefaultDataDir
// when dir is empty.
func ResolveDataDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return DefaultDataDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return dir
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		for _, env := range []string{"LOCALAPPDATA", "APPDATA"} {
			if dir := os.Getenv(env); dir != "" {
				return filepath.Join(dir, appName)
			}
		}
		return filepath.Join(home, appName)
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}
