package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the directory name used under XDG config/cache/data roots
const AppDirName = "gotodo"

// ExpandPath expands ~ and environment variables in file paths
// Examples:
//   - "~/data/todos.db" -> "/home/user/data/todos.db"
//   - "$HOME/data" -> "/home/user/data"
//   - "/abs/path" -> "/abs/path" (unchanged)
func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[2:])
	}

	return path, nil
}

// CacheDir returns $XDG_CACHE_HOME/gotodo (or ~/.cache/gotodo), creating it
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns $XDG_DATA_HOME/gotodo (or ~/.local/share/gotodo), creating it
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(envVar, homeFallback string) (string, error) {
	root := os.Getenv(envVar)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(home, homeFallback)
	}
	dir := filepath.Join(root, AppDirName)
	return dir, os.MkdirAll(dir, 0755)
}
