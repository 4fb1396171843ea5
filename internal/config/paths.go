package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the gateway data directory.
// - Windows: %APPDATA%\celeste
// - Other OS: ~/.celeste
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "celeste")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".celeste"
	}
	return filepath.Join(home, ".celeste")
}

// DBPath returns the default path of the request log database.
func DBPath() string {
	return filepath.Join(DataDir(), "celeste.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
