package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultGRPCPort returns the default port of the gRPC health endpoint.
func DefaultGRPCPort() int {
	return 50061
}

// DefaultConfigPath returns the default path for the modelstore config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "modelstore", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "modelstore")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "modelstore")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "modelstore")
		}
		return filepath.Join(home, ".config", "modelstore")
	}
}

// DefaultLogPath returns the default path of the rotating log file.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "logs", "modelstore.log")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "modelstore", "logs", "modelstore.log")
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "modelstore", "modelstore.log")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, "modelstore", "modelstore.log")
		}
		return filepath.Join(home, ".local", "state", "modelstore", "modelstore.log")
	}
}
