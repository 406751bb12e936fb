// Package logfinder locates the Path of Exile 2 client log.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// EnvLogFile is the environment variable name for specifying the log file.
const EnvLogFile = "POELOG_FILE"

// LogFileName is the name of the client log inside the game's logs directory.
const LogFileName = "Client.txt"

// ErrLogFileNotFound is returned when no readable log file can be located.
var ErrLogFileNotFound = errors.New("log file not found")

// gameDir is the install directory name used by both the standalone
// client and Steam.
const gameDir = "Path of Exile 2"

// DefaultLogFiles returns candidate Client.txt paths in priority order for
// the current OS: the standalone client first, then Steam libraries.
func DefaultLogFiles() []string {
	var installs []string

	switch runtime.GOOS {
	case "windows":
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
			root := os.Getenv(env)
			if root == "" {
				continue
			}
			installs = append(installs,
				filepath.Join(root, "Grinding Gear Games", gameDir),
				filepath.Join(root, "Steam", "steamapps", "common", gameDir),
			)
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			installs = append(installs,
				filepath.Join(home, "Library", "Application Support", "Steam", "steamapps", "common", gameDir),
			)
		}
	default:
		if home, err := os.UserHomeDir(); err == nil {
			installs = append(installs,
				filepath.Join(home, ".steam", "steam", "steamapps", "common", gameDir),
				filepath.Join(home, ".local", "share", "Steam", "steamapps", "common", gameDir),
			)
		}
	}

	files := make([]string, len(installs))
	for i, dir := range installs {
		files[i] = filepath.Join(dir, "logs", LogFileName)
	}
	return files
}

// FindLogFile returns the client log to watch.
//
// Priority:
//  1. explicit (if non-empty)
//  2. POELOG_FILE environment variable
//  3. Auto-detect from DefaultLogFiles()
//
// Returns ErrLogFileNotFound if no regular file is found.
// The returned path has symlinks resolved.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveLogFile(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s does not exist or is not a regular file", ErrLogFileNotFound, explicit)
	}

	if envFile := os.Getenv(EnvLogFile); envFile != "" {
		if resolved := resolveLogFile(envFile); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to an invalid file", ErrLogFileNotFound, EnvLogFile)
	}

	for _, path := range DefaultLogFiles() {
		if resolved := resolveLogFile(path); resolved != "" {
			return resolved, nil
		}
	}

	return "", ErrLogFileNotFound
}

// resolveLogFile resolves symlinks and checks that path is a regular file.
// Returns the resolved path if valid, empty string otherwise.
func resolveLogFile(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return ""
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return resolved
}
