// Package project locates the directory an lxstarter project lives in.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no enclosing project directory exists.
var ErrNotFound = errors.New("no lxstarter project found")

// Markers are the entries whose presence identifies a project root.
var Markers = []string{"lxstarter.yaml", ".env", ".env.example"}

// FindRoot walks up from startDir to the first directory holding one of
// Markers. The search stops at the home directory, a git repository
// root or the file system root. An explicit directory is returned as is
// once it is known to exist.
func FindRoot(startDir, explicitDir string) (string, error) {
	if explicitDir != "" {
		info, err := os.Stat(explicitDir)
		if err != nil {
			return "", fmt.Errorf("project directory not found: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project directory %s is not a directory", explicitDir)
		}
		return filepath.Abs(explicitDir)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		for _, m := range Markers {
			if _, err := os.Stat(filepath.Join(currentDir, m)); err == nil {
				return currentDir, nil
			}
		}

		if currentDir == homeDir {
			break
		}
		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", ErrNotFound
}

// Root is FindRoot that falls back to startDir when nothing is found.
func Root(startDir, explicitDir string) (string, error) {
	dir, err := FindRoot(startDir, explicitDir)
	if errors.Is(err, ErrNotFound) {
		return filepath.Abs(startDir)
	}
	return dir, err
}
