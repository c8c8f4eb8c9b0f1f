// Package storage persists user preferences and game statistics. Game
// positions are never stored.
package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "gridchess"

// DataDirEnv overrides the platform data directory when set.
const DataDirEnv = "GRIDCHESS_DATA_DIR"

// dataRoot returns the per-user directory applications keep data under:
// Application Support on macOS, APPDATA on Windows, XDG_DATA_HOME or
// ~/.local/share elsewhere.
func dataRoot(goos string, getenv func(string) string, home string) string {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support")
	case "windows":
		if dir := getenv("APPDATA"); dir != "" {
			return dir
		}
		return filepath.Join(home, "AppData", "Roaming")
	}
	if dir := getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(home, ".local", "share")
}

// GetDataDir returns the gridchess data directory, creating it if needed.
// DataDirEnv takes precedence over the platform location.
func GetDataDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating data directory: %w", err)
		}
		dir = filepath.Join(dataRoot(runtime.GOOS, os.Getenv, home), appName)
	}
	return dir, os.MkdirAll(dir, 0755)
}

// GetDatabaseDir returns the badger directory inside the data directory.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	log.Printf("[STORAGE] Database directory: %s", dbDir)
	return dbDir, nil
}
