package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GetDataDir returns the directory holding the SQLite database, the
// library snapshot and fallback storage.
func GetDataDir() string {
	// First check environment variable for custom location
	if customPath := os.Getenv("RESONATE_DATA"); customPath != "" {
		return customPath
	}

	if userDir := getUserDataDir(); userDir != "" {
		return userDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if can't get home dir
		return filepath.Join(".", "data")
	}

	return filepath.Join(homeDir, ".resonate")
}

// GetInboxDir returns the watched directory whose new audio files are
// auto-ingested, or "" when the watcher is disabled.
func GetInboxDir() string {
	return os.Getenv("RESONATE_INBOX")
}

// GetStatePath returns the library snapshot path.
func GetStatePath() string {
	return filepath.Join(GetDataDir(), "library.json")
}

// GetCORSOrigins returns the allowed browser origins for the HTTP API.
func GetCORSOrigins() []string {
	origins := os.Getenv("RESONATE_CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173,http://localhost:5174" // Default for React dev
	}
	return strings.Split(origins, ",")
}

// GetMaxUploadBytes returns the per-file ingestion size cap.
func GetMaxUploadBytes() int64 {
	if v := os.Getenv("RESONATE_MAX_UPLOAD_MB"); v != "" {
		if mb, err := strconv.Atoi(v); err == nil && mb > 0 {
			return int64(mb) * 1024 * 1024
		}
	}
	return 100 * 1024 * 1024
}

// UserSettings represents the user's personal settings
type UserSettings struct {
	DataDir string `json:"dataDir"`
}

// getSettingsFilePath returns the path to the settings file
func getSettingsFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".resonate-settings.json")
}

// getUserDataDir loads the user's preferred data directory from the
// settings file, "" when unset.
func getUserDataDir() string {
	settingsPath := getSettingsFilePath()

	// If file doesn't exist, return empty string to fall back to env vars
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return ""
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return ""
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return ""
	}

	return settings.DataDir
}

// SaveSettings persists the user settings file.
func SaveSettings(settings UserSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(getSettingsFilePath(), data, 0o644)
}
