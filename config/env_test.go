package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetDataDirEnvOverride tests the environment variable override
func TestGetDataDirEnvOverride(t *testing.T) {
	t.Setenv("RESONATE_DATA", "/tmp/resonate-test")
	assert.Equal(t, "/tmp/resonate-test", GetDataDir())
}

// TestGetStatePath tests that the snapshot lives inside the data directory
func TestGetStatePath(t *testing.T) {
	t.Setenv("RESONATE_DATA", "/tmp/resonate-test")
	assert.Equal(t, filepath.Join("/tmp/resonate-test", "library.json"), GetStatePath())
}

// TestGetMaxUploadBytes tests the size cap configuration
func TestGetMaxUploadBytes(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int64
	}{
		{name: "default", value: "", expected: 100 * 1024 * 1024},
		{name: "override", value: "25", expected: 25 * 1024 * 1024},
		{name: "garbage falls back", value: "lots", expected: 100 * 1024 * 1024},
		{name: "non-positive falls back", value: "0", expected: 100 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESONATE_MAX_UPLOAD_MB", tt.value)
			assert.Equal(t, tt.expected, GetMaxUploadBytes())
		})
	}
}

// TestGetCORSOrigins tests the allowed-origins configuration
func TestGetCORSOrigins(t *testing.T) {
	t.Setenv("RESONATE_CORS_ORIGINS", "")
	assert.Contains(t, GetCORSOrigins(), "http://localhost:5173")

	t.Setenv("RESONATE_CORS_ORIGINS", "https://a.example,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetCORSOrigins())
}

// TestGetInboxDir tests the watcher configuration
func TestGetInboxDir(t *testing.T) {
	t.Setenv("RESONATE_INBOX", "")
	assert.Equal(t, "", GetInboxDir())

	t.Setenv("RESONATE_INBOX", "/tmp/inbox")
	assert.Equal(t, "/tmp/inbox", GetInboxDir())
}
