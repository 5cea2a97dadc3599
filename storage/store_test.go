package storage

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonate/types"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, s.Init())
	return s
}

// TestNewPayloadID tests the generated ID shape
func TestNewPayloadID(t *testing.T) {
	pattern := regexp.MustCompile(`^file_\d+_[0-9a-z]{9}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewPayloadID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "IDs must not collide")
		seen[id] = true
	}
}

// TestFileStoreRoundTrip tests store, get and delete against SQLite
func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestFileStore(t)

	meta := types.TrackMetadata{
		Title:    "One More Time",
		Artist:   "Daft Punk",
		Album:    "Discovery",
		Year:     "2001",
		Duration: 320.5,
		MIMEType: "audio/mpeg",
	}
	data := []byte{0xFF, 0xFB, 0x90, 0x00, 0x01}

	id, err := s.Store(data, meta)
	require.NoError(t, err)

	payload, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, id, payload.ID)
	assert.Equal(t, data, payload.Data)
	assert.Equal(t, meta, payload.Metadata)
	assert.NotZero(t, payload.CreatedAt)

	require.NoError(t, s.Delete(id))

	payload, err = s.Get(id)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

// TestFileStoreGetUnknown tests that unknown IDs are not an error
func TestFileStoreGetUnknown(t *testing.T) {
	s := newTestFileStore(t)

	payload, err := s.Get("file_0_aaaaaaaaa")
	assert.NoError(t, err)
	assert.Nil(t, payload)
}

// TestFileStoreDeleteUnknown tests that deleting an unknown ID is a no-op
func TestFileStoreDeleteUnknown(t *testing.T) {
	s := newTestFileStore(t)
	assert.NoError(t, s.Delete("file_0_aaaaaaaaa"))
}

// TestFileStoreListIDs tests reconciliation listing in insertion order
func TestFileStoreListIDs(t *testing.T) {
	s := newTestFileStore(t)

	var want []string
	for i := 0; i < 3; i++ {
		id, err := s.Store([]byte{byte(i)}, types.TrackMetadata{})
		require.NoError(t, err)
		want = append(want, id)
	}

	ids, err := s.ListIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, ids)
}

// TestFileStoreClearAll tests wiping the payload table
func TestFileStoreClearAll(t *testing.T) {
	s := newTestFileStore(t)

	_, err := s.Store([]byte("a"), types.TrackMetadata{})
	require.NoError(t, err)
	_, err = s.Store([]byte("b"), types.TrackMetadata{})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	ids, err := s.ListIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestFileStoreInitIdempotent tests that repeated Init calls are safe
func TestFileStoreInitIdempotent(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, s.Init())
	require.NoError(t, s.Init())
}
