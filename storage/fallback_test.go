package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonate/types"
)

// TestFallbackRoundTrip tests store, get and delete in the degraded store
func TestFallbackRoundTrip(t *testing.T) {
	s := NewFallbackStore(t.TempDir(), nil)

	data := []byte("audio bytes")
	meta := types.TrackMetadata{Title: "Karma Police", Artist: "Radiohead", MIMEType: "audio/mpeg"}

	id, err := s.Store(data, meta)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "fallback_"))

	payload, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, data, payload.Data)
	assert.Equal(t, meta, payload.Metadata)

	require.NoError(t, s.Delete(id))
	payload, err = s.Get(id)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

// TestFallbackSizeCeiling tests that oversized payloads fail fast
func TestFallbackSizeCeiling(t *testing.T) {
	s := NewFallbackStore(t.TempDir(), nil)

	_, err := s.Store(make([]byte, FallbackMaxFileSize+1), types.TrackMetadata{})

	require.Error(t, err)
	var storageErr *types.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Contains(t, storageErr.Error(), "too large")

	// Nothing must have been written
	ids, err := s.ListIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestFallbackGetUnknown tests that unknown IDs are not an error
func TestFallbackGetUnknown(t *testing.T) {
	s := NewFallbackStore(t.TempDir(), nil)

	payload, err := s.Get("fallback_file_0_aaaaaaaaa")
	assert.NoError(t, err)
	assert.Nil(t, payload)
}

// TestFallbackListIDs tests listing stored records
func TestFallbackListIDs(t *testing.T) {
	s := NewFallbackStore(t.TempDir(), nil)

	first, err := s.Store([]byte("a"), types.TrackMetadata{})
	require.NoError(t, err)
	second, err := s.Store([]byte("b"), types.TrackMetadata{})
	require.NoError(t, err)

	ids, err := s.ListIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first, second}, ids)
}
