package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonate/blob"
	"resonate/types"
)

func seedPlaylist(store *Store, payloads *memPayloadStore, registry *blob.Registry, titles ...string) (playlistID string, trackIDs []string) {
	playlistID = store.CreatePlaylist("Queue")
	for _, title := range titles {
		track := seedTrack(store, payloads, registry, title)
		trackIDs = append(trackIDs, track.ID)
	}
	store.AddTracksToPlaylist(playlistID, trackIDs)
	return playlistID, trackIDs
}

// TestPlayTrack tests starting playback
func TestPlayTrack(t *testing.T) {
	store, payloads, registry := newTestStore()
	playlistID, ids := seedPlaylist(store, payloads, registry, "A", "B")

	store.SetCurrentTime(42)
	store.PlayTrack(ids[1], playlistID)

	state := store.PlaybackState()
	assert.Equal(t, ids[1], state.CurrentTrackID)
	assert.Equal(t, playlistID, state.CurrentPlaylistID)
	assert.True(t, state.IsPlaying)
	assert.Equal(t, 0.0, state.CurrentTime)
}

// TestTogglePlayPause tests flipping the playing flag
func TestTogglePlayPause(t *testing.T) {
	store, _, _ := newTestStore()

	store.TogglePlayPause()
	assert.True(t, store.PlaybackState().IsPlaying)
	store.TogglePlayPause()
	assert.False(t, store.PlaybackState().IsPlaying)
}

// TestCyclePlaybackMode tests the mode rotation
func TestCyclePlaybackMode(t *testing.T) {
	store, _, _ := newTestStore()

	assert.Equal(t, types.PlaybackShuffle, store.CyclePlaybackMode())
	assert.Equal(t, types.PlaybackRepeat, store.CyclePlaybackMode())
	assert.Equal(t, types.PlaybackOrdered, store.CyclePlaybackMode())
}

// TestAdvanceOrdered tests stepping with wraparound in both directions
func TestAdvanceOrdered(t *testing.T) {
	store, payloads, registry := newTestStore()
	playlistID, ids := seedPlaylist(store, payloads, registry, "A", "B", "C")

	store.PlayTrack(ids[2], playlistID)
	store.PlayNext()
	assert.Equal(t, ids[0], store.PlaybackState().CurrentTrackID, "next from the last track wraps to the first")

	store.PlayPrevious()
	assert.Equal(t, ids[2], store.PlaybackState().CurrentTrackID, "previous from the first track wraps to the last")

	store.SetCurrentTime(30)
	store.PlayNext()
	state := store.PlaybackState()
	assert.Equal(t, ids[0], state.CurrentTrackID)
	assert.Equal(t, 0.0, state.CurrentTime, "advancing resets the position")
}

// TestAdvanceRepeat tests that repeat restarts the same track
func TestAdvanceRepeat(t *testing.T) {
	store, payloads, registry := newTestStore()
	playlistID, ids := seedPlaylist(store, payloads, registry, "A", "B")

	store.PlayTrack(ids[0], playlistID)
	store.SetPlaybackMode(types.PlaybackRepeat)
	store.SetCurrentTime(55)

	store.PlayNext()

	state := store.PlaybackState()
	assert.Equal(t, ids[0], state.CurrentTrackID)
	assert.Equal(t, 0.0, state.CurrentTime)
}

// TestAdvanceShuffle tests uniform selection among the other tracks
func TestAdvanceShuffle(t *testing.T) {
	store, payloads, registry := newTestStore()
	playlistID, ids := seedPlaylist(store, payloads, registry, "A", "B", "C")

	store.PlayTrack(ids[0], playlistID)
	store.SetPlaybackMode(types.PlaybackShuffle)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		before := store.PlaybackState().CurrentTrackID
		store.PlayNext()
		after := store.PlaybackState().CurrentTrackID
		require.NotEqual(t, before, after, "shuffle never repeats the current track")
		seen[after] = true
	}
	assert.Greater(t, len(seen), 1, "shuffle should reach more than one track")
}

// TestAdvanceShuffleSingleTrack tests the below-two-tracks no-op
func TestAdvanceShuffleSingleTrack(t *testing.T) {
	store, payloads, registry := newTestStore()
	playlistID, ids := seedPlaylist(store, payloads, registry, "Only")

	store.PlayTrack(ids[0], playlistID)
	store.SetPlaybackMode(types.PlaybackShuffle)
	store.SetCurrentTime(12)

	store.PlayNext()

	state := store.PlaybackState()
	assert.Equal(t, ids[0], state.CurrentTrackID)
	assert.Equal(t, 12.0, state.CurrentTime, "a no-op advance leaves the position alone")
}

// TestAdvanceNoOpGuards tests the missing-context no-ops
func TestAdvanceNoOpGuards(t *testing.T) {
	store, payloads, registry := newTestStore()

	t.Run("no current track", func(t *testing.T) {
		assert.NotPanics(t, func() { store.PlayNext() })
		assert.Equal(t, "", store.PlaybackState().CurrentTrackID)
	})

	t.Run("playlist deleted out from under playback", func(t *testing.T) {
		playlistID, ids := seedPlaylist(store, payloads, registry, "A", "B")
		store.PlayTrack(ids[0], playlistID)
		store.DeletePlaylist(playlistID)

		store.PlayNext()
		assert.Equal(t, ids[0], store.PlaybackState().CurrentTrackID)
	})

	t.Run("empty playlist", func(t *testing.T) {
		playlistID := store.CreatePlaylist("Empty")
		track := seedTrack(store, payloads, registry, "Loose")
		store.PlayTrack(track.ID, playlistID)

		store.PlayNext()
		assert.Equal(t, track.ID, store.PlaybackState().CurrentTrackID)
	})
}

// TestRecreateBlobURLs tests handle reconciliation after a restart
func TestRecreateBlobURLs(t *testing.T) {
	store, payloads, registry := newTestStore()
	good := seedTrack(store, payloads, registry, "Recoverable")
	lost := seedTrack(store, payloads, registry, "Lost")

	// Simulate a restart: handles die with the session, one payload is gone
	registry2 := blob.NewRegistry()
	store2 := NewStore("", payloads, registry2, nil)
	store2.AddTrack(types.Track{ID: good.ID, Title: good.Title})
	store2.AddTrack(types.Track{ID: lost.ID, Title: lost.Title})
	require.NoError(t, payloads.Delete(lost.ID))

	var warnings []types.LibraryEvent
	store2.OnChange(func(ev types.LibraryEvent) {
		if ev.Type == "warning" {
			warnings = append(warnings, ev)
		}
	})

	resolved, unplayable := store2.RecreateBlobURLs()

	assert.Equal(t, 1, resolved)
	assert.Equal(t, 1, unplayable)

	recovered, _ := store2.Track(good.ID)
	assert.True(t, registry2.IsValid(recovered.BlobURL))
	assert.False(t, recovered.Unplayable)

	gone, _ := store2.Track(lost.ID)
	assert.Equal(t, "", gone.BlobURL)
	assert.True(t, gone.Unplayable)

	require.Len(t, warnings, 1)
	assert.Equal(t, types.ActionUnplayable, warnings[0].Action)

	// The warning fires at most once per session
	store2.RecreateBlobURLs()
	assert.Len(t, warnings, 1)
}

// TestRecreateBlobURLsSkipsLiveHandles tests that valid handles are kept
func TestRecreateBlobURLsSkipsLiveHandles(t *testing.T) {
	store, payloads, registry := newTestStore()
	track := seedTrack(store, payloads, registry, "Live")

	resolved, unplayable := store.RecreateBlobURLs()

	assert.Equal(t, 0, resolved)
	assert.Equal(t, 0, unplayable)
	kept, _ := store.Track(track.ID)
	assert.Equal(t, track.BlobURL, kept.BlobURL)
}
