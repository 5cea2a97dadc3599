package library

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resonate/types"
)

// TestCreatePlaylist tests playlist creation with and without a name
func TestCreatePlaylist(t *testing.T) {
	store, _, _ := newTestStore()

	id := store.CreatePlaylist("Road Trip")
	p, ok := store.Playlist(id)
	require.True(t, ok)
	assert.Equal(t, "Road Trip", p.Name)
	assert.NotNil(t, p.TrackIDs, "an empty track list must serialize as [], not null")
	assert.Empty(t, p.TrackIDs)
	assert.NotZero(t, p.CreatedAt)

	all := store.Playlists()
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].TrackIDs)

	auto := store.CreatePlaylist("")
	p, ok = store.Playlist(auto)
	require.True(t, ok)
	assert.Equal(t, "My Playlist 2", p.Name)
}

// TestRenamePlaylist tests renaming and its no-op cases
func TestRenamePlaylist(t *testing.T) {
	store, _, _ := newTestStore()
	id := store.CreatePlaylist("Old Name")

	store.RenamePlaylist(id, "New Name")
	p, _ := store.Playlist(id)
	assert.Equal(t, "New Name", p.Name)

	// Empty names and unknown IDs change nothing
	store.RenamePlaylist(id, "")
	p, _ = store.Playlist(id)
	assert.Equal(t, "New Name", p.Name)
	assert.NotPanics(t, func() { store.RenamePlaylist("nope", "x") })
}

// TestDeletePlaylist tests removal and the current-playlist reset
func TestDeletePlaylist(t *testing.T) {
	store, payloads, registry := newTestStore()
	track := seedTrack(store, payloads, registry, "Song")

	id := store.CreatePlaylist("Doomed")
	store.AddTracksToPlaylist(id, []string{track.ID})
	store.PlayTrack(track.ID, id)

	store.DeletePlaylist(id)

	_, ok := store.Playlist(id)
	assert.False(t, ok)
	assert.Equal(t, "", store.PlaybackState().CurrentPlaylistID)

	// The track itself survives
	_, ok = store.Track(track.ID)
	assert.True(t, ok)
}

// TestPlaylistMembership tests adding and removing tracks from a playlist
func TestPlaylistMembership(t *testing.T) {
	store, payloads, registry := newTestStore()
	a := seedTrack(store, payloads, registry, "A")
	b := seedTrack(store, payloads, registry, "B")
	id := store.CreatePlaylist("Mix")

	// Duplicates are allowed
	store.AddTracksToPlaylist(id, []string{a.ID, b.ID, a.ID})
	p, _ := store.Playlist(id)
	assert.Equal(t, []string{a.ID, b.ID, a.ID}, p.TrackIDs)

	// Removal drops every occurrence
	store.RemoveTrackFromPlaylist(id, a.ID)
	p, _ = store.Playlist(id)
	assert.Equal(t, []string{b.ID}, p.TrackIDs)

	// The removed track is still in the library
	_, ok := store.Track(a.ID)
	assert.True(t, ok)
}

// TestReorderPlaylistTracks tests the permutation contract
func TestReorderPlaylistTracks(t *testing.T) {
	store, payloads, registry := newTestStore()
	a := seedTrack(store, payloads, registry, "A")
	b := seedTrack(store, payloads, registry, "B")
	c := seedTrack(store, payloads, registry, "C")
	id := store.CreatePlaylist("Mix")
	store.AddTracksToPlaylist(id, []string{a.ID, b.ID, c.ID})

	require.NoError(t, store.ReorderPlaylistTracks(id, []string{c.ID, a.ID, b.ID}))
	p, _ := store.Playlist(id)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, p.TrackIDs)

	tests := []struct {
		name     string
		newOrder []string
	}{
		{name: "missing element", newOrder: []string{a.ID, b.ID}},
		{name: "foreign element", newOrder: []string{a.ID, b.ID, "other"}},
		{name: "duplicated element", newOrder: []string{a.ID, a.ID, b.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.ReorderPlaylistTracks(id, tt.newOrder))
		})
	}

	// Order is untouched after rejected reorders
	p, _ = store.Playlist(id)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, p.TrackIDs)

	assert.Error(t, store.ReorderPlaylistTracks("nope", []string{}))
}

// TestDeleteTrack tests the full delete cascade
func TestDeleteTrack(t *testing.T) {
	store, payloads, registry := newTestStore()
	track := seedTrack(store, payloads, registry, "Doomed")
	other := seedTrack(store, payloads, registry, "Kept")

	id := store.CreatePlaylist("Mix")
	store.AddTracksToPlaylist(id, []string{track.ID, other.ID, track.ID})
	store.PlayTrack(track.ID, id)

	require.NoError(t, store.DeleteTrack(track.ID))

	_, ok := store.Track(track.ID)
	assert.False(t, ok)

	// Gone from durable storage and the blob registry
	payload, err := payloads.Get(track.ID)
	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.False(t, registry.IsValid(track.BlobURL))

	// Every playlist occurrence is removed
	p, _ := store.Playlist(id)
	assert.Equal(t, []string{other.ID}, p.TrackIDs)

	// Playback stopped because the deleted track was current
	state := store.PlaybackState()
	assert.Equal(t, "", state.CurrentTrackID)
	assert.False(t, state.IsPlaying)
	assert.Equal(t, 0.0, state.CurrentTime)
}

// TestDeleteTrackUnknown tests that deleting a missing track is a no-op
func TestDeleteTrackUnknown(t *testing.T) {
	store, _, _ := newTestStore()
	assert.NoError(t, store.DeleteTrack("file_0_aaaaaaaaa"))
}

// TestDeleteTrackStorageFailure tests that a failed durable delete leaves
// the library untouched
func TestDeleteTrackStorageFailure(t *testing.T) {
	store, payloads, registry := newTestStore()
	track := seedTrack(store, payloads, registry, "Sticky")
	id := store.CreatePlaylist("Mix")
	store.AddTracksToPlaylist(id, []string{track.ID})

	payloads.deleteErr = errors.New("disk gone")

	err := store.DeleteTrack(track.ID)
	require.Error(t, err)

	// Track, playlist entry and handle all survive
	_, ok := store.Track(track.ID)
	assert.True(t, ok)
	p, _ := store.Playlist(id)
	assert.Equal(t, []string{track.ID}, p.TrackIDs)
	assert.True(t, registry.IsValid(track.BlobURL))
}

// TestClearAll tests wiping the whole library
func TestClearAll(t *testing.T) {
	store, payloads, registry := newTestStore()
	track := seedTrack(store, payloads, registry, "Song")
	store.CreatePlaylist("Mix")
	store.PlayTrack(track.ID, "")

	require.NoError(t, store.ClearAll())

	assert.Empty(t, store.Tracks())
	assert.Empty(t, store.Playlists())
	assert.Equal(t, 0, payloads.len())
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, types.PlaybackOrdered, store.PlaybackState().Mode)
}

// TestOnChange tests that mutations notify listeners
func TestOnChange(t *testing.T) {
	store, payloads, registry := newTestStore()

	var events []types.LibraryEvent
	store.OnChange(func(ev types.LibraryEvent) {
		events = append(events, ev)
	})

	track := seedTrack(store, payloads, registry, "Song")
	require.NoError(t, store.DeleteTrack(track.ID))

	require.Len(t, events, 2)
	assert.Equal(t, types.ActionAdded, events[0].Action)
	assert.Equal(t, track.ID, events[0].TrackID)
	assert.Equal(t, types.ActionDeleted, events[1].Action)
	assert.False(t, events[1].Timestamp.IsZero())
}
