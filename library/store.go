// Package library is the authoritative data model for tracks, playlists
// and player state. It coordinates the durable file store and the session
// blob registry so persisted metadata and ephemeral binary handles stay
// reconciled across restarts.
package library

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"resonate/blob"
	"resonate/storage"
	"resonate/types"
)

// Store holds the in-memory library and mirrors it to a snapshot file on
// every mutation.
//
// Concurrent mutations to the same playlist or track are last-write-wins
// at whole-record granularity under a single mutex; the expected caller is
// one UI at a time, so no finer locking is attempted.
type Store struct {
	mu        sync.RWMutex
	tracks    map[string]*types.Track
	playlists []*types.Playlist
	playback  types.PlaybackState

	payloads  storage.PayloadStore
	blobs     *blob.Registry
	statePath string
	logger    hclog.Logger
	rng       *rand.Rand

	// 0 means DefaultMaxUploadBytes
	maxUploadBytes int64

	listeners        []func(types.LibraryEvent)
	resolutionWarned bool
}

// NewStore creates a library store. Call Load before serving to rehydrate
// the persisted snapshot.
func NewStore(statePath string, payloads storage.PayloadStore, blobs *blob.Registry, log hclog.Logger) *Store {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Store{
		tracks:    make(map[string]*types.Track),
		playback:  types.PlaybackState{Mode: types.PlaybackOrdered},
		payloads:  payloads,
		blobs:     blobs,
		statePath: statePath,
		logger:    log.Named("library"),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetMaxUploadBytes overrides the per-file ingestion size cap. Zero or
// negative restores the default.
func (s *Store) SetMaxUploadBytes(n int64) {
	s.mu.Lock()
	s.maxUploadBytes = n
	s.mu.Unlock()
}

// OnChange registers a listener for library events. Listeners are invoked
// after the mutation is applied and persisted.
func (s *Store) OnChange(fn func(types.LibraryEvent)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) emit(ev types.LibraryEvent) {
	ev.Timestamp = time.Now()
	s.mu.RLock()
	listeners := make([]func(types.LibraryEvent), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// Tracks returns a copy of the track map.
func (s *Store) Tracks() map[string]types.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.Track, len(s.tracks))
	for id, t := range s.tracks {
		out[id] = *t
	}
	return out
}

// Track returns one track by ID.
func (s *Store) Track(id string) (types.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tracks[id]
	if !ok {
		return types.Track{}, false
	}
	return *t, true
}

// Playlists returns a copy of all playlists in creation order.
func (s *Store) Playlists() []types.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		out = append(out, copyPlaylist(p))
	}
	return out
}

// Playlist returns one playlist by ID.
func (s *Store) Playlist(id string) (types.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.findPlaylist(id)
	if p == nil {
		return types.Playlist{}, false
	}
	return copyPlaylist(p), true
}

// copyPlaylist deep-copies one playlist. The track list is always non-nil
// so empty playlists serialize as [] rather than null.
func copyPlaylist(p *types.Playlist) types.Playlist {
	cp := *p
	cp.TrackIDs = append(make([]string, 0, len(p.TrackIDs)), p.TrackIDs...)
	return cp
}

// caller must hold s.mu
func (s *Store) findPlaylist(id string) *types.Playlist {
	for _, p := range s.playlists {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CreatePlaylist adds a playlist and returns its ID. An omitted name is
// auto-generated from a running count.
func (s *Store) CreatePlaylist(name string) string {
	s.mu.Lock()
	if name == "" {
		name = fmt.Sprintf("My Playlist %d", len(s.playlists)+1)
	}
	p := &types.Playlist{
		ID:        "p" + uuid.New().String(),
		Name:      name,
		TrackIDs:  []string{},
		CreatedAt: time.Now().UnixMilli(),
	}
	s.playlists = append(s.playlists, p)
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playlist", Action: types.ActionAdded, PlaylistID: p.ID})
	return p.ID
}

// DeletePlaylist removes a playlist. Unknown IDs are a no-op; tracks are
// untouched and may simply become orphaned from all playlists.
func (s *Store) DeletePlaylist(id string) {
	s.mu.Lock()
	kept := s.playlists[:0]
	removed := false
	for _, p := range s.playlists {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.playlists = kept
	if removed {
		if s.playback.CurrentPlaylistID == id {
			s.playback.CurrentPlaylistID = ""
		}
		s.persistLocked()
	}
	s.mu.Unlock()

	if removed {
		s.emit(types.LibraryEvent{Type: "playlist", Action: types.ActionDeleted, PlaylistID: id})
	}
}

// RenamePlaylist sets a playlist's display name. Unknown IDs are a no-op.
func (s *Store) RenamePlaylist(id, name string) {
	s.mu.Lock()
	p := s.findPlaylist(id)
	if p != nil && name != "" {
		p.Name = name
		s.persistLocked()
	}
	s.mu.Unlock()

	if p != nil && name != "" {
		s.emit(types.LibraryEvent{Type: "playlist", Action: types.ActionRenamed, PlaylistID: id})
	}
}

// AddTrack registers an externally constructed track.
func (s *Store) AddTrack(track types.Track) {
	s.mu.Lock()
	cp := track
	s.tracks[track.ID] = &cp
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "track", Action: types.ActionAdded, TrackID: track.ID})
}

// AddTracksToPlaylist appends track IDs to a playlist's sequence.
// Duplicates are permitted. Unknown playlists are a no-op.
func (s *Store) AddTracksToPlaylist(playlistID string, trackIDs []string) {
	s.mu.Lock()
	p := s.findPlaylist(playlistID)
	if p != nil {
		p.TrackIDs = append(p.TrackIDs, trackIDs...)
		s.persistLocked()
	}
	s.mu.Unlock()

	if p != nil {
		s.emit(types.LibraryEvent{Type: "playlist", Action: types.ActionUpdated, PlaylistID: playlistID})
	}
}

// RemoveTrackFromPlaylist drops every occurrence of a track ID from one
// playlist's sequence. The track itself stays in the library.
func (s *Store) RemoveTrackFromPlaylist(playlistID, trackID string) {
	s.mu.Lock()
	p := s.findPlaylist(playlistID)
	if p != nil {
		p.TrackIDs = removeAll(p.TrackIDs, trackID)
		s.persistLocked()
	}
	s.mu.Unlock()

	if p != nil {
		s.emit(types.LibraryEvent{Type: "playlist", Action: types.ActionUpdated, PlaylistID: playlistID})
	}
}

// DeleteTrack removes a track, its durable payload, its blob handle and
// every playlist reference. If it was playing, playback stops. The
// durable delete happens first so a storage failure leaves the in-memory
// state untouched.
func (s *Store) DeleteTrack(id string) error {
	s.mu.Lock()
	t, ok := s.tracks[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}

	if err := s.payloads.Delete(id); err != nil {
		s.mu.Unlock()
		return err
	}

	handle := t.BlobURL
	delete(s.tracks, id)
	for _, p := range s.playlists {
		p.TrackIDs = removeAll(p.TrackIDs, id)
	}
	if s.playback.CurrentTrackID == id {
		s.playback.CurrentTrackID = ""
		s.playback.IsPlaying = false
		s.playback.CurrentTime = 0
	}
	s.persistLocked()
	s.mu.Unlock()

	if handle != "" {
		s.blobs.Revoke(handle)
	}
	s.emit(types.LibraryEvent{Type: "track", Action: types.ActionDeleted, TrackID: id})
	return nil
}

// ReorderPlaylistTracks replaces a playlist's sequence wholesale. The new
// order must be a permutation of the existing sequence; a differing
// multiset is treated as a programming error.
func (s *Store) ReorderPlaylistTracks(playlistID string, newOrder []string) error {
	s.mu.Lock()
	p := s.findPlaylist(playlistID)
	if p == nil {
		s.mu.Unlock()
		return fmt.Errorf("playlist %s not found", playlistID)
	}
	if !samePermutation(p.TrackIDs, newOrder) {
		s.mu.Unlock()
		return fmt.Errorf("new order is not a permutation of playlist %s", playlistID)
	}
	p.TrackIDs = append([]string(nil), newOrder...)
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playlist", Action: types.ActionReordered, PlaylistID: playlistID})
	return nil
}

// ClearAll wipes the library and durable storage. Explicit data-reset
// flows only.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	if err := s.payloads.ClearAll(); err != nil {
		s.mu.Unlock()
		return err
	}
	for _, t := range s.tracks {
		if t.BlobURL != "" {
			s.blobs.Revoke(t.BlobURL)
		}
	}
	s.tracks = make(map[string]*types.Track)
	s.playlists = nil
	s.playback = types.PlaybackState{Mode: types.PlaybackOrdered}
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "track", Action: types.ActionDeleted})
	return nil
}

func removeAll(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}
