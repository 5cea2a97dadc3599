package library

import (
	"encoding/json"
	"os"

	"resonate/types"
)

// snapshot is the persisted library layout: track metadata, playlist
// structures and the surviving slice of player state. Raw audio bytes
// never appear here; they live in the durable file store keyed by track
// ID.
type snapshot struct {
	Tracks            map[string]*types.Track `json:"tracks"`
	Playlists         []*types.Playlist       `json:"playlists"`
	PlaybackMode      types.PlaybackMode      `json:"playbackMode"`
	CurrentTrackID    string                  `json:"currentTrackId,omitempty"`
	CurrentPlaylistID string                  `json:"currentPlaylistId,omitempty"`
}

// persistLocked writes the snapshot file. Caller must hold s.mu. Failures
// are logged rather than propagated: the in-memory store stays usable and
// the next mutation retries the write.
func (s *Store) persistLocked() {
	if s.statePath == "" {
		return
	}

	snap := snapshot{
		Tracks:            s.tracks,
		Playlists:         s.playlists,
		PlaybackMode:      s.playback.Mode,
		CurrentTrackID:    s.playback.CurrentTrackID,
		CurrentPlaylistID: s.playback.CurrentPlaylistID,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.logger.Error("failed to marshal library snapshot", "error", err)
		return
	}
	if err := os.WriteFile(s.statePath, data, 0o644); err != nil {
		s.logger.Error("failed to save library snapshot", "error", err)
	}
}

// Load rehydrates the library from the snapshot file. A missing file is a
// fresh start, not an error. Persisted blob handles are from a dead
// session, so every track comes back unresolved until RecreateBlobURLs
// runs.
func (s *Store) Load() error {
	if s.statePath == "" {
		return nil
	}

	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Tracks != nil {
		s.tracks = snap.Tracks
	}
	s.playlists = snap.Playlists
	for _, p := range s.playlists {
		if p.TrackIDs == nil {
			p.TrackIDs = []string{}
		}
	}
	for _, t := range s.tracks {
		t.BlobURL = ""
	}

	mode := snap.PlaybackMode
	if mode != types.PlaybackOrdered && mode != types.PlaybackShuffle && mode != types.PlaybackRepeat {
		mode = types.PlaybackOrdered
	}
	s.playback = types.PlaybackState{
		Mode:              mode,
		CurrentTrackID:    snap.CurrentTrackID,
		CurrentPlaylistID: snap.CurrentPlaylistID,
	}

	s.logger.Info("library snapshot loaded",
		"tracks", len(s.tracks), "playlists", len(s.playlists))
	return nil
}
