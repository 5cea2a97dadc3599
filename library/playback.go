package library

import (
	"resonate/types"
)

// PlaybackState returns the current player state.
func (s *Store) PlaybackState() types.PlaybackState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playback
}

// PlayTrack makes a track current within a playlist and starts playback
// from the top.
func (s *Store) PlayTrack(trackID, playlistID string) {
	s.mu.Lock()
	s.playback.CurrentTrackID = trackID
	s.playback.CurrentPlaylistID = playlistID
	s.playback.IsPlaying = true
	s.playback.CurrentTime = 0
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playback", Action: types.ActionUpdated, TrackID: trackID, PlaylistID: playlistID})
}

// TogglePlayPause flips the playing flag.
func (s *Store) TogglePlayPause() {
	s.mu.Lock()
	s.playback.IsPlaying = !s.playback.IsPlaying
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playback", Action: types.ActionUpdated})
}

// SetIsPlaying sets the playing flag.
func (s *Store) SetIsPlaying(playing bool) {
	s.mu.Lock()
	s.playback.IsPlaying = playing
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playback", Action: types.ActionUpdated})
}

// SetCurrentTime records the playback position. In-memory only.
func (s *Store) SetCurrentTime(seconds float64) {
	s.mu.Lock()
	s.playback.CurrentTime = seconds
	s.mu.Unlock()
}

// SetPlaybackMode selects ordered, shuffle or repeat.
func (s *Store) SetPlaybackMode(mode types.PlaybackMode) {
	s.mu.Lock()
	s.playback.Mode = mode
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playback", Action: types.ActionUpdated})
}

// CyclePlaybackMode rotates ordered -> shuffle -> repeat -> ordered.
func (s *Store) CyclePlaybackMode() types.PlaybackMode {
	s.mu.Lock()
	switch s.playback.Mode {
	case types.PlaybackOrdered:
		s.playback.Mode = types.PlaybackShuffle
	case types.PlaybackShuffle:
		s.playback.Mode = types.PlaybackRepeat
	default:
		s.playback.Mode = types.PlaybackOrdered
	}
	mode := s.playback.Mode
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playback", Action: types.ActionUpdated})
	return mode
}

// PlayNext advances playback according to the current mode.
func (s *Store) PlayNext() {
	s.advance(1)
}

// PlayPrevious retreats playback according to the current mode.
func (s *Store) PlayPrevious() {
	s.advance(-1)
}

// advance implements the playback selection algorithm: repeat restarts the
// same track, shuffle picks uniformly among the other indices (no-op below
// two tracks), ordered steps by one wrapping in both directions. Missing
// current track/playlist or an empty playlist is a no-op.
func (s *Store) advance(dir int) {
	s.mu.Lock()

	if s.playback.CurrentTrackID == "" || s.playback.CurrentPlaylistID == "" {
		s.mu.Unlock()
		return
	}
	p := s.findPlaylist(s.playback.CurrentPlaylistID)
	if p == nil || len(p.TrackIDs) == 0 {
		s.mu.Unlock()
		return
	}

	if s.playback.Mode == types.PlaybackRepeat {
		s.playback.CurrentTime = 0
		s.mu.Unlock()
		s.emit(types.LibraryEvent{Type: "playback", Action: types.ActionUpdated, TrackID: s.playback.CurrentTrackID})
		return
	}

	currentIndex := indexOf(p.TrackIDs, s.playback.CurrentTrackID)

	var nextIndex int
	if s.playback.Mode == types.PlaybackShuffle {
		if len(p.TrackIDs) < 2 {
			s.mu.Unlock()
			return
		}
		others := make([]int, 0, len(p.TrackIDs)-1)
		for i := range p.TrackIDs {
			if i != currentIndex {
				others = append(others, i)
			}
		}
		nextIndex = others[s.rng.Intn(len(others))]
	} else {
		n := len(p.TrackIDs)
		nextIndex = ((currentIndex+dir)%n + n) % n
	}

	s.playback.CurrentTrackID = p.TrackIDs[nextIndex]
	s.playback.CurrentTime = 0
	trackID := s.playback.CurrentTrackID
	s.persistLocked()
	s.mu.Unlock()

	s.emit(types.LibraryEvent{Type: "playback", Action: types.ActionUpdated, TrackID: trackID})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// RecreateBlobURLs re-resolves session handles after a restart: every
// track with a stale or empty handle gets its payload re-fetched from the
// durable store and a fresh handle minted. Tracks with no recoverable
// payload stay in the library marked unplayable. The first unresolvable
// track per session triggers one user-facing warning event.
func (s *Store) RecreateBlobURLs() (resolved, unplayable int) {
	s.mu.Lock()

	var lost []string
	for id, t := range s.tracks {
		if s.blobs.IsValid(t.BlobURL) {
			continue
		}

		payload, err := s.payloads.Get(id)
		if err != nil {
			s.logger.Warn("payload fetch failed during reconciliation", "track", id, "error", err)
			payload = nil
		}
		if payload == nil {
			t.BlobURL = ""
			t.Unplayable = true
			unplayable++
			lost = append(lost, id)
			s.logger.Warn("track unplayable", "error", &types.ResolutionError{TrackID: id})
			continue
		}

		mime := payload.Metadata.MIMEType
		if mime == "" {
			mime = "audio/mpeg"
		}
		t.BlobURL = s.blobs.Mint(payload.Data, mime)
		t.Unplayable = false
		resolved++
	}
	s.persistLocked()

	warn := len(lost) > 0 && !s.resolutionWarned
	if warn {
		s.resolutionWarned = true
	}
	s.mu.Unlock()

	if warn {
		s.emit(types.LibraryEvent{
			Type:    "warning",
			Action:  types.ActionUnplayable,
			Message: "Some tracks could not be restored and are marked unplayable",
		})
	}
	s.logger.Info("blob handles reconciled", "resolved", resolved, "unplayable", unplayable)
	return resolved, unplayable
}
