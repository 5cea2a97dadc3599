package types

import (
	"fmt"
	"math"
)

// Track is a library entry. Metadata is persisted in the library snapshot;
// BlobURL is a session handle and is never valid across restarts.
type Track struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Artist        string  `json:"artist"`
	Album         string  `json:"album"`
	Year          string  `json:"year,omitempty"`
	Duration      float64 `json:"duration"` // seconds
	ArtworkURL    string  `json:"artworkUrl,omitempty"`
	DominantColor string  `json:"dominantColor"`
	BlobURL       string  `json:"blobUrl"` // empty when unresolved
	Unplayable    bool    `json:"unplayable,omitempty"`
}

// Playlist holds an ordered track-ID sequence. IDs may dangle after a track
// is deleted elsewhere; consumers filter against the track map.
type Playlist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	TrackIDs  []string `json:"trackIds"`
	CreatedAt int64    `json:"createdAt"` // unix millis
}

// TrackMetadata is the metadata snapshot stored alongside raw bytes.
type TrackMetadata struct {
	Title         string  `json:"title"`
	Artist        string  `json:"artist"`
	Album         string  `json:"album"`
	Year          string  `json:"year,omitempty"`
	Duration      float64 `json:"duration"`
	ArtworkURL    string  `json:"artworkUrl,omitempty"`
	DominantColor string  `json:"dominantColor"`
	MIMEType      string  `json:"mimeType,omitempty"`
}

// StoredPayload is raw file bytes plus the metadata snapshot, as persisted
// by the durable file store.
type StoredPayload struct {
	ID        string
	Data      []byte
	Metadata  TrackMetadata
	CreatedAt int64
}

// PlaybackMode selects how playNext/playPrevious pick a track.
type PlaybackMode string

const (
	PlaybackOrdered PlaybackMode = "ordered"
	PlaybackShuffle PlaybackMode = "shuffle"
	PlaybackRepeat  PlaybackMode = "repeat"
)

// PlaybackState is the player/queue state. Only the mode and the current
// track/playlist pointers survive a restart.
type PlaybackState struct {
	CurrentTrackID    string       `json:"currentTrackId,omitempty"`
	CurrentPlaylistID string       `json:"currentPlaylistId,omitempty"`
	IsPlaying         bool         `json:"isPlaying"`
	CurrentTime       float64      `json:"currentTime"`
	Mode              PlaybackMode `json:"playbackMode"`
}

// FormatTime renders seconds as M:SS for display. Non-finite input
// renders as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
