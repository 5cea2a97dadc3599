package types

import "time"

// LibraryEvent is pushed to subscribed UI clients whenever the library or
// player state changes.
type LibraryEvent struct {
	Type       string    `json:"type"` // "track", "playlist", "playback", "warning"
	Action     string    `json:"action"`
	TrackID    string    `json:"trackId,omitempty"`
	PlaylistID string    `json:"playlistId,omitempty"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event actions.
const (
	ActionAdded      = "added"
	ActionDeleted    = "deleted"
	ActionRenamed    = "renamed"
	ActionReordered  = "reordered"
	ActionUpdated    = "updated"
	ActionUnplayable = "unplayable"
)
