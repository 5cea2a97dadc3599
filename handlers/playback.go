package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resonate/library"
	"resonate/types"
)

// PlaybackHandler handles player state endpoints
type PlaybackHandler struct {
	store *library.Store
}

// NewPlaybackHandler creates a new playback handler
func NewPlaybackHandler(store *library.Store) *PlaybackHandler {
	return &PlaybackHandler{store: store}
}

// State returns the current player state
func (h *PlaybackHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"playback": h.store.PlaybackState()})
}

// Play makes a track current within a playlist and starts playback
func (h *PlaybackHandler) Play(c *gin.Context) {
	var req struct {
		TrackID    string `json:"trackId"`
		PlaylistID string `json:"playlistId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TrackID == "" || req.PlaylistID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trackId and playlistId are required"})
		return
	}

	track, ok := h.store.Track(req.TrackID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
		return
	}
	if track.Unplayable {
		c.JSON(http.StatusConflict, gin.H{"error": "track is unplayable; its stored bytes could not be restored"})
		return
	}

	h.store.PlayTrack(req.TrackID, req.PlaylistID)
	c.JSON(http.StatusOK, gin.H{"playback": h.store.PlaybackState()})
}

// Toggle flips play/pause
func (h *PlaybackHandler) Toggle(c *gin.Context) {
	h.store.TogglePlayPause()
	c.JSON(http.StatusOK, gin.H{"playback": h.store.PlaybackState()})
}

// Next advances to the following track per the playback mode
func (h *PlaybackHandler) Next(c *gin.Context) {
	h.store.PlayNext()
	c.JSON(http.StatusOK, gin.H{"playback": h.store.PlaybackState()})
}

// Previous retreats to the preceding track per the playback mode
func (h *PlaybackHandler) Previous(c *gin.Context) {
	h.store.PlayPrevious()
	c.JSON(http.StatusOK, gin.H{"playback": h.store.PlaybackState()})
}

// Seek records the playback position reported by the player
func (h *PlaybackHandler) Seek(c *gin.Context) {
	var req struct {
		Time float64 `json:"time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Time < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "non-negative time is required"})
		return
	}
	h.store.SetCurrentTime(req.Time)
	c.JSON(http.StatusOK, gin.H{"playback": h.store.PlaybackState()})
}

// SetMode selects a playback mode
func (h *PlaybackHandler) SetMode(c *gin.Context) {
	var req struct {
		Mode types.PlaybackMode `json:"mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}
	switch req.Mode {
	case types.PlaybackOrdered, types.PlaybackShuffle, types.PlaybackRepeat:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be ordered, shuffle or repeat"})
		return
	}

	h.store.SetPlaybackMode(req.Mode)
	c.JSON(http.StatusOK, gin.H{"playback": h.store.PlaybackState()})
}

// CycleMode rotates ordered -> shuffle -> repeat -> ordered
func (h *PlaybackHandler) CycleMode(c *gin.Context) {
	mode := h.store.CyclePlaybackMode()
	c.JSON(http.StatusOK, gin.H{"mode": mode})
}
