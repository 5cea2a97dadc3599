package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resonate/library"
)

// PlaylistHandler handles playlist management endpoints
type PlaylistHandler struct {
	store *library.Store
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(store *library.Store) *PlaylistHandler {
	return &PlaylistHandler{store: store}
}

// List returns all playlists
func (h *PlaylistHandler) List(c *gin.Context) {
	playlists := h.store.Playlists()
	c.JSON(http.StatusOK, gin.H{
		"playlists": playlists,
		"count":     len(playlists),
	})
}

// Get returns a single playlist by ID
func (h *PlaylistHandler) Get(c *gin.Context) {
	playlist, ok := h.store.Playlist(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist": playlist})
}

// Create creates a playlist; name is optional
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// Empty body is fine; the store auto-names the playlist.
	_ = c.ShouldBindJSON(&req)

	id := h.store.CreatePlaylist(req.Name)
	playlist, _ := h.store.Playlist(id)
	c.JSON(http.StatusCreated, gin.H{"playlist": playlist})
}

// Rename updates a playlist's display name
func (h *PlaylistHandler) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	h.store.RenamePlaylist(c.Param("id"), req.Name)
	c.JSON(http.StatusOK, gin.H{"message": "playlist renamed"})
}

// Delete removes a playlist; unknown IDs are a no-op
func (h *PlaylistHandler) Delete(c *gin.Context) {
	h.store.DeletePlaylist(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "playlist deleted"})
}

// AddTracks appends track IDs to a playlist's sequence
func (h *PlaylistHandler) AddTracks(c *gin.Context) {
	var req struct {
		TrackIDs []string `json:"trackIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.TrackIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trackIds is required"})
		return
	}

	h.store.AddTracksToPlaylist(c.Param("id"), req.TrackIDs)
	c.JSON(http.StatusOK, gin.H{"message": "tracks added"})
}

// RemoveTrack drops a track ID from a playlist's sequence
func (h *PlaylistHandler) RemoveTrack(c *gin.Context) {
	h.store.RemoveTrackFromPlaylist(c.Param("id"), c.Param("trackId"))
	c.JSON(http.StatusOK, gin.H{"message": "track removed from playlist"})
}

// Reorder replaces a playlist's track sequence wholesale
func (h *PlaylistHandler) Reorder(c *gin.Context) {
	var req struct {
		TrackIDs []string `json:"trackIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trackIds is required"})
		return
	}

	if err := h.store.ReorderPlaylistTracks(c.Param("id"), req.TrackIDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "playlist reordered"})
}
