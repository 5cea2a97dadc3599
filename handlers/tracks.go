package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resonate/config"
	"resonate/library"
	"resonate/types"
)

// TrackHandler handles track and ingestion endpoints
type TrackHandler struct {
	store *library.Store
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(store *library.Store) *TrackHandler {
	return &TrackHandler{store: store}
}

// List returns the full track map
func (h *TrackHandler) List(c *gin.Context) {
	tracks := h.store.Tracks()
	c.JSON(http.StatusOK, gin.H{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// Get returns a single track by ID
func (h *TrackHandler) Get(c *gin.Context) {
	track, ok := h.store.Track(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"track": track})
}

// Delete removes a track, its payload, its blob handle and every playlist
// reference
func (h *TrackHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteTrack(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to delete track",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "track deleted"})
}

// ingestResult is the per-file outcome of a batch upload.
type ingestResult struct {
	Filename string       `json:"filename"`
	Track    *types.Track `json:"track,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Upload ingests one or more files from a multipart form. Files are
// processed sequentially so per-file errors line up with upload order; a
// failed file never aborts the rest of the batch.
func (h *TrackHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required", "details": err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	playlistID := c.Query("playlistId")
	maxBytes := config.GetMaxUploadBytes()

	results := make([]ingestResult, 0, len(files))
	added := 0
	var lastErr error
	for _, fh := range files {
		result := ingestResult{Filename: fh.Filename}

		mimeType := fh.Header.Get("Content-Type")
		if err := library.ValidateFile(fh.Filename, mimeType, fh.Size, maxBytes); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			lastErr = err
			continue
		}

		data, err := readMultipartFile(fh)
		if err != nil {
			result.Error = "failed to read file: " + err.Error()
			results = append(results, result)
			continue
		}

		track, err := h.store.IngestFile(fh.Filename, mimeType, data, playlistID)
		if err != nil {
			log.Printf("Error ingesting %s: %v", fh.Filename, err)
			result.Error = err.Error()
			results = append(results, result)
			lastErr = err
			continue
		}

		result.Track = &track
		results = append(results, result)
		added++
	}

	status := http.StatusCreated
	if added == 0 {
		status = http.StatusBadRequest
		if lastErr != nil {
			status = statusForIngestError(lastErr)
		}
	}
	c.JSON(status, gin.H{
		"results": results,
		"added":   added,
	})
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// statusForIngestError maps the error taxonomy onto HTTP statuses.
func statusForIngestError(err error) int {
	var vErr *types.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	var sErr *types.StorageError
	if errors.As(err, &sErr) {
		return http.StatusInsufficientStorage
	}
	return http.StatusInternalServerError
}
