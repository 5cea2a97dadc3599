package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resonate/blob"
)

// BlobHandler streams session blob payloads to the playback UI
type BlobHandler struct {
	registry *blob.Registry
}

// NewBlobHandler creates a new blob handler
func NewBlobHandler(registry *blob.Registry) *BlobHandler {
	return &BlobHandler{registry: registry}
}

// Stream serves the payload behind a session handle with support for
// range requests. Stale handles from a previous session resolve to 410 so
// the client knows to ask for reconciliation instead of retrying.
func (h *BlobHandler) Stream(c *gin.Context) {
	handle := blob.HandlePrefix + c.Param("id")

	data, mimeType, ok := h.registry.Resolve(handle)
	if !ok {
		c.JSON(http.StatusGone, gin.H{
			"error":   "handle is not valid in this session",
			"details": "re-resolve the track against durable storage",
		})
		return
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	// Set appropriate headers for audio streaming
	c.Header("Content-Type", mimeType)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "no-store")

	// Handle range requests for seeking
	rangeHeader := c.GetHeader("Range")
	if rangeHeader != "" {
		h.handleRangeRequest(c, data, mimeType, rangeHeader)
		return
	}

	c.Data(http.StatusOK, mimeType, data)
}

// handleRangeRequest handles HTTP range requests for efficient seeking
func (h *BlobHandler) handleRangeRequest(c *gin.Context, data []byte, mimeType, rangeHeader string) {
	// Parse range header (e.g., "bytes=0-1023" or "bytes=1024-")
	if !strings.HasPrefix(rangeHeader, "bytes=") {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	rangeSpec := strings.TrimPrefix(rangeHeader, "bytes=")
	ranges := strings.Split(rangeSpec, "-")

	if len(ranges) != 2 {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	size := int64(len(data))
	var start, end int64
	var err error

	// Parse start position
	if ranges[0] != "" {
		start, err = strconv.ParseInt(ranges[0], 10, 64)
		if err != nil || start < 0 {
			c.Status(http.StatusRequestedRangeNotSatisfiable)
			return
		}
	}

	// Parse end position
	if ranges[1] != "" {
		end, err = strconv.ParseInt(ranges[1], 10, 64)
		if err != nil || end < start {
			c.Status(http.StatusRequestedRangeNotSatisfiable)
			return
		}
	} else {
		end = size - 1
	}

	// Validate range bounds
	if start >= size {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}
	if end >= size {
		end = size - 1
	}

	// Set partial content headers
	c.Header("Content-Type", mimeType)
	c.Header("Content-Length", strconv.FormatInt(end-start+1, 10))
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "no-store")

	c.Data(http.StatusPartialContent, mimeType, data[start:end+1])
}
