package library

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"resonate/artwork"
	"resonate/tagparse"
	"resonate/types"
)

// DefaultMaxUploadBytes is the hard size cap for ingested files.
const DefaultMaxUploadBytes = 100 * 1024 * 1024

var allowedMIMETypes = map[string]bool{
	"audio/mpeg": true,
	"audio/mp3":  true,
	"audio/wav":  true,
	"audio/ogg":  true,
}

// ValidateFile checks a candidate against the audio allowlist and the size
// cap. A zero maxBytes applies DefaultMaxUploadBytes.
func ValidateFile(filename, mimeType string, size int64, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if !allowedMIMETypes[mimeType] && !strings.HasSuffix(strings.ToLower(filename), ".mp3") {
		return &types.ValidationError{Filename: filename, Reason: "not a supported audio file"}
	}
	if size > maxBytes {
		return &types.ValidationError{
			Filename: filename,
			Reason:   fmt.Sprintf("too large (%d bytes, max %d)", size, maxBytes),
		}
	}
	return nil
}

// audioMIMEType maps a filename extension to its audio MIME type, or ""
// when the extension is not an audio type we know.
func audioMIMEType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	default:
		return ""
	}
}

// IngestFile runs the full ingestion chain for one file: validation, tag
// parse with filename fallback, artwork and color assignment, durable
// persist, blob mint, track registration and playlist append.
//
// A parse failure degrades to filename metadata and never aborts the file.
// A persist failure aborts this file only and leaves no track behind; the
// durable write happens before any in-memory registration, so there is
// nothing to roll back on failure.
func (s *Store) IngestFile(filename, mimeType string, data []byte, playlistID string) (types.Track, error) {
	if mimeType == "" {
		mimeType = audioMIMEType(filename)
	}
	s.mu.RLock()
	maxBytes := s.maxUploadBytes
	s.mu.RUnlock()
	if err := ValidateFile(filename, mimeType, int64(len(data)), maxBytes); err != nil {
		return types.Track{}, err
	}
	if !allowedMIMETypes[mimeType] {
		mimeType = "audio/mpeg"
	}

	parsed := tagparse.ParseID3(data, s.logger)
	if parsed.IsEmpty() {
		// Non-ID3 containers on the allowlist (wav/ogg) still carry tags the
		// generic reader understands.
		if m, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
			parsed.Title = strings.TrimSpace(m.Title())
			parsed.Artist = strings.TrimSpace(m.Artist())
			parsed.Album = strings.TrimSpace(m.Album())
			if y := m.Year(); y > 0 {
				parsed.Year = fmt.Sprintf("%04d", y)
			}
		}
	}

	fnTitle, fnArtist := tagparse.ParseFilename(filepath.Base(filename))
	title := parsed.Title
	if title == "" {
		title = fnTitle
	}
	artist := parsed.Artist
	if artist == "" {
		artist = fnArtist
	}
	if artist == "" {
		artist = "Unknown Artist"
	}
	album := parsed.Album
	if album == "" {
		album = "Unknown Album"
	}

	// Embedded APIC artwork is discarded on purpose: every track gets a
	// curated placeholder with a matching dominant color.
	artworkURL, color := artwork.Pick()

	meta := types.TrackMetadata{
		Title:         title,
		Artist:        artist,
		Album:         album,
		Year:          parsed.Year,
		Duration:      tagparse.EstimateDuration(data),
		ArtworkURL:    artworkURL,
		DominantColor: color,
		MIMEType:      mimeType,
	}

	id, err := s.payloads.Store(data, meta)
	if err != nil {
		s.logger.Error("ingest persist failed", "file", filename, "error", err)
		return types.Track{}, err
	}

	handle := s.blobs.Mint(data, meta.MIMEType)

	track := types.Track{
		ID:            id,
		Title:         meta.Title,
		Artist:        meta.Artist,
		Album:         meta.Album,
		Year:          meta.Year,
		Duration:      meta.Duration,
		ArtworkURL:    meta.ArtworkURL,
		DominantColor: meta.DominantColor,
		BlobURL:       handle,
	}

	s.mu.Lock()
	cp := track
	s.tracks[track.ID] = &cp
	if p := s.findPlaylist(playlistID); p != nil {
		p.TrackIDs = append(p.TrackIDs, track.ID)
	}
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("track ingested", "id", track.ID, "title", track.Title, "artist", track.Artist)
	s.emit(types.LibraryEvent{Type: "track", Action: types.ActionAdded, TrackID: track.ID, PlaylistID: playlistID})
	return track, nil
}
