// Package tagparse recovers track metadata from the head bytes of an audio
// file. It parses ID3v2 text and picture frames directly and degrades to
// filename heuristics when no usable tag block is present.
package tagparse

import (
	"encoding/binary"
	"regexp"

	"github.com/hashicorp/go-hclog"
)

// Metadata holds the fields recovered from an ID3v2 tag block. Zero values
// mean the frame was absent or unreadable.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Year   string
	// Picture is the embedded APIC image, when one parsed cleanly. Callers
	// decide whether to use it; the ingestion path deliberately prefers
	// curated placeholder artwork instead.
	Picture *Picture
}

// Picture is an embedded image extracted from an APIC frame.
type Picture struct {
	MIMEType string
	Data     []byte
}

// IsEmpty reports whether no tag fields were recovered.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Artist == "" && m.Album == "" && m.Year == "" && m.Picture == nil
}

const id3HeaderSize = 10

var yearPattern = regexp.MustCompile(`\d{4}`)

// DecodeSynchsafe decodes a 4-byte synchsafe big-endian integer. Each byte
// carries 7 bits; the top bit is always zero.
func DecodeSynchsafe(b []byte) int {
	if len(b) < 4 {
		return 0
	}
	return int(b[0]&0x7F)<<21 | int(b[1]&0x7F)<<14 | int(b[2]&0x7F)<<7 | int(b[3]&0x7F)
}

// EncodeSynchsafe encodes n (< 2^28) as a 4-byte synchsafe integer.
func EncodeSynchsafe(n int) [4]byte {
	return [4]byte{
		byte(n >> 21 & 0x7F),
		byte(n >> 14 & 0x7F),
		byte(n >> 7 & 0x7F),
		byte(n & 0x7F),
	}
}

// ParseID3 parses an ID3v2 tag block from the head of data. The input only
// needs to cover the tag block itself (tens of kilobytes is plenty).
//
// ParseID3 never fails: inputs without the ID3 marker, truncated blocks and
// malformed frames all degrade to whatever was recovered so far, down to an
// empty Metadata. The caller applies filename fallbacks on top.
func ParseID3(data []byte, logger hclog.Logger) (meta Metadata) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("tag parse aborted", "panic", r)
			meta = Metadata{}
		}
	}()

	if len(data) < id3HeaderSize || string(data[0:3]) != "ID3" {
		return Metadata{}
	}

	version := data[3]
	tagSize := DecodeSynchsafe(data[6:10])

	offset := id3HeaderSize
	end := tagSize + id3HeaderSize
	if end > len(data) {
		end = len(data)
	}

	for offset+id3HeaderSize <= end {
		frameID := string(data[offset : offset+4])
		if frameID == "\x00\x00\x00\x00" {
			break
		}

		var frameSize int
		if version == 4 {
			frameSize = DecodeSynchsafe(data[offset+4 : offset+8])
		} else {
			frameSize = int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		}
		// 2 flag bytes after the size are skipped.
		offset += id3HeaderSize

		if frameSize <= 0 || offset+frameSize > len(data) {
			break
		}
		payload := data[offset : offset+frameSize]

		switch frameID {
		case "TIT2":
			if text := decodeTextFrame(payload); text != "" {
				meta.Title = text
			}
		case "TPE1":
			if text := decodeTextFrame(payload); text != "" {
				meta.Artist = text
			}
		case "TPE2":
			// Album artist only fills in when no TPE1 was seen.
			if text := decodeTextFrame(payload); text != "" && meta.Artist == "" {
				meta.Artist = text
			}
		case "TALB":
			if text := decodeTextFrame(payload); text != "" {
				meta.Album = text
			}
		case "TYER", "TDRC":
			if text := decodeTextFrame(payload); text != "" {
				if year := yearPattern.FindString(text); year != "" {
					meta.Year = year
				}
			}
		case "APIC":
			pic, err := parsePictureFrame(payload)
			if err != nil {
				// A broken picture frame must not abort the rest of the tag.
				logger.Debug("picture frame skipped", "error", err)
			} else {
				meta.Picture = pic
			}
		}

		offset += frameSize
	}

	return meta
}
