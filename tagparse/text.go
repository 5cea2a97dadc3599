package tagparse

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ID3v2 text encoding selectors.
const (
	encLatin1  = 0
	encUTF16   = 1 // with byte-order mark
	encUTF16BE = 2 // without BOM
	encUTF8    = 3
)

// decodeTextFrame decodes a text frame payload: one encoding byte followed
// by encoded text. Trailing null terminators and surrounding whitespace are
// stripped. Returns "" for anything undecodable.
func decodeTextFrame(payload []byte) string {
	if len(payload) < 2 {
		return ""
	}
	text := decodeText(payload[0], payload[1:])
	text = strings.TrimRight(text, "\x00")
	return strings.TrimSpace(text)
}

func decodeText(encoding byte, data []byte) string {
	switch encoding {
	case encLatin1:
		return decodeLatin1(data)
	case encUTF16:
		return decodeUTF16(data, true)
	case encUTF16BE:
		return decodeUTF16(data, false)
	case encUTF8:
		if utf8.Valid(data) {
			return string(data)
		}
	}
	// Unknown selector or invalid bytes: try UTF-8 as a last resort.
	return string(bytes.ToValidUTF8(data, nil))
}

func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// decodeUTF16 decodes UTF-16 text. When bom is true the first two bytes
// select the byte order (little-endian assumed if the mark is missing);
// otherwise big-endian is used throughout.
func decodeUTF16(data []byte, bom bool) string {
	bigEndian := !bom
	if bom && len(data) >= 2 {
		switch {
		case data[0] == 0xFE && data[1] == 0xFF:
			bigEndian = true
			data = data[2:]
		case data[0] == 0xFF && data[1] == 0xFE:
			bigEndian = false
			data = data[2:]
		}
	}

	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		if bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
		}
	}
	return string(utf16.Decode(units))
}

// parsePictureFrame parses an APIC frame:
// [encoding][MIME string 0x00][picture type][description 0x00*][image bytes].
// The description terminator is encoding-dependent: two-byte for the UTF-16
// encodings, one byte otherwise.
func parsePictureFrame(payload []byte) (*Picture, error) {
	if len(payload) < 4 {
		return nil, errors.New("picture frame too short")
	}
	encoding := payload[0]

	mimeEnd := bytes.IndexByte(payload[1:], 0)
	if mimeEnd < 0 {
		return nil, errors.New("unterminated MIME type")
	}
	mimeEnd++ // index into payload
	mimeType := string(payload[1:mimeEnd])

	pos := mimeEnd + 1 // skip terminator
	if pos >= len(payload) {
		return nil, errors.New("missing picture type")
	}
	pos++ // picture type byte, unused

	descEnd, termLen := findTerminator(payload[pos:], encoding)
	if descEnd < 0 {
		return nil, errors.New("unterminated description")
	}
	imageStart := pos + descEnd + termLen
	if imageStart >= len(payload) {
		return nil, errors.New("empty image data")
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return &Picture{
		MIMEType: mimeType,
		Data:     payload[imageStart:],
	}, nil
}

// findTerminator locates the null terminator for the given encoding,
// returning its offset and byte length, or (-1, 0) when absent.
func findTerminator(data []byte, encoding byte) (int, int) {
	if encoding == encUTF16 || encoding == encUTF16BE {
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return i, 2
			}
		}
		return -1, 0
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i, 1
	}
	return -1, 0
}
