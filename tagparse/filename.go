package tagparse

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Strips a leading track-number prefix like "01 ", "01. " or "1 - ".
var trackPrefixPattern = regexp.MustCompile(`^\d+[\s.\-]+`)

// ParseFilename derives a best-guess title and artist from a file name.
// Supported shapes: "Artist - Title.mp3", "01 Artist - Title.mp3",
// "Artist_Title.mp3" and plain "Title.mp3". Artist is "" when the name
// carries no separator. Always returns at least a title.
func ParseFilename(filename string) (title, artist string) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = trackPrefixPattern.ReplaceAllString(name, "")

	if strings.Contains(name, " - ") {
		parts := strings.Split(name, " - ")
		artist = strings.TrimSpace(parts[0])
		title = strings.TrimSpace(strings.Join(parts[1:], " - "))
		return title, artist
	}

	if idx := strings.Index(name, "_"); idx >= 0 {
		artist = strings.TrimSpace(name[:idx])
		title = strings.TrimSpace(strings.ReplaceAll(name[idx+1:], "_", " "))
		return title, artist
	}

	return strings.TrimSpace(name), ""
}
