// Package artwork supplies curated placeholder cover images and matching
// dominant colors for tracks. Embedded tag artwork is deliberately not
// used; every track gets a placeholder from this set instead.
package artwork

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Placeholders are abstract/gradient cover images; Colors carries the
// dominant color picked for the image at the same index.
var Placeholders = []string{
	"https://images.unsplash.com/photo-1648298073530-f9da02e84deb?w=600&q=80",
	"https://images.unsplash.com/photo-1618416094752-977e845b237a?w=600&q=80",
	"https://images.unsplash.com/photo-1662288346057-6190cf5d7b42?w=600&q=80",
	"https://images.unsplash.com/photo-1653454773571-e6937b508048?w=600&q=80",
	"https://images.unsplash.com/photo-1595059168836-4ef5276c5b62?w=600&q=80",
	"https://images.unsplash.com/photo-1603847734787-9e8a3f3e9d60?w=600&q=80",
	"https://images.unsplash.com/photo-1633492950690-3cb247f76703?w=600&q=80",
	"https://images.unsplash.com/photo-1510759704643-849552bf3b66?w=600&q=80",
	"https://images.unsplash.com/photo-1601885763312-e6fbc36ce2cc?w=600&q=80",
	"https://images.unsplash.com/photo-1613565042636-28de04b02e8c?w=600&q=80",
	"https://images.unsplash.com/photo-1611090285001-86450e05822e?w=600&q=80",
	"https://images.unsplash.com/photo-1681874457490-df1acfb39c88?w=600&q=80",
	"https://images.unsplash.com/photo-1683617142185-dd72fa410c8f?w=600&q=80",
	"https://images.unsplash.com/photo-1627497157737-ca76f1eb12c2?w=600&q=80",
	"https://images.unsplash.com/photo-1713791257627-93a7a1a5fbdb?w=600&q=80",
	"https://images.unsplash.com/photo-1644958622183-9d9b2cf0bd80?w=600&q=80",
	"https://images.unsplash.com/photo-1598969880158-b05f958203a2?w=600&q=80",
	"https://images.unsplash.com/photo-1637487461916-ad26fd8d6b6e?w=600&q=80",
	"https://images.unsplash.com/photo-1635806085670-39692e52bf76?w=600&q=80",
	"https://images.unsplash.com/photo-1746309226499-439cdf9d9270?w=600&q=80",
}

var Colors = []string{
	"#4A90A4", "#D83631", "#D946EF", "#3B82F6", "#7C3AED",
	"#EC4899", "#06B6D4", "#F59E0B", "#F97316", "#A855F7",
	"#F59E0B", "#0EA5E9", "#EF4444", "#14B8A6", "#10B981",
	"#FBBF24", "#6366F1", "#FB923C", "#8B5CF6", "#6366F1",
}

// Pick returns a random placeholder image URL with its paired color.
func Pick() (url, color string) {
	return At(rand.Intn(len(Placeholders)))
}

// At returns the placeholder pair at index i, wrapping modulo the set size.
func At(i int) (url, color string) {
	i = i % len(Placeholders)
	if i < 0 {
		i += len(Placeholders)
	}
	return Placeholders[i], Colors[i]
}

// ContrastColor returns black or white, whichever reads better on the
// given hex background color (YIQ brightness split at 128).
func ContrastColor(hexColor string) string {
	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) != 6 {
		return "#FFFFFF"
	}
	r, errR := strconv.ParseInt(hex[0:2], 16, 32)
	g, errG := strconv.ParseInt(hex[2:4], 16, 32)
	b, errB := strconv.ParseInt(hex[4:6], 16, 32)
	if errR != nil || errG != nil || errB != nil {
		return "#FFFFFF"
	}
	yiq := (r*299 + g*587 + b*114) / 1000
	if yiq >= 128 {
		return "#000000"
	}
	return "#FFFFFF"
}

func init() {
	if len(Placeholders) != len(Colors) {
		panic(fmt.Sprintf("artwork: %d placeholders but %d colors", len(Placeholders), len(Colors)))
	}
}
