package enums

import (
	"fmt"
	"strings"
)

// MediaType is the catalog category of a Media row. Values are stored as shown.
type MediaType string

const (
	MediaTypeMovie     MediaType = "Movie"
	MediaTypeTVShow    MediaType = "TV Show"
	MediaTypeAnime     MediaType = "Anime"
	MediaTypeVideoGame MediaType = "Video Game"
)

var validMediaTypes = []MediaType{
	MediaTypeMovie,
	MediaTypeTVShow,
	MediaTypeAnime,
	MediaTypeVideoGame,
}

var mediaTypeSlugs = map[string]MediaType{
	"movies": MediaTypeMovie,
	"tv":     MediaTypeTVShow,
	"anime":  MediaTypeAnime,
	"games":  MediaTypeVideoGame,
}

// MediaTypes returns every known type in display order.
func MediaTypes() []MediaType {
	out := make([]MediaType, len(validMediaTypes))
	copy(out, validMediaTypes)
	return out
}

// String implements fmt.Stringer.
func (m MediaType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MediaType.
func (m MediaType) IsValid() bool {
	for _, candidate := range validMediaTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// HasEpisodes reports whether media of this type carry an episode list.
func (m MediaType) HasEpisodes() bool {
	return m == MediaTypeTVShow || m == MediaTypeAnime
}

// Slug returns the URL segment used by /api/media/{type}.
func (m MediaType) Slug() string {
	for slug, candidate := range mediaTypeSlugs {
		if candidate == m {
			return slug
		}
	}
	return ""
}

// Key is the lowercase, space-free form used in quick-search results.
func (m MediaType) Key() string {
	return strings.ToLower(strings.ReplaceAll(string(m), " ", ""))
}

// MediaTypeFromSlug maps a URL segment such as "tv" to its MediaType.
func MediaTypeFromSlug(slug string) (MediaType, bool) {
	m, ok := mediaTypeSlugs[strings.ToLower(strings.TrimSpace(slug))]
	return m, ok
}

// ParseMediaType accepts either the display value ("TV Show") or a slug ("tv").
func ParseMediaType(value string) (MediaType, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validMediaTypes {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	if m, ok := MediaTypeFromSlug(trimmed); ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid media type %q", value)
}
