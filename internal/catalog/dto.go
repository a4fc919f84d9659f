package catalog

import (
	"math"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

const dateLayout = "2006-01-02"

// MediaSummary is the list-row shape shared by every catalog endpoint.
type MediaSummary struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Synopsis        string          `json:"synopsis"`
	MediaType       enums.MediaType `json:"media_type"`
	TypeSlug        string          `json:"type_slug"`
	ReleaseDate     *string         `json:"release_date"`
	DurationMinutes *int            `json:"duration_minutes"`
	Genres          []string        `json:"genres"`
	AvgRating       float64         `json:"avg_rating"`
	ReviewCount     int64           `json:"review_count"`
	PosterURL       *string         `json:"poster_url"`
}

// QuickSearchResult is the compact row used by the search-as-you-type box.
type QuickSearchResult struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	MediaType   string   `json:"media_type"`
	Synopsis    string   `json:"synopsis"`
	ReleaseDate *string  `json:"release_date"`
	Genres      []string `json:"genres"`
	AvgRating   float64  `json:"avg_rating"`
	PosterURL   *string  `json:"poster_url"`
}

// HomePage is the context for GET /.
type HomePage struct {
	LoggedIn bool           `json:"logged_in"`
	Featured []MediaSummary `json:"featured"`
	Trending []MediaSummary `json:"trending"`
	TopRated []MediaSummary `json:"top_rated"`
	Recent   []MediaSummary `json:"recent"`
}

// SearchParams are the raw /search query parameters.
type SearchParams struct {
	Query string
	Type  string
	Genre string
}

// SearchPage is the context for GET /search.
type SearchPage struct {
	Results       []MediaSummary `json:"results"`
	Query         string         `json:"query"`
	Genres        []string       `json:"genres"`
	SelectedType  string         `json:"selected_type"`
	SelectedGenre string         `json:"selected_genre"`
}

// BrowseParams are the raw /api/browse query parameters.
type BrowseParams struct {
	Type  string
	Genre string
	Sort  string
}

// TypeOption describes one media type for filter widgets.
type TypeOption struct {
	Value enums.MediaType `json:"value"`
	Slug  string          `json:"slug"`
}

// BrowsePage is the context for GET /browse.
type BrowsePage struct {
	Genres []string            `json:"genres"`
	Types  []TypeOption        `json:"types"`
	Sorts  []enums.CatalogSort `json:"sorts"`
}

func toSummaries(rows []MediaRow, genres map[int64][]string) []MediaSummary {
	out := make([]MediaSummary, 0, len(rows))
	for _, row := range rows {
		names := genres[row.ID]
		if names == nil {
			names = []string{}
		}
		out = append(out, MediaSummary{
			ID:              row.ID,
			Title:           row.Title,
			Synopsis:        row.Synopsis,
			MediaType:       row.MediaType,
			TypeSlug:        row.MediaType.Slug(),
			ReleaseDate:     FormatDate(row.ReleaseDate),
			DurationMinutes: row.DurationMinutes,
			Genres:          names,
			AvgRating:       RoundRating(row.AvgRating),
			ReviewCount:     row.ReviewCount,
			PosterURL:       row.PosterURL,
		})
	}
	return out
}

func toQuickResults(summaries []MediaSummary) []QuickSearchResult {
	out := make([]QuickSearchResult, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, QuickSearchResult{
			ID:          s.ID,
			Title:       s.Title,
			MediaType:   s.MediaType.Key(),
			Synopsis:    s.Synopsis,
			ReleaseDate: s.ReleaseDate,
			Genres:      s.Genres,
			AvgRating:   s.AvgRating,
			PosterURL:   s.PosterURL,
		})
	}
	return out
}

// FormatDate renders a calendar date or nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

// RoundRating keeps two decimals of an average rating.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
