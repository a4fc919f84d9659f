package media

import (
	"time"

	"github.com/angelmondragon/sirene-backend/internal/catalog"
	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

// Detail is the full context for GET /media/{id}.
type Detail struct {
	Media     Info         `json:"media"`
	Cast      []CastMember `json:"cast"`
	Reviews   []Review     `json:"reviews"`
	Platforms []string     `json:"platforms"`
	Episodes  []Episode    `json:"episodes"`
	Awards    []Award      `json:"awards"`
	Images    Images       `json:"images"`
	Videos    []Video      `json:"videos"`
}

type Info struct {
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
}

type CastMember struct {
	PersonID int64  `json:"person_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type Review struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Rating     float64   `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"review_date"`
}

type Episode struct {
	ID              int64   `json:"id"`
	SeasonNumber    int     `json:"season_number"`
	EpisodeNumber   int     `json:"episode_number"`
	Title           string  `json:"title"`
	Synopsis        *string `json:"synopsis"`
	AirDate         *string `json:"air_date"`
	DurationMinutes *int    `json:"duration_minutes"`
}

type Award struct {
	ID         int64   `json:"id"`
	AwardName  string  `json:"award_name"`
	Category   string  `json:"category"`
	YearWon    int     `json:"year_won"`
	PersonName *string `json:"person_name"`
}

type Image struct {
	ID        int64           `json:"id"`
	URL       string          `json:"url"`
	ImageType enums.ImageType `json:"image_type"`
	SortOrder int             `json:"sort_order"`
}

// Images splits a media's images into the singled-out poster and backdrop
// and the remaining gallery.
type Images struct {
	Poster   *Image  `json:"poster"`
	Backdrop *Image  `json:"backdrop"`
	Gallery  []Image `json:"gallery"`
}

type Video struct {
	ID        int64           `json:"id"`
	URL       string          `json:"url"`
	Title     string          `json:"title"`
	VideoType enums.VideoType `json:"video_type"`
	SortOrder int             `json:"sort_order"`
}

func toImage(m models.MediaImage) Image {
	return Image{ID: m.ID, URL: m.URL, ImageType: m.ImageType, SortOrder: m.SortOrder}
}

// CategorizeImages picks the first Poster and first Backdrop by sort order;
// every other image lands in the gallery. Input must be sorted by sort_order.
func CategorizeImages(rows []models.MediaImage) Images {
	out := Images{Gallery: []Image{}}
	for _, row := range rows {
		img := toImage(row)
		switch {
		case row.ImageType == enums.ImageTypePoster && out.Poster == nil:
			out.Poster = &img
		case row.ImageType == enums.ImageTypeBackdrop && out.Backdrop == nil:
			out.Backdrop = &img
		default:
			out.Gallery = append(out.Gallery, img)
		}
	}
	return out
}

func toEpisodes(rows []models.Episode) []Episode {
	out := make([]Episode, 0, len(rows))
	for _, e := range rows {
		out = append(out, Episode{
			ID:              e.ID,
			SeasonNumber:    e.SeasonNumber,
			EpisodeNumber:   e.EpisodeNumber,
			Title:           e.Title,
			Synopsis:        e.Synopsis,
			AirDate:         catalog.FormatDate(e.AirDate),
			DurationMinutes: e.DurationMinutes,
		})
	}
	return out
}

func toVideos(rows []models.MediaVideo) []Video {
	out := make([]Video, 0, len(rows))
	for _, v := range rows {
		out = append(out, Video{ID: v.ID, URL: v.URL, Title: v.Title, VideoType: v.VideoType, SortOrder: v.SortOrder})
	}
	return out
}
