package admin

import (
	"time"

	"github.com/angelmondragon/sirene-backend/internal/catalog"
	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

// PageSize is the fixed size of the admin media listing.
const PageSize = 20

// MediaInput is the create/edit form payload.
type MediaInput struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Synopsis        string  `json:"synopsis" validate:"max=10000"`
	MediaType       string  `json:"media_type" validate:"required,media_type"`
	ReleaseDate     *string `json:"release_date"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=0"`
	GenreIDs        []int64 `json:"genre_ids"`
	PlatformIDs     []int64 `json:"platform_ids"`
}

type CreditInput struct {
	PersonID int64  `json:"person_id" validate:"required,gt=0"`
	Role     string `json:"role" validate:"required,max=100"`
}

type ImageInput struct {
	URL       string `json:"url" validate:"required,max=2048"`
	ImageType string `json:"image_type" validate:"required,image_type"`
	SortOrder int    `json:"sort_order"`
}

type VideoInput struct {
	URL       string `json:"url" validate:"required,max=2048"`
	Title     string `json:"title" validate:"max=255"`
	VideoType string `json:"video_type" validate:"required,video_type"`
	SortOrder int    `json:"sort_order"`
}

type EpisodeInput struct {
	SeasonNumber    int     `json:"season_number" validate:"min=0"`
	EpisodeNumber   int     `json:"episode_number" validate:"min=1"`
	Title           string  `json:"title" validate:"max=255"`
	Synopsis        *string `json:"synopsis"`
	AirDate         *string `json:"air_date"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=0"`
}

// AwardInput records a win against an existing award (AwardID) or one looked
// up, and created when missing, by name and category.
type AwardInput struct {
	AwardID   *int64 `json:"award_id"`
	AwardName string `json:"award_name" validate:"max=255"`
	Category  string `json:"category" validate:"max=255"`
	PersonID  *int64 `json:"person_id"`
	YearWon   int    `json:"year_won" validate:"required,min=1870,max=2100"`
}

type NameInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type PersonInput struct {
	Name string  `json:"name" validate:"required,max=255"`
	Bio  *string `json:"bio"`
}

type MediaRow struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	MediaType   enums.MediaType `json:"media_type"`
	ReleaseDate *string         `json:"release_date"`
}

type MediaListPage struct {
	Media      []MediaRow `json:"media"`
	Query      string     `json:"q"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_pages"`
}

type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MediaDTO struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Synopsis        string          `json:"synopsis"`
	MediaType       enums.MediaType `json:"media_type"`
	ReleaseDate     *string         `json:"release_date"`
	DurationMinutes *int            `json:"duration_minutes"`
}

// MediaForm is the context of the new and edit media forms. Media is nil on
// the new form.
type MediaForm struct {
	Media       *MediaDTO         `json:"media"`
	GenreIDs    []int64           `json:"genre_ids"`
	PlatformIDs []int64           `json:"platform_ids"`
	Genres      []Option          `json:"genres"`
	Platforms   []Option          `json:"platforms"`
	MediaTypes  []enums.MediaType `json:"media_types"`
}

type Credit struct {
	PersonID int64  `json:"person_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type CastPage struct {
	Media  MediaDTO `json:"media"`
	Cast   []Credit `json:"cast"`
	People []Option `json:"people"`
}

type Asset struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Kind      string `json:"kind"`
	Title     string `json:"title,omitempty"`
	SortOrder int    `json:"sort_order"`
}

type AssetsPage struct {
	Media      MediaDTO          `json:"media"`
	Images     []Asset           `json:"images"`
	Videos     []Asset           `json:"videos"`
	ImageTypes []enums.ImageType `json:"image_types"`
	VideoTypes []enums.VideoType `json:"video_types"`
}

type EpisodeDTO struct {
	ID              int64   `json:"id"`
	SeasonNumber    int     `json:"season_number"`
	EpisodeNumber   int     `json:"episode_number"`
	Title           string  `json:"title"`
	Synopsis        *string `json:"synopsis"`
	AirDate         *string `json:"air_date"`
	DurationMinutes *int    `json:"duration_minutes"`
}

type EpisodesPage struct {
	Media    MediaDTO     `json:"media"`
	Episodes []EpisodeDTO `json:"episodes"`
}

type AwardWin struct {
	ID         int64   `json:"id"`
	AwardID    int64   `json:"award_id"`
	AwardName  string  `json:"award_name"`
	Category   string  `json:"category"`
	YearWon    int     `json:"year_won"`
	PersonID   *int64  `json:"person_id"`
	PersonName *string `json:"person_name"`
}

type AwardOption struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type AwardsPage struct {
	Media  MediaDTO      `json:"media"`
	Wins   []AwardWin    `json:"wins"`
	Awards []AwardOption `json:"awards"`
	People []Option      `json:"people"`
}

func toMediaDTO(m *models.Media) MediaDTO {
	return MediaDTO{
		ID:              m.ID,
		Title:           m.Title,
		Synopsis:        m.Synopsis,
		MediaType:       m.MediaType,
		ReleaseDate:     catalog.FormatDate(m.ReleaseDate),
		DurationMinutes: m.DurationMinutes,
	}
}

func toEpisodeDTO(e models.Episode) EpisodeDTO {
	return EpisodeDTO{
		ID:              e.ID,
		SeasonNumber:    e.SeasonNumber,
		EpisodeNumber:   e.EpisodeNumber,
		Title:           e.Title,
		Synopsis:        e.Synopsis,
		AirDate:         catalog.FormatDate(e.AirDate),
		DurationMinutes: e.DurationMinutes,
	}
}

func genreOptions(rows []models.Genre) []Option {
	out := make([]Option, 0, len(rows))
	for _, g := range rows {
		out = append(out, Option{ID: g.ID, Name: g.Name})
	}
	return out
}

func platformOptions(rows []models.Platform) []Option {
	out := make([]Option, 0, len(rows))
	for _, p := range rows {
		out = append(out, Option{ID: p.ID, Name: p.Name})
	}
	return out
}

func personOptions(rows []models.Person) []Option {
	out := make([]Option, 0, len(rows))
	for _, p := range rows {
		out = append(out, Option{ID: p.ID, Name: p.Name})
	}
	return out
}

// parseDate accepts YYYY-MM-DD; nil or blank means no date.
func parseDate(value *string) (*time.Time, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	t, err := time.ParseInLocation("2006-01-02", *value, time.UTC)
	if err != nil {
		return nil, false
	}
	return &t, true
}
