package catalog

import (
	"context"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
	"gorm.io/gorm"
)

// MediaRow is one aggregated catalog row as read from the database.
type MediaRow struct {
	ID              int64           `gorm:"column:id"`
	Title           string          `gorm:"column:title"`
	Synopsis        string          `gorm:"column:synopsis"`
	MediaType       enums.MediaType `gorm:"column:media_type"`
	ReleaseDate     *time.Time      `gorm:"column:release_date"`
	DurationMinutes *int            `gorm:"column:duration_minutes"`
	AvgRating       float64         `gorm:"column:avg_rating"`
	ReviewCount     int64           `gorm:"column:review_count"`
	PosterURL       *string         `gorm:"column:poster_url"`
}

// Repository runs the read-only catalog queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List executes a listing query.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]MediaRow, error) {
	sql, args := q.build()
	rows := []MediaRow{}
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GenresFor returns genre names per media id, alphabetised.
func (r *Repository) GenresFor(ctx context.Context, mediaIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return out, nil
	}
	var links []struct {
		MediaID int64  `gorm:"column:media_id"`
		Name    string `gorm:"column:name"`
	}
	err := r.db.WithContext(ctx).
		Table("media_genre AS mg").
		Select("mg.media_id, g.name").
		Joins("JOIN genre g ON g.id = mg.genre_id").
		Where("mg.media_id IN ?", mediaIDs).
		Order("g.name ASC").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		out[link.MediaID] = append(out[link.MediaID], link.Name)
	}
	return out, nil
}

// GenreNames lists every genre name ascending.
func (r *Repository) GenreNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.WithContext(ctx).Table("genre").Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
