package media

import (
	"context"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository reads a media record and the sections hanging off it.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID retrieves a media record by ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// RatingStats holds the review aggregates of one media.
type RatingStats struct {
	AvgRating   float64 `gorm:"column:avg_rating"`
	ReviewCount int64   `gorm:"column:review_count"`
}

func (r *Repository) RatingStats(ctx context.Context, mediaID int64) (RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).
		Table("review").
		Select("CAST(COALESCE(AVG(rating), 0) AS DOUBLE PRECISION) AS avg_rating, COUNT(id) AS review_count").
		Where("media_id = ?", mediaID).
		Scan(&stats).Error
	return stats, err
}

func (r *Repository) GenreNames(ctx context.Context, mediaID int64) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).
		Table("media_genre AS mg").
		Joins("JOIN genre g ON g.id = mg.genre_id").
		Where("mg.media_id = ?", mediaID).
		Order("g.name ASC").
		Pluck("g.name", &names).Error
	return names, err
}

// CastRow is one credited person.
type CastRow struct {
	PersonID int64  `gorm:"column:person_id"`
	Name     string `gorm:"column:name"`
	Role     string `gorm:"column:role"`
}

func (r *Repository) Cast(ctx context.Context, mediaID int64) ([]CastRow, error) {
	rows := []CastRow{}
	err := r.db.WithContext(ctx).
		Table("media_person_role AS mpr").
		Select("mpr.person_id, p.name, mpr.role").
		Joins("JOIN person p ON p.id = mpr.person_id").
		Where("mpr.media_id = ?", mediaID).
		Order("mpr.role ASC, p.name ASC").
		Scan(&rows).Error
	return rows, err
}

// ReviewRow is a review joined with its author.
type ReviewRow struct {
	ID         int64           `gorm:"column:id"`
	UserID     int64           `gorm:"column:user_id"`
	Username   string          `gorm:"column:username"`
	Rating     decimal.Decimal `gorm:"column:rating"`
	Comment    string          `gorm:"column:comment"`
	ReviewDate time.Time       `gorm:"column:review_date"`
}

func (r *Repository) Reviews(ctx context.Context, mediaID int64) ([]ReviewRow, error) {
	rows := []ReviewRow{}
	err := r.db.WithContext(ctx).
		Table("review AS r").
		Select("r.id, r.user_id, u.username, r.rating, r.comment, r.review_date").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.media_id = ?", mediaID).
		Order("r.review_date DESC, r.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) PlatformNames(ctx context.Context, mediaID int64) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).
		Table("media_platform AS mp").
		Joins("JOIN platform p ON p.id = mp.platform_id").
		Where("mp.media_id = ?", mediaID).
		Order("p.name ASC").
		Pluck("p.name", &names).Error
	return names, err
}

func (r *Repository) Episodes(ctx context.Context, mediaID int64) ([]models.Episode, error) {
	rows := []models.Episode{}
	err := r.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("season_number ASC, episode_number ASC").
		Find(&rows).Error
	return rows, err
}

// AwardRow is one award win with optional person attribution.
type AwardRow struct {
	ID         int64   `gorm:"column:id"`
	AwardName  string  `gorm:"column:award_name"`
	Category   string  `gorm:"column:category"`
	YearWon    int     `gorm:"column:year_won"`
	PersonName *string `gorm:"column:person_name"`
}

func (r *Repository) Awards(ctx context.Context, mediaID int64) ([]AwardRow, error) {
	rows := []AwardRow{}
	err := r.db.WithContext(ctx).
		Table("awardwon AS aw").
		Select("aw.id, a.name AS award_name, a.category, aw.year_won, p.name AS person_name").
		Joins("JOIN award a ON a.id = aw.award_id").
		Joins("LEFT JOIN person p ON p.id = aw.person_id").
		Where("aw.media_id = ?", mediaID).
		Order("aw.year_won DESC, a.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) Images(ctx context.Context, mediaID int64) ([]models.MediaImage, error) {
	rows := []models.MediaImage{}
	err := r.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Videos(ctx context.Context, mediaID int64) ([]models.MediaVideo, error) {
	rows := []models.MediaVideo{}
	err := r.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
