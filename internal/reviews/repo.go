package reviews

import (
	"context"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// MediaExists reports whether a media row with the id is present.
func (r *Repository) MediaExists(ctx context.Context, mediaID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Media{}).Where("id = ?", mediaID).Count(&n).Error
	return n > 0, err
}

// UserReviewRow is a review joined with the reviewed media.
type UserReviewRow struct {
	ID         int64           `gorm:"column:id"`
	MediaID    int64           `gorm:"column:media_id"`
	Title      string          `gorm:"column:title"`
	MediaType  enums.MediaType `gorm:"column:media_type"`
	Rating     decimal.Decimal `gorm:"column:rating"`
	Comment    string          `gorm:"column:comment"`
	ReviewDate time.Time       `gorm:"column:review_date"`
}

func (r *Repository) ForUser(ctx context.Context, userID int64) ([]UserReviewRow, error) {
	rows := []UserReviewRow{}
	err := r.db.WithContext(ctx).
		Table("review AS r").
		Select("r.id, r.media_id, m.title, m.media_type, r.rating, r.comment, r.review_date").
		Joins("JOIN media m ON m.id = r.media_id").
		Where("r.user_id = ?", userID).
		Order("r.review_date DESC, r.id DESC").
		Scan(&rows).Error
	return rows, err
}
