package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is a user's rating and comment on a media. Reviews are never edited.
type Review struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64           `gorm:"column:user_id;not null"`
	MediaID    int64           `gorm:"column:media_id;not null"`
	Rating     decimal.Decimal `gorm:"column:rating;type:numeric(3,1);not null"`
	Comment    string          `gorm:"column:comment;not null;default:''"`
	ReviewDate time.Time       `gorm:"column:review_date;not null"`
}

func (Review) TableName() string { return "review" }
