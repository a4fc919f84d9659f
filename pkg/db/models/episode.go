package models

import "time"

type Episode struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	MediaID         int64      `gorm:"column:media_id;not null"`
	SeasonNumber    int        `gorm:"column:season_number;not null"`
	EpisodeNumber   int        `gorm:"column:episode_number;not null"`
	Title           string     `gorm:"column:title;not null;default:''"`
	Synopsis        *string    `gorm:"column:synopsis"`
	AirDate         *time.Time `gorm:"column:air_date;type:date"`
	DurationMinutes *int       `gorm:"column:duration_minutes"`
}

func (Episode) TableName() string { return "episode" }
