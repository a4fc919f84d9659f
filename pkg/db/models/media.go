package models

import (
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

// Media is a catalog item: a movie, TV show, anime or video game.
type Media struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Title           string          `gorm:"column:title;not null"`
	Synopsis        string          `gorm:"column:synopsis;not null;default:''"`
	MediaType       enums.MediaType `gorm:"column:media_type;not null"`
	ReleaseDate     *time.Time      `gorm:"column:release_date;type:date"`
	DurationMinutes *int            `gorm:"column:duration_minutes"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Media) TableName() string { return "media" }

// MediaGenre links a media to a genre.
type MediaGenre struct {
	MediaID int64 `gorm:"column:media_id;primaryKey"`
	GenreID int64 `gorm:"column:genre_id;primaryKey"`
}

func (MediaGenre) TableName() string { return "media_genre" }

// MediaPlatform links a media to a platform it is available on.
type MediaPlatform struct {
	MediaID    int64 `gorm:"column:media_id;primaryKey"`
	PlatformID int64 `gorm:"column:platform_id;primaryKey"`
}

func (MediaPlatform) TableName() string { return "media_platform" }

// MediaPersonRole credits a person on a media under a role label such as "Director".
type MediaPersonRole struct {
	MediaID  int64  `gorm:"column:media_id;primaryKey"`
	PersonID int64  `gorm:"column:person_id;primaryKey"`
	Role     string `gorm:"column:role;primaryKey"`
}

func (MediaPersonRole) TableName() string { return "media_person_role" }
