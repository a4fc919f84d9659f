package models

import "github.com/angelmondragon/sirene-backend/pkg/enums"

type MediaImage struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	MediaID   int64           `gorm:"column:media_id;not null"`
	URL       string          `gorm:"column:url;not null"`
	ImageType enums.ImageType `gorm:"column:image_type;not null"`
	SortOrder int             `gorm:"column:sort_order;not null;default:0"`
}

func (MediaImage) TableName() string { return "mediaimage" }

type MediaVideo struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	MediaID   int64           `gorm:"column:media_id;not null"`
	URL       string          `gorm:"column:url;not null"`
	Title     string          `gorm:"column:title;not null;default:''"`
	VideoType enums.VideoType `gorm:"column:video_type;not null"`
	SortOrder int             `gorm:"column:sort_order;not null;default:0"`
}

func (MediaVideo) TableName() string { return "mediavideo" }
