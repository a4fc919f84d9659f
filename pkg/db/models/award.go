package models

type Award struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name;not null"`
	Category string `gorm:"column:category;not null;default:''"`
}

func (Award) TableName() string { return "award" }

// AwardWon records a win by a media, optionally attributed to a person.
type AwardWon struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	AwardID  int64  `gorm:"column:award_id;not null"`
	MediaID  int64  `gorm:"column:media_id;not null"`
	PersonID *int64 `gorm:"column:person_id"`
	YearWon  int    `gorm:"column:year_won;not null"`
}

func (AwardWon) TableName() string { return "awardwon" }
