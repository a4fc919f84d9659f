package models

// Genre is a catalog genre; names are unique.
type Genre struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;uniqueIndex"`
}

func (Genre) TableName() string { return "genre" }

// Platform is a distribution platform (streaming service, console, ...).
type Platform struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;uniqueIndex"`
}

func (Platform) TableName() string { return "platform" }

// Person is a cast or crew member.
type Person struct {
	ID   int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string  `gorm:"column:name;not null"`
	Bio  *string `gorm:"column:bio"`
}

func (Person) TableName() string { return "person" }
