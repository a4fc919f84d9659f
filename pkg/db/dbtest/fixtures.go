package dbtest

import (
	"testing"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Date builds a UTC midnight timestamp.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func mustCreate(t testing.TB, conn *gorm.DB, value any) {
	t.Helper()
	if err := conn.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func User(t testing.TB, conn *gorm.DB, username string, role enums.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	mustCreate(t, conn, u)
	return u
}

func Media(t testing.TB, conn *gorm.DB, title string, mediaType enums.MediaType, released *time.Time) *models.Media {
	t.Helper()
	m := &models.Media{
		Title:       title,
		Synopsis:    title + " synopsis",
		MediaType:   mediaType,
		ReleaseDate: released,
	}
	mustCreate(t, conn, m)
	return m
}

func Genre(t testing.TB, conn *gorm.DB, name string) *models.Genre {
	t.Helper()
	g := &models.Genre{Name: name}
	mustCreate(t, conn, g)
	return g
}

func Platform(t testing.TB, conn *gorm.DB, name string) *models.Platform {
	t.Helper()
	p := &models.Platform{Name: name}
	mustCreate(t, conn, p)
	return p
}

func Person(t testing.TB, conn *gorm.DB, name string) *models.Person {
	t.Helper()
	p := &models.Person{Name: name}
	mustCreate(t, conn, p)
	return p
}

func LinkGenres(t testing.TB, conn *gorm.DB, mediaID int64, genres ...*models.Genre) {
	t.Helper()
	for _, g := range genres {
		mustCreate(t, conn, &models.MediaGenre{MediaID: mediaID, GenreID: g.ID})
	}
}

func LinkPlatforms(t testing.TB, conn *gorm.DB, mediaID int64, platforms ...*models.Platform) {
	t.Helper()
	for _, p := range platforms {
		mustCreate(t, conn, &models.MediaPlatform{MediaID: mediaID, PlatformID: p.ID})
	}
}

func Credit(t testing.TB, conn *gorm.DB, mediaID int64, person *models.Person, role string) {
	t.Helper()
	mustCreate(t, conn, &models.MediaPersonRole{MediaID: mediaID, PersonID: person.ID, Role: role})
}

func Review(t testing.TB, conn *gorm.DB, userID, mediaID int64, rating string, at time.Time) *models.Review {
	t.Helper()
	r := &models.Review{
		UserID:     userID,
		MediaID:    mediaID,
		Rating:     decimal.RequireFromString(rating),
		Comment:    "comment",
		ReviewDate: at.UTC(),
	}
	mustCreate(t, conn, r)
	return r
}

func Image(t testing.TB, conn *gorm.DB, mediaID int64, imageType enums.ImageType, url string, sortOrder int) *models.MediaImage {
	t.Helper()
	img := &models.MediaImage{MediaID: mediaID, URL: url, ImageType: imageType, SortOrder: sortOrder}
	mustCreate(t, conn, img)
	return img
}

func Video(t testing.TB, conn *gorm.DB, mediaID int64, url string, sortOrder int) *models.MediaVideo {
	t.Helper()
	v := &models.MediaVideo{MediaID: mediaID, URL: url, Title: "Trailer", VideoType: enums.VideoTypeTrailer, SortOrder: sortOrder}
	mustCreate(t, conn, v)
	return v
}

func Episode(t testing.TB, conn *gorm.DB, mediaID int64, season, number int) *models.Episode {
	t.Helper()
	e := &models.Episode{MediaID: mediaID, SeasonNumber: season, EpisodeNumber: number, Title: "Episode"}
	mustCreate(t, conn, e)
	return e
}
