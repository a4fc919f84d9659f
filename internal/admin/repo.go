package admin

import (
	"context"

	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists admin-managed catalog content.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) ListMedia(ctx context.Context, q string, limit, offset int) ([]models.Media, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Media{})
	if q != "" {
		base = base.Where(`LOWER(title) LIKE ? ESCAPE '\'`, db.ContainsPattern(q))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.Media{}
	err := base.Session(&gorm.Session{}).
		Order("title ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *Repository) FindMedia(ctx context.Context, id int64) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) CreateMedia(ctx context.Context, m *models.Media) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// UpdateMediaFields overwrites the scalar columns, nulls included.
func (r *Repository) UpdateMediaFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// DeleteMedia removes the row; child rows go with it through ON DELETE CASCADE.
func (r *Repository) DeleteMedia(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Media{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *Repository) GenreIDs(ctx context.Context, mediaID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&models.MediaGenre{}).
		Where("media_id = ?", mediaID).
		Order("genre_id ASC").
		Pluck("genre_id", &ids).Error
	return ids, err
}

func (r *Repository) PlatformIDs(ctx context.Context, mediaID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&models.MediaPlatform{}).
		Where("media_id = ?", mediaID).
		Order("platform_id ASC").
		Pluck("platform_id", &ids).Error
	return ids, err
}

func (r *Repository) AddGenres(ctx context.Context, mediaID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]models.MediaGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		rows = append(rows, models.MediaGenre{MediaID: mediaID, GenreID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) RemoveGenres(ctx context.Context, mediaID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("media_id = ? AND genre_id IN ?", mediaID, genreIDs).
		Delete(&models.MediaGenre{}).Error
}

func (r *Repository) AddPlatforms(ctx context.Context, mediaID int64, platformIDs []int64) error {
	if len(platformIDs) == 0 {
		return nil
	}
	rows := make([]models.MediaPlatform, 0, len(platformIDs))
	for _, id := range platformIDs {
		rows = append(rows, models.MediaPlatform{MediaID: mediaID, PlatformID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) RemovePlatforms(ctx context.Context, mediaID int64, platformIDs []int64) error {
	if len(platformIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("media_id = ? AND platform_id IN ?", mediaID, platformIDs).
		Delete(&models.MediaPlatform{}).Error
}

// CountExisting returns how many of ids exist in the given reference model's table.
func (r *Repository) CountExisting(ctx context.Context, model any, ids []int64) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func (r *Repository) Genres(ctx context.Context) ([]models.Genre, error) {
	rows := []models.Genre{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Platforms(ctx context.Context) ([]models.Platform, error) {
	rows := []models.Platform{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) People(ctx context.Context) ([]models.Person, error) {
	rows := []models.Person{}
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateGenre(ctx context.Context, g *models.Genre) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *Repository) CreatePlatform(ctx context.Context, p *models.Platform) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) CreatePerson(ctx context.Context, p *models.Person) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) FindPerson(ctx context.Context, id int64) (*models.Person, error) {
	var p models.Person
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreditRow is a cast credit joined with the person's name.
type CreditRow struct {
	PersonID int64  `gorm:"column:person_id"`
	Name     string `gorm:"column:name"`
	Role     string `gorm:"column:role"`
}

func (r *Repository) Credits(ctx context.Context, mediaID int64) ([]CreditRow, error) {
	rows := []CreditRow{}
	err := r.db.WithContext(ctx).
		Table("media_person_role AS mpr").
		Select("mpr.person_id, p.name, mpr.role").
		Joins("JOIN person p ON p.id = mpr.person_id").
		Where("mpr.media_id = ?", mediaID).
		Order("mpr.role ASC, p.name ASC").
		Scan(&rows).Error
	return rows, err
}

// AddCredit inserts the credit; an identical existing credit is left alone.
func (r *Repository) AddCredit(ctx context.Context, credit *models.MediaPersonRole) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(credit).Error
}

func (r *Repository) RemoveCredit(ctx context.Context, credit models.MediaPersonRole) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("media_id = ? AND person_id = ? AND role = ?", credit.MediaID, credit.PersonID, credit.Role).
		Delete(&models.MediaPersonRole{})
	return res.RowsAffected, res.Error
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

func (r *Repository) CreateImage(ctx context.Context, img *models.MediaImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *Repository) CreateVideo(ctx context.Context, v *models.MediaVideo) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *Repository) FindImage(ctx context.Context, id int64) (*models.MediaImage, error) {
	var img models.MediaImage
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *Repository) FindVideo(ctx context.Context, id int64) (*models.MediaVideo, error) {
	var v models.MediaVideo
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repository) DeleteImage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.MediaImage{}, "id = ?", id).Error
}

func (r *Repository) DeleteVideo(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.MediaVideo{}, "id = ?", id).Error
}

func (r *Repository) Episodes(ctx context.Context, mediaID int64) ([]models.Episode, error) {
	rows := []models.Episode{}
	err := r.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("season_number ASC, episode_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateEpisode(ctx context.Context, e *models.Episode) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *Repository) FindEpisode(ctx context.Context, id int64) (*models.Episode, error) {
	var e models.Episode
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) DeleteEpisode(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Episode{}, "id = ?", id).Error
}

func (r *Repository) FindAward(ctx context.Context, id int64) (*models.Award, error) {
	var a models.Award
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAwardByName matches an award on its exact name and category.
func (r *Repository) FindAwardByName(ctx context.Context, name, category string) (*models.Award, error) {
	var a models.Award
	err := r.db.WithContext(ctx).
		Where("name = ? AND category = ?", name, category).
		Order("id ASC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Awards(ctx context.Context) ([]models.Award, error) {
	rows := []models.Award{}
	err := r.db.WithContext(ctx).Order("name ASC, category ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateAward(ctx context.Context, a *models.Award) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Repository) CreateAwardWin(ctx context.Context, w *models.AwardWon) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// AwardWinRow is a win joined with the award and optional person.
type AwardWinRow struct {
	ID         int64   `gorm:"column:id"`
	AwardID    int64   `gorm:"column:award_id"`
	AwardName  string  `gorm:"column:award_name"`
	Category   string  `gorm:"column:category"`
	YearWon    int     `gorm:"column:year_won"`
	PersonID   *int64  `gorm:"column:person_id"`
	PersonName *string `gorm:"column:person_name"`
}

func (r *Repository) AwardWins(ctx context.Context, mediaID int64) ([]AwardWinRow, error) {
	rows := []AwardWinRow{}
	err := r.db.WithContext(ctx).
		Table("awardwon AS aw").
		Select("aw.id, aw.award_id, a.name AS award_name, a.category, aw.year_won, aw.person_id, p.name AS person_name").
		Joins("JOIN award a ON a.id = aw.award_id").
		Joins("LEFT JOIN person p ON p.id = aw.person_id").
		Where("aw.media_id = ?", mediaID).
		Order("aw.year_won DESC, a.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) FindAwardWin(ctx context.Context, id int64) (*models.AwardWon, error) {
	var w models.AwardWon
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repository) DeleteAwardWin(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.AwardWon{}, "id = ?", id).Error
}
