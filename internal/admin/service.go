package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes the admin content-management operations.
type Service interface {
	ListMedia(ctx context.Context, page int, q string) (*MediaListPage, error)
	NewMediaForm(ctx context.Context) (*MediaForm, error)
	CreateMedia(ctx context.Context, input MediaInput) (int64, error)
	EditMediaForm(ctx context.Context, id int64) (*MediaForm, error)
	UpdateMedia(ctx context.Context, id int64, input MediaInput) error
	DeleteMedia(ctx context.Context, id int64) error

	CastPage(ctx context.Context, mediaID int64) (*CastPage, error)
	AddCredit(ctx context.Context, mediaID int64, input CreditInput) error
	RemoveCredit(ctx context.Context, mediaID int64, input CreditInput) error

	AssetsPage(ctx context.Context, mediaID int64) (*AssetsPage, error)
	AddImage(ctx context.Context, mediaID int64, input ImageInput) error
	AddVideo(ctx context.Context, mediaID int64, input VideoInput) error
	DeleteImage(ctx context.Context, imageID int64) (int64, error)
	DeleteVideo(ctx context.Context, videoID int64) (int64, error)

	EpisodesPage(ctx context.Context, mediaID int64) (*EpisodesPage, error)
	AddEpisode(ctx context.Context, mediaID int64, input EpisodeInput) error
	DeleteEpisode(ctx context.Context, episodeID int64) (int64, error)

	AwardsPage(ctx context.Context, mediaID int64) (*AwardsPage, error)
	AddAward(ctx context.Context, mediaID int64, input AwardInput) error
	DeleteAwardWin(ctx context.Context, winID int64) (int64, error)

	CreateGenre(ctx context.Context, input NameInput) (*Option, error)
	CreatePlatform(ctx context.Context, input NameInput) (*Option, error)
	CreatePerson(ctx context.Context, input PersonInput) (*Option, error)
}

type service struct {
	db   *db.Client
	repo *Repository
	now  func() time.Time
}

// ServiceParams wires the admin service.
type ServiceParams struct {
	DB   *db.Client
	Repo *Repository
	Now  func() time.Time
}

// NewService constructs the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Repo == nil {
		params.Repo = NewRepository(params.DB.DB())
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{db: params.DB, repo: params.Repo, now: params.Now}, nil
}

func (s *service) ListMedia(ctx context.Context, page int, q string) (*MediaListPage, error) {
	p := pagination.Normalize(page, PageSize)
	q = strings.TrimSpace(q)

	rows, total, err := s.repo.ListMedia(ctx, q, p.Size, p.Offset())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list media")
	}

	out := &MediaListPage{
		Media:      make([]MediaRow, 0, len(rows)),
		Query:      q,
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
	for i := range rows {
		dto := toMediaDTO(&rows[i])
		out.Media = append(out.Media, MediaRow{ID: dto.ID, Title: dto.Title, MediaType: dto.MediaType, ReleaseDate: dto.ReleaseDate})
	}
	return out, nil
}

func (s *service) NewMediaForm(ctx context.Context) (*MediaForm, error) {
	return s.mediaForm(ctx, nil, []int64{}, []int64{})
}

func (s *service) EditMediaForm(ctx context.Context, id int64) (*MediaForm, error) {
	m, err := s.loadMedia(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.repo.GenreIDs(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media genres")
	}
	platformIDs, err := s.repo.PlatformIDs(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media platforms")
	}
	dto := toMediaDTO(m)
	return s.mediaForm(ctx, &dto, genreIDs, platformIDs)
}

func (s *service) mediaForm(ctx context.Context, m *MediaDTO, genreIDs, platformIDs []int64) (*MediaForm, error) {
	genres, err := s.repo.Genres(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list genres")
	}
	platforms, err := s.repo.Platforms(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list platforms")
	}
	return &MediaForm{
		Media:       m,
		GenreIDs:    genreIDs,
		PlatformIDs: platformIDs,
		Genres:      genreOptions(genres),
		Platforms:   platformOptions(platforms),
		MediaTypes:  enums.MediaTypes(),
	}, nil
}

func (s *service) CreateMedia(ctx context.Context, input MediaInput) (int64, error) {
	fields, err := normalizeMedia(input)
	if err != nil {
		return 0, err
	}
	genreIDs := uniqueIDs(input.GenreIDs)
	platformIDs := uniqueIDs(input.PlatformIDs)

	m := &models.Media{
		Title:           fields.title,
		Synopsis:        fields.synopsis,
		MediaType:       fields.mediaType,
		ReleaseDate:     fields.releaseDate,
		DurationMinutes: input.DurationMinutes,
	}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureReferences(ctx, txRepo, genreIDs, platformIDs); err != nil {
			return err
		}
		if err := txRepo.CreateMedia(ctx, m); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert media")
		}
		if err := txRepo.AddGenres(ctx, m.ID, genreIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: link genres")
		}
		if err := txRepo.AddPlatforms(ctx, m.ID, platformIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: link platforms")
		}
		return nil
	})
	if err != nil {
		return 0, asServiceError(err, "create media")
	}
	return m.ID, nil
}

func (s *service) UpdateMedia(ctx context.Context, id int64, input MediaInput) error {
	fields, err := normalizeMedia(input)
	if err != nil {
		return err
	}
	genreIDs := uniqueIDs(input.GenreIDs)
	platformIDs := uniqueIDs(input.PlatformIDs)

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := s.loadMedia(ctx, txRepo, id); err != nil {
			return err
		}
		if err := ensureReferences(ctx, txRepo, genreIDs, platformIDs); err != nil {
			return err
		}

		if err := txRepo.UpdateMediaFields(ctx, id, map[string]any{
			"title":            fields.title,
			"synopsis":         fields.synopsis,
			"media_type":       fields.mediaType,
			"release_date":     fields.releaseDate,
			"duration_minutes": input.DurationMinutes,
			"updated_at":       s.now().UTC(),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update media")
		}

		currentGenres, err := txRepo.GenreIDs(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load genre links")
		}
		addGenres, dropGenres := diffIDs(currentGenres, genreIDs)
		if err := txRepo.RemoveGenres(ctx, id, dropGenres); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: unlink genres")
		}
		if err := txRepo.AddGenres(ctx, id, addGenres); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: link genres")
		}

		currentPlatforms, err := txRepo.PlatformIDs(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load platform links")
		}
		addPlatforms, dropPlatforms := diffIDs(currentPlatforms, platformIDs)
		if err := txRepo.RemovePlatforms(ctx, id, dropPlatforms); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: unlink platforms")
		}
		if err := txRepo.AddPlatforms(ctx, id, addPlatforms); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: link platforms")
		}
		return nil
	})
	return asServiceError(err, "update media")
}

func (s *service) DeleteMedia(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteMedia(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete media")
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
	}
	return nil
}

func (s *service) CastPage(ctx context.Context, mediaID int64) (*CastPage, error) {
	m, err := s.loadMedia(ctx, s.repo, mediaID)
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.Credits(ctx, mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cast")
	}
	people, err := s.repo.People(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list people")
	}

	page := &CastPage{Media: toMediaDTO(m), Cast: make([]Credit, 0, len(credits)), People: personOptions(people)}
	for _, c := range credits {
		page.Cast = append(page.Cast, Credit(c))
	}
	return page, nil
}

func (s *service) AddCredit(ctx context.Context, mediaID int64, input CreditInput) error {
	role := strings.TrimSpace(input.Role)
	if role == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "role is required")
	}
	if _, err := s.loadMedia(ctx, s.repo, mediaID); err != nil {
		return err
	}
	if _, err := s.repo.FindPerson(ctx, input.PersonID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "person not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load person")
	}
	credit := &models.MediaPersonRole{MediaID: mediaID, PersonID: input.PersonID, Role: role}
	if err := s.repo.AddCredit(ctx, credit); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add credit")
	}
	return nil
}

func (s *service) RemoveCredit(ctx context.Context, mediaID int64, input CreditInput) error {
	n, err := s.repo.RemoveCredit(ctx, models.MediaPersonRole{
		MediaID:  mediaID,
		PersonID: input.PersonID,
		Role:     strings.TrimSpace(input.Role),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove credit")
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "credit not found")
	}
	return nil
}

func (s *service) AssetsPage(ctx context.Context, mediaID int64) (*AssetsPage, error) {
	m, err := s.loadMedia(ctx, s.repo, mediaID)
	if err != nil {
		return nil, err
	}
	images, err := s.repo.Images(ctx, mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list images")
	}
	videos, err := s.repo.Videos(ctx, mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list videos")
	}

	page := &AssetsPage{
		Media:      toMediaDTO(m),
		Images:     make([]Asset, 0, len(images)),
		Videos:     make([]Asset, 0, len(videos)),
		ImageTypes: enums.ImageTypes(),
		VideoTypes: enums.VideoTypes(),
	}
	for _, img := range images {
		page.Images = append(page.Images, Asset{ID: img.ID, URL: img.URL, Kind: img.ImageType.String(), SortOrder: img.SortOrder})
	}
	for _, v := range videos {
		page.Videos = append(page.Videos, Asset{ID: v.ID, URL: v.URL, Kind: v.VideoType.String(), Title: v.Title, SortOrder: v.SortOrder})
	}
	return page, nil
}

func (s *service) AddImage(ctx context.Context, mediaID int64, input ImageInput) error {
	imageType, err := enums.ParseImageType(strings.TrimSpace(input.ImageType))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid image_type")
	}
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}
	if _, err := s.loadMedia(ctx, s.repo, mediaID); err != nil {
		return err
	}
	img := &models.MediaImage{MediaID: mediaID, URL: url, ImageType: imageType, SortOrder: input.SortOrder}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add image")
	}
	return nil
}

func (s *service) AddVideo(ctx context.Context, mediaID int64, input VideoInput) error {
	videoType, err := enums.ParseVideoType(strings.TrimSpace(input.VideoType))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid video_type")
	}
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}
	if _, err := s.loadMedia(ctx, s.repo, mediaID); err != nil {
		return err
	}
	v := &models.MediaVideo{MediaID: mediaID, URL: url, Title: strings.TrimSpace(input.Title), VideoType: videoType, SortOrder: input.SortOrder}
	if err := s.repo.CreateVideo(ctx, v); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add video")
	}
	return nil
}

// DeleteImage returns the owning media id so callers can return to its assets.
func (s *service) DeleteImage(ctx context.Context, imageID int64) (int64, error) {
	img, err := s.repo.FindImage(ctx, imageID)
	if err != nil {
		return 0, notFoundOr(err, "image not found", "load image")
	}
	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete image")
	}
	return img.MediaID, nil
}

func (s *service) DeleteVideo(ctx context.Context, videoID int64) (int64, error) {
	v, err := s.repo.FindVideo(ctx, videoID)
	if err != nil {
		return 0, notFoundOr(err, "video not found", "load video")
	}
	if err := s.repo.DeleteVideo(ctx, videoID); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete video")
	}
	return v.MediaID, nil
}

func (s *service) EpisodesPage(ctx context.Context, mediaID int64) (*EpisodesPage, error) {
	m, err := s.loadMedia(ctx, s.repo, mediaID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Episodes(ctx, mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list episodes")
	}
	page := &EpisodesPage{Media: toMediaDTO(m), Episodes: make([]EpisodeDTO, 0, len(rows))}
	for _, e := range rows {
		page.Episodes = append(page.Episodes, toEpisodeDTO(e))
	}
	return page, nil
}

func (s *service) AddEpisode(ctx context.Context, mediaID int64, input EpisodeInput) error {
	if input.SeasonNumber < 0 || input.EpisodeNumber < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "season_number must be >= 0 and episode_number >= 1")
	}
	airDate, ok := parseDate(input.AirDate)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "air_date must be YYYY-MM-DD")
	}
	m, err := s.loadMedia(ctx, s.repo, mediaID)
	if err != nil {
		return err
	}
	if !m.MediaType.HasEpisodes() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "episodes are only tracked for TV shows and anime")
	}

	e := &models.Episode{
		MediaID:         mediaID,
		SeasonNumber:    input.SeasonNumber,
		EpisodeNumber:   input.EpisodeNumber,
		Title:           strings.TrimSpace(input.Title),
		Synopsis:        input.Synopsis,
		AirDate:         airDate,
		DurationMinutes: input.DurationMinutes,
	}
	if err := s.repo.CreateEpisode(ctx, e); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "episode already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add episode")
	}
	return nil
}

func (s *service) DeleteEpisode(ctx context.Context, episodeID int64) (int64, error) {
	e, err := s.repo.FindEpisode(ctx, episodeID)
	if err != nil {
		return 0, notFoundOr(err, "episode not found", "load episode")
	}
	if err := s.repo.DeleteEpisode(ctx, episodeID); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete episode")
	}
	return e.MediaID, nil
}

func (s *service) AwardsPage(ctx context.Context, mediaID int64) (*AwardsPage, error) {
	m, err := s.loadMedia(ctx, s.repo, mediaID)
	if err != nil {
		return nil, err
	}
	wins, err := s.repo.AwardWins(ctx, mediaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list award wins")
	}
	awards, err := s.repo.Awards(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list awards")
	}
	people, err := s.repo.People(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list people")
	}

	page := &AwardsPage{
		Media:  toMediaDTO(m),
		Wins:   make([]AwardWin, 0, len(wins)),
		Awards: make([]AwardOption, 0, len(awards)),
		People: personOptions(people),
	}
	for _, w := range wins {
		page.Wins = append(page.Wins, AwardWin(w))
	}
	for _, a := range awards {
		page.Awards = append(page.Awards, AwardOption{ID: a.ID, Name: a.Name, Category: a.Category})
	}
	return page, nil
}

func (s *service) AddAward(ctx context.Context, mediaID int64, input AwardInput) error {
	name := strings.TrimSpace(input.AwardName)
	category := strings.TrimSpace(input.Category)
	if input.AwardID == nil && name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "award_id or award_name is required")
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := s.loadMedia(ctx, txRepo, mediaID); err != nil {
			return err
		}
		if input.PersonID != nil {
			if _, err := txRepo.FindPerson(ctx, *input.PersonID); err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeValidation, "person not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load person")
			}
		}

		awardID, err := resolveAward(ctx, txRepo, input.AwardID, name, category)
		if err != nil {
			return err
		}
		win := &models.AwardWon{AwardID: awardID, MediaID: mediaID, PersonID: input.PersonID, YearWon: input.YearWon}
		if err := txRepo.CreateAwardWin(ctx, win); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert award win")
		}
		return nil
	})
	return asServiceError(err, "add award")
}

func resolveAward(ctx context.Context, repo *Repository, awardID *int64, name, category string) (int64, error) {
	if awardID != nil {
		a, err := repo.FindAward(ctx, *awardID)
		if err != nil {
			if db.IsNotFound(err) {
				return 0, pkgerrors.New(pkgerrors.CodeValidation, "award not found")
			}
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load award")
		}
		return a.ID, nil
	}

	a, err := repo.FindAwardByName(ctx, name, category)
	if err == nil {
		return a.ID, nil
	}
	if !db.IsNotFound(err) {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find award")
	}
	created := &models.Award{Name: name, Category: category}
	if err := repo.CreateAward(ctx, created); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert award")
	}
	return created.ID, nil
}

func (s *service) DeleteAwardWin(ctx context.Context, winID int64) (int64, error) {
	w, err := s.repo.FindAwardWin(ctx, winID)
	if err != nil {
		return 0, notFoundOr(err, "award win not found", "load award win")
	}
	if err := s.repo.DeleteAwardWin(ctx, winID); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete award win")
	}
	return w.MediaID, nil
}

func (s *service) CreateGenre(ctx context.Context, input NameInput) (*Option, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	g := &models.Genre{Name: name}
	if err := s.repo.CreateGenre(ctx, g); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Genre already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create genre")
	}
	return &Option{ID: g.ID, Name: g.Name}, nil
}

func (s *service) CreatePlatform(ctx context.Context, input NameInput) (*Option, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	p := &models.Platform{Name: name}
	if err := s.repo.CreatePlatform(ctx, p); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Platform already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create platform")
	}
	return &Option{ID: p.ID, Name: p.Name}, nil
}

// CreatePerson always inserts; people may share a name.
func (s *service) CreatePerson(ctx context.Context, input PersonInput) (*Option, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	p := &models.Person{Name: name, Bio: input.Bio}
	if err := s.repo.CreatePerson(ctx, p); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create person")
	}
	return &Option{ID: p.ID, Name: p.Name}, nil
}

func (s *service) loadMedia(ctx context.Context, repo *Repository, id int64) (*models.Media, error) {
	m, err := repo.FindMedia(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "media not found", "load media")
	}
	return m, nil
}

type mediaFields struct {
	title       string
	synopsis    string
	mediaType   enums.MediaType
	releaseDate *time.Time
}

func normalizeMedia(input MediaInput) (mediaFields, error) {
	out := mediaFields{
		title:    strings.TrimSpace(input.Title),
		synopsis: strings.TrimSpace(input.Synopsis),
	}
	if out.title == "" {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	mediaType, err := enums.ParseMediaType(input.MediaType)
	if err != nil {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "invalid media_type")
	}
	out.mediaType = mediaType
	releaseDate, ok := parseDate(input.ReleaseDate)
	if !ok {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "release_date must be YYYY-MM-DD")
	}
	out.releaseDate = releaseDate
	if input.DurationMinutes != nil && *input.DurationMinutes < 0 {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "duration_minutes must be non-negative")
	}
	return out, nil
}

func ensureReferences(ctx context.Context, repo *Repository, genreIDs, platformIDs []int64) error {
	n, err := repo.CountExisting(ctx, &models.Genre{}, genreIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check genres")
	}
	if n != int64(len(genreIDs)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown genre id")
	}
	n, err = repo.CountExisting(ctx, &models.Platform{}, platformIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check platforms")
	}
	if n != int64(len(platformIDs)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown platform id")
	}
	return nil
}

// diffIDs returns the ids to insert and the ids to delete so that current
// becomes exactly want.
func diffIDs(current, want []int64) (add, remove []int64) {
	have := make(map[int64]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	keep := make(map[int64]struct{}, len(want))
	for _, id := range want {
		keep[id] = struct{}{}
		if _, ok := have[id]; !ok {
			add = append(add, id)
		}
	}
	for _, id := range current {
		if _, ok := keep[id]; !ok {
			remove = append(remove, id)
		}
	}
	return add, remove
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func notFoundOr(err error, notFound, op string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}

// asServiceError keeps typed errors raised inside a transaction and wraps the rest.
func asServiceError(err error, op string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
