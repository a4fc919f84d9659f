package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/sirene-backend/internal/catalog"
	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"gorm.io/gorm"
)

type mediaRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Media, error)
	RatingStats(ctx context.Context, mediaID int64) (RatingStats, error)
	GenreNames(ctx context.Context, mediaID int64) ([]string, error)
	Cast(ctx context.Context, mediaID int64) ([]CastRow, error)
	Reviews(ctx context.Context, mediaID int64) ([]ReviewRow, error)
	PlatformNames(ctx context.Context, mediaID int64) ([]string, error)
	Episodes(ctx context.Context, mediaID int64) ([]models.Episode, error)
	Awards(ctx context.Context, mediaID int64) ([]AwardRow, error)
	Images(ctx context.Context, mediaID int64) ([]models.MediaImage, error)
	Videos(ctx context.Context, mediaID int64) ([]models.MediaVideo, error)
}

// Service assembles the media detail page.
type Service interface {
	Detail(ctx context.Context, id int64) (*Detail, error)
}

type service struct {
	repo mediaRepository
}

// NewService constructs a media detail service.
func NewService(repo mediaRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*Detail, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}

	genres, err := s.repo.GenreNames(ctx, id)
	if err != nil {
		return nil, wrapSection(err, "genres")
	}
	stats, err := s.repo.RatingStats(ctx, id)
	if err != nil {
		return nil, wrapSection(err, "rating stats")
	}

	detail := &Detail{
		Media: Info{
			ID:              m.ID,
			Title:           m.Title,
			Synopsis:        m.Synopsis,
			MediaType:       m.MediaType,
			TypeSlug:        m.MediaType.Slug(),
			ReleaseDate:     catalog.FormatDate(m.ReleaseDate),
			DurationMinutes: m.DurationMinutes,
			Genres:          genres,
			AvgRating:       catalog.RoundRating(stats.AvgRating),
			ReviewCount:     stats.ReviewCount,
		},
		Episodes: []Episode{},
	}

	cast, err := s.repo.Cast(ctx, id)
	if err != nil {
		return nil, wrapSection(err, "cast")
	}
	detail.Cast = make([]CastMember, 0, len(cast))
	for _, c := range cast {
		detail.Cast = append(detail.Cast, CastMember{PersonID: c.PersonID, Name: c.Name, Role: c.Role})
	}

	reviews, err := s.repo.Reviews(ctx, id)
	if err != nil {
		return nil, wrapSection(err, "reviews")
	}
	detail.Reviews = make([]Review, 0, len(reviews))
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, Review{
			ID:         r.ID,
			UserID:     r.UserID,
			Username:   r.Username,
			Rating:     r.Rating.InexactFloat64(),
			Comment:    r.Comment,
			ReviewDate: r.ReviewDate.UTC(),
		})
	}

	if detail.Platforms, err = s.repo.PlatformNames(ctx, id); err != nil {
		return nil, wrapSection(err, "platforms")
	}

	if m.MediaType.HasEpisodes() {
		episodes, err := s.repo.Episodes(ctx, id)
		if err != nil {
			return nil, wrapSection(err, "episodes")
		}
		detail.Episodes = toEpisodes(episodes)
	}

	awards, err := s.repo.Awards(ctx, id)
	if err != nil {
		return nil, wrapSection(err, "awards")
	}
	detail.Awards = make([]Award, 0, len(awards))
	for _, a := range awards {
		detail.Awards = append(detail.Awards, Award(a))
	}

	images, err := s.repo.Images(ctx, id)
	if err != nil {
		return nil, wrapSection(err, "images")
	}
	detail.Images = CategorizeImages(images)

	videos, err := s.repo.Videos(ctx, id)
	if err != nil {
		return nil, wrapSection(err, "videos")
	}
	detail.Videos = toVideos(videos)

	return detail, nil
}

func wrapSection(err error, section string) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media "+section)
}
