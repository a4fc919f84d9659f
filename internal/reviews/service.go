package reviews

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/sirene-backend/internal/users"
	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	minRating = decimal.Zero
	maxRating = decimal.NewFromInt(10)
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	MediaExists(ctx context.Context, mediaID int64) (bool, error)
	ForUser(ctx context.Context, userID int64) ([]UserReviewRow, error)
}

type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// ServiceParams groups dependencies for the review service.
type ServiceParams struct {
	Repo  reviewRepository
	Users userReader
	Now   func() time.Time
}

// Service exposes review submission and the reviewer profile.
type Service interface {
	Submit(ctx context.Context, userID int64, req SubmitRequest) error
	Profile(ctx context.Context, userID int64) (*Profile, error)
}

type service struct {
	repo  reviewRepository
	users userReader
	now   func() time.Time
}

// NewService builds a review service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{repo: params.Repo, users: params.Users, now: params.Now}, nil
}

// Submit stores one review by userID. Ratings are kept to one decimal place.
func (s *service) Submit(ctx context.Context, userID int64, req SubmitRequest) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Please log in")
	}
	if req.MediaID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "media_id is required")
	}
	if req.Rating == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating is required")
	}
	rating := req.Rating.Round(1)
	if rating.LessThan(minRating) || rating.GreaterThan(maxRating) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "rating must be between %s and %s", minRating, maxRating)
	}

	exists, err := s.repo.MediaExists(ctx, req.MediaID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check media")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
	}

	review := &models.Review{
		UserID:     userID,
		MediaID:    req.MediaID,
		Rating:     rating,
		Comment:    strings.TrimSpace(req.Comment),
		ReviewDate: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		// media deleted between the existence check and the insert
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "media not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert review")
	}
	return nil
}

func (s *service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	rows, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	out := &Profile{User: users.FromModel(u), Reviews: make([]UserReview, 0, len(rows))}
	for _, r := range rows {
		out.Reviews = append(out.Reviews, UserReview{
			ID:         r.ID,
			MediaID:    r.MediaID,
			Title:      r.Title,
			MediaType:  r.MediaType,
			Rating:     r.Rating.InexactFloat64(),
			Comment:    r.Comment,
			ReviewDate: r.ReviewDate.UTC(),
		})
	}
	return out, nil
}
