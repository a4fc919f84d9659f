package reviews

import (
	"time"

	"github.com/angelmondragon/sirene-backend/internal/users"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// SubmitRequest is the body of POST /api/review. Rating accepts a JSON number
// or numeric string.
type SubmitRequest struct {
	MediaID int64            `json:"media_id" validate:"required,gt=0"`
	Rating  *decimal.Decimal `json:"rating" validate:"required"`
	Comment string           `json:"comment" validate:"max=5000"`
}

type UserReview struct {
	ID         int64           `json:"id"`
	MediaID    int64           `json:"media_id"`
	Title      string          `json:"title"`
	MediaType  enums.MediaType `json:"media_type"`
	Rating     float64         `json:"rating"`
	Comment    string          `json:"comment"`
	ReviewDate time.Time       `json:"review_date"`
}

// Profile is the GET /profile page context.
type Profile struct {
	User    *users.UserDTO `json:"user"`
	Reviews []UserReview   `json:"reviews"`
}
