package users

import (
	"context"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/db/models"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository reads and writes the users table. Lookups return
// gorm.ErrRecordNotFound for unknown users.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername matches the stored username exactly.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) first(ctx context.Context, cond string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(cond, arg).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either identifier is already taken.
func (r *Repository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var hit int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("1").
		Where("username = ?", username).
		Or("email = ?", email).
		Limit(1).
		Scan(&hit).Error
	return hit == 1, err
}

// UserHasRole reports whether the stored account currently holds role. An
// unknown user holds no role.
func (r *Repository) UserHasRole(ctx context.Context, userID int64, role enums.UserRole) (bool, error) {
	var hit int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("1").
		Where("id = ? AND role = ?", userID, role).
		Limit(1).
		Scan(&hit).Error
	return hit == 1, err
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.setColumn(ctx, id, "last_login_at", at)
}

// UpdatePasswordHash swaps the stored digest, used when a login upgrades a
// legacy hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.setColumn(ctx, id, "password_hash", hash)
}

// setColumn writes one column without touching updated_at hooks.
func (r *Repository) setColumn(ctx context.Context, id int64, column string, value any) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn(column, value).Error
}
