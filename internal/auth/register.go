package auth

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/sirene-backend/internal/users"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/security"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	minUsernameLen    = 3
	maxUsernameLen    = 50
	minPasswordLen    = 6
	duplicateUserText = "Username or email already exists"
)

var registerValidate = validator.New()

// RegisterService handles account creation.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// AdminRegisterService creates admin accounts. Its route is only mounted
// outside prod.
type AdminRegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// RegisterServiceParams packages the dependencies for both registration flows.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
	role        enums.UserRole
}

// NewRegisterService builds a registration service for regular accounts.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	svc, err := newRegisterService(params, enums.UserRoleUser)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// NewAdminRegisterService builds the dev-only admin registration service.
func NewAdminRegisterService(params RegisterServiceParams) (AdminRegisterService, error) {
	svc, err := newRegisterService(params, enums.UserRoleAdmin)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func newRegisterService(params RegisterServiceParams, role enums.UserRole) (*registerService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		role:        role,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	return createAccount(ctx, s.db, s.passwordCfg, req, s.role)
}

func createAccount(ctx context.Context, client *db.Client, passwordCfg config.PasswordConfig, req RegisterRequest, role enums.UserRole) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if err := registerValidate.Var(email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLen {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "password must be at least %d characters", minPasswordLen)
	}

	passwordHash, err := security.HashPassword(req.Password, passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		exists, err := userRepo.ExistsByUsernameOrEmail(ctx, username, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing user")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, duplicateUserText)
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         role,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, duplicateUserText)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
