package auth

import (
	"context"
	"testing"

	"github.com/angelmondragon/sirene-backend/internal/users"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	client := dbtest.Open(t)
	reg, err := NewRegisterService(RegisterServiceParams{DB: client, PasswordConfig: config.PasswordConfig{}})
	require.NoError(t, err)
	ctx := context.Background()

	created, err := reg.Register(ctx, RegisterRequest{Username: "  ana ", Email: " Ana@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana", created.Username)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, enums.UserRoleUser, created.Role)

	stored, err := users.NewRepository(client.DB()).FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	ok, err := security.VerifyPassword("secret1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{UserRepo: users.NewRepository(client.DB()), SessionManager: sessions, JWTConfig: testJWT})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, LoginRequest{Username: "ana", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Len(t, sessions.created, 1)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	client := dbtest.Open(t)
	reg, err := NewRegisterService(RegisterServiceParams{DB: client})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = reg.Register(ctx, RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	cases := []RegisterRequest{
		{Username: "ana", Email: "other@example.com", Password: "secret1"},
		{Username: "other", Email: "ANA@example.com", Password: "secret1"},
	}
	for _, req := range cases {
		_, err := reg.Register(ctx, req)
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
		assert.Equal(t, "Username or email already exists", pkgerrors.PublicMessage(err))
	}

	var count int64
	require.NoError(t, client.DB().Table("users").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidation(t *testing.T) {
	client := dbtest.Open(t)
	reg, err := NewRegisterService(RegisterServiceParams{DB: client})
	require.NoError(t, err)

	cases := map[string]RegisterRequest{
		"short username": {Username: "ab", Email: "a@example.com", Password: "secret1"},
		"bad email":      {Username: "abc", Email: "nope", Password: "secret1"},
		"display name":   {Username: "abc", Email: "Bob Smith <bob@example.com>", Password: "secret1"},
		"short password": {Username: "abc", Email: "a@example.com", Password: "12345"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Register(context.Background(), req)
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
		})
	}
}

func TestAdminRegisterCreatesAdmin(t *testing.T) {
	client := dbtest.Open(t)
	reg, err := NewAdminRegisterService(RegisterServiceParams{DB: client})
	require.NoError(t, err)

	created, err := reg.Register(context.Background(), RegisterRequest{Username: "root", Email: "root@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, created.Role)
}

func TestRegisterServicesRequireDB(t *testing.T) {
	_, err := NewRegisterService(RegisterServiceParams{})
	assert.Error(t, err)
	_, err = NewAdminRegisterService(RegisterServiceParams{})
	assert.Error(t, err)
}
