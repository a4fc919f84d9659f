package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/api/validators"
	"github.com/angelmondragon/sirene-backend/internal/auth"
	"github.com/angelmondragon/sirene-backend/internal/users"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

type registrar interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error)
}

// register decodes the form and creates the account. It writes the error
// response itself and returns nil when anything fails.
func register(w http.ResponseWriter, r *http.Request, reg registrar, logg *logger.Logger) *users.UserDTO {
	if reg == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration unavailable"))
		return nil
	}
	var body auth.RegisterRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil
	}
	user, err := reg.Register(r.Context(), body)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil
	}
	if logg != nil {
		logg.Info(logg.WithFields(logg.WithUserID(r.Context(), user.ID), map[string]any{"role": string(user.Role)}), "auth.registered")
	}
	return user
}

// AuthRegister creates a regular account and sends the browser to the login form.
func AuthRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var svc registrar
		if reg != nil {
			svc = reg
		}
		if user := register(w, r, svc, logg); user != nil {
			responses.Redirect(w, r, "/login")
		}
	}
}

// AdminAuthRegister creates an admin account and returns it. Mounted outside prod only.
func AdminAuthRegister(reg auth.AdminRegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var svc registrar
		if reg != nil {
			svc = reg
		}
		if user := register(w, r, svc, logg); user != nil {
			responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"user": user})
		}
	}
}
