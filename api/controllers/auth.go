package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/sirene-backend/api/middleware"
	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/api/validators"
	"github.com/angelmondragon/sirene-backend/internal/auth"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

// TokenHeader echoes the session token for clients that do not keep cookies.
const TokenHeader = "X-Sirene-Token"

type authPage struct {
	Page     string `json:"page"`
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

// LoginPage returns the context for the login form.
func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pageFor("login", r))
	}
}

// RegisterPage returns the context for the sign-up form.
func RegisterPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pageFor("register", r))
	}
}

func pageFor(name string, r *http.Request) authPage {
	page := authPage{Page: name}
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		page.LoggedIn = true
		page.Username = p.Username
	}
	return page
}

// AuthLogin verifies the credentials, sets the session cookie and sends the
// browser home.
func AuthLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, result.AccessToken, result.ExpiresAt)
		w.Header().Set(TokenHeader, result.AccessToken)
		if logg != nil {
			logg.Info(logg.WithUserID(r.Context(), result.User.ID), "auth.login")
		}
		responses.Redirect(w, r, "/")
	}
}

// AuthLogout revokes the current session, if any, and always clears the
// cookie before redirecting to the login page.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc != nil {
			if err := svc.Logout(r.Context(), middleware.SessionToken(r, cfg.CookieName)); err != nil && logg != nil {
				logg.Error(r.Context(), "auth.logout.revoke_failed", err)
			}
		}
		clearSessionCookie(w, cfg)
		responses.Redirect(w, r, "/login")
	}
}

func setSessionCookie(w http.ResponseWriter, cfg config.JWTConfig, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(cfg.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.JWTConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
