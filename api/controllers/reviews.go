package controllers

import (
	"net/http"
	"sort"

	"github.com/angelmondragon/sirene-backend/api/middleware"
	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/api/validators"
	"github.com/angelmondragon/sirene-backend/internal/reviews"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

// SubmitReview records a review for the logged-in user. It answers with the
// {success, error} body the review form expects rather than the error envelope.
func SubmitReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteAction(w, http.StatusInternalServerError, "review service unavailable")
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteAction(w, http.StatusUnauthorized, "Please log in")
			return
		}

		var body reviews.SubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteAction(w, http.StatusBadRequest, actionMessage(err))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMediaID(ctx, body.MediaID)
		}

		if err := svc.Submit(ctx, principal.UserID, body); err != nil {
			status := http.StatusBadRequest
			switch {
			case pkgerrors.Is(err, pkgerrors.CodeNotFound):
				status = http.StatusNotFound
			case pkgerrors.Is(err, pkgerrors.CodeUnauthorized):
				status = http.StatusUnauthorized
			}
			if logg != nil {
				if status == http.StatusBadRequest && !pkgerrors.Is(err, pkgerrors.CodeValidation) {
					logg.Error(ctx, "review.submit_failed", err)
				} else {
					logg.Warn(ctx, "review.rejected")
				}
			}
			responses.WriteAction(w, status, actionMessage(err))
			return
		}

		if logg != nil {
			logg.Info(ctx, "review.submitted")
		}
		responses.WriteAction(w, http.StatusOK, "")
	}
}

// Profile returns the logged-in user's account and review history.
func Profile(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.Redirect(w, r, "/login")
			return
		}
		profile, err := svc.Profile(r.Context(), principal.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func actionMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		if typed.Code() == pkgerrors.CodeInternal || typed.Code() == pkgerrors.CodeDependency {
			return pkgerrors.PublicMessage(typed)
		}
		if details, ok := typed.Details().(map[string]string); ok && len(details) > 0 {
			fields := make([]string, 0, len(details))
			for field := range details {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			return fields[0] + " " + details[fields[0]]
		}
		return typed.Message()
	}
	return "could not save review"
}
