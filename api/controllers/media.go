package controllers

import (
	"net/http"

	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/api/validators"
	"github.com/angelmondragon/sirene-backend/internal/media"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

// MediaDetail returns the full detail context for one media. Unknown or
// malformed ids send the browser back to the browse page.
func MediaDetail(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		id, err := validators.ParsePathInt(r, "id")
		if err != nil {
			responses.Redirect(w, r, "/browse")
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMediaID(ctx, id)
		}

		detail, err := svc.Detail(ctx, id)
		if err != nil {
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
				responses.Redirect(w, r, "/browse")
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
