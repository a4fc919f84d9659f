package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sirene-backend/api/middleware"
	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/api/validators"
	"github.com/angelmondragon/sirene-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

const maxQueryLen = 200

// Home returns the landing page context. It is public; logged_in tells the
// page which header to show.
func Home(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		_, loggedIn := middleware.PrincipalFromContext(r.Context())
		page, err := svc.Home(r.Context(), loggedIn)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func SearchPage(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		page, err := svc.SearchPage(r.Context(), catalog.SearchParams{
			Query: validators.QueryString(r, "q", maxQueryLen),
			Type:  validators.QueryString(r, "type", maxQueryLen),
			Genre: validators.QueryString(r, "genre", maxQueryLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func BrowsePage(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		page, err := svc.BrowsePage(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// Browse answers the filter widget on the browse page.
func Browse(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := svc.Browse(r.Context(), catalog.BrowseParams{
			Type:  validators.QueryString(r, "type", maxQueryLen),
			Genre: validators.QueryString(r, "genre", maxQueryLen),
			Sort:  validators.QueryString(r, "sort", maxQueryLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func Trending(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc, logg, func(r *http.Request) ([]catalog.MediaSummary, error) {
		return svc.Trending(r.Context())
	})
}

func TopRated(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc, logg, func(r *http.Request) ([]catalog.MediaSummary, error) {
		return svc.TopRated(r.Context())
	})
}

func Recent(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc, logg, func(r *http.Request) ([]catalog.MediaSummary, error) {
		return svc.Recent(r.Context())
	})
}

func Featured(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc, logg, func(r *http.Request) ([]catalog.MediaSummary, error) {
		return svc.Featured(r.Context())
	})
}

// ByType lists recent media of one type. Unknown slugs yield an empty list.
func ByType(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listHandler(svc, logg, func(r *http.Request) ([]catalog.MediaSummary, error) {
		return svc.ByType(r.Context(), chi.URLParam(r, "type"))
	})
}

func QuickSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := svc.QuickSearch(r.Context(), validators.QueryString(r, "q", maxQueryLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func listHandler(svc catalog.Service, logg *logger.Logger, fetch func(*http.Request) ([]catalog.MediaSummary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := fetch(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
