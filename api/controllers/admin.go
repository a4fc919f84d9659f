package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/api/validators"
	"github.com/angelmondragon/sirene-backend/internal/admin"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

const maxAdminPage = 100000

func adminUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
}

func mediaPath(id int64, suffix string) string {
	return fmt.Sprintf("/admin/media/%d/%s", id, suffix)
}

// AdminListMedia returns one page of the media table, optionally filtered by title.
func AdminListMedia(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		// Out-of-range pages are clamped by the service rather than rejected.
		page, err := validators.ParseQueryInt(r, "page", 1, -maxAdminPage, maxAdminPage)
		if err != nil {
			page = 1
		}
		result, err := svc.ListMedia(r.Context(), page, validators.QueryString(r, "q", maxQueryLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminNewMediaForm(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		form, err := svc.NewMediaForm(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

func AdminCreateMedia(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		var body admin.MediaInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := svc.CreateMedia(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithMediaID(r.Context(), id), "admin.media.created")
		}
		responses.Redirect(w, r, mediaPath(id, "edit"))
	}
}

func AdminEditMediaForm(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		form, err := svc.EditMediaForm(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	})
}

func AdminUpdateMedia(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		var body admin.MediaInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UpdateMedia(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, "/admin")
	})
}

func AdminDeleteMedia(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		if err := svc.DeleteMedia(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithMediaID(r.Context(), id), "admin.media.deleted")
		}
		responses.Redirect(w, r, "/admin")
	})
}

func AdminCastPage(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		page, err := svc.CastPage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	})
}

func AdminAddCredit(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		var body admin.CreditInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddCredit(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, mediaPath(id, "cast"))
	})
}

func AdminRemoveCredit(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		var body admin.CreditInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveCredit(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, mediaPath(id, "cast"))
	})
}

func AdminAssetsPage(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		page, err := svc.AssetsPage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	})
}

func AdminAddImage(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		var body admin.ImageInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddImage(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, mediaPath(id, "assets"))
	})
}

func AdminAddVideo(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		var body admin.VideoInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddVideo(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, mediaPath(id, "assets"))
	})
}

// AdminDeleteImage removes one image and returns to its media's assets page.
func AdminDeleteImage(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteChild(svc, logg, "assets", func(ctx context.Context, id int64) (int64, error) {
		return svc.DeleteImage(ctx, id)
	})
}

func AdminDeleteVideo(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteChild(svc, logg, "assets", func(ctx context.Context, id int64) (int64, error) {
		return svc.DeleteVideo(ctx, id)
	})
}

func AdminEpisodesPage(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		page, err := svc.EpisodesPage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	})
}

func AdminAddEpisode(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		var body admin.EpisodeInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddEpisode(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, mediaPath(id, "episodes"))
	})
}

func AdminDeleteEpisode(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteChild(svc, logg, "episodes", func(ctx context.Context, id int64) (int64, error) {
		return svc.DeleteEpisode(ctx, id)
	})
}

func AdminAwardsPage(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		page, err := svc.AwardsPage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	})
}

func AdminAddAward(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return withMediaID(svc, logg, func(w http.ResponseWriter, r *http.Request, id int64) {
		var body admin.AwardInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddAward(r.Context(), id, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, mediaPath(id, "awards"))
	})
}

func AdminDeleteAwardWin(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteChild(svc, logg, "awards", func(ctx context.Context, id int64) (int64, error) {
		return svc.DeleteAwardWin(ctx, id)
	})
}

func AdminCreateGenre(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		var body admin.NameInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateGenre(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AdminCreatePlatform(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		var body admin.NameInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreatePlatform(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AdminCreatePerson(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		var body admin.PersonInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreatePerson(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func withMediaID(svc admin.Service, logg *logger.Logger, next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParsePathInt(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next(w, r, id)
	}
}

// deleteChild removes a row owned by a media and redirects to the owner's
// section page.
func deleteChild(svc admin.Service, logg *logger.Logger, section string, remove func(ctx context.Context, id int64) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		id, err := validators.ParsePathInt(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mediaID, err := remove(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Redirect(w, r, mediaPath(mediaID, section))
	}
}
