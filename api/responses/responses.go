package responses

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
	"github.com/angelmondragon/sirene-backend/pkg/types"
)

// WriteSuccess writes data as a bare JSON document with status 200.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteAction writes the {success, error} body used by form-style JSON actions.
func WriteAction(w http.ResponseWriter, status int, errMsg string) {
	writeJSON(w, status, types.ActionResult{Success: errMsg == "", Error: errMsg})
}

// Redirect sends a 303 so browsers follow with GET after a form POST.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// WriteError maps err onto its code's status and writes the error envelope.
// Untyped errors become INTERNAL_ERROR and never leak their text.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	body := types.ErrorEnvelope{
		Error:   string(typed.Code()),
		Message: pkgerrors.PublicMessage(typed),
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// headers are gone; all that is left is to record it
		log.Error().Err(err).Int("status", status).Msg("response.encode_failed")
	}
}
