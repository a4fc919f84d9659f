package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sirene-backend/internal/media"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
)

type stubMediaService struct {
	detail *media.Detail
	err    error
	gotID  int64
}

func (s *stubMediaService) Detail(ctx context.Context, id int64) (*media.Detail, error) {
	s.gotID = id
	return s.detail, s.err
}

func TestMediaDetail(t *testing.T) {
	svc := &stubMediaService{detail: &media.Detail{Media: media.Info{ID: 4, Title: "Dune"}}}
	resp := httptest.NewRecorder()
	MediaDetail(svc, nil).ServeHTTP(resp, withURLParams(newRequest(http.MethodGet, "/media/4", ""), "id", "4"))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(4), svc.gotID)
	assert.Contains(t, resp.Body.String(), `"title":"Dune"`)
}

func TestMediaDetailRedirectsWhenMissing(t *testing.T) {
	svc := &stubMediaService{err: pkgerrors.New(pkgerrors.CodeNotFound, "media not found")}

	for _, id := range []string{"999", "abc"} {
		resp := httptest.NewRecorder()
		MediaDetail(svc, nil).ServeHTTP(resp, withURLParams(newRequest(http.MethodGet, "/media/"+id, ""), "id", id))
		require.Equal(t, http.StatusSeeOther, resp.Code, id)
		assert.Equal(t, "/browse", resp.Header().Get("Location"))
	}
}

func TestMediaDetailInternalError(t *testing.T) {
	svc := &stubMediaService{err: pkgerrors.New(pkgerrors.CodeInternal, "load cast")}
	resp := httptest.NewRecorder()
	MediaDetail(svc, nil).ServeHTTP(resp, withURLParams(newRequest(http.MethodGet, "/media/1", ""), "id", "1"))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
