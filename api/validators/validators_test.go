package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count int    `json:"count" validate:"gt=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var got sample
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"abc","count":2}`))
		require.NoError(t, DecodeJSONBody(req, &got))
		assert.Equal(t, sample{Name: "abc", Count: 2}, got)
	})

	t.Run("unknown field", func(t *testing.T) {
		var got sample
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"abc","count":2,"extra":1}`))
		err := DecodeJSONBody(req, &got)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	})

	t.Run("field messages", func(t *testing.T) {
		var got sample
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"abcdefg","count":0}`))
		err := DecodeJSONBody(req, &got)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		details, ok := typed.Details().(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "must be at most 5", details["name"])
		assert.Equal(t, "must be greater than 0", details["count"])
	})
}

type mediaSample struct {
	MediaType string `json:"media_type" validate:"required,media_type"`
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":     ``,
		"trailing":  `{"name":"abc","count":1}{"name":"x"}`,
		"not json":  `name=abc`,
		"oversized": `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `","count":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var got sample
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			err := DecodeJSONBody(req, &got)
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
		})
	}
}

func TestEnumTags(t *testing.T) {
	for _, ok := range []string{"Movie", "tv", "Anime"} {
		assert.NoError(t, ValidateStruct(mediaSample{MediaType: ok}), ok)
	}

	err := ValidateStruct(mediaSample{MediaType: "Podcast"})
	require.Error(t, err)
	details, _ := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, "is not a recognised media type", details["media_type"])
}

func TestParsePathInt(t *testing.T) {
	withParam := func(v string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("id", v)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	id, err := ParsePathInt(withParam("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := ParsePathInt(withParam(bad), "id")
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), bad)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&bad=x&big=500", nil)

	v, err := ParseQueryInt(req, "page", 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = ParseQueryInt(req, "missing", 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = ParseQueryInt(req, "bad", 1, 1, 100)
	assert.Error(t, err)
	_, err = ParseQueryInt(req, "big", 1, 1, 100)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	tok, ok = BearerToken("  bearer   xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, bad := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, ok := BearerToken(bad)
		assert.False(t, ok, bad)
	}
}

func TestSanitizeStringIsRuneSafe(t *testing.T) {
	assert.Equal(t, "héll", SanitizeString("  héllo ", 4))
	assert.Equal(t, "abc", SanitizeString(" abc ", 0))
	assert.Equal(t, "star wars", SanitizeString("\tstar\nwars\x00", 0))
}
