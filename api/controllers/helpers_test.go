package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sirene-backend/api/middleware"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withURLParams(req *http.Request, kv ...string) *http.Request {
	rc := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rc.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func asUser(req *http.Request, id int64, role enums.UserRole) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{
		UserID:    id,
		Username:  "user",
		Role:      role,
		SessionID: "sess",
	}))
}
