package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sirene-backend/pkg/config"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(resp, newRequest(http.MethodGet, "/health/live", ""))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get(envHeader))
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": ok, "redis": ok}).ServeHTTP(resp, newRequest(http.MethodGet, "/health/ready", ""))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": ok, "redis": down}).ServeHTTP(resp, newRequest(http.MethodGet, "/health/ready", ""))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), `"error":"DEPENDENCY_ERROR"`)
	assert.Contains(t, resp.Body.String(), `"dependency":"redis"`)
}
