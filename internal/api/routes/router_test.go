package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/wellnessintake/backend/internal/api/handlers"
	"github.com/zatekoja/wellnessintake/backend/internal/api/routes"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
)

type stubCoaches struct{}

func (stubCoaches) List(ctx context.Context) ([]*entities.Coach, error) {
	return []*entities.Coach{{ID: "c1", Name: "Coach"}}, nil
}

func (stubCoaches) Get(ctx context.Context, id string) (*entities.Coach, error) {
	return &entities.Coach{ID: id, Name: "Coach"}, nil
}

func (stubCoaches) UpdatePromptContent(ctx context.Context, id, content string) (*entities.Coach, error) {
	return &entities.Coach{ID: id, CoachPromptContent: content}, nil
}

func newTestHandler(origins []string) http.Handler {
	router := routes.NewRouter(
		handlers.NewFormSchemaHandler(nil, nil, nil),
		handlers.NewPromptHandler(nil, nil, nil, nil),
		handlers.NewWellnessSessionHandler(nil),
		handlers.NewCoachHandler(stubCoaches{}),
		origins,
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_Health(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, w.Header().Get("ETag"))
}

func TestRouter_PathParamsReachHandler(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPut, "/api/coaches/c42", strings.NewReader(`{"coach_prompt_content":"x"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"c42"`)
	assert.Equal(t, "private, no-cache, must-revalidate", w.Header().Get("Cache-Control"))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/coaches/c1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_ConditionalGet(t *testing.T) {
	h := newTestHandler(nil)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/coaches", nil))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/coaches", nil)
	req.Header.Set("If-None-Match", etag)
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	assert.Equal(t, http.StatusNotModified, second.Code)
}

func TestRouter_CORS(t *testing.T) {
	h := newTestHandler([]string{"https://app.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/coaches", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/coaches", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
