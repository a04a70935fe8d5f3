// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// # Handler Tests

func newTestHandler(t *testing.T) (*Handler, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return NewHandler(NewService(repo, newFakeCache(), slog.Default())), repo
}

func TestGetChapter_RejectsNonNumericNumber(t *testing.T) {
	handler, repo := newTestHandler(t)
	seedStory(repo)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/la-tormenta/chapters/abc", nil)
	handler.Routes().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
}

func TestGetChapter_ServesReaderPayload(t *testing.T) {
	handler, repo := newTestHandler(t)
	seedStory(repo)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/la-tormenta/chapters/2", nil)
	handler.Routes().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"title":"Dos"`)
}

func TestAdminRoutes_UpdateStory(t *testing.T) {
	handler, repo := newTestHandler(t)
	seedAdminStory(repo)

	router := chi.NewRouter()
	handler.RegisterAdminRoutes(router)

	body := strings.NewReader(`{"title":"La Tormenta II","tags":["Drama"]}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPut, "/stories/"+adminStoryID, body)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"title":"La Tormenta II"`)
	assert.Equal(t, []string{"Drama"}, repo.rewrittenTags)
}

func TestAdminRoutes_DeleteChapter(t *testing.T) {
	handler, repo := newTestHandler(t)
	story := seedAdminStory(repo)

	router := chi.NewRouter()
	handler.RegisterAdminRoutes(router)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/stories/"+adminStoryID+"/chapters/1", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Len(t, repo.chapters[story.ID], 1)
}

func TestAdminRoutes_DeleteChapterRejectsBadNumber(t *testing.T) {
	handler, repo := newTestHandler(t)
	seedAdminStory(repo)

	router := chi.NewRouter()
	handler.RegisterAdminRoutes(router)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/stories/"+adminStoryID+"/chapters/zero", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
}
