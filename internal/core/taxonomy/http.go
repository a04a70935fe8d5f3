// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velmoras/lectoria/internal/platform/respond"
)

// Handler implements the public HTTP layer for the classification vocabulary.
type Handler struct {
	repo Repository
}

// NewHandler constructs a new taxonomy [Handler].
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the vocabulary endpoints on the public router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/categories", handler.listCategories)
	router.Get("/tags", handler.listTags)
}

/*
ListCategories returns all categories with live-story counts.

GET /api/v1/categories

Response:
  - 200: []Term ordered by name
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	terms, err := handler.repo.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, terms)
}

/*
ListTags returns all tags with live-story counts.

GET /api/v1/tags

Response:
  - 200: []Term ordered by name
*/
func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	terms, err := handler.repo.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, terms)
}
