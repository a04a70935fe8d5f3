// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/velmoras/lectoria/internal/platform/request"
	"github.com/velmoras/lectoria/internal/platform/respond"
	"github.com/velmoras/lectoria/internal/platform/validate"
)

// # Admin Endpoints

// RegisterAdminRoutes attaches the curation endpoints to the given router.
// Patterns are registered explicitly so they coexist with the importer's
// /stories/{id}/chapters/bulk route on the same guarded group.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/stories/{id}", handler.getStoryForAdmin)
	router.Put("/stories/{id}", handler.updateStory)
	router.Delete("/stories/{id}", handler.deleteStory)
	router.Delete("/stories/{id}/chapters/{number}", handler.deleteChapter)
}

/*
GetStoryForAdmin returns the story page payload by ID, bypassing the cache.

GET /api/v1/admin/stories/{id}

Response:
  - 200: Detail (story aggregate + chapter index)
  - 404: NOT_FOUND: unknown or deleted story
*/
func (handler *Handler) getStoryForAdmin(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetForAdmin(request.Context(), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
UpdateStory applies edits to a story's attributes and taxonomy.

PUT /api/v1/admin/stories/{id}

Request:
  - title, description, language, status, manual_rating: attribute edits;
    omitted fields are left unchanged
  - categories, tags: []string of term names; when present the linked
    vocabulary is replaced wholesale

Response:
  - 200: Story with the edits applied
  - 404: NOT_FOUND: unknown or deleted story
  - 400: VALIDATION_ERROR: invalid attribute values
*/
func (handler *Handler) updateStory(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	story, err := handler.service.UpdateStory(request.Context(), requestutil.Param(request, FieldID), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, story)
}

/*
DeleteStory soft-deletes a story, removing it from the public catalogue.

DELETE /api/v1/admin/stories/{id}

Response:
  - 204: deleted
  - 404: NOT_FOUND: unknown or already deleted story
*/
func (handler *Handler) deleteStory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteStory(request.Context(), requestutil.Param(request, FieldID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DeleteChapter removes one chapter from a story.

DELETE /api/v1/admin/stories/{id}/chapters/{number}

Response:
  - 204: deleted
  - 404: NOT_FOUND: unknown story or chapter number
*/
func (handler *Handler) deleteChapter(writer http.ResponseWriter, request *http.Request) {
	number, parseErr := strconv.Atoi(requestutil.Param(request, FieldNumber))

	validator := &validate.Validator{}
	validator.Custom(FieldNumber, parseErr != nil || number < 1, "must be a positive integer")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteChapter(request.Context(), requestutil.Param(request, FieldID), number); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
