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
	"github.com/velmoras/lectoria/pkg/pagination"
)

// # Handler Implementation

// Handler implements the public HTTP layer of the catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalogue [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the public catalogue endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listStories)
	router.Get("/{slug}", handler.getStory)
	router.Get("/{slug}/chapters/{number}", handler.getChapter)

	return router
}

/*
ListStories returns a page of the catalogue.

GET /api/v1/stories

Request:
  - q: string (substring search over title/description)
  - category: string (category slug)
  - tag: string (tag slug)
  - status: string (ONGOING, COMPLETED, HIATUS)
  - language: string (es, pt, en)
  - sort: string (latest, popular, rating, az)
  - dir: string (asc, desc)
  - page, limit: int

Response:
  - 200: []Story with pagination metadata
*/
func (handler *Handler) listStories(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:    queryParams.Get("q"),
		Category: queryParams.Get(FieldCategory),
		Tag:      queryParams.Get(FieldTag),
		Status:   Status(queryParams.Get(FieldStatus)),
		Language: queryParams.Get(FieldLanguage),
		Sort:     queryParams.Get("sort"),
		SortDir:  queryParams.Get("dir"),
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		validator := &validate.Validator{}
		validator.OneOf(FieldStatus, string(filter.Status),
			string(StatusOngoing), string(StatusCompleted), string(StatusHiatus))
		respond.Error(writer, request, validator.Err())
		return
	}

	stories, total, err := handler.service.ListStories(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, stories, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GetStory returns the story page payload.

GET /api/v1/stories/{slug}

Response:
  - 200: Detail (story aggregate + chapter index)
  - 404: NOT_FOUND: unknown or deleted slug
*/
func (handler *Handler) getStory(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, FieldSlug)

	validator := &validate.Validator{}
	validator.Required(FieldSlug, slug).Slug(FieldSlug, slug)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.GetStory(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
GetChapter returns the reader payload for one chapter.

GET /api/v1/stories/{slug}/chapters/{number}

Response:
  - 200: Reading (chapter content + prev/next numbers)
  - 404: NOT_FOUND: unknown slug, number, or unpublished chapter
*/
func (handler *Handler) getChapter(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, FieldSlug)
	number, parseErr := strconv.Atoi(requestutil.Param(request, FieldNumber))

	validator := &validate.Validator{}
	validator.Required(FieldSlug, slug).Slug(FieldSlug, slug)
	validator.Custom(FieldNumber, parseErr != nil || number < 1, "must be a positive integer")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reading, err := handler.service.GetChapter(request.Context(), slug, number)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, reading)
}
