// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package banner

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/constants"
	requestutil "github.com/velmoras/lectoria/internal/platform/request"
	"github.com/velmoras/lectoria/internal/platform/respond"
	"github.com/velmoras/lectoria/pkg/pointer"
)

// # Handler Implementation

// Handler implements the HTTP layer for the banner carousel.
type Handler struct {
	service *Service
}

// NewHandler constructs a new banner [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public carousel endpoint.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listActive)
	return router
}

// AdminRoutes returns the management endpoints, mounted behind admin auth.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listAll)
	router.Post("/", handler.create)
	router.Put("/reorder", handler.reorder)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

/*
ListActive returns the banners currently shown on the portal.

GET /api/v1/banners

Response:
  - 200: []Banner in display order
*/
func (handler *Handler) listActive(writer http.ResponseWriter, request *http.Request) {
	banners, err := handler.service.ListActive(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, banners)
}

/*
ListAll returns every banner for the admin console.

GET /api/v1/admin/banners

Response:
  - 200: []Banner in display order, including inactive slides
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	banners, err := handler.service.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, banners)
}

/*
Create registers a new banner.

POST /api/v1/admin/banners

Request (multipart):
  - title: string
  - link_url: string (optional click-through)
  - is_active: "true" | "false"
  - image: file (or "image_url" value for an external image)

Response:
  - 201: Banner
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := parseBannerForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	banner, err := handler.service.Create(request.Context(), *input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, banner)
}

/*
Update modifies an existing banner.

PATCH /api/v1/admin/banners/{id}

Request (multipart): same fields as create, all optional except is_active.

Response:
  - 200: Banner
  - 404: NOT_FOUND
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	input, err := parseBannerForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	banner, err := handler.service.Update(request.Context(), requestutil.ID(request, FieldID), *input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, banner)
}

/*
Delete removes a banner.

DELETE /api/v1/admin/banners/{id}

Response:
  - 204: removed
  - 404: NOT_FOUND
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, FieldID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Reorder rewrites the carousel order.

PUT /api/v1/admin/banners/reorder

Request:
  - ids: []string (banner UUIDs in desired display order)

Response:
  - 204: reordered
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) reorder(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Reorder(request.Context(), payload.IDs); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// parseBannerForm reads the shared multipart fields of create and update.
func parseBannerForm(request *http.Request) (*Input, error) {
	if err := request.ParseMultipartForm(constants.MaxCoverUploadBytes); err != nil {
		return nil, apperr.ValidationError("Invalid multipart form")
	}

	input := &Input{
		Title:    request.FormValue(FieldTitle),
		IsActive: request.FormValue(FieldIsActive) == "true",
		ImageURL: request.FormValue("image_url"),
	}

	if linkURL := request.FormValue(FieldLinkURL); linkURL != "" {
		input.LinkURL = pointer.To(linkURL)
	}

	if imageFile, imageHeader, err := request.FormFile(FieldImage); err == nil {
		defer imageFile.Close()

		imageBytes, readErr := io.ReadAll(io.LimitReader(imageFile, constants.MaxCoverUploadBytes+1))
		if readErr != nil {
			return nil, apperr.Internal(readErr)
		}
		if int64(len(imageBytes)) > constants.MaxCoverUploadBytes {
			return nil, apperr.ValidationError("Banner image exceeds the maximum allowed size")
		}

		input.Image = imageBytes
		input.ImageFilename = imageHeader.Filename
	}

	return input, nil
}
