// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package importer

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/constants"
	requestutil "github.com/velmoras/lectoria/internal/platform/request"
	"github.com/velmoras/lectoria/internal/platform/respond"
	"github.com/velmoras/lectoria/internal/platform/validate"
)

// Handler exposes the import pipeline on the admin API.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the import endpoints on an admin router.
//
// # Endpoints
//   - POST /import                          : ZIP archive import.
//   - POST /import/pdf                      : single PDF import.
//   - POST /stories/{id}/chapters/bulk      : bulk chapter append.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/import", handler.importArchive)
	router.Post("/import/pdf", handler.importPDF)
	router.Post("/stories/{id}/chapters/bulk", handler.importChapters)
}

/*
ImportArchive ingests a story from a ZIP archive.

POST /api/v1/admin/import

Request:
  - Multipart field "file": the ZIP archive (story.json + chapter .md files).

Response:
  - 201: Result (story_id, chapter_count) — also for idempotent replays
  - 400: VALIDATION_ERROR / IMPORT_FAILED: malformed archive or manifest
  - 409: CONFLICT: concurrent import of the same bytes in flight
*/
func (handler *Handler) importArchive(writer http.ResponseWriter, request *http.Request) {
	buffer, header, err := requestutil.FormFileBytes(request, "file", constants.MaxArchiveUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ImportArchive(request.Context(), buffer, header.Filename)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
ImportPDF ingests a story from a single PDF.

POST /api/v1/admin/import/pdf

Request:
  - Multipart field "file": the PDF.
  - Optional field "meta": JSON manifest (same schema as story.json).
  - Optional field "cover": cover image file.
  - Optional value "coverUrl": external cover URL, used when no file given.

Response:
  - 201: Result (story_id, chapter_count)
  - 400: VALIDATION_ERROR: invalid metadata
  - 409: CONFLICT: concurrent import of the same bytes in flight
*/
func (handler *Handler) importPDF(writer http.ResponseWriter, request *http.Request) {
	buffer, header, err := requestutil.FormFileBytes(request, "file", constants.MaxPDFUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := PDFInput{
		Filename: header.Filename,
		CoverURL: request.FormValue("coverUrl"),
	}

	if metaValues := request.MultipartForm.Value["meta"]; len(metaValues) > 0 && metaValues[0] != "" {
		input.MetaJSON = []byte(metaValues[0])
	}

	if coverFile, coverHeader, err := request.FormFile("cover"); err == nil {
		defer coverFile.Close()

		coverBytes, readErr := io.ReadAll(io.LimitReader(coverFile, constants.MaxCoverUploadBytes+1))
		if readErr != nil {
			respond.Error(writer, request, apperr.Internal(readErr))
			return
		}
		if int64(len(coverBytes)) > constants.MaxCoverUploadBytes {
			respond.Error(writer, request, apperr.ValidationError("Cover image exceeds the maximum allowed size"))
			return
		}

		input.Cover = coverBytes
		input.CoverFilename = coverHeader.Filename
	}

	result, err := handler.service.ImportPDF(request.Context(), buffer, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
ImportChapters appends chapters from a ZIP to an existing story.

POST /api/v1/admin/stories/{id}/chapters/bulk

Request:
  - URL param "id": target story UUID.
  - Multipart field "file": ZIP containing only chapter .md files.

Response:
  - 201: BulkResult (chapters_added)
  - 404: NOT_FOUND: story does not exist
  - 409: CONFLICT: renumbered chapters collide with existing numbers
*/
func (handler *Handler) importChapters(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.ID(request, "id")

	validator := &validate.Validator{}
	validator.Required("id", storyID).UUID("id", storyID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	buffer, _, err := requestutil.FormFileBytes(request, "file", constants.MaxArchiveUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	archive, err := OpenArchive(buffer)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ImportChapters(request.Context(), storyID, archive.ChapterEntries())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}
