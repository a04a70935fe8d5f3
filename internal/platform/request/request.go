// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
FormFileBytes reads a multipart form file fully into memory.

Upload handlers work with the raw bytes (checksums, zip readers, PDF
parsers), so the file is drained here once, bounded by maxBytes.

Returns:
  - []byte: The file content
  - *multipart.FileHeader: Metadata (filename, declared size)
  - error: apperr.ValidationError if the field is missing or oversized
*/
func FormFileBytes(request *http.Request, fieldName string, maxBytes int64) ([]byte, *multipart.FileHeader, error) {

	// Parse the multipart envelope (bounded memory, rest spills to temp files)
	if err := request.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, apperr.ValidationError("Invalid multipart form data")
	}

	file, header, err := request.FormFile(fieldName)
	if err != nil {
		return nil, nil, apperr.ValidationError("Missing file field: " + fieldName)
	}
	defer file.Close()

	if header.Size > maxBytes {
		return nil, nil, apperr.ValidationError("File exceeds the maximum allowed size")
	}

	// Read with a hard cap even if the declared size lies
	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, nil, apperr.Internal(fmt.Errorf("read uploaded file %q: %w", fieldName, err))
	}

	if int64(len(content)) > maxBytes {
		return nil, nil, apperr.ValidationError("File exceeds the maximum allowed size")
	}

	return content, header, nil
}
