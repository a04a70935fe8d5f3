// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package requestutil

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmoras/lectoria/internal/platform/apperr"
)

func buildUpload(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestFormFileBytes_ReadsFileContent(t *testing.T) {
	body, contentType := buildUpload(t, "archive", "chapters.zip", []byte("zip-bytes"))

	request := httptest.NewRequest("POST", "/import", body)
	request.Header.Set("Content-Type", contentType)

	content, header, err := FormFileBytes(request, "archive", 1<<20)

	require.NoError(t, err)
	assert.Equal(t, []byte("zip-bytes"), content)
	assert.Equal(t, "chapters.zip", header.Filename)
}

func TestFormFileBytes_MissingField(t *testing.T) {
	body, contentType := buildUpload(t, "other", "chapters.zip", []byte("zip-bytes"))

	request := httptest.NewRequest("POST", "/import", body)
	request.Header.Set("Content-Type", contentType)

	_, _, err := FormFileBytes(request, "archive", 1<<20)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestFormFileBytes_OversizedFile(t *testing.T) {
	body, contentType := buildUpload(t, "archive", "big.zip", bytes.Repeat([]byte("x"), 64))

	request := httptest.NewRequest("POST", "/import", body)
	request.Header.Set("Content-Type", contentType)

	_, _, err := FormFileBytes(request, "archive", 32)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}
