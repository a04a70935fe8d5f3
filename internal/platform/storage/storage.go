// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package storage provides blob storage for cover images, banner artwork, and
archived PDF sources.

# Architecture

The domain layer depends only on the [BlobStore] interface; the concrete S3
client lives here in the Infrastructure layer. When no bucket is configured
the application still boots: [NewDisabled] returns a store whose every
operation fails with [ErrDisabled], so callers degrade gracefully (a story
imports fine, it just has no hosted cover).
*/
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned by every operation of the disabled store.
//
// Callers that treat blob storage as optional should test for this error
// with errors.Is and continue without the blob.
var ErrDisabled = errors.New("storage: blob storage is not configured")

// BlobStore defines the interface for object storage operations.
type BlobStore interface {
	// Upload stores an object under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object. The caller owns the returned reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is present under the key.
	Exists(ctx context.Context, key string) (bool, error)

	// PublicURL returns the public URL for accessing an object.
	PublicURL(key string) string

	// Enabled reports whether the store is backed by a real bucket.
	Enabled() bool
}

// # Object Key Layout

// CoverKey returns the canonical object key for a story cover image.
func CoverKey(storySlug, extension string) string {
	return "covers/" + storySlug + extension
}

// PDFKey returns the canonical object key for an archived source PDF.
func PDFKey(storySlug string) string {
	return "pdfs/" + storySlug + ".pdf"
}

// BannerKey returns the canonical object key for a promotional banner image.
func BannerKey(bannerID, extension string) string {
	return "banners/" + bannerID + extension
}

// # Disabled Store

type disabledStore struct{}

// NewDisabled returns a [BlobStore] whose operations all fail with [ErrDisabled].
func NewDisabled() BlobStore {
	return disabledStore{}
}

func (disabledStore) Upload(context.Context, string, io.Reader, int64, string) error {
	return ErrDisabled
}

func (disabledStore) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrDisabled
}

func (disabledStore) Delete(context.Context, string) error {
	return ErrDisabled
}

func (disabledStore) Exists(context.Context, string) (bool, error) {
	return false, ErrDisabled
}

func (disabledStore) PublicURL(string) string {
	return ""
}

func (disabledStore) Enabled() bool {
	return false
}
