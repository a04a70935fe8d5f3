// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package banner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/storage"
	"github.com/velmoras/lectoria/internal/platform/validate"
	"github.com/velmoras/lectoria/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates carousel management and image storage.
type Service struct {
	repo   Repository
	blobs  storage.BlobStore
	logger *slog.Logger
}

// NewService constructs a new banner [Service].
func NewService(repo Repository, blobs storage.BlobStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
	}
}

// Input carries the mutable attributes of a banner. Exactly one of Image or
// ImageURL supplies the slide artwork on create; both optional on update.
type Input struct {
	Title    string
	LinkURL  *string
	IsActive bool

	Image         []byte // uploaded image file, stored through the blob store
	ImageFilename string
	ImageURL      string // external image URL, used when no file is uploaded
}

// # Public Listing

// ListActive returns the banners currently shown on the portal.
func (service *Service) ListActive(context context.Context) ([]Banner, error) {
	return service.repo.ListActive(context)
}

// # Administration

// ListAll returns every banner for the admin console.
func (service *Service) ListAll(context context.Context) ([]Banner, error) {
	return service.repo.ListAll(context)
}

// Create registers a new banner at the end of the carousel.
func (service *Service) Create(context context.Context, input Input) (*Banner, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	validator.Custom(FieldImage, len(input.Image) == 0 && input.ImageURL == "",
		"an image file or image URL is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	banner := &Banner{
		ID:       uuidv7.New(),
		Title:    input.Title,
		LinkURL:  input.LinkURL,
		IsActive: input.IsActive,
		ImageURL: input.ImageURL,
	}

	if len(input.Image) > 0 {
		imageURL, err := service.uploadImage(context, banner.ID, input)
		if err != nil {
			return nil, err
		}
		banner.ImageURL = imageURL
	}

	if err := service.repo.Create(context, banner); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "banner_created",
		slog.String("banner_id", banner.ID),
		slog.String("title", banner.Title),
	)

	return banner, nil
}

// Update applies changes to an existing banner. An uploaded image replaces
// the stored object under the same key family.
func (service *Service) Update(context context.Context, id string, input Input) (*Banner, error) {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	if input.Title != "" {
		validator.MaxLen(FieldTitle, input.Title, 200)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	banner, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		banner.Title = input.Title
	}
	if input.LinkURL != nil {
		banner.LinkURL = input.LinkURL
	}
	banner.IsActive = input.IsActive

	if len(input.Image) > 0 {
		imageURL, err := service.uploadImage(context, banner.ID, input)
		if err != nil {
			return nil, err
		}
		banner.ImageURL = imageURL
	} else if input.ImageURL != "" {
		banner.ImageURL = input.ImageURL
	}

	if err := service.repo.Update(context, banner); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "banner_updated", slog.String("banner_id", banner.ID))

	return banner, nil
}

// Delete removes a banner and best-effort deletes its stored image.
func (service *Service) Delete(context context.Context, id string) error {
	banner, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	// Only objects we manage live under the banners/ key space.
	if key, managed := storedImageKey(banner.ImageURL); managed {
		if err := service.blobs.Delete(context, key); err != nil && !errors.Is(err, storage.ErrDisabled) {
			service.logger.WarnContext(context, "banner_image_delete_failed",
				slog.String("banner_id", id), slog.Any("error", err))
		}
	}

	service.logger.WarnContext(context, "banner_deleted", slog.String("banner_id", id))

	return nil
}

// Reorder rewrites the carousel order to match the given ID sequence.
func (service *Service) Reorder(context context.Context, ids []string) error {
	validator := &validate.Validator{}
	validator.Custom(FieldIDs, len(ids) == 0, "must not be empty")
	for _, id := range ids {
		validator.UUID(FieldIDs, id)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Reorder(context, ids); err != nil {
		return err
	}

	service.logger.InfoContext(context, "banners_reordered", slog.Int("count", len(ids)))

	return nil
}

// # Internal Helpers

func (service *Service) uploadImage(context context.Context, bannerID string, input Input) (string, error) {
	extension := strings.ToLower(path.Ext(input.ImageFilename))
	if extension == "" {
		extension = ".jpg"
	}

	key := storage.BannerKey(bannerID, extension)
	err := service.blobs.Upload(context, key,
		bytes.NewReader(input.Image), int64(len(input.Image)), imageContentType(extension))
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return "", apperr.Unprocessable("Image uploads require object storage to be configured")
		}
		return "", apperr.Internal(err)
	}

	return service.blobs.PublicURL(key), nil
}

// storedImageKey extracts the blob key from a public URL if the image lives
// in our banners/ key space.
func storedImageKey(imageURL string) (string, bool) {
	marker := "/banners/"
	index := strings.LastIndex(imageURL, marker)
	if index < 0 {
		return "", false
	}
	return "banners/" + imageURL[index+len(marker):], true
}

func imageContentType(extension string) string {
	switch extension {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
