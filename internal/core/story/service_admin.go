// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"context"
	"log/slog"

	"github.com/velmoras/lectoria/internal/platform/constants"
	"github.com/velmoras/lectoria/internal/platform/validate"
)

// # Curation

// UpdateInput carries the editable attributes of a story. Empty strings and
// nil pointers leave the stored attribute unchanged; a non-nil taxonomy slice
// replaces the linked vocabulary wholesale.
type UpdateInput struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	Language     string   `json:"language"`
	Status       string   `json:"status"`
	ManualRating *float64 `json:"manual_rating"`

	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// GetForAdmin returns the story page payload by ID, bypassing the cache.
func (service *Service) GetForAdmin(context context.Context, id string) (*Detail, error) {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	story, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	chapters, err := service.repo.ListChapters(context, story.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{Story: *story, Chapters: chapters}, nil
}

// UpdateStory applies edits to a story and rewrites its taxonomy links.
func (service *Service) UpdateStory(context context.Context, id string, input UpdateInput) (*Story, error) {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	if input.Title != "" {
		validator.MaxLen(FieldTitle, input.Title, 300)
	}
	if input.Status != "" {
		validator.OneOf(FieldStatus, input.Status,
			string(StatusOngoing), string(StatusCompleted), string(StatusHiatus))
	}
	if input.Language != "" {
		validator.OneOf(FieldLanguage, input.Language, "es", "pt", "en")
	}
	if input.ManualRating != nil {
		validator.FloatRange(FieldRating, *input.ManualRating, 0, 5)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	story, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		story.Title = input.Title
	}
	if input.Description != nil {
		story.Description = *input.Description
	}
	if input.Language != "" {
		story.Language = input.Language
	}
	if input.Status != "" {
		story.Status = Status(input.Status)
	}
	if input.ManualRating != nil {
		story.ManualRating = input.ManualRating
	}

	if err := service.repo.UpdateStory(context, story, input.Categories, input.Tags); err != nil {
		return nil, err
	}

	service.dropCachedDetail(context, story.Slug)

	service.logger.InfoContext(context, "story_updated",
		slog.String("story_id", story.ID),
		slog.String("slug", story.Slug),
	)

	return story, nil
}

// DeleteStory soft-deletes a story, removing it from the public catalogue.
func (service *Service) DeleteStory(context context.Context, id string) error {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	if err := validator.Err(); err != nil {
		return err
	}

	story, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.SoftDelete(context, id); err != nil {
		return err
	}

	service.dropCachedDetail(context, story.Slug)

	service.logger.InfoContext(context, "story_deleted", slog.String("story_id", id))

	return nil
}

// DeleteChapter removes one chapter from a story.
func (service *Service) DeleteChapter(context context.Context, id string, number int) error {
	validator := &validate.Validator{}
	validator.Required(FieldID, id).UUID(FieldID, id)
	validator.Custom(FieldNumber, number < 1, "must be a positive integer")
	if err := validator.Err(); err != nil {
		return err
	}

	story, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteChapter(context, id, number); err != nil {
		return err
	}

	service.dropCachedDetail(context, story.Slug)

	service.logger.InfoContext(context, "chapter_deleted",
		slog.String("story_id", id), slog.Int("number", number))

	return nil
}

// dropCachedDetail invalidates the cached story page so edits are visible
// immediately instead of after the TTL.
func (service *Service) dropCachedDetail(context context.Context, slug string) {
	if err := service.cache.Del(context, constants.RedisPrefixStory+slug); err != nil {
		service.logger.WarnContext(context, "story_cache_invalidate_failed",
			slog.String("slug", slug), slog.Any("error", err))
	}
}
