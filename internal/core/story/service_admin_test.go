// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/constants"
	"github.com/velmoras/lectoria/pkg/pointer"
)

// # Helpers

const adminStoryID = "0191e4a0-5a3c-7b4e-9f12-3c8d5e6f7a8b"

func seedAdminStory(repo *fakeRepository) *Story {
	story := &Story{
		ID:          adminStoryID,
		Slug:        "la-tormenta",
		Title:       "La Tormenta",
		Description: "Una historia de lluvia.",
		Language:    "es",
		Status:      StatusOngoing,
		Author:      Author{ID: "author-1", PenName: "A. Lluvia"},
	}
	repo.stories[story.Slug] = story
	repo.chapters[story.ID] = []ChapterSummary{
		{Number: 1, Title: "Uno"},
		{Number: 2, Title: "Dos"},
	}
	return story
}

// # Curation

func TestUpdateStory_AppliesEditsAndDropsCache(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := NewService(repo, cache, slog.Default())
	seedAdminStory(repo)

	cacheKey := constants.RedisPrefixStory + "la-tormenta"
	cache.entries[cacheKey] = `{"stale":true}`

	updated, err := service.UpdateStory(context.Background(), adminStoryID, UpdateInput{
		Title:        "La Tormenta (edición final)",
		Status:       string(StatusCompleted),
		ManualRating: pointer.To(4.5),
		Categories:   []string{"Drama", "Romance"},
	})

	require.NoError(t, err)
	assert.Equal(t, "La Tormenta (edición final)", updated.Title)
	assert.Equal(t, StatusCompleted, updated.Status)
	require.NotNil(t, updated.ManualRating)
	assert.Equal(t, 4.5, *updated.ManualRating)
	assert.Equal(t, "Una historia de lluvia.", updated.Description, "omitted fields stay unchanged")

	assert.Equal(t, []string{"Drama", "Romance"}, repo.rewrittenCategories)
	assert.Nil(t, repo.rewrittenTags, "nil slice must not touch the links")

	_, found := cache.entries[cacheKey]
	assert.False(t, found, "edit must invalidate the cached story page")
}

func TestUpdateStory_RejectsInvalidStatus(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeCache(), slog.Default())
	seedAdminStory(repo)

	_, err := service.UpdateStory(context.Background(), adminStoryID, UpdateInput{Status: "CANCELLED"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestUpdateStory_UnknownID(t *testing.T) {
	service := NewService(newFakeRepository(), newFakeCache(), slog.Default())

	_, err := service.UpdateStory(context.Background(), adminStoryID, UpdateInput{Title: "Nueva"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

func TestDeleteStory_SoftDeletesAndDropsCache(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := NewService(repo, cache, slog.Default())
	story := seedAdminStory(repo)

	cacheKey := constants.RedisPrefixStory + story.Slug
	cache.entries[cacheKey] = `{"stale":true}`

	require.NoError(t, service.DeleteStory(context.Background(), adminStoryID))

	assert.NotNil(t, story.DeletedAt)
	_, found := cache.entries[cacheKey]
	assert.False(t, found)

	// A second delete finds nothing to remove.
	err := service.DeleteStory(context.Background(), adminStoryID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestDeleteChapter_RemovesOneChapter(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeCache(), slog.Default())
	story := seedAdminStory(repo)

	require.NoError(t, service.DeleteChapter(context.Background(), adminStoryID, 1))

	chapters := repo.chapters[story.ID]
	require.Len(t, chapters, 1)
	assert.Equal(t, 2, chapters[0].Number)
}

func TestDeleteChapter_UnknownNumber(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeCache(), slog.Default())
	seedAdminStory(repo)

	err := service.DeleteChapter(context.Background(), adminStoryID, 99)

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestDeleteChapter_RejectsNonPositiveNumber(t *testing.T) {
	service := NewService(newFakeRepository(), newFakeCache(), slog.Default())

	err := service.DeleteChapter(context.Background(), adminStoryID, 0)

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestGetForAdmin_ReturnsDetailByID(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeCache(), slog.Default())
	seedAdminStory(repo)

	detail, err := service.GetForAdmin(context.Background(), adminStoryID)

	require.NoError(t, err)
	assert.Equal(t, "La Tormenta", detail.Story.Title)
	assert.Len(t, detail.Chapters, 2)
}
