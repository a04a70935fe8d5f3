// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/constants"
)

// # Test Doubles

type fakeRepository struct {
	stories     map[string]*Story // keyed by slug
	chapters    map[string][]ChapterSummary
	readings    map[string]map[int]*Reading
	flushed     map[string]int64
	slugLookups int

	rewrittenCategories []string
	rewrittenTags       []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		stories:  make(map[string]*Story),
		chapters: make(map[string][]ChapterSummary),
		readings: make(map[string]map[int]*Reading),
		flushed:  make(map[string]int64),
	}
}

func (repo *fakeRepository) List(_ context.Context, _ Filter, _, _ int) ([]*Story, int, error) {
	var stories []*Story
	for _, story := range repo.stories {
		stories = append(stories, story)
	}
	return stories, len(stories), nil
}

func (repo *fakeRepository) FindBySlug(_ context.Context, slug string) (*Story, error) {
	repo.slugLookups++
	story, found := repo.stories[slug]
	if !found {
		return nil, apperr.NotFound("Story")
	}
	return story, nil
}

func (repo *fakeRepository) ListChapters(_ context.Context, storyID string) ([]ChapterSummary, error) {
	return repo.chapters[storyID], nil
}

func (repo *fakeRepository) ReadChapter(_ context.Context, storyID string, number int) (*Reading, error) {
	reading, found := repo.readings[storyID][number]
	if !found {
		return nil, apperr.NotFound("Chapter")
	}
	return reading, nil
}

func (repo *fakeRepository) IncrementViewCounts(_ context.Context, deltas map[string]int64) error {
	for storyID, delta := range deltas {
		repo.flushed[storyID] += delta
	}
	return nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*Story, error) {
	for _, story := range repo.stories {
		if story.ID == id && story.DeletedAt == nil {
			return story, nil
		}
	}
	return nil, apperr.NotFound("Story")
}

func (repo *fakeRepository) UpdateStory(_ context.Context, story *Story, categories, tags []string) error {
	stored, found := repo.stories[story.Slug]
	if !found || stored.DeletedAt != nil {
		return apperr.NotFound("Story")
	}
	*stored = *story
	if categories != nil {
		repo.rewrittenCategories = categories
	}
	if tags != nil {
		repo.rewrittenTags = tags
	}
	return nil
}

func (repo *fakeRepository) SoftDelete(_ context.Context, id string) error {
	for _, story := range repo.stories {
		if story.ID == id && story.DeletedAt == nil {
			now := time.Now()
			story.DeletedAt = &now
			return nil
		}
	}
	return apperr.NotFound("Story")
}

func (repo *fakeRepository) DeleteChapter(_ context.Context, storyID string, number int) error {
	chapters := repo.chapters[storyID]
	for index, chapter := range chapters {
		if chapter.Number == number {
			repo.chapters[storyID] = append(chapters[:index], chapters[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Chapter")
}

type fakeCache struct {
	entries  map[string]string
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:  make(map[string]string),
		counters: make(map[string]int64),
	}
}

func (cache *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, found := cache.entries[key]
	if !found {
		return "", ErrCacheMiss
	}
	return value, nil
}

func (cache *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	cache.entries[key] = value
	return nil
}

func (cache *fakeCache) Del(_ context.Context, key string) error {
	delete(cache.entries, key)
	return nil
}

func (cache *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	cache.counters[key]++
	return cache.counters[key], nil
}

func (cache *fakeCache) Drain(_ context.Context, prefix string) (map[string]int64, error) {
	drained := make(map[string]int64)
	for key, value := range cache.counters {
		if strings.HasPrefix(key, prefix) {
			drained[strings.TrimPrefix(key, prefix)] = value
			delete(cache.counters, key)
		}
	}
	return drained, nil
}

// # Helpers

func seedStory(repo *fakeRepository) *Story {
	story := &Story{
		ID:     "story-1",
		Slug:   "la-tormenta",
		Title:  "La Tormenta",
		Status: StatusOngoing,
		Author: Author{ID: "author-1", PenName: "A. Lluvia"},
	}
	repo.stories[story.Slug] = story
	repo.chapters[story.ID] = []ChapterSummary{
		{Number: 1, Title: "Uno"},
		{Number: 2, Title: "Dos"},
	}

	prev := 1
	repo.readings[story.ID] = map[int]*Reading{
		1: {Chapter: Chapter{StoryID: story.ID, Number: 1, Title: "Uno", ContentMd: "# Uno"}},
		2: {Chapter: Chapter{StoryID: story.ID, Number: 2, Title: "Dos", ContentMd: "# Dos"}, PrevNumber: &prev},
	}

	return story
}

// # Story Page

func TestGetStory_PopulatesCacheOnMiss(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := NewService(repo, cache, slog.Default())
	seedStory(repo)

	detail, err := service.GetStory(context.Background(), "la-tormenta")

	require.NoError(t, err)
	assert.Equal(t, "La Tormenta", detail.Story.Title)
	require.Len(t, detail.Chapters, 2)

	cached, found := cache.entries[constants.RedisPrefixStory+"la-tormenta"]
	require.True(t, found)

	roundTripped := &Detail{}
	require.NoError(t, json.Unmarshal([]byte(cached), roundTripped))
	assert.Equal(t, detail.Story.ID, roundTripped.Story.ID)
}

func TestGetStory_ServesFromCache(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := NewService(repo, cache, slog.Default())
	seedStory(repo)

	_, err := service.GetStory(context.Background(), "la-tormenta")
	require.NoError(t, err)
	lookupsAfterMiss := repo.slugLookups

	detail, err := service.GetStory(context.Background(), "la-tormenta")
	require.NoError(t, err)

	assert.Equal(t, "La Tormenta", detail.Story.Title)
	assert.Equal(t, lookupsAfterMiss, repo.slugLookups, "cache hit must not touch the repository")
}

func TestGetStory_RebuildsCorruptCacheEntry(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := NewService(repo, cache, slog.Default())
	seedStory(repo)

	cache.entries[constants.RedisPrefixStory+"la-tormenta"] = "{broken json"

	detail, err := service.GetStory(context.Background(), "la-tormenta")

	require.NoError(t, err)
	assert.Equal(t, "La Tormenta", detail.Story.Title)
	assert.JSONEq(t, cache.entries[constants.RedisPrefixStory+"la-tormenta"], mustMarshal(t, detail))
}

func TestGetStory_UnknownSlug(t *testing.T) {
	service := NewService(newFakeRepository(), newFakeCache(), slog.Default())

	_, err := service.GetStory(context.Background(), "nope")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

// # Reader

func TestGetChapter_WithNavigation(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeCache(), slog.Default())
	seedStory(repo)

	reading, err := service.GetChapter(context.Background(), "la-tormenta", 2)

	require.NoError(t, err)
	assert.Equal(t, "Dos", reading.Chapter.Title)
	require.NotNil(t, reading.PrevNumber)
	assert.Equal(t, 1, *reading.PrevNumber)
	assert.Nil(t, reading.NextNumber)
}

func TestGetChapter_UnknownNumber(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeCache(), slog.Default())
	seedStory(repo)

	_, err := service.GetChapter(context.Background(), "la-tormenta", 99)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

// # View Accounting

func TestViewCounts_AccumulateAndFlush(t *testing.T) {
	repo := newFakeRepository()
	cache := newFakeCache()
	service := NewService(repo, cache, slog.Default())
	story := seedStory(repo)

	for range [3]struct{}{} {
		_, err := service.GetStory(context.Background(), "la-tormenta")
		require.NoError(t, err)
	}
	_, err := service.GetChapter(context.Background(), "la-tormenta", 1)
	require.NoError(t, err)

	require.NoError(t, service.FlushViewCounts(context.Background()))

	assert.Equal(t, int64(4), repo.flushed[story.ID])
	assert.Empty(t, cache.counters, "flush must drain the counters")

	// A second flush with nothing accumulated is a no-op.
	require.NoError(t, service.FlushViewCounts(context.Background()))
	assert.Equal(t, int64(4), repo.flushed[story.ID])
}

func mustMarshal(t *testing.T, value any) string {
	t.Helper()
	encoded, err := json.Marshal(value)
	require.NoError(t, err)
	return string(encoded)
}
