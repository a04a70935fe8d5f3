// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/velmoras/lectoria/internal/platform/constants"
)

// detailCacheTTL bounds staleness of the cached story page. New chapters from
// a bulk import become visible within this window at the latest.
const detailCacheTTL = 5 * time.Minute

// # Service Layer

// Service orchestrates the public catalogue: filtered listings, cached story
// pages, the chapter reader, and view accounting.
type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

// NewService constructs a new catalogue [Service].
func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// # Discovery

// ListStories retrieves a paginated and filtered slice of the catalogue.
// Listings are not cached: the filter space is too wide to get useful hit
// rates, and the query is already a single round-trip.
func (service *Service) ListStories(context context.Context, filter Filter, limit, offset int) ([]*Story, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetStory returns the story page payload for a slug.

Description: The assembled detail (story aggregate plus chapter index) is
cached in Redis under a short TTL; on a miss the payload is rebuilt from
Postgres and re-cached. Every successful lookup registers a view against the
story's Redis counter, flushed to Postgres by the background flusher.
*/
func (service *Service) GetStory(context context.Context, slug string) (*Detail, error) {
	cacheKey := constants.RedisPrefixStory + slug

	if cached, err := service.cache.Get(context, cacheKey); err == nil {
		detail := &Detail{}
		if err := json.Unmarshal([]byte(cached), detail); err == nil {
			service.registerView(context, detail.Story.ID)
			return detail, nil
		}
		// Corrupt cache entry: fall through and rebuild.
	} else if !errors.Is(err, ErrCacheMiss) {
		service.logger.WarnContext(context, "story_cache_read_failed",
			slog.String("slug", slug), slog.Any("error", err))
	}

	story, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return nil, err
	}

	chapters, err := service.repo.ListChapters(context, story.ID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Story: *story, Chapters: chapters}

	if encoded, err := json.Marshal(detail); err == nil {
		if err := service.cache.Set(context, cacheKey, string(encoded), detailCacheTTL); err != nil {
			service.logger.WarnContext(context, "story_cache_write_failed",
				slog.String("slug", slug), slog.Any("error", err))
		}
	}

	service.registerView(context, story.ID)

	return detail, nil
}

// GetChapter returns the reader payload for one chapter of a story.
func (service *Service) GetChapter(context context.Context, slug string, number int) (*Reading, error) {
	story, err := service.repo.FindBySlug(context, slug)
	if err != nil {
		return nil, err
	}

	reading, err := service.repo.ReadChapter(context, story.ID, number)
	if err != nil {
		return nil, err
	}

	service.registerView(context, story.ID)

	return reading, nil
}

// # View Accounting

// registerView bumps the story's Redis view counter. Counting is best-effort
// and never fails the read path.
func (service *Service) registerView(context context.Context, storyID string) {
	if _, err := service.cache.Incr(context, constants.RedisPrefixStoryViews+storyID); err != nil {
		service.logger.WarnContext(context, "view_count_incr_failed",
			slog.String("story_id", storyID), slog.Any("error", err))
	}
}

// FlushViewCounts drains the accumulated Redis view counters into Postgres.
func (service *Service) FlushViewCounts(context context.Context) error {
	deltas, err := service.cache.Drain(context, constants.RedisPrefixStoryViews)
	if err != nil {
		return err
	}

	if len(deltas) == 0 {
		return nil
	}

	if err := service.repo.IncrementViewCounts(context, deltas); err != nil {
		return err
	}

	service.logger.InfoContext(context, "view_counts_flushed", slog.Int("stories", len(deltas)))

	return nil
}

// StartViewFlusher runs [FlushViewCounts] on the given interval until the
// context is cancelled. Intended to be launched once from main.
func (service *Service) StartViewFlusher(context context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case <-ticker.C:
			if err := service.FlushViewCounts(context); err != nil {
				service.logger.ErrorContext(context, "view_count_flush_failed", slog.Any("error", err))
			}
		}
	}
}
