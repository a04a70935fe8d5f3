// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import "context"

// # Story Data Access

// Repository defines the read-side data access contract for the catalogue.
type Repository interface {
	/*
		List returns a filtered, paginated slice of stories and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (category, tag, status, search, sorting)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Story: Slice of matching stories (chapter index not populated)
		  - int: Total count matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Story, int, error)

	/*
		FindBySlug returns the story matching the unique URL slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Story: The hydrated aggregate (author, categories, tags)
		  - error: apperr.NotFound if missing or soft-deleted
	*/
	FindBySlug(context context.Context, slug string) (*Story, error)

	/*
		ListChapters returns the published chapter index of a story in number order.

		Parameters:
		  - context: context.Context
		  - storyID: string (UUID)

		Returns:
		  - []ChapterSummary: Index entries without content
		  - error: Database retrieval failures
	*/
	ListChapters(context context.Context, storyID string) ([]ChapterSummary, error)

	/*
		ReadChapter returns one published chapter with prev/next navigation.

		Parameters:
		  - context: context.Context
		  - storyID: string (UUID)
		  - number: int (1-based chapter number)

		Returns:
		  - *Reading: Chapter content plus adjacent chapter numbers
		  - error: apperr.NotFound if the chapter is missing or unpublished
	*/
	ReadChapter(context context.Context, storyID string, number int) (*Reading, error)

	/*
		IncrementViewCounts applies accumulated view counter deltas in bulk.

		Parameters:
		  - context: context.Context
		  - deltas: map[string]int64 (story UUID -> view delta)

		Returns:
		  - error: Database execution failures
	*/
	IncrementViewCounts(context context.Context, deltas map[string]int64) error

	/*
		FindByID returns the story matching the given UUID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Story: The hydrated aggregate (author, categories, tags)
		  - error: apperr.NotFound if missing or soft-deleted
	*/
	FindByID(context context.Context, id string) (*Story, error)

	/*
		UpdateStory persists edited story attributes and, when the taxonomy
		slices are non-nil, rewrites the linked vocabulary wholesale.

		Parameters:
		  - context: context.Context
		  - story: *Story (carries the new attribute values)
		  - categories: []string (term names; nil leaves links untouched)
		  - tags: []string (term names; nil leaves links untouched)

		Returns:
		  - error: apperr.NotFound if the story is missing or soft-deleted
	*/
	UpdateStory(context context.Context, story *Story, categories, tags []string) error

	/*
		SoftDelete marks a story as deleted, hiding it from the catalogue.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: apperr.NotFound if missing or already deleted
	*/
	SoftDelete(context context.Context, id string) error

	/*
		DeleteChapter removes one chapter from a story.

		Parameters:
		  - context: context.Context
		  - storyID: string (UUID)
		  - number: int (1-based chapter number)

		Returns:
		  - error: apperr.NotFound if no such chapter exists
	*/
	DeleteChapter(context context.Context, storyID string, number int) error
}
