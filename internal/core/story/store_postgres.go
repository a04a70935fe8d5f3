// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/database/schema"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed catalogue store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// storyColumns is the shared SELECT list for story rows. It aggregates the
// author join, both taxonomies as JSON arrays, and the published chapter
// count in a single round-trip.
func storyColumns() string {
	return fmt.Sprintf(`
		s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s,
		s.%s, s.%s, s.%s, s.%s,
		a.%s, a.%s,
		COALESCE((
			SELECT json_agg(json_build_object('id', c.%s, 'slug', c.%s, 'name', c.%s))
			FROM %s c
			JOIN %s sc ON c.%s = sc.%s
			WHERE sc.%s = s.%s
		), '[]') AS categories,
		COALESCE((
			SELECT json_agg(json_build_object('id', t.%s, 'slug', t.%s, 'name', t.%s))
			FROM %s t
			JOIN %s st ON t.%s = st.%s
			WHERE st.%s = s.%s
		), '[]') AS tags,
		(SELECT COUNT(*) FROM %s ch WHERE ch.%s = s.%s AND ch.%s) AS chapter_count`,
		schema.CoreStory.ID,
		schema.CoreStory.Slug,
		schema.CoreStory.Title,
		schema.CoreStory.Description,
		schema.CoreStory.Language,
		schema.CoreStory.Status,
		schema.CoreStory.ManualRating,
		schema.CoreStory.CoverURL,
		schema.CoreStory.SourcePDFURL,
		schema.CoreStory.ViewCount,
		schema.CoreStory.PublishedAt,
		schema.CoreStory.CreatedAt,
		schema.CoreStory.UpdatedAt,
		schema.CoreAuthor.ID,
		schema.CoreAuthor.PenName,
		schema.CoreCategory.ID, schema.CoreCategory.Slug, schema.CoreCategory.Name,
		schema.CoreCategory.Table,
		schema.CoreStoryCategory.Table,
		schema.CoreCategory.ID, schema.CoreStoryCategory.CategoryID,
		schema.CoreStoryCategory.StoryID, schema.CoreStory.ID,
		schema.CoreTag.ID, schema.CoreTag.Slug, schema.CoreTag.Name,
		schema.CoreTag.Table,
		schema.CoreStoryTag.Table,
		schema.CoreTag.ID, schema.CoreStoryTag.TagID,
		schema.CoreStoryTag.StoryID, schema.CoreStory.ID,
		schema.CoreChapter.Table,
		schema.CoreChapter.StoryID, schema.CoreStory.ID,
		schema.CoreChapter.IsPublished,
	)
}

// scanStory maps one joined story row. The caller passes extra targets for
// any trailing columns (e.g. the window total on list queries).
func scanStory(row pgx.Row, extra ...any) (*Story, error) {
	story := &Story{}
	var categoriesJSON, tagsJSON []byte

	targets := []any{
		&story.ID,
		&story.Slug,
		&story.Title,
		&story.Description,
		&story.Language,
		&story.Status,
		&story.ManualRating,
		&story.CoverURL,
		&story.SourcePDFURL,
		&story.ViewCount,
		&story.PublishedAt,
		&story.CreatedAt,
		&story.UpdatedAt,
		&story.Author.ID,
		&story.Author.PenName,
		&categoriesJSON,
		&tagsJSON,
		&story.ChapterCount,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(categoriesJSON, &story.Categories); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal categories: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &story.Tags); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal tags: %w", err)
	}

	return story, nil
}

/*
List returns a filtered, paginated slice of stories and the total count.

Description: Builds a dynamic WHERE clause from the filter and uses the
COUNT(*) OVER() window function to retrieve the total matching count without
a second query. Taxonomy membership is tested through EXISTS sub-queries so
an unfiltered listing pays nothing for them.
*/
func (repository *repository) List(context context.Context, filter Filter, limit, offset int) ([]*Story, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s s
		JOIN %s a ON a.%s = s.%s
		WHERE s.%s IS NULL
	`,
		storyColumns(),
		schema.CoreStory.Table,
		schema.CoreAuthor.Table,
		schema.CoreAuthor.ID, schema.CoreStory.AuthorID,
		schema.CoreStory.DeletedAt,
	))

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND s.%s = $%d", schema.CoreStory.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	if filter.Language != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND s.%s = $%d", schema.CoreStory.Language, argID))
		args = append(args, filter.Language)
		argID++
	}

	// Substring search over title and description, accent-insensitive.
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (unaccent(s.%s) ILIKE unaccent($%d) OR unaccent(s.%s) ILIKE unaccent($%d))",
			schema.CoreStory.Title, argID, schema.CoreStory.Description, argID,
		))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s sc
				JOIN %s c ON c.%s = sc.%s
				WHERE sc.%s = s.%s AND c.%s = $%d
			)`,
			schema.CoreStoryCategory.Table,
			schema.CoreCategory.Table,
			schema.CoreCategory.ID, schema.CoreStoryCategory.CategoryID,
			schema.CoreStoryCategory.StoryID, schema.CoreStory.ID,
			schema.CoreCategory.Slug, argID,
		))
		args = append(args, filter.Category)
		argID++
	}

	if filter.Tag != "" {
		queryBuilder.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s st
				JOIN %s t ON t.%s = st.%s
				WHERE st.%s = s.%s AND t.%s = $%d
			)`,
			schema.CoreStoryTag.Table,
			schema.CoreTag.Table,
			schema.CoreTag.ID, schema.CoreStoryTag.TagID,
			schema.CoreStoryTag.StoryID, schema.CoreStory.ID,
			schema.CoreTag.Slug, argID,
		))
		args = append(args, filter.Tag)
		argID++
	}

	sort := fmt.Sprintf("s.%s", schema.CoreStory.PublishedAt) // default: latest
	switch filter.Sort {
	case "popular":
		sort = fmt.Sprintf("s.%s", schema.CoreStory.ViewCount)
	case "rating":
		sort = fmt.Sprintf("s.%s", schema.CoreStory.ManualRating)
	case "az":
		sort = fmt.Sprintf("s.%s", schema.CoreStory.Title)
	}

	sortDir := "DESC"
	if strings.EqualFold(filter.SortDir, "asc") || filter.Sort == "az" {
		sortDir = "ASC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s NULLS LAST, s.%s DESC", sort, sortDir, schema.CoreStory.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list stories: %w", err)
	}
	defer rows.Close()

	var stories []*Story
	var totalCount int

	for rows.Next() {
		story, err := scanStory(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan story: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: story rows iteration failed: %w", err)
	}

	return stories, totalCount, nil
}

// FindBySlug returns the story matching the unique URL slug.
func (repository *repository) FindBySlug(context context.Context, slug string) (*Story, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s s
		JOIN %s a ON a.%s = s.%s
		WHERE s.%s = $1 AND s.%s IS NULL
	`,
		storyColumns(),
		schema.CoreStory.Table,
		schema.CoreAuthor.Table,
		schema.CoreAuthor.ID, schema.CoreStory.AuthorID,
		schema.CoreStory.Slug, schema.CoreStory.DeletedAt,
	)

	story, err := scanStory(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Story")
		}
		return nil, fmt.Errorf("postgres: failed to find story by slug: %w", err)
	}

	return story, nil
}

// ListChapters returns the published chapter index of a story in number order.
func (repository *repository) ListChapters(context context.Context, storyID string) ([]ChapterSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s
		ORDER BY %s ASC
	`,
		schema.CoreChapter.Number,
		schema.CoreChapter.Title,
		schema.CoreChapter.LengthChars,
		schema.CoreChapter.IsPDFOnly,
		schema.CoreChapter.CreatedAt,
		schema.CoreChapter.Table,
		schema.CoreChapter.StoryID, schema.CoreChapter.IsPublished,
		schema.CoreChapter.Number,
	)

	rows, err := repository.pool.Query(context, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []ChapterSummary
	for rows.Next() {
		var chapter ChapterSummary
		err := rows.Scan(&chapter.Number, &chapter.Title, &chapter.LengthChars, &chapter.IsPDFOnly, &chapter.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter summary: %w", err)
		}
		chapters = append(chapters, chapter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: chapter rows iteration failed: %w", err)
	}

	return chapters, nil
}

/*
ReadChapter returns one published chapter with prev/next navigation.

Description: The adjacent chapter numbers are resolved in the same query via
MAX/MIN sub-selects over the published chapters of the story, so the reader
payload needs exactly one round-trip.
*/
func (repository *repository) ReadChapter(context context.Context, storyID string, number int) (*Reading, error) {
	query := fmt.Sprintf(`
		SELECT
			ch.%s, ch.%s, ch.%s, ch.%s, ch.%s, ch.%s, ch.%s, ch.%s, ch.%s, ch.%s,
			(SELECT MAX(p.%s) FROM %s p WHERE p.%s = ch.%s AND p.%s AND p.%s < ch.%s) AS prev_number,
			(SELECT MIN(n.%s) FROM %s n WHERE n.%s = ch.%s AND n.%s AND n.%s > ch.%s) AS next_number
		FROM %s ch
		WHERE ch.%s = $1 AND ch.%s = $2 AND ch.%s
	`,
		schema.CoreChapter.ID,
		schema.CoreChapter.StoryID,
		schema.CoreChapter.Number,
		schema.CoreChapter.Title,
		schema.CoreChapter.ContentMd,
		schema.CoreChapter.LengthChars,
		schema.CoreChapter.IsPDFOnly,
		schema.CoreChapter.ViewCount,
		schema.CoreChapter.CreatedAt,
		schema.CoreChapter.UpdatedAt,
		schema.CoreChapter.Number, schema.CoreChapter.Table,
		schema.CoreChapter.StoryID, schema.CoreChapter.StoryID,
		schema.CoreChapter.IsPublished,
		schema.CoreChapter.Number, schema.CoreChapter.Number,
		schema.CoreChapter.Number, schema.CoreChapter.Table,
		schema.CoreChapter.StoryID, schema.CoreChapter.StoryID,
		schema.CoreChapter.IsPublished,
		schema.CoreChapter.Number, schema.CoreChapter.Number,
		schema.CoreChapter.Table,
		schema.CoreChapter.StoryID, schema.CoreChapter.Number, schema.CoreChapter.IsPublished,
	)

	reading := &Reading{}
	err := repository.pool.QueryRow(context, query, storyID, number).Scan(
		&reading.Chapter.ID,
		&reading.Chapter.StoryID,
		&reading.Chapter.Number,
		&reading.Chapter.Title,
		&reading.Chapter.ContentMd,
		&reading.Chapter.LengthChars,
		&reading.Chapter.IsPDFOnly,
		&reading.Chapter.ViewCount,
		&reading.Chapter.CreatedAt,
		&reading.Chapter.UpdatedAt,
		&reading.PrevNumber,
		&reading.NextNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Chapter")
		}
		return nil, fmt.Errorf("postgres: failed to read chapter: %w", err)
	}

	return reading, nil
}

// IncrementViewCounts applies accumulated view counter deltas in one batch.
func (repository *repository) IncrementViewCounts(context context.Context, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE %s SET %s = %s + $1 WHERE %s = $2",
		schema.CoreStory.Table,
		schema.CoreStory.ViewCount, schema.CoreStory.ViewCount,
		schema.CoreStory.ID,
	)

	batch := &pgx.Batch{}
	for storyID, delta := range deltas {
		batch.Queue(query, delta, storyID)
	}

	response := repository.pool.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return fmt.Errorf("postgres: failed to flush view counts: %w", err)
	}

	return nil
}
