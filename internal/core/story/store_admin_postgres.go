// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package story

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/database/schema"
	"github.com/velmoras/lectoria/pkg/slug"
	"github.com/velmoras/lectoria/pkg/uuidv7"
)

// # Admin Data Access

// FindByID returns the story matching the given UUID.
func (repository *repository) FindByID(context context.Context, id string) (*Story, error) {
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
		schema.CoreStory.ID, schema.CoreStory.DeletedAt,
	)

	story, err := scanStory(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Story")
		}
		return nil, fmt.Errorf("postgres: failed to find story by id: %w", err)
	}

	return story, nil
}

/*
UpdateStory persists edited story attributes and taxonomy links.

Description: Attribute updates and the taxonomy rewrite run in one
transaction, so an edit is never half-applied. The rewrite deletes all
junction rows and relinks the given term names, upserting terms by their
slugified name the same way imports do.
*/
func (repository *repository) UpdateStory(context context.Context, story *Story, categories, tags []string) error {
	transaction, err := repository.pool.BeginTx(context, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres: failed to begin story update: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = now()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.CoreStory.Table,
		schema.CoreStory.Title, schema.CoreStory.Description, schema.CoreStory.Language,
		schema.CoreStory.Status, schema.CoreStory.ManualRating, schema.CoreStory.UpdatedAt,
		schema.CoreStory.ID, schema.CoreStory.DeletedAt,
	)

	result, err := transaction.Exec(context, query,
		story.ID, story.Title, story.Description, story.Language, story.Status, story.ManualRating,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to update story: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}

	if categories != nil {
		err := rewriteTaxonomy(context, transaction, story.ID, categories,
			schema.CoreCategory.Table, schema.CoreStoryCategory.Table,
			schema.CoreStoryCategory.StoryID, schema.CoreStoryCategory.CategoryID)
		if err != nil {
			return err
		}
	}
	if tags != nil {
		err := rewriteTaxonomy(context, transaction, story.ID, tags,
			schema.CoreTag.Table, schema.CoreStoryTag.Table,
			schema.CoreStoryTag.StoryID, schema.CoreStoryTag.TagID)
		if err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit story update: %w", err)
	}

	return nil
}

// SoftDelete marks a story as deleted. The row stays for import-job dedup.
func (repository *repository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = now(), %s = now() WHERE %s = $1 AND %s IS NULL`,
		schema.CoreStory.Table,
		schema.CoreStory.DeletedAt, schema.CoreStory.UpdatedAt,
		schema.CoreStory.ID, schema.CoreStory.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to soft-delete story: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}

	return nil
}

// DeleteChapter removes one chapter from a story.
func (repository *repository) DeleteChapter(context context.Context, storyID string, number int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreChapter.Table,
		schema.CoreChapter.StoryID, schema.CoreChapter.Number,
	)

	result, err := repository.pool.Exec(context, query, storyID, number)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete chapter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Chapter")
	}

	return nil
}

// rewriteTaxonomy replaces a story's links in one vocabulary: drop all
// junction rows, then upsert and relink the given term names.
func rewriteTaxonomy(context context.Context, transaction pgx.Tx, storyID string, names []string, termTable, linkTable, linkStoryColumn, linkTermColumn string) error {
	unlinkQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, linkTable, linkStoryColumn)
	if _, err := transaction.Exec(context, unlinkQuery, storyID); err != nil {
		return fmt.Errorf("postgres: failed to unlink taxonomy: %w", err)
	}

	// Category and tag tables share the same column layout.
	termQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s
	`,
		termTable,
		schema.CoreCategory.ID, schema.CoreCategory.Slug, schema.CoreCategory.Name, schema.CoreCategory.CreatedAt,
		schema.CoreCategory.Slug, schema.CoreCategory.Name, schema.CoreCategory.Name,
		schema.CoreCategory.ID,
	)

	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, linkTable, linkStoryColumn, linkTermColumn)

	for _, name := range names {
		termSlug := slug.From(name)
		if termSlug == "" {
			continue
		}

		var termID string
		if err := transaction.QueryRow(context, termQuery, uuidv7.New(), termSlug, name).Scan(&termID); err != nil {
			return fmt.Errorf("postgres: failed to upsert taxonomy term: %w", err)
		}

		if _, err := transaction.Exec(context, linkQuery, storyID, termID); err != nil {
			return fmt.Errorf("postgres: failed to link taxonomy term: %w", err)
		}
	}

	return nil
}
