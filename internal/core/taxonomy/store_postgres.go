// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package taxonomy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velmoras/lectoria/internal/platform/database/schema"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed taxonomy store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ListCategories returns all categories with live-story counts.
func (repository *repository) ListCategories(context context.Context) ([]Term, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s,
			COUNT(s.%s) FILTER (WHERE s.%s IS NULL) AS story_count
		FROM %s c
		LEFT JOIN %s sc ON sc.%s = c.%s
		LEFT JOIN %s s ON s.%s = sc.%s
		GROUP BY c.%s, c.%s, c.%s
		ORDER BY c.%s ASC
	`,
		schema.CoreCategory.ID, schema.CoreCategory.Slug, schema.CoreCategory.Name,
		schema.CoreStory.ID, schema.CoreStory.DeletedAt,
		schema.CoreCategory.Table,
		schema.CoreStoryCategory.Table,
		schema.CoreStoryCategory.CategoryID, schema.CoreCategory.ID,
		schema.CoreStory.Table,
		schema.CoreStory.ID, schema.CoreStoryCategory.StoryID,
		schema.CoreCategory.ID, schema.CoreCategory.Slug, schema.CoreCategory.Name,
		schema.CoreCategory.Name,
	)

	return repository.listTerms(context, query, "categories")
}

// ListTags returns all tags with live-story counts.
func (repository *repository) ListTags(context context.Context) ([]Term, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s,
			COUNT(s.%s) FILTER (WHERE s.%s IS NULL) AS story_count
		FROM %s t
		LEFT JOIN %s st ON st.%s = t.%s
		LEFT JOIN %s s ON s.%s = st.%s
		GROUP BY t.%s, t.%s, t.%s
		ORDER BY t.%s ASC
	`,
		schema.CoreTag.ID, schema.CoreTag.Slug, schema.CoreTag.Name,
		schema.CoreStory.ID, schema.CoreStory.DeletedAt,
		schema.CoreTag.Table,
		schema.CoreStoryTag.Table,
		schema.CoreStoryTag.TagID, schema.CoreTag.ID,
		schema.CoreStory.Table,
		schema.CoreStory.ID, schema.CoreStoryTag.StoryID,
		schema.CoreTag.ID, schema.CoreTag.Slug, schema.CoreTag.Name,
		schema.CoreTag.Name,
	)

	return repository.listTerms(context, query, "tags")
}

func (repository *repository) listTerms(context context.Context, query, kind string) ([]Term, error) {
	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		var term Term
		if err := rows.Scan(&term.ID, &term.Slug, &term.Name, &term.StoryCount); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan %s row: %w", kind, err)
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: %s rows iteration failed: %w", kind, err)
	}

	return terms, nil
}
