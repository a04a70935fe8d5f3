// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package banner

import (
	"context"
	"errors"
	"fmt"

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

// NewRepository constructs a PostgreSQL backed banner store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func bannerColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		schema.CoreBanner.ID,
		schema.CoreBanner.Title,
		schema.CoreBanner.ImageURL,
		schema.CoreBanner.LinkURL,
		schema.CoreBanner.Position,
		schema.CoreBanner.IsActive,
		schema.CoreBanner.CreatedAt,
		schema.CoreBanner.UpdatedAt,
	)
}

func scanBanner(row pgx.Row) (*Banner, error) {
	banner := &Banner{}
	err := row.Scan(
		&banner.ID,
		&banner.Title,
		&banner.ImageURL,
		&banner.LinkURL,
		&banner.Position,
		&banner.IsActive,
		&banner.CreatedAt,
		&banner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return banner, nil
}

func (repository *repository) list(context context.Context, activeOnly bool) ([]Banner, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", bannerColumns(), schema.CoreBanner.Table)
	if activeOnly {
		query += fmt.Sprintf(" WHERE %s", schema.CoreBanner.IsActive)
	}
	query += fmt.Sprintf(" ORDER BY %s ASC, %s ASC", schema.CoreBanner.Position, schema.CoreBanner.CreatedAt)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list banners: %w", err)
	}
	defer rows.Close()

	var banners []Banner
	for rows.Next() {
		banner, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan banner: %w", err)
		}
		banners = append(banners, *banner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: banner rows iteration failed: %w", err)
	}

	return banners, nil
}

// ListActive returns active banners in ascending position order.
func (repository *repository) ListActive(context context.Context) ([]Banner, error) {
	return repository.list(context, true)
}

// ListAll returns every banner in position order.
func (repository *repository) ListAll(context context.Context) ([]Banner, error) {
	return repository.list(context, false)
}

// FindByID returns the banner with the given ID.
func (repository *repository) FindByID(context context.Context, id string) (*Banner, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		bannerColumns(), schema.CoreBanner.Table, schema.CoreBanner.ID)

	banner, err := scanBanner(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Banner")
		}
		return nil, fmt.Errorf("postgres: failed to find banner: %w", err)
	}

	return banner, nil
}

// Create persists a new banner at the end of the current order.
func (repository *repository) Create(context context.Context, banner *Banner) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4,
			COALESCE((SELECT MAX(%s) FROM %s), 0) + 1,
			$5, now(), now())
		RETURNING %s, %s, %s
	`,
		schema.CoreBanner.Table,
		schema.CoreBanner.ID,
		schema.CoreBanner.Title,
		schema.CoreBanner.ImageURL,
		schema.CoreBanner.LinkURL,
		schema.CoreBanner.Position,
		schema.CoreBanner.IsActive,
		schema.CoreBanner.CreatedAt,
		schema.CoreBanner.UpdatedAt,
		schema.CoreBanner.Position, schema.CoreBanner.Table,
		schema.CoreBanner.Position, schema.CoreBanner.CreatedAt, schema.CoreBanner.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		banner.ID, banner.Title, banner.ImageURL, banner.LinkURL, banner.IsActive,
	).Scan(&banner.Position, &banner.CreatedAt, &banner.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to create banner: %w", err)
	}

	return nil
}

// Update persists changes to title, link, image, and active state.
func (repository *repository) Update(context context.Context, banner *Banner) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = now()
		WHERE %s = $5
	`,
		schema.CoreBanner.Table,
		schema.CoreBanner.Title,
		schema.CoreBanner.ImageURL,
		schema.CoreBanner.LinkURL,
		schema.CoreBanner.IsActive,
		schema.CoreBanner.UpdatedAt,
		schema.CoreBanner.ID,
	)

	result, err := repository.pool.Exec(context, query,
		banner.Title, banner.ImageURL, banner.LinkURL, banner.IsActive, banner.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update banner: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Banner")
	}

	return nil
}

// Delete removes a banner permanently.
func (repository *repository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.CoreBanner.Table, schema.CoreBanner.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete banner: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Banner")
	}

	return nil
}

// Reorder rewrites positions to match the given ID sequence.
func (repository *repository) Reorder(context context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = now() WHERE %s = $2",
		schema.CoreBanner.Table,
		schema.CoreBanner.Position,
		schema.CoreBanner.UpdatedAt,
		schema.CoreBanner.ID,
	)

	batch := &pgx.Batch{}
	for index, id := range ids {
		batch.Queue(query, index+1, id)
	}

	response := repository.pool.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return fmt.Errorf("postgres: failed to reorder banners: %w", err)
	}

	return nil
}
