// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package banner

import "context"

// # Banner Data Access

// Repository defines the data access contract for the banner carousel.
type Repository interface {
	// ListActive returns active banners in ascending position order.
	ListActive(context context.Context) ([]Banner, error)

	// ListAll returns every banner, active or not, in position order.
	ListAll(context context.Context) ([]Banner, error)

	// FindByID returns the banner with the given ID, or apperr.NotFound.
	FindByID(context context.Context, id string) (*Banner, error)

	// Create persists a new banner at the end of the current order.
	Create(context context.Context, banner *Banner) error

	// Update persists changes to title, link, image, and active state.
	Update(context context.Context, banner *Banner) error

	// Delete removes a banner permanently.
	Delete(context context.Context, id string) error

	// Reorder rewrites positions to match the given ID sequence (1-based).
	// IDs absent from the sequence keep their position.
	Reorder(context context.Context, ids []string) error
}
