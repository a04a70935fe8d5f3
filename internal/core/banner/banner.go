// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package banner manages the promotional carousel shown on the reading portal.

Banners are ordered manually by administrators and toggled active/inactive
rather than deleted when a campaign ends.
*/
package banner

import "time"

// Banner is a single carousel slide.
type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"` // optional click-through target
	Position  int       `json:"position"`           // ascending display order
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field names for validation and request mapping.
const (
	FieldID       = "id"
	FieldTitle    = "title"
	FieldImage    = "image"
	FieldLinkURL  = "link_url"
	FieldIsActive = "is_active"
	FieldIDs      = "ids"
)
