// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package schema

// CoreBannerTable represents the 'core.banner' table
type CoreBannerTable struct {
	Table     string
	ID        string
	Title     string
	ImageURL  string
	LinkURL   string
	Position  string
	IsActive  string
	CreatedAt string
	UpdatedAt string
}

// CoreBanner is the schema definition for core.banner
var CoreBanner = CoreBannerTable{
	Table:     "core.banner",
	ID:        "id",
	Title:     "title",
	ImageURL:  "imageurl",
	LinkURL:   "linkurl",
	Position:  "position",
	IsActive:  "isactive",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CoreBannerTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.ImageURL, t.LinkURL, t.Position, t.IsActive,
		t.CreatedAt, t.UpdatedAt,
	}
}
